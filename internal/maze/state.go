package maze

// Phase is the observable state of a level.
type Phase int

const (
	Playing Phase = iota
	Won
)

func (p Phase) String() string {
	if p == Won {
		return "won"
	}
	return "playing"
}

// EventKind identifies a queued game event.
type EventKind int

const (
	EventFell EventKind = iota + 1
	EventWon
)

func (k EventKind) String() string {
	switch k {
	case EventFell:
		return "fell"
	case EventWon:
		return "won"
	default:
		return "unknown"
	}
}

// Event is produced by a transition and consumed after the physics step.
// Elapsed is the timer value at the moment of the transition.
type Event struct {
	Kind    EventKind
	Elapsed float64
}

// Machine owns the level phase and the elapsed timer.
// It never calls out to the presentation layer; events wait in a queue
// until Drain.
type Machine struct {
	phase    Phase
	elapsed  float64
	recenter func()
	events   []Event
}

// NewMachine creates a machine in Playing with a zero timer.
// recenter is invoked on falls, wins, and acknowledgement.
func NewMachine(recenter func()) *Machine {
	if recenter == nil {
		recenter = func() {}
	}
	return &Machine{phase: Playing, recenter: recenter}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Elapsed returns the timer in seconds.
func (m *Machine) Elapsed() float64 {
	return m.elapsed
}

// Tick advances the timer while Playing. Negative durations are ignored.
func (m *Machine) Tick(dt float64) {
	if m.phase != Playing || !(dt > 0) {
		return
	}
	m.elapsed += dt
}

// ContactBegin handles a contact between bodies of categories a and b.
// Contacts that do not involve the ball are ignored.
func (m *Machine) ContactBegin(a, b Category) {
	if (a|b)&Ball == 0 {
		return
	}
	m.Contact(a | b)
}

// Contact applies the outcome of a contacted category mask.
func (m *Machine) Contact(mask Category) {
	if m.phase != Playing {
		return
	}
	switch Resolve(mask) {
	case OutcomeFell:
		m.events = append(m.events, Event{Kind: EventFell, Elapsed: m.elapsed})
		m.recenter()
		m.elapsed = 0
	case OutcomeFinished:
		m.phase = Won
		m.events = append(m.events, Event{Kind: EventWon, Elapsed: m.elapsed})
		m.recenter()
	case OutcomeNone:
	}
}

// Acknowledge dismisses the win and starts a new attempt.
// It does nothing while Playing.
func (m *Machine) Acknowledge() {
	if m.phase != Won {
		return
	}
	m.phase = Playing
	m.elapsed = 0
	m.recenter()
}

// Drain returns and clears the queued events.
func (m *Machine) Drain() []Event {
	if len(m.events) == 0 {
		return nil
	}
	out := m.events
	m.events = nil
	return out
}
