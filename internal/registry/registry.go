// Package registry provides a global registry of motion sources.
// Sources register themselves in init() functions, allowing the CLI and the
// SSH server to pick one by name without hardcoded dependencies.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

// ErrUnknownSource is returned by Create for names nobody registered.
var ErrUnknownSource = errors.New("registry: unknown motion source")

// Source produces gravity samples for the ball.
// Sample returning false means "no reading this tick"; it is never an error.
type Source interface {
	// Name returns the registered identifier (e.g. "keyboard", "remote").
	Name() string

	// Sample returns the most recent gravity reading, if any.
	Sample() (core.Gravity, bool)

	// Start acquires the underlying sensor. Called once per game session.
	Start(ctx context.Context) error

	// Stop releases the sensor. Safe to call more than once.
	Stop() error
}

// Relay delivers readings from remote devices, keyed by pairing code.
type Relay interface {
	// Open claims a pairing code for one game session.
	Open(code string) error

	// Latest returns the newest reading for a code and when it arrived.
	Latest(code string) (core.Gravity, time.Time, bool)

	// Close releases the code.
	Close(code string)
}

// Options carries everything a factory may need to build a source.
type Options struct {
	Tilt       float64       // Keyboard tilt magnitude
	Hold       time.Duration // Keyboard hold time before an axis relaxes
	StaleAfter time.Duration // Remote readings older than this are ignored
	Code       string        // Remote pairing code
	Relay      Relay         // Remote relay; nil when not serving
}

// SourceInfo contains metadata about a registered source.
type SourceInfo struct {
	Name        string
	Description string
}

// Factory creates a new source instance.
type Factory func(opts Options) (Source, error)

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds a source factory to the registry.
// Panics if a source with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: source %q already registered", name))
	}

	factories[name] = f
	descriptions[name] = description
}

// List returns information about all registered sources, sorted by name.
func List() []SourceInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SourceInfo, 0, len(factories))
	for name := range factories {
		result = append(result, SourceInfo{
			Name:        name,
			Description: descriptions[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates a source by name.
func Create(name string, opts Options) (Source, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSource, name)
	}

	src, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("registry: create %q: %w", name, err)
	}
	return src, nil
}

// Exists checks if a source with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
