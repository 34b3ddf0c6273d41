package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/tilt-maze/internal/core"
)

type stubSource struct{ name string }

func (s *stubSource) Name() string                  { return s.name }
func (s *stubSource) Sample() (core.Gravity, bool)  { return core.Gravity{}, false }
func (s *stubSource) Start(_ context.Context) error { return nil }
func (s *stubSource) Stop() error                   { return nil }

func TestRegisterCreateList(t *testing.T) {
	Register("zz-stub", "test stub", func(Options) (Source, error) {
		return &stubSource{name: "zz-stub"}, nil
	})
	Register("aa-stub", "test stub", func(Options) (Source, error) {
		return nil, errors.New("boom")
	})

	if !Exists("zz-stub") {
		t.Fatal("Exists(zz-stub) = false after Register")
	}

	src, err := Create("zz-stub", Options{})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if src.Name() != "zz-stub" {
		t.Errorf("Name() = %q, expected zz-stub", src.Name())
	}

	if _, err := Create("aa-stub", Options{}); err == nil {
		t.Error("Create() should surface factory errors")
	}

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("List() not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("does-not-exist", Options{})
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("Create(unknown) error = %v, expected ErrUnknownSource", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("dup-stub", "", func(Options) (Source, error) { return &stubSource{}, nil })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("dup-stub", "", func(Options) (Source, error) { return &stubSource{}, nil })
}
