package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/lorenzlab/internal/dynamo"
)

// Default is the integrator used when none is named.
const Default = "rk45"

var registry = map[string]func() dynamo.Integrator{
	"euler": func() dynamo.Integrator { return NewEuler() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
	"rk45":  func() dynamo.Integrator { return NewRK45() },
}

// New returns a fresh integrator by name. An empty name selects Default.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, dynamo.Invalid("integrator", "unknown integrator %q (available: %v)", name, Names())
	}
	return fn(), nil
}

// MustNew is New for names known at compile time.
func MustNew(name string) dynamo.Integrator {
	integ, err := New(name)
	if err != nil {
		panic(fmt.Sprintf("integrators: %v", err))
	}
	return integ
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
