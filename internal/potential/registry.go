package potential

import (
	"fmt"
	"sort"
)

// Registry resolves potential names to constructors. Parameters arrive as a
// flat name/value map so callers can thread CLI flags or config fields
// through without a type per variant.
type Registry struct {
	potentials map[string]func(params map[string]float64) Potential
}

func NewRegistry() *Registry {
	r := &Registry{potentials: make(map[string]func(map[string]float64) Potential)}

	r.potentials["zero"] = func(map[string]float64) Potential {
		return Zero{}
	}
	r.potentials["barrier"] = func(params map[string]float64) Potential {
		return Barrier{
			Height: params["height"],
			Width:  params["width"],
			Center: params["center"],
		}
	}
	r.potentials["harmonic"] = func(params map[string]float64) Potential {
		mass := params["mass"]
		if mass == 0 {
			mass = 1
		}
		return Harmonic{
			Mass:   mass,
			Omega:  params["omega"],
			Center: params["center"],
		}
	}

	return r
}

func (r *Registry) Get(name string, params map[string]float64) (Potential, error) {
	fn, ok := r.potentials[name]
	if !ok {
		return nil, fmt.Errorf("unknown potential: %s (available: %v)", name, r.List())
	}
	return fn(params), nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.potentials))
	for name := range r.potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
