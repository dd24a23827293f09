package tools

import (
	"time"

	"github.com/pkg/errors"
)

// Registry is an ordered, name-unique set of tools. It is mutated only while
// being built; after Freeze it is read-only and safe to share across sessions.
type Registry struct {
	defs   []ToolDefinition
	index  map[string]int
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends def, keeping registration order.
func (r *Registry) Register(def ToolDefinition) error {
	if r.frozen {
		return errors.Errorf("registry is frozen; cannot register %q", def.Name)
	}
	if def.Name == "" {
		return errors.New("tool name cannot be empty")
	}
	if def.Function == nil {
		return errors.Errorf("tool %q has no function", def.Name)
	}
	if _, ok := r.index[def.Name]; ok {
		return &DuplicateToolNameError{Name: def.Name}
	}
	if def.InputSchema == nil {
		def.InputSchema = InputSchema
	}
	r.index[def.Name] = len(r.defs)
	r.defs = append(r.defs, def)
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() *Registry {
	r.frozen = true
	return r
}

func (r *Registry) Lookup(name string) (ToolDefinition, error) {
	i, ok := r.index[name]
	if !ok {
		return ToolDefinition{}, &UnknownToolError{Name: name}
	}
	return r.defs[i], nil
}

// Describe returns (name, description) pairs in registration order.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, Descriptor{Name: d.Name, Description: d.Description})
	}
	return out
}

// Definitions returns a copy of the registered definitions in order.
func (r *Registry) Definitions() []ToolDefinition {
	out := make([]ToolDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

func (r *Registry) Len() int { return len(r.defs) }

// Default returns the frozen demo registry. now may be nil for the wall clock.
func Default(now func() time.Time) *Registry {
	r := NewRegistry()
	for _, def := range []ToolDefinition{
		CalculatorDefinition,
		NewClockDefinition(now),
		ReverseStringDefinition,
	} {
		if err := r.Register(def); err != nil {
			// static set; a failure here is a programming error
			panic(err)
		}
	}
	return r.Freeze()
}
