package validator

import "sort"

// Registry maps rule keys to Validator implementations.
type Registry struct {
	validators map[string]Validator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// DefaultRegistry returns a registry holding every built-in check.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&consistentColumnsValidator{})
	r.Register(&scalarCellsValidator{})
	r.Register(&blankRowsValidator{})
	return r
}

// Register adds a validator to the registry.
func (r *Registry) Register(v Validator) {
	r.validators[v.RuleKey()] = v
}

// All returns all registered validators ordered by rule key.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.validators))
	for _, v := range r.validators {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleKey() < out[j].RuleKey() })
	return out
}
