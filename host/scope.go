package host

import (
	"maps"
	"slices"
)

// Scope is a set of variables visible to expressions.
//
// A child scope starts with a copy of its parent's variables; bindings made
// in the child are not visible to the parent.
type Scope struct {
	vars map[string]any
}

// NewScope returns a root scope holding the built-in environment overlaid
// with env. Names in env shadow built-ins.
func NewScope(env map[string]any) *Scope {
	vars := Builtins()
	maps.Copy(vars, env)

	return &Scope{vars: vars}
}

// Child returns a new scope that inherits every variable of s.
func (s *Scope) Child() *Scope {
	return &Scope{vars: maps.Clone(s.vars)}
}

// Set binds name to value in s.
func (s *Scope) Set(name string, value any) {
	s.vars[name] = value
}

// Get returns the value bound to name.
func (s *Scope) Get(name string) (any, bool) {
	v, ok := s.vars[name]

	return v, ok
}

// Map returns the variables of s. The map is owned by s and must not be
// modified.
func (s *Scope) Map() map[string]any {
	return s.vars
}

// Names returns the sorted names bound in s.
func (s *Scope) Names() []string {
	return slices.Sorted(maps.Keys(s.vars))
}
