package executor

import "sort"

// Scope is a name -> value binding table
type Scope struct {
	vars map[string]int
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return &Scope{vars: make(map[string]int)}
}

// Define binds or rebinds name in this scope
func (s *Scope) Define(name string, value int) {
	s.vars[name] = value
}

// Get looks up name in this scope only
func (s *Scope) Get(name string) (int, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// environment is the executor's scope stack. Index 0 is the global scope;
// it is created with the environment and never popped. Each function
// call pushes one scope holding its parameters.
type environment struct {
	scopes []*Scope
}

func newEnvironment() *environment {
	return &environment{scopes: []*Scope{NewScope()}}
}

func (e *environment) depth() int {
	return len(e.scopes)
}

func (e *environment) push(s *Scope) {
	e.scopes = append(e.scopes, s)
}

// popTo discards scopes until depth remain, keeping the global scope
func (e *environment) popTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	for len(e.scopes) > depth {
		e.scopes[len(e.scopes)-1] = nil
		e.scopes = e.scopes[:len(e.scopes)-1]
	}
}

func (e *environment) innermost() *Scope {
	return e.scopes[len(e.scopes)-1]
}

func (e *environment) global() *Scope {
	return e.scopes[0]
}

// lookup resolves name in the innermost scope, then the global scope.
// Scopes of callers further down the stack are not visible.
func (e *environment) lookup(name string) (int, bool) {
	if v, ok := e.innermost().Get(name); ok {
		return v, true
	}
	return e.global().Get(name)
}

// assign writes name into the innermost scope
func (e *environment) assign(name string, value int) {
	e.innermost().Define(name, value)
}

// visible returns the names lookup can currently resolve, sorted
func (e *environment) visible() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range []*Scope{e.innermost(), e.global()} {
		for name := range s.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
