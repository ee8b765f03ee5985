package store

import "fmt"

// Expr is a filter expression over task fields.
type Expr interface {
	match(fields func(string) (any, bool)) bool
	String() string
}

// Eq matches when the field equals the value.
type Eq struct {
	Field string
	Value any
}

// And matches when every child matches. An empty And matches everything.
type And []Expr

// Or matches when any child matches.
type Or []Expr

func (e Eq) match(fields func(string) (any, bool)) bool {
	v, ok := fields(e.Field)
	return ok && v == e.Value
}

func (e Eq) String() string {
	return fmt.Sprintf("%s == %v", e.Field, e.Value)
}

func (a And) match(fields func(string) (any, bool)) bool {
	for _, e := range a {
		if !e.match(fields) {
			return false
		}
	}
	return true
}

func (a And) String() string {
	return join("AND", a)
}

func (o Or) match(fields func(string) (any, bool)) bool {
	for _, e := range o {
		if e.match(fields) {
			return true
		}
	}
	return false
}

func (o Or) String() string {
	return join("OR", o)
}

// Match evaluates e against a field accessor. A nil expression matches.
func Match(e Expr, fields func(string) (any, bool)) bool {
	if e == nil {
		return true
	}
	return e.match(fields)
}

func join(op string, exprs []Expr) string {
	s := "("
	for i, e := range exprs {
		if i > 0 {
			s += " " + op + " "
		}
		s += e.String()
	}
	return s + ")"
}
