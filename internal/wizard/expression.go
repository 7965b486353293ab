package wizard

import (
	"fmt"
	"strings"
)

// State accumulates the constraints of one session.
type State struct {
	fields [numFields]Constraint

	// DayOfWeekSet is true once the day-of-week field resolved to anything but All.
	DayOfWeekSet bool
	// DayOfWeekInterval is true when that constraint is an interval.
	DayOfWeekInterval bool
}

// NewState returns a state with every field unconstrained.
func NewState() *State {
	s := &State{}
	for i := range s.fields {
		s.fields[i] = All()
	}
	return s
}

// Set records the constraint for a field.
func (s *State) Set(field FieldKind, c Constraint) {
	s.fields[field] = c
	if field == DayOfWeek {
		s.DayOfWeekSet = !c.IsAll()
		s.DayOfWeekInterval = c.Kind == ConstraintInterval
	}
}

// Get returns the constraint currently held for a field.
func (s *State) Get(field FieldKind) Constraint {
	return s.fields[field]
}

// DayContext returns the information the day-of-month step uses for its prompts.
func (s *State) DayContext() DayContext {
	return DayContext{DayOfWeekSet: s.DayOfWeekSet, Interval: s.DayOfWeekInterval}
}

// Expression is a finished five-field schedule.
type Expression struct {
	fields [numFields]Constraint
	raw    string
	built  bool
}

// NewExpression freezes a completed state.
func NewExpression(s *State) Expression {
	e := Expression{built: true}
	for i, c := range s.fields {
		e.fields[i] = Constraint{Kind: c.Kind, Values: append([]int(nil), c.Values...)}
	}
	return e
}

// FromConstraints builds an expression from explicit constraints, validating
// each one against its field domain. Fields missing from the map are All.
func FromConstraints(fields map[FieldKind]Constraint) (Expression, error) {
	s := NewState()
	for kind, c := range fields {
		if kind < 0 || kind >= numFields {
			return Expression{}, fmt.Errorf("unknown field %d", kind)
		}
		if err := c.Validate(kind); err != nil {
			return Expression{}, err
		}
		s.Set(kind, c)
	}
	return NewExpression(s), nil
}

// Literal wraps a raw expression typed by the user. It is not validated.
func Literal(raw string) Expression {
	return Expression{raw: raw}
}

// Fields returns the constraints in canonical order. ok is false for literals.
func (e Expression) Fields() (fields [numFields]Constraint, ok bool) {
	return e.fields, e.built
}

// Field returns the constraint for one field of a built expression.
func (e Expression) Field(kind FieldKind) Constraint {
	return e.fields[kind]
}

// IsLiteral reports whether the expression was entered directly.
func (e Expression) IsLiteral() bool {
	return !e.built
}

// String renders minute, hour, day-of-month, month and day-of-week separated by spaces.
func (e Expression) String() string {
	if !e.built {
		return e.raw
	}
	parts := make([]string, numFields)
	for i, c := range e.fields {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
