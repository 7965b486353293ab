package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// ConstraintKind selects how a field matches.
type ConstraintKind string

const (
	ConstraintAll      ConstraintKind = "all"
	ConstraintSingle   ConstraintKind = "single"
	ConstraintInterval ConstraintKind = "interval"
	ConstraintList     ConstraintKind = "list"
)

// Constraint is the resolved rule for one field.
// Values holds the value for Single, the step for Interval and the ordered
// values for List. It is empty for All.
type Constraint struct {
	Kind   ConstraintKind
	Values []int
}

// All matches every value of the field.
func All() Constraint {
	return Constraint{Kind: ConstraintAll}
}

// Single matches exactly one value.
func Single(v int) Constraint {
	return Constraint{Kind: ConstraintSingle, Values: []int{v}}
}

// Interval matches every step units starting at the field minimum.
func Interval(step int) Constraint {
	return Constraint{Kind: ConstraintInterval, Values: []int{step}}
}

// List matches each listed value. Duplicates are dropped, keeping the first
// occurrence.
func List(values ...int) Constraint {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return Constraint{Kind: ConstraintList, Values: out}
}

// NewConstraint builds a constraint from a kind name and its values.
func NewConstraint(kind string, values []int) (Constraint, error) {
	switch ConstraintKind(strings.ToLower(strings.TrimSpace(kind))) {
	case ConstraintAll, "":
		if len(values) != 0 {
			return Constraint{}, fmt.Errorf("%s constraint takes no values", ConstraintAll)
		}
		return All(), nil
	case ConstraintSingle:
		if len(values) != 1 {
			return Constraint{}, fmt.Errorf("%s constraint takes exactly one value", ConstraintSingle)
		}
		return Single(values[0]), nil
	case ConstraintInterval:
		if len(values) != 1 {
			return Constraint{}, fmt.Errorf("%s constraint takes exactly one step", ConstraintInterval)
		}
		return Interval(values[0]), nil
	case ConstraintList:
		if len(values) == 0 {
			return Constraint{}, fmt.Errorf("%s constraint needs at least one value", ConstraintList)
		}
		return List(values...), nil
	default:
		return Constraint{}, fmt.Errorf("unknown constraint kind %q", kind)
	}
}

// IsAll reports whether the constraint leaves the field unconstrained.
func (c Constraint) IsAll() bool {
	return c.Kind == ConstraintAll || c.Kind == ""
}

// Validate checks every value against the domain of field.
func (c Constraint) Validate(field FieldKind) error {
	spec := field.Spec()
	switch c.Kind {
	case ConstraintAll, "":
		return nil
	case ConstraintInterval:
		if len(c.Values) != 1 || !spec.ContainsStep(c.Values[0]) {
			return fmt.Errorf("%s interval must be between 1 and %d", spec.Name, spec.Max)
		}
		return nil
	case ConstraintSingle, ConstraintList:
		if len(c.Values) == 0 {
			return fmt.Errorf("%s constraint has no values", spec.Name)
		}
		for _, v := range c.Values {
			if !spec.Contains(v) {
				return fmt.Errorf("%s value %d out of range %d-%d", spec.Name, v, spec.Min, spec.Max)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown constraint kind %q", c.Kind)
	}
}

// String renders the cron token for the constraint.
func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintSingle:
		return strconv.Itoa(c.Values[0])
	case ConstraintInterval:
		return "*/" + strconv.Itoa(c.Values[0])
	case ConstraintList:
		parts := make([]string, len(c.Values))
		for i, v := range c.Values {
			parts[i] = strconv.Itoa(v)
		}
		return strings.Join(parts, ",")
	default:
		return "*"
	}
}
