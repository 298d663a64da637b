package health

// Condition decides whether a check may run at all, before its schedule is consulted.
// It is either a fixed value or a predicate evaluated on every decision.
// The zero value always allows the check to run.
type Condition struct {
	predicate func() bool
	// inverted so the zero value means "run"
	vetoed bool
}

// Always is the default condition.
func Always() Condition {
	return Condition{}
}

// Fixed returns a condition that always evaluates to value.
func Fixed(value bool) Condition {
	return Condition{vetoed: !value}
}

// Predicate returns a condition that calls fn on every evaluation.
// A nil fn is equivalent to Always.
func Predicate(fn func() bool) Condition {
	if fn == nil {
		return Always()
	}

	return Condition{predicate: fn}
}

// Not returns the negation of c. Fixed values are negated immediately, predicates are
// wrapped and still evaluated lazily.
func (c Condition) Not() Condition {
	if c.predicate == nil {
		return Condition{vetoed: !c.vetoed}
	}

	fn := c.predicate
	return Condition{predicate: func() bool { return !fn() }}
}

// Evaluate reports whether the condition currently holds.
func (c Condition) Evaluate() bool {
	if c.predicate != nil {
		return c.predicate()
	}

	return !c.vetoed
}

// IsPredicate reports whether the condition is evaluated lazily.
func (c Condition) IsPredicate() bool {
	return c.predicate != nil
}
