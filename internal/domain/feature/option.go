// Package feature defines the transformer contract (C1) and its aggregator
// machinery (C2): the algebraic shape every concrete feature transformation
// implements, independent of any particular record type.
package feature

// Option stands in for a value that may be absent, the way a raw field may
// be missing from a record or a summary may not yet have been computed.
type Option[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None represents absence.
func None[T any]() Option[T] { return Option[T]{} }

// IsSome reports whether the option holds a value.
func (o Option[T]) IsSome() bool { return o.ok }

// IsNone reports whether the option is empty.
func (o Option[T]) IsNone() bool { return !o.ok }

// Get returns the wrapped value and whether it was present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// OrElse returns o if present, otherwise fallback.
func (o Option[T]) OrElse(fallback Option[T]) Option[T] {
	if o.ok {
		return o
	}
	return fallback
}

// MapOption transforms the wrapped value, if any, leaving None untouched.
func MapOption[A, B any](o Option[A], f func(A) B) Option[B] {
	if !o.ok {
		return None[B]()
	}
	return Some(f(o.value))
}

// CombineOption folds two options with a semigroup, following the monoid
// rules from spec §4.2: None⊕None=None, Some⊕None=Some, None⊕Some=Some,
// Some(x)⊕Some(y)=Some(semigroup(x,y)).
func CombineOption[B any](semigroup func(B, B) B) func(Option[B], Option[B]) Option[B] {
	return func(lhs, rhs Option[B]) Option[B] {
		lv, lok := lhs.Get()
		rv, rok := rhs.Get()
		switch {
		case !lok && !rok:
			return None[B]()
		case lok && !rok:
			return lhs
		case !lok && rok:
			return rhs
		default:
			return Some(semigroup(lv, rv))
		}
	}
}
