package feature

// Aggregator is the prepare/combine/present triple (C2) that derives a
// presented summary C from raw inputs A via an intermediate, combinable
// state B. Combine must be associative; the core relies on that to allow
// arbitrary reduction-tree shapes over a partitioned dataset.
type Aggregator[A, B, C any] struct {
	// Prepare lifts one raw value into aggregator state. Never fails.
	Prepare func(A) B

	// Combine folds two states into one. Must be associative; commutativity
	// is not assumed, though most transformers in practice are commutative.
	Combine func(B, B) B

	// Present derives the summary from accumulated state. May fail only when
	// the accumulated state is semantically invalid for this transformer
	// (e.g. a variance that would require a non-positive sample count).
	Present func(B) (C, error)
}

// Unit is the trivial aggregator state for transformers with no learned
// summary: per spec §3, B = C = unit and prepare/combine/present are all
// identity on unit.
type Unit struct{}

// Stateless returns the aggregator for transformers that carry no summary:
// B and C both collapse to Unit.
func Stateless[A any]() Aggregator[A, Unit, Unit] {
	return Aggregator[A, Unit, Unit]{
		Prepare: func(A) Unit { return Unit{} },
		Combine: func(Unit, Unit) Unit { return Unit{} },
		Present: func(Unit) (Unit, error) { return Unit{}, nil },
	}
}
