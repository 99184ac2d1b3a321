// Package entry implements the feature entry (C4): a thin, type-erased
// adapter pairing an extractor and default with a transformer, so a
// FeatureSet can hold a heterogeneous sequence of entries in one slice.
//
// Every entry's A/B/C types are erased behind `any`; the invariant that
// keeps this safe is that a slot's dynamic type always matches the phase
// the pipeline is currently in (raw -> prepared -> combined -> presented),
// and only the entry that produced a boxed value ever unboxes it again.
package entry

import (
	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

// Entry is the type-erased operations a FeatureSet needs from one feature
// entry, over record type T. A/B/C are hidden behind `any`.
type Entry[T any] interface {
	// Name is the underlying transformer's name.
	Name() string

	// Get extracts and applies the default, returning a boxed Option[A].
	Get(t T) any

	// Prepare maps a boxed Option[A] to a boxed Option[B].
	Prepare(raw any) any

	// Combine folds two boxed Option[B] values via the transformer's
	// semigroup. Associative.
	Combine(lhs, rhs any) any

	// Present maps a boxed Option[B] to a boxed Option[C]. Only ever calls
	// the transformer's Present function when the state is Some.
	Present(state any) (any, error)

	// Dimension returns the block width for a boxed Option[C]; 0 if None.
	Dimension(presented any) int

	// Names returns the block's feature names for a boxed Option[C]; empty
	// if None.
	Names(presented any) []string

	// BuildFeatures emits this entry's block into sink.
	BuildFeatures(raw any, presented any, sink feature.Sink)

	// EncodeSettings serializes a boxed Option[C]; nil if None.
	EncodeSettings(presented any) (*string, error)

	// DecodeSettings is the inverse of EncodeSettings, producing a boxed
	// Option[C].
	DecodeSettings(encoded *string) (any, error)

	// Params exposes the transformer's constructor parameters.
	Params() map[string]string
}

// typed is the concrete Entry[T] implementation for one A/B/C shape.
type typed[T, A, B, C any] struct {
	extract     func(T) feature.Option[A]
	def         feature.Option[A]
	transformer feature.Transformer[A, B, C]
}

// New builds an Entry[T] pairing extract/default with transformer.
func New[T, A, B, C any](
	extract func(T) feature.Option[A],
	def feature.Option[A],
	transformer feature.Transformer[A, B, C],
) Entry[T] {
	return &typed[T, A, B, C]{extract: extract, def: def, transformer: transformer}
}

func (e *typed[T, A, B, C]) Name() string { return e.transformer.Name() }

func (e *typed[T, A, B, C]) Get(t T) any {
	return e.extract(t).OrElse(e.def)
}

func (e *typed[T, A, B, C]) Prepare(raw any) any {
	o := raw.(feature.Option[A])
	prepare := e.transformer.Aggregator().Prepare
	return feature.MapOption(o, prepare)
}

func (e *typed[T, A, B, C]) Combine(lhs, rhs any) any {
	l := lhs.(feature.Option[B])
	r := rhs.(feature.Option[B])
	combine := feature.CombineOption(e.transformer.Aggregator().Combine)
	return combine(l, r)
}

func (e *typed[T, A, B, C]) Present(state any) (any, error) {
	o := state.(feature.Option[B])
	v, ok := o.Get()
	if !ok {
		return feature.None[C](), nil
	}
	c, err := e.transformer.Aggregator().Present(v)
	if err != nil {
		return nil, err
	}
	return feature.Some(c), nil
}

func (e *typed[T, A, B, C]) Dimension(presented any) int {
	o := presented.(feature.Option[C])
	c, ok := o.Get()
	if !ok {
		return 0
	}
	return e.transformer.FeatureDimension(c)
}

func (e *typed[T, A, B, C]) Names(presented any) []string {
	o := presented.(feature.Option[C])
	c, ok := o.Get()
	if !ok {
		return nil
	}
	return e.transformer.FeatureNames(c)
}

func (e *typed[T, A, B, C]) BuildFeatures(raw any, presented any, sink feature.Sink) {
	rawOpt := raw.(feature.Option[A])
	presentedOpt := presented.(feature.Option[C])
	c, ok := presentedOpt.Get()
	if !ok {
		return
	}
	e.transformer.BuildFeatures(rawOpt, c, sink)
}

func (e *typed[T, A, B, C]) EncodeSettings(presented any) (*string, error) {
	o := presented.(feature.Option[C])
	c, ok := o.Get()
	if !ok {
		return nil, nil
	}
	s, err := e.transformer.EncodeAggregator(c)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (e *typed[T, A, B, C]) DecodeSettings(encoded *string) (any, error) {
	if encoded == nil {
		return feature.None[C](), nil
	}
	c, err := e.transformer.DecodeAggregator(*encoded)
	if err != nil {
		return nil, err
	}
	return feature.Some(c), nil
}

func (e *typed[T, A, B, C]) Params() map[string]string {
	return e.transformer.Params()
}
