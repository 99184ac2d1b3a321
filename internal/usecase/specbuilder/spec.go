// Package specbuilder implements the fluent spec builder (C6): the
// user-facing surface for declaring which fields of a record type feed
// which transformers, and how their outputs cross.
package specbuilder

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/featureflow/internal/domain/entry"
	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/domain/featureset"
)

// ErrEmptyCombine is returned by CombineSpecs when given no specs.
var ErrEmptyCombine = errors.New("specbuilder: combine requires at least one spec")

// Spec accumulates entries and crosses for one record type T, ready to be
// built into a featureset.FeatureSet[T].
type Spec[T any] struct {
	entries []entry.Entry[T]
	crosses []featureset.Cross
}

// Of starts an empty spec for record type T.
func Of[T any]() *Spec[T] {
	return &Spec[T]{}
}

// Required declares a field spec always present on T (§3, §4.1). Go
// methods cannot introduce their own type parameters, so this is a free
// function taking the spec rather than a Spec[T] method, following the
// convention set by collection.Map/Cross/Pure.
func Required[T, A, B, C any](s *Spec[T], extract func(T) A, transformer feature.Transformer[A, B, C]) *Spec[T] {
	wrapped := func(t T) feature.Option[A] { return feature.Some(extract(t)) }
	s.entries = append(s.entries, entry.New[T, A, B, C](wrapped, feature.None[A](), transformer))
	return s
}

// Optional declares a field spec that may be absent on T, falling back to
// def when the extractor reports ok=false (§4.1 "missing value default").
func Optional[T, A, B, C any](
	s *Spec[T],
	extract func(T) (A, bool),
	def A,
	transformer feature.Transformer[A, B, C],
) *Spec[T] {
	wrapped := func(t T) feature.Option[A] {
		if v, ok := extract(t); ok {
			return feature.Some(v)
		}
		return feature.None[A]()
	}
	s.entries = append(s.entries, entry.New[T, A, B, C](wrapped, feature.Some(def), transformer))
	return s
}

// OptionalNoDefault declares a field spec that may be absent on T with no
// fallback value at all: when the extractor reports ok=false, the record
// contributes nothing to the aggregate, and BuildFeatures emits a skip
// block rather than a transformed default (§4.6 "optional(f, default =
// None)"). If no record has the field, the presented summary is None and
// the block is zero columns wide.
func OptionalNoDefault[T, A, B, C any](
	s *Spec[T],
	extract func(T) (A, bool),
	transformer feature.Transformer[A, B, C],
) *Spec[T] {
	wrapped := func(t T) feature.Option[A] {
		if v, ok := extract(t); ok {
			return feature.Some(v)
		}
		return feature.None[A]()
	}
	s.entries = append(s.entries, entry.New[T, A, B, C](wrapped, feature.None[A](), transformer))
	return s
}

// Entries exposes the accumulated entries in declaration order, for
// callers (e.g. multispec) that need to merge several specs' entries
// before any one of them is Build.
func (s *Spec[T]) Entries() []entry.Entry[T] {
	return append([]entry.Entry[T](nil), s.entries...)
}

// Crosses exposes the accumulated cross declarations in declaration order.
func (s *Spec[T]) Crosses() []featureset.Cross {
	return append([]featureset.Cross(nil), s.crosses...)
}

// Cross declares a cross-feature product between two already-declared
// transformer blocks (§3 "Cross declaration"). Combine folds one left
// scalar with one right scalar into the crossed cell's value.
func (s *Spec[T]) Cross(left, right string, combine featureset.Combiner) *Spec[T] {
	s.crosses = append(s.crosses, featureset.Cross{Left: left, Right: right, Combine: combine})
	return s
}

// CombineSpecs merges several specs' entries and crosses into one (§4.5
// "spec composition"). Duplicate transformer names or dangling cross
// references surface later, at Build.
func CombineSpecs[T any](specs ...*Spec[T]) (*Spec[T], error) {
	if len(specs) == 0 {
		return nil, ErrEmptyCombine
	}
	merged := &Spec[T]{}
	for _, s := range specs {
		merged.entries = append(merged.entries, s.entries...)
		merged.crosses = append(merged.crosses, s.crosses...)
	}
	return merged, nil
}

// Build validates the accumulated declarations and produces the immutable
// FeatureSet the extraction usecase runs against.
func (s *Spec[T]) Build() (*featureset.FeatureSet[T], error) {
	fs, err := featureset.New[T](s.entries, s.crosses)
	if err != nil {
		return nil, fmt.Errorf("specbuilder: build: %w", err)
	}
	return fs, nil
}
