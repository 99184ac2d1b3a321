package transformers

import (
	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/usecase/specbuilder"
)

// The Wire* functions exist because a method cannot introduce a type
// parameter beyond its receiver's: binding a *MinMaxScaler (receiver has no
// type parameters of its own) into a specbuilder.Spec[T] needs T, so the
// binding has to be a free function living alongside the transformer's
// unexported aggregator-state type.

func WireIdentity[T any](s *specbuilder.Spec[T], extract func(T) float64, t *Identity) *specbuilder.Spec[T] {
	return specbuilder.Required[T, float64, feature.Unit, feature.Unit](s, extract, t)
}

func WireOptionalIdentity[T any](s *specbuilder.Spec[T], extract func(T) (float64, bool), t *Identity) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, float64, feature.Unit, feature.Unit](s, extract, 0, t)
}

func WireOptionalIdentityNoDefault[T any](s *specbuilder.Spec[T], extract func(T) (float64, bool), t *Identity) *specbuilder.Spec[T] {
	return specbuilder.OptionalNoDefault[T, float64, feature.Unit, feature.Unit](s, extract, t)
}

func WireMinMax[T any](s *specbuilder.Spec[T], extract func(T) float64, t *MinMaxScaler) *specbuilder.Spec[T] {
	return specbuilder.Required[T, float64, minMaxState, MinMaxSummary](s, extract, t)
}

func WireOptionalMinMax[T any](s *specbuilder.Spec[T], extract func(T) (float64, bool), t *MinMaxScaler) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, float64, minMaxState, MinMaxSummary](s, extract, 0, t)
}

func WireOptionalMinMaxNoDefault[T any](s *specbuilder.Spec[T], extract func(T) (float64, bool), t *MinMaxScaler) *specbuilder.Spec[T] {
	return specbuilder.OptionalNoDefault[T, float64, minMaxState, MinMaxSummary](s, extract, t)
}

func WireStandard[T any](s *specbuilder.Spec[T], extract func(T) float64, t *StandardScaler) *specbuilder.Spec[T] {
	return specbuilder.Required[T, float64, standardState, StandardSummary](s, extract, t)
}

func WireOptionalStandard[T any](s *specbuilder.Spec[T], extract func(T) (float64, bool), t *StandardScaler) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, float64, standardState, StandardSummary](s, extract, 0, t)
}

func WireOptionalStandardNoDefault[T any](s *specbuilder.Spec[T], extract func(T) (float64, bool), t *StandardScaler) *specbuilder.Spec[T] {
	return specbuilder.OptionalNoDefault[T, float64, standardState, StandardSummary](s, extract, t)
}

func WireOneHot[T any](s *specbuilder.Spec[T], extract func(T) string, t *OneHotEncoder) *specbuilder.Spec[T] {
	return specbuilder.Required[T, string, categorySet, []string](s, extract, t)
}

func WireOptionalOneHot[T any](s *specbuilder.Spec[T], extract func(T) (string, bool), t *OneHotEncoder) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, string, categorySet, []string](s, extract, "", t)
}

func WireOptionalOneHotNoDefault[T any](s *specbuilder.Spec[T], extract func(T) (string, bool), t *OneHotEncoder) *specbuilder.Spec[T] {
	return specbuilder.OptionalNoDefault[T, string, categorySet, []string](s, extract, t)
}

func WireHashing[T any](s *specbuilder.Spec[T], extract func(T) string, t *HashingEncoder) *specbuilder.Spec[T] {
	return specbuilder.Required[T, string, feature.Unit, feature.Unit](s, extract, t)
}

func WireOptionalHashing[T any](s *specbuilder.Spec[T], extract func(T) (string, bool), t *HashingEncoder) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, string, feature.Unit, feature.Unit](s, extract, "", t)
}

func WireGeoGrid[T any](s *specbuilder.Spec[T], extract func(T) GeoPoint, t *GeoGridBucketizer) *specbuilder.Spec[T] {
	return specbuilder.Required[T, GeoPoint, geoBounds, GeoGridSummary](s, extract, t)
}

func WireOptionalGeoGrid[T any](s *specbuilder.Spec[T], extract func(T) (GeoPoint, bool), t *GeoGridBucketizer) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, GeoPoint, geoBounds, GeoGridSummary](s, extract, GeoPoint{}, t)
}

func WireEmbedding[T any](s *specbuilder.Spec[T], extract func(T) []float64, t *EmbeddingBlock) *specbuilder.Spec[T] {
	return specbuilder.Required[T, []float64, feature.Unit, feature.Unit](s, extract, t)
}

func WireOptionalEmbedding[T any](s *specbuilder.Spec[T], extract func(T) ([]float64, bool), t *EmbeddingBlock) *specbuilder.Spec[T] {
	return specbuilder.Optional[T, []float64, feature.Unit, feature.Unit](s, extract, nil, t)
}
