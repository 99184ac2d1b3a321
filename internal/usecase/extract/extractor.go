// Package extract implements the extraction usecase (C7): the lazy,
// memoized phase graph running a FeatureSet's prepare/reduce/present/emit
// pipeline over one dataset, or replaying it from previously fitted
// settings without touching the dataset at all.
package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/featureflow/internal/domain/builder"
	"github.com/kailas-cloud/featureflow/internal/domain/collection"
	"github.com/kailas-cloud/featureflow/internal/domain/featureset"
	"github.com/kailas-cloud/featureflow/internal/settings"
)

// Extractor runs one FeatureSet's pipeline over one dataset. Each phase is
// computed at most once and cached; later phases reuse earlier results.
// Not safe for concurrent use: a single Extractor drives one linear
// computation, the way a single Builder drives one record.
type Extractor[T any] struct {
	fs      *featureset.FeatureSet[T]
	dataset collection.Collection[T]
	logger  *zap.Logger

	aggregateDone bool
	aggregate     []any
	aggregateErr  error

	presentedDone bool
	presented     []any
	presentedErr  error
}

// New builds an Extractor that will fit its aggregate from dataset,
// logging phase transitions to zap.NewNop() (use NewWithLogger to attach a
// real logger).
func New[T any](fs *featureset.FeatureSet[T], dataset collection.Collection[T]) *Extractor[T] {
	return NewWithLogger[T](fs, dataset, zap.NewNop())
}

// NewWithLogger is New with an injected logger, so a caller running many
// specs can tell which one's aggregate/present phase is executing and how
// wide the fitted dataset was (§9 "phase graph").
func NewWithLogger[T any](fs *featureset.FeatureSet[T], dataset collection.Collection[T], logger *zap.Logger) *Extractor[T] {
	return &Extractor[T]{fs: fs, dataset: dataset, logger: logger}
}

// FromSettings builds an Extractor already in the presented phase, from a
// previously fitted settings row (§4.5 "replay"). No dataset is consulted;
// Aggregate and calling FeatureValues over a record that needs a raw pass
// still works, but re-fitting is not possible from this Extractor.
func FromSettings[T any](fs *featureset.FeatureSet[T], s settings.Settings) (*Extractor[T], error) {
	return FromSettingsWithLogger[T](fs, s, zap.NewNop())
}

// FromSettingsWithLogger is FromSettings with an injected logger.
func FromSettingsWithLogger[T any](fs *featureset.FeatureSet[T], s settings.Settings, logger *zap.Logger) (*Extractor[T], error) {
	presented, err := fs.DecodeAggregators(s)
	if err != nil {
		return nil, fmt.Errorf("extract: from settings: %w", err)
	}
	logger.Info("replay from settings", zap.Int("entries", len(s)))
	return &Extractor[T]{
		fs:            fs,
		logger:        logger,
		aggregateDone: true,
		presentedDone: true,
		presented:     presented,
	}, nil
}

// Aggregate reduces the dataset through prepare+combine, memoizing the
// result. Returns featureset.ErrEmptyAggregate when the dataset is empty
// and there is no settings row to replay from (§8 "empty-dataset rule").
func (ex *Extractor[T]) Aggregate() ([]any, error) {
	if ex.aggregateDone {
		return ex.aggregate, ex.aggregateErr
	}
	ex.aggregateDone = true

	ex.logger.Debug("aggregate started", zap.Int("dataset_len", ex.dataset.Len()))

	prepared := collection.Map(ex.dataset, func(t T) []any {
		return ex.fs.UnsafePrepare(ex.fs.UnsafeGet(t))
	})
	result, ok := prepared.Reduce(ex.fs.UnsafeSum)
	if !ok {
		ex.aggregateErr = featureset.ErrEmptyAggregate
		ex.logger.Error("aggregate failed", zap.Error(ex.aggregateErr))
		return nil, ex.aggregateErr
	}
	ex.aggregate = result
	ex.logger.Debug("aggregate finished", zap.Int("entries", len(result)))
	return ex.aggregate, nil
}

// Present derives the presented summary from the aggregate, memoizing the
// result. In replay mode (FromSettings) this returns the decoded summary
// directly without consulting the dataset.
func (ex *Extractor[T]) Present() ([]any, error) {
	if ex.presentedDone {
		return ex.presented, ex.presentedErr
	}
	ex.presentedDone = true

	aggregate, err := ex.Aggregate()
	if err != nil {
		ex.presentedErr = err
		return nil, err
	}
	presented, err := ex.fs.UnsafePresent(aggregate)
	if err != nil {
		ex.presentedErr = err
		ex.logger.Error("present failed", zap.Error(err))
		return nil, err
	}
	ex.presented = presented
	ex.logger.Debug("present finished", zap.Int("dimension", ex.fs.FeatureDimension(presented)))
	return ex.presented, nil
}

// FeatureDimension is the fitted output width.
func (ex *Extractor[T]) FeatureDimension() (int, error) {
	presented, err := ex.Present()
	if err != nil {
		return 0, err
	}
	return ex.fs.FeatureDimension(presented), nil
}

// FeatureNames is the fitted, stable, per-column output names.
func (ex *Extractor[T]) FeatureNames() ([]string, error) {
	presented, err := ex.Present()
	if err != nil {
		return nil, err
	}
	return ex.fs.FeatureNames(presented), nil
}

// FeatureSettings serializes the fitted summary for later replay.
func (ex *Extractor[T]) FeatureSettings() (settings.Settings, error) {
	presented, err := ex.Present()
	if err != nil {
		return nil, err
	}
	return ex.fs.FeatureSettings(presented), nil
}

// FeatureValues assembles one record's output via b, using this
// Extractor's fitted summary (§4.5 "Emit"). A free function, not a method,
// because Go methods cannot introduce a new type parameter (F) beyond the
// receiver's own.
func FeatureValues[T, F any](ex *Extractor[T], t T, b builder.Builder[F]) (F, error) {
	var zero F
	presented, err := ex.Present()
	if err != nil {
		return zero, err
	}
	raw := ex.fs.UnsafeGet(t)
	return featureset.FeatureValues[T, F](ex.fs, raw, presented, b), nil
}

// EmitAll runs FeatureValues over every element of dataset, in whatever
// order the driver enumerates, using a fresh builder per record via
// template.NewBuilder.
func EmitAll[T, F any](ex *Extractor[T], dataset collection.Collection[T], template builder.Builder[F]) ([]F, error) {
	presented, err := ex.Present()
	if err != nil {
		return nil, err
	}
	out := make([]F, 0, sizeHint(dataset))
	dataset.ForEach(func(t T) {
		raw := ex.fs.UnsafeGet(t)
		b := template.NewBuilder()
		out = append(out, featureset.FeatureValues[T, F](ex.fs, raw, presented, b))
	})
	if ex.logger != nil {
		ex.logger.Debug("emit finished", zap.Int("records", len(out)))
	}
	return out, nil
}

func sizeHint[T any](c collection.Collection[T]) int {
	if n := c.Len(); n >= 0 {
		return n
	}
	return 0
}
