package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/kailas-cloud/featureflow/internal/domain/builder"
	"github.com/kailas-cloud/featureflow/internal/domain/collection"
	"github.com/kailas-cloud/featureflow/internal/domain/entry"
	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/domain/featureset"
)

// minMaxState tracks the running bounds seen while fitting; scaled values
// are only computed once Present derives the final range.
type minMaxState struct{ min, max float64 }

type minMaxSummary struct{ min, max float64 }

type minMaxScaler struct{ name string }

func (t minMaxScaler) Name() string { return t.name }

func (t minMaxScaler) Aggregator() feature.Aggregator[float64, minMaxState, minMaxSummary] {
	return feature.Aggregator[float64, minMaxState, minMaxSummary]{
		Prepare: func(v float64) minMaxState { return minMaxState{min: v, max: v} },
		Combine: func(a, b minMaxState) minMaxState {
			state := minMaxState{min: a.min, max: a.max}
			if b.min < state.min {
				state.min = b.min
			}
			if b.max > state.max {
				state.max = b.max
			}
			return state
		},
		Present: func(s minMaxState) (minMaxSummary, error) {
			return minMaxSummary{min: s.min, max: s.max}, nil
		},
	}
}

func (t minMaxScaler) FeatureDimension(minMaxSummary) int  { return 1 }
func (t minMaxScaler) FeatureNames(c minMaxSummary) []string { return []string{t.name} }
func (t minMaxScaler) Params() map[string]string             { return nil }

func (t minMaxScaler) EncodeAggregator(c minMaxSummary) (string, error) {
	return fmt.Sprintf("%g,%g", c.min, c.max), nil
}

func (t minMaxScaler) DecodeAggregator(s string) (minMaxSummary, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return minMaxSummary{}, fmt.Errorf("malformed minmax settings %q", s)
	}
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return minMaxSummary{}, err
	}
	max, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return minMaxSummary{}, err
	}
	return minMaxSummary{min: min, max: max}, nil
}

func (t minMaxScaler) BuildFeatures(a feature.Option[float64], c minMaxSummary, sink feature.Sink) {
	v, ok := a.Get()
	if !ok {
		sink.Skip()
		return
	}
	span := c.max - c.min
	if span == 0 {
		sink.Add(t.name, 0)
		return
	}
	sink.Add(t.name, (v-c.min)/span)
}

type record struct{ price float64 }

func priceExtractor(r record) feature.Option[float64] { return feature.Some(r.price) }

func buildFeatureSet(t *testing.T) *featureset.FeatureSet[record] {
	t.Helper()
	e := entry.New[record, float64, minMaxState, minMaxSummary](priceExtractor, feature.None[float64](), minMaxScaler{name: "price_scaled"})
	fs, err := featureset.New[record]([]entry.Entry[record]{e}, nil)
	if err != nil {
		t.Fatalf("featureset.New returned error: %v", err)
	}
	return fs
}

func TestExtractorAggregateEmptyDataset(t *testing.T) {
	fs := buildFeatureSet(t)
	ex := New[record](fs, collection.FromSlice[record](nil))

	_, err := ex.Aggregate()
	if !errors.Is(err, featureset.ErrEmptyAggregate) {
		t.Fatalf("Aggregate() error = %v; want ErrEmptyAggregate", err)
	}
}

func TestExtractorFitAndEmit(t *testing.T) {
	fs := buildFeatureSet(t)
	dataset := collection.FromSlice([]record{{price: 10}, {price: 20}, {price: 30}})
	ex := New[record](fs, dataset)

	names, err := ex.FeatureNames()
	if err != nil {
		t.Fatalf("FeatureNames returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "price_scaled" {
		t.Fatalf("names = %v; want [price_scaled]", names)
	}

	got, err := FeatureValues[record, []float64](ex, record{price: 20}, builder.NewDense())
	if err != nil {
		t.Fatalf("FeatureValues returned error: %v", err)
	}
	if len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("FeatureValues = %v; want [0.5]", got)
	}
}

func TestExtractorEmitAll(t *testing.T) {
	fs := buildFeatureSet(t)
	dataset := collection.FromSlice([]record{{price: 0}, {price: 100}})
	ex := New[record](fs, dataset)

	results, err := EmitAll[record, []float64](ex, dataset, builder.NewDense())
	if err != nil {
		t.Fatalf("EmitAll returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d; want 2", len(results))
	}
	if results[0][0] != 0 || results[1][0] != 1 {
		t.Fatalf("results = %v; want [[0] [1]]", results)
	}
}

func TestExtractorFromSettingsReplay(t *testing.T) {
	fs := buildFeatureSet(t)
	dataset := collection.FromSlice([]record{{price: 10}, {price: 30}})
	fitted := New[record](fs, dataset)

	s, err := fitted.FeatureSettings()
	if err != nil {
		t.Fatalf("FeatureSettings returned error: %v", err)
	}

	replay, err := FromSettings[record](fs, s)
	if err != nil {
		t.Fatalf("FromSettings returned error: %v", err)
	}

	got, err := FeatureValues[record, []float64](replay, record{price: 20}, builder.NewDense())
	if err != nil {
		t.Fatalf("FeatureValues on replay returned error: %v", err)
	}
	if got[0] != 0.5 {
		t.Fatalf("replayed FeatureValues = %v; want [0.5]", got)
	}
}

func TestExtractorFromSettingsMissingEntry(t *testing.T) {
	fs := buildFeatureSet(t)
	if _, err := FromSettings[record](fs, nil); !errors.Is(err, featureset.ErrSettingsMissing) {
		t.Fatalf("FromSettings(nil) error = %v; want ErrSettingsMissing", err)
	}
}
