package transformers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

// minMaxState accumulates the running bounds seen across a dataset.
type minMaxState struct {
	min, max float64
	seen     bool
}

// MinMaxSummary is the fitted bounds a MinMaxScaler rescales against.
type MinMaxSummary struct {
	Min, Max float64
}

// MinMaxScaler rescales a numeric field into [0, 1] using the dataset's
// observed min and max. A field equal to Min maps to 0, Max to 1; when
// Min == Max every value maps to 0 to avoid dividing by zero.
type MinMaxScaler struct {
	name string
}

// NewMinMaxScaler returns a MinMaxScaler named name.
func NewMinMaxScaler(name string) *MinMaxScaler { return &MinMaxScaler{name: name} }

var _ feature.Transformer[float64, minMaxState, MinMaxSummary] = (*MinMaxScaler)(nil)

func (t *MinMaxScaler) Name() string { return t.name }

func (t *MinMaxScaler) Aggregator() feature.Aggregator[float64, minMaxState, MinMaxSummary] {
	return feature.Aggregator[float64, minMaxState, MinMaxSummary]{
		Prepare: func(v float64) minMaxState { return minMaxState{min: v, max: v, seen: true} },
		Combine: func(l, r minMaxState) minMaxState {
			if !l.seen {
				return r
			}
			if !r.seen {
				return l
			}
			return minMaxState{min: math.Min(l.min, r.min), max: math.Max(l.max, r.max), seen: true}
		},
		Present: func(s minMaxState) (MinMaxSummary, error) {
			return MinMaxSummary{Min: s.min, Max: s.max}, nil
		},
	}
}

func (t *MinMaxScaler) FeatureDimension(MinMaxSummary) int { return 1 }

func (t *MinMaxScaler) FeatureNames(MinMaxSummary) []string { return []string{t.name} }

func (t *MinMaxScaler) BuildFeatures(a feature.Option[float64], c MinMaxSummary, sink feature.Sink) {
	v, ok := a.Get()
	if !ok {
		sink.Skip()
		return
	}
	span := c.Max - c.Min
	if span == 0 {
		sink.Add(t.name, 0)
		return
	}
	sink.Add(t.name, (v-c.Min)/span)
}

func (t *MinMaxScaler) EncodeAggregator(c MinMaxSummary) (string, error) {
	return fmt.Sprintf("%g,%g", c.Min, c.Max), nil
}

func (t *MinMaxScaler) DecodeAggregator(s string) (MinMaxSummary, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return MinMaxSummary{}, fmt.Errorf("transformers: minmax: malformed aggregator %q", s)
	}
	min, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return MinMaxSummary{}, fmt.Errorf("transformers: minmax: %w", err)
	}
	max, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return MinMaxSummary{}, fmt.Errorf("transformers: minmax: %w", err)
	}
	return MinMaxSummary{Min: min, Max: max}, nil
}

func (t *MinMaxScaler) Params() map[string]string { return map[string]string{"kind": "minmax"} }

// standardState is a Welford-free running sum accumulator: exact for the
// combine-tree shape reduce uses, since sum and sum-of-squares are both
// linear and associative under addition.
type standardState struct {
	count      int64
	sum, sumSq float64
}

// StandardSummary is the fitted mean/stddev a StandardScaler normalizes
// against.
type StandardSummary struct {
	Mean, StdDev float64
}

// StandardScaler rescales a numeric field to zero mean and unit variance
// using the dataset's observed mean and standard deviation. When StdDev is
// zero every value maps to 0.
type StandardScaler struct {
	name string
}

// NewStandardScaler returns a StandardScaler named name.
func NewStandardScaler(name string) *StandardScaler { return &StandardScaler{name: name} }

var _ feature.Transformer[float64, standardState, StandardSummary] = (*StandardScaler)(nil)

func (t *StandardScaler) Name() string { return t.name }

func (t *StandardScaler) Aggregator() feature.Aggregator[float64, standardState, StandardSummary] {
	return feature.Aggregator[float64, standardState, StandardSummary]{
		Prepare: func(v float64) standardState { return standardState{count: 1, sum: v, sumSq: v * v} },
		Combine: func(l, r standardState) standardState {
			return standardState{count: l.count + r.count, sum: l.sum + r.sum, sumSq: l.sumSq + r.sumSq}
		},
		Present: func(s standardState) (StandardSummary, error) {
			if s.count == 0 {
				return StandardSummary{}, nil
			}
			n := float64(s.count)
			mean := s.sum / n
			variance := s.sumSq/n - mean*mean
			if variance < 0 {
				variance = 0
			}
			return StandardSummary{Mean: mean, StdDev: math.Sqrt(variance)}, nil
		},
	}
}

func (t *StandardScaler) FeatureDimension(StandardSummary) int { return 1 }

func (t *StandardScaler) FeatureNames(StandardSummary) []string { return []string{t.name} }

func (t *StandardScaler) BuildFeatures(a feature.Option[float64], c StandardSummary, sink feature.Sink) {
	v, ok := a.Get()
	if !ok {
		sink.Skip()
		return
	}
	if c.StdDev == 0 {
		sink.Add(t.name, 0)
		return
	}
	sink.Add(t.name, (v-c.Mean)/c.StdDev)
}

func (t *StandardScaler) EncodeAggregator(c StandardSummary) (string, error) {
	return fmt.Sprintf("%g,%g", c.Mean, c.StdDev), nil
}

func (t *StandardScaler) DecodeAggregator(s string) (StandardSummary, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return StandardSummary{}, fmt.Errorf("transformers: standard: malformed aggregator %q", s)
	}
	mean, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return StandardSummary{}, fmt.Errorf("transformers: standard: %w", err)
	}
	std, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return StandardSummary{}, fmt.Errorf("transformers: standard: %w", err)
	}
	return StandardSummary{Mean: mean, StdDev: std}, nil
}

func (t *StandardScaler) Params() map[string]string { return map[string]string{"kind": "standard"} }
