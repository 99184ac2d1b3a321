package transformers

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

// categorySet accumulates the distinct category strings seen in a dataset.
type categorySet map[string]struct{}

// OneHotEncoder learns the distinct values of a categorical field during
// fitting and emits a one-hot block over them at present time. A value not
// among the learned categories (including at replay, against a categoryset
// fitted on different data) skips its whole block rather than failing or
// emitting a misleadingly precise all-zero row (§4.1 "unknown category").
type OneHotEncoder struct {
	name string
}

// NewOneHotEncoder returns a OneHotEncoder named name.
func NewOneHotEncoder(name string) *OneHotEncoder { return &OneHotEncoder{name: name} }

var _ feature.Transformer[string, categorySet, []string] = (*OneHotEncoder)(nil)

func (t *OneHotEncoder) Name() string { return t.name }

func (t *OneHotEncoder) Aggregator() feature.Aggregator[string, categorySet, []string] {
	return feature.Aggregator[string, categorySet, []string]{
		Prepare: func(v string) categorySet { return categorySet{v: struct{}{}} },
		Combine: func(l, r categorySet) categorySet {
			out := make(categorySet, len(l)+len(r))
			for k := range l {
				out[k] = struct{}{}
			}
			for k := range r {
				out[k] = struct{}{}
			}
			return out
		},
		Present: func(s categorySet) ([]string, error) {
			cats := make([]string, 0, len(s))
			for k := range s {
				cats = append(cats, k)
			}
			sort.Strings(cats)
			return cats, nil
		},
	}
}

func (t *OneHotEncoder) FeatureDimension(c []string) int { return len(c) }

func (t *OneHotEncoder) FeatureNames(c []string) []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = fmt.Sprintf("%s_%s", t.name, cat)
	}
	return names
}

func (t *OneHotEncoder) BuildFeatures(a feature.Option[string], c []string, sink feature.Sink) {
	v, ok := a.Get()
	if !ok {
		sink.SkipN(len(c))
		return
	}
	known := false
	for _, cat := range c {
		if cat == v {
			known = true
			break
		}
	}
	if !known {
		// A category unseen at fit time (including at replay, against a
		// categoryset fitted on different data) has no learned column to
		// light up; skip the whole block rather than emit a
		// misleadingly precise all-zero row (§4.1, §8 scenario 4).
		sink.SkipN(len(c))
		return
	}
	for _, cat := range c {
		if cat == v {
			sink.Add(fmt.Sprintf("%s_%s", t.name, cat), 1)
		} else {
			sink.Add(fmt.Sprintf("%s_%s", t.name, cat), 0)
		}
	}
}

func (t *OneHotEncoder) EncodeAggregator(c []string) (string, error) {
	for _, cat := range c {
		if strings.Contains(cat, "|") {
			return "", fmt.Errorf("transformers: onehot: category %q contains reserved delimiter", cat)
		}
	}
	return strings.Join(c, "|"), nil
}

func (t *OneHotEncoder) DecodeAggregator(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	return strings.Split(s, "|"), nil
}

func (t *OneHotEncoder) Params() map[string]string { return map[string]string{"kind": "onehot"} }

// HashingEncoder projects a categorical field into a fixed number of
// buckets via FNV-1a, trading exact category recovery for a bounded,
// dataset-independent width. It carries no learned state.
type HashingEncoder struct {
	name    string
	buckets int
}

// NewHashingEncoder returns a HashingEncoder named name with the given
// number of buckets.
func NewHashingEncoder(name string, buckets int) *HashingEncoder {
	return &HashingEncoder{name: name, buckets: buckets}
}

var _ feature.Transformer[string, feature.Unit, feature.Unit] = (*HashingEncoder)(nil)

func (t *HashingEncoder) Name() string { return t.name }

func (t *HashingEncoder) Aggregator() feature.Aggregator[string, feature.Unit, feature.Unit] {
	return feature.Stateless[string]()
}

func (t *HashingEncoder) FeatureDimension(feature.Unit) int { return t.buckets }

func (t *HashingEncoder) FeatureNames(feature.Unit) []string {
	names := make([]string, t.buckets)
	for i := range names {
		names[i] = fmt.Sprintf("%s_bucket%d", t.name, i)
	}
	return names
}

func (t *HashingEncoder) bucket(v string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(v))
	return int(h.Sum32() % uint32(t.buckets))
}

func (t *HashingEncoder) BuildFeatures(a feature.Option[string], _ feature.Unit, sink feature.Sink) {
	v, ok := a.Get()
	if !ok {
		sink.SkipN(t.buckets)
		return
	}
	target := t.bucket(v)
	for i := 0; i < t.buckets; i++ {
		name := fmt.Sprintf("%s_bucket%d", t.name, i)
		if i == target {
			sink.Add(name, 1)
		} else {
			sink.Add(name, 0)
		}
	}
}

func (t *HashingEncoder) EncodeAggregator(feature.Unit) (string, error) { return "", nil }

func (t *HashingEncoder) DecodeAggregator(string) (feature.Unit, error) { return feature.Unit{}, nil }

func (t *HashingEncoder) Params() map[string]string {
	return map[string]string{"kind": "hashing", "buckets": strconv.Itoa(t.buckets)}
}
