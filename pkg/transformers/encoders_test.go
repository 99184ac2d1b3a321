package transformers

import (
	"testing"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

func TestOneHotEncoderEmitsLearnedCategories(t *testing.T) {
	e := NewOneHotEncoder("color")
	agg := e.Aggregator()

	state := agg.Combine(agg.Prepare("red"), agg.Prepare("blue"))
	cats, err := agg.Present(state)
	if err != nil {
		t.Fatalf("Present returned error: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("len(cats) = %d; want 2", len(cats))
	}

	got := map[string]float64{}
	sink := &captureSink{onAdd: func(name string, v float64) { got[name] = v }}
	e.BuildFeatures(feature.Some("blue"), cats, sink)

	if got["color_blue"] != 1 {
		t.Fatalf("color_blue = %v; want 1", got["color_blue"])
	}
	if got["color_red"] != 0 {
		t.Fatalf("color_red = %v; want 0", got["color_red"])
	}
}

// TestOneHotEncoderUnknownCategorySkipsBlock covers spec.md §8 scenario 4:
// a category unseen at fit time (row "z" against categories learned from
// other data) emits all skips for its block, not an all-zero row.
func TestOneHotEncoderUnknownCategorySkipsBlock(t *testing.T) {
	e := NewOneHotEncoder("color")
	cats := []string{"red", "blue"}

	adds := 0
	skips := 0
	sink := &captureSink{
		onAdd:  func(string, float64) { adds++ },
		onSkip: func() { skips++ },
	}
	e.BuildFeatures(feature.Some("z"), cats, sink)

	if adds != 0 {
		t.Fatalf("unknown category emitted %d adds; want 0", adds)
	}
	if skips != len(cats) {
		t.Fatalf("unknown category emitted %d skips; want %d (len(cats))", skips, len(cats))
	}
}

func TestOneHotEncoderEncodeDecodeRoundTrip(t *testing.T) {
	e := NewOneHotEncoder("color")
	encoded, err := e.EncodeAggregator([]string{"red", "blue"})
	if err != nil {
		t.Fatalf("EncodeAggregator returned error: %v", err)
	}
	decoded, err := e.DecodeAggregator(encoded)
	if err != nil {
		t.Fatalf("DecodeAggregator returned error: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != "red" || decoded[1] != "blue" {
		t.Fatalf("decoded = %v; want [red blue]", decoded)
	}
}

func TestHashingEncoderIsDeterministic(t *testing.T) {
	e := NewHashingEncoder("tag", 8)

	first := map[string]float64{}
	e.BuildFeatures(feature.Some("urgent"), feature.Unit{}, &captureSink{onAdd: func(name string, v float64) { first[name] = v }})

	second := map[string]float64{}
	e.BuildFeatures(feature.Some("urgent"), feature.Unit{}, &captureSink{onAdd: func(name string, v float64) { second[name] = v }})

	for name, v := range first {
		if second[name] != v {
			t.Fatalf("hashing encoder not deterministic: %s = %v vs %v", name, v, second[name])
		}
	}
}

func TestHashingEncoderFixedWidthRegardlessOfCardinality(t *testing.T) {
	e := NewHashingEncoder("tag", 4)
	if e.FeatureDimension(feature.Unit{}) != 4 {
		t.Fatalf("FeatureDimension = %d; want 4", e.FeatureDimension(feature.Unit{}))
	}
}
