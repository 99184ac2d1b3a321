package entry

import (
	"strconv"
	"testing"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

// sumTransformer is a minimal stateful transformer used to exercise Entry's
// type erasure: it accumulates a running total (B=C=float64) over raw ints.
type sumTransformer struct{ name string }

func (t sumTransformer) Name() string { return t.name }

func (t sumTransformer) Aggregator() feature.Aggregator[int, float64, float64] {
	return feature.Aggregator[int, float64, float64]{
		Prepare: func(a int) float64 { return float64(a) },
		Combine: func(l, r float64) float64 { return l + r },
		Present: func(b float64) (float64, error) { return b, nil },
	}
}

func (t sumTransformer) FeatureDimension(c float64) int    { return 1 }
func (t sumTransformer) FeatureNames(c float64) []string   { return []string{t.name} }
func (t sumTransformer) Params() map[string]string         { return nil }
func (t sumTransformer) EncodeAggregator(c float64) (string, error) {
	return strconv.FormatFloat(c, 'g', -1, 64), nil
}
func (t sumTransformer) DecodeAggregator(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
func (t sumTransformer) BuildFeatures(a feature.Option[int], c float64, sink feature.Sink) {
	if v, ok := a.Get(); ok {
		sink.Add(t.name, float64(v)+c)
		return
	}
	sink.Skip()
}

type recordingSink struct {
	names  []string
	values []float64
	skips  int
}

func (r *recordingSink) Add(name string, value float64) {
	r.names = append(r.names, name)
	r.values = append(r.values, value)
}
func (r *recordingSink) Skip()      { r.skips++ }
func (r *recordingSink) SkipN(n int) { r.skips += n }

func extractField(rec map[string]int) feature.Option[int] {
	if v, ok := rec["x"]; ok {
		return feature.Some(v)
	}
	return feature.None[int]()
}

func TestTypedEntryPipeline(t *testing.T) {
	e := New[map[string]int, int, float64, float64](extractField, feature.None[int](), sumTransformer{name: "x_sum"})

	if e.Name() != "x_sum" {
		t.Fatalf("Name() = %q; want x_sum", e.Name())
	}

	raw1 := e.Get(map[string]int{"x": 3})
	raw2 := e.Get(map[string]int{"x": 4})

	prepared1 := e.Prepare(raw1)
	prepared2 := e.Prepare(raw2)

	combined := e.Combine(prepared1, prepared2)

	presented, err := e.Present(combined)
	if err != nil {
		t.Fatalf("Present returned error: %v", err)
	}

	if dim := e.Dimension(presented); dim != 1 {
		t.Fatalf("Dimension = %d; want 1", dim)
	}
	if names := e.Names(presented); len(names) != 1 || names[0] != "x_sum" {
		t.Fatalf("Names = %v; want [x_sum]", names)
	}

	sink := &recordingSink{}
	e.BuildFeatures(raw1, presented, sink)
	if len(sink.values) != 1 || sink.values[0] != float64(3+7) {
		t.Fatalf("BuildFeatures sink = %+v; want single value 10", sink)
	}
}

func TestTypedEntryPresentSkipsTransformerWhenNone(t *testing.T) {
	e := New[map[string]int, int, float64, float64](extractField, feature.None[int](), sumTransformer{name: "x_sum"})

	presented, err := e.Present(feature.None[float64]())
	if err != nil {
		t.Fatalf("Present returned error: %v", err)
	}
	if e.Dimension(presented) != 0 {
		t.Fatalf("Dimension(None) = %d; want 0", e.Dimension(presented))
	}
	if names := e.Names(presented); names != nil {
		t.Fatalf("Names(None) = %v; want nil", names)
	}
}

func TestTypedEntryEncodeDecodeSettingsRoundTrip(t *testing.T) {
	e := New[map[string]int, int, float64, float64](extractField, feature.None[int](), sumTransformer{name: "x_sum"})

	presented, _ := e.Present(feature.Some(float64(12)))
	encoded, err := e.EncodeSettings(presented)
	if err != nil {
		t.Fatalf("EncodeSettings returned error: %v", err)
	}
	if encoded == nil {
		t.Fatal("EncodeSettings returned nil for a Some summary")
	}

	decoded, err := e.DecodeSettings(encoded)
	if err != nil {
		t.Fatalf("DecodeSettings returned error: %v", err)
	}
	if e.Dimension(decoded) != 1 {
		t.Fatalf("Dimension(decoded) = %d; want 1", e.Dimension(decoded))
	}
}

func TestTypedEntryDecodeSettingsNilIsNone(t *testing.T) {
	e := New[map[string]int, int, float64, float64](extractField, feature.None[int](), sumTransformer{name: "x_sum"})

	decoded, err := e.DecodeSettings(nil)
	if err != nil {
		t.Fatalf("DecodeSettings(nil) returned error: %v", err)
	}
	if e.Dimension(decoded) != 0 {
		t.Fatalf("Dimension(decoded from nil) = %d; want 0", e.Dimension(decoded))
	}
}
