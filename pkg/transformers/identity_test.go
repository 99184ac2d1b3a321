package transformers

import (
	"testing"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

func TestIdentityPassesValueThrough(t *testing.T) {
	id := NewIdentity("raw")

	var got float64
	sink := &captureSink{onAdd: func(name string, v float64) { got = v }}
	id.BuildFeatures(feature.Some(3.5), feature.Unit{}, sink)
	if got != 3.5 {
		t.Fatalf("got = %v; want 3.5", got)
	}
}

func TestIdentitySkipsOnNone(t *testing.T) {
	id := NewIdentity("raw")
	skipped := 0
	sink := &captureSink{onSkip: func() { skipped++ }}
	id.BuildFeatures(feature.None[float64](), feature.Unit{}, sink)
	if skipped != 1 {
		t.Fatalf("skipped = %d; want 1", skipped)
	}
}
