package featureset

import (
	"math"

	"github.com/kailas-cloud/featureflow/internal/domain/feature"
)

// recordingSink forwards every write to inner while also buffering the
// values it saw, so a crossed block's emissions can be reused to compute
// the cross product without re-invoking the transformer (§4.5, §9).
type recordingSink struct {
	inner  feature.Sink
	values []float64
	anyAdd bool
}

func newRecordingSink(inner feature.Sink) *recordingSink {
	return &recordingSink{inner: inner}
}

func (r *recordingSink) Add(name string, value float64) {
	r.inner.Add(name, value)
	r.values = append(r.values, value)
	r.anyAdd = true
}

func (r *recordingSink) Skip() {
	r.inner.Skip()
	r.values = append(r.values, math.NaN())
}

func (r *recordingSink) SkipN(n int) {
	r.inner.SkipN(n)
	for i := 0; i < n; i++ {
		r.values = append(r.values, math.NaN())
	}
}

// fullySkipped reports whether every emitted value in this block was a
// hole for this record; a fully skipped block skips its whole cross term.
func (r *recordingSink) fullySkipped() bool {
	return !r.anyAdd
}
