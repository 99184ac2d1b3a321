package builder

import "math"

// Dense assembles a []float64 feature vector. Skipped positions hold NaN so
// that a genuine zero value is never confused with a hole.
type Dense struct {
	values []float64
	pos    int
}

// NewDense creates an empty Dense builder.
func NewDense() *Dense { return &Dense{} }

// Init implements Builder.
func (b *Dense) Init(totalDimension int) {
	b.values = make([]float64, totalDimension)
	b.pos = 0
}

// Prepare implements Builder; Dense has no per-block metadata to record.
func (b *Dense) Prepare(string, int) {}

// Add implements Builder.
func (b *Dense) Add(_ string, value float64) {
	b.values[b.pos] = value
	b.pos++
}

// Skip implements Builder.
func (b *Dense) Skip() {
	b.values[b.pos] = math.NaN()
	b.pos++
}

// SkipN implements Builder.
func (b *Dense) SkipN(n int) {
	for i := 0; i < n; i++ {
		b.Skip()
	}
}

// AddMany implements Builder.
func (b *Dense) AddMany(names []string, values []float64) error {
	if len(names) != len(values) {
		return ErrLengthMismatch
	}
	for i, v := range values {
		b.Add(names[i], v)
	}
	return nil
}

// Result implements Builder. Panics on a declared/emitted dimension
// mismatch: that is a programmer error in a transformer's BuildFeatures.
func (b *Dense) Result() []float64 {
	if b.pos != len(b.values) {
		panic(&ErrDimensionMismatch{Declared: len(b.values), Emitted: b.pos})
	}
	return b.values
}

// NewBuilder implements Builder.
func (b *Dense) NewBuilder() Builder[[]float64] { return NewDense() }
