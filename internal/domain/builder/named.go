package builder

// Named assembles a map[string]float64, dropping skipped positions rather
// than materializing a hole value. Useful for row-oriented sinks (a
// dataframe column map, a tabular export row) that address cells by name.
type Named struct {
	values  map[string]float64
	total   int
	emitted int
}

// NewNamed creates an empty Named builder.
func NewNamed() *Named { return &Named{} }

// Init implements Builder.
func (b *Named) Init(totalDimension int) {
	b.values = make(map[string]float64, totalDimension)
	b.total = totalDimension
	b.emitted = 0
}

// Prepare implements Builder. Named does not namespace by block: transformer
// names are already unique within a spec (§4.5), so no prefix is needed.
func (b *Named) Prepare(string, int) {}

// Add implements Builder.
func (b *Named) Add(name string, value float64) {
	b.values[name] = value
	b.emitted++
}

// Skip implements Builder.
func (b *Named) Skip() {
	b.emitted++
}

// SkipN implements Builder.
func (b *Named) SkipN(n int) {
	b.emitted += n
}

// AddMany implements Builder.
func (b *Named) AddMany(names []string, values []float64) error {
	if len(names) != len(values) {
		return ErrLengthMismatch
	}
	for i, v := range values {
		b.Add(names[i], v)
	}
	return nil
}

// Result implements Builder.
func (b *Named) Result() map[string]float64 {
	if b.emitted != b.total {
		panic(&ErrDimensionMismatch{Declared: b.total, Emitted: b.emitted})
	}
	return b.values
}

// NewBuilder implements Builder.
func (b *Named) NewBuilder() Builder[map[string]float64] { return NewNamed() }
