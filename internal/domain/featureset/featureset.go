// Package featureset implements the feature set (C5): an ordered
// collection of feature entries plus cross declarations, owning the
// prepare/sum/present/emit loops and the settings codec.
package featureset

import (
	"fmt"

	"github.com/kailas-cloud/featureflow/internal/domain/builder"
	"github.com/kailas-cloud/featureflow/internal/domain/entry"
	"github.com/kailas-cloud/featureflow/internal/settings"
)

// FeatureSet is the ordered array of entries plus the cross map (§3, §4.5).
type FeatureSet[T any] struct {
	entries []entry.Entry[T]
	index   map[string]int
	crosses []Cross
}

// New validates and constructs a FeatureSet. Transformer names must be
// unique and every cross must reference two names already present.
func New[T any](entries []entry.Entry[T], crosses []Cross) (*FeatureSet[T], error) {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		name := e.Name()
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		index[name] = i
	}
	for _, c := range crosses {
		if _, ok := index[c.Left]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCrossName, c.Left)
		}
		if _, ok := index[c.Right]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCrossName, c.Right)
		}
	}
	return &FeatureSet[T]{entries: entries, index: index, crosses: crosses}, nil
}

// Entries returns the ordered entries.
func (fs *FeatureSet[T]) Entries() []entry.Entry[T] { return fs.entries }

// Crosses returns the declared crosses, in declaration order.
func (fs *FeatureSet[T]) Crosses() []Cross { return fs.crosses }

// Len returns the number of entries (the fixed slot count n).
func (fs *FeatureSet[T]) Len() int { return len(fs.entries) }

// UnsafeGet extracts one record into a length-n slot array; each slot
// holds the entry's boxed Option[A].
func (fs *FeatureSet[T]) UnsafeGet(t T) []any {
	out := make([]any, len(fs.entries))
	for i, e := range fs.entries {
		out[i] = e.Get(t)
	}
	return out
}

// UnsafePrepare maps every slot's Option[A] to Option[B] via each entry's
// aggregator.
func (fs *FeatureSet[T]) UnsafePrepare(slots []any) []any {
	out := make([]any, len(fs.entries))
	for i, e := range fs.entries {
		out[i] = e.Prepare(slots[i])
	}
	return out
}

// UnsafeSum combines two prepared slot arrays element-wise via each
// entry's semigroup. Associative.
func (fs *FeatureSet[T]) UnsafeSum(lhs, rhs []any) []any {
	out := make([]any, len(fs.entries))
	for i, e := range fs.entries {
		out[i] = e.Combine(lhs[i], rhs[i])
	}
	return out
}

// UnsafePresent maps every slot's Option[B] to Option[C].
func (fs *FeatureSet[T]) UnsafePresent(slots []any) ([]any, error) {
	out := make([]any, len(fs.entries))
	for i, e := range fs.entries {
		presented, err := e.Present(slots[i])
		if err != nil {
			return nil, &SettingsMismatchError{Transformer: e.Name(), Err: err}
		}
		out[i] = presented
	}
	return out, nil
}

// FeatureDimension is the sum of per-entry widths plus, for each cross
// pair, the product of the two sides' widths (§4.5).
func (fs *FeatureSet[T]) FeatureDimension(presented []any) int {
	total := 0
	for i, e := range fs.entries {
		total += e.Dimension(presented[i])
	}
	for _, c := range fs.crosses {
		li, ri := fs.index[c.Left], fs.index[c.Right]
		lw := fs.entries[li].Dimension(presented[li])
		rw := fs.entries[ri].Dimension(presented[ri])
		total += lw * rw
	}
	return total
}

// FeatureNames concatenates each entry's names in declared order, followed
// by the cross blocks in the order the crosses were declared (§4.5).
func (fs *FeatureSet[T]) FeatureNames(presented []any) []string {
	names := make([]string, 0, fs.FeatureDimension(presented))
	perEntry := make([][]string, len(fs.entries))
	for i, e := range fs.entries {
		perEntry[i] = e.Names(presented[i])
		names = append(names, perEntry[i]...)
	}
	for _, c := range fs.crosses {
		li, ri := fs.index[c.Left], fs.index[c.Right]
		for _, ln := range perEntry[li] {
			for _, rn := range perEntry[ri] {
				names = append(names, CrossBlockName(ln, rn))
			}
		}
	}
	return names
}

// FeatureValues assembles one record's output via builder (§4.5 "Emit").
// It is a free function, not a method, because Go methods cannot introduce
// a new type parameter (F) beyond the receiver's own.
func FeatureValues[T, F any](fs *FeatureSet[T], raw []any, presented []any, b builder.Builder[F]) F {
	b.Init(fs.FeatureDimension(presented))

	blocks := make(map[string]*recordingSink, len(fs.crosses)*2)
	crossed := fs.crossedNames()

	for i, e := range fs.entries {
		name := e.Name()
		width := e.Dimension(presented[i])
		b.Prepare(name, width)
		if crossed[name] {
			rec := newRecordingSink(b)
			e.BuildFeatures(raw[i], presented[i], rec)
			blocks[name] = rec
		} else {
			e.BuildFeatures(raw[i], presented[i], b)
		}
	}

	for _, c := range fs.crosses {
		li, ri := fs.index[c.Left], fs.index[c.Right]
		lw := fs.entries[li].Dimension(presented[li])
		rw := fs.entries[ri].Dimension(presented[ri])
		width := lw * rw
		if width == 0 {
			continue
		}
		left, right := blocks[c.Left], blocks[c.Right]
		if left.fullySkipped() || right.fullySkipped() {
			b.SkipN(width)
			continue
		}
		leftNames := fs.entries[li].Names(presented[li])
		rightNames := fs.entries[ri].Names(presented[ri])
		for li2, lv := range left.values {
			for ri2, rv := range right.values {
				b.Add(CrossBlockName(leftNames[li2], rightNames[ri2]), c.Combine(lv, rv))
			}
		}
	}

	return b.Result()
}

func (fs *FeatureSet[T]) crossedNames() map[string]bool {
	names := make(map[string]bool, len(fs.crosses)*2)
	for _, c := range fs.crosses {
		names[c.Left] = true
		names[c.Right] = true
	}
	return names
}

// FeatureSettings produces the entry-ordered settings sequence (§4.5,§6).
func (fs *FeatureSet[T]) FeatureSettings(presented []any) settings.Settings {
	out := make(settings.Settings, len(fs.entries))
	for i, e := range fs.entries {
		encoded, err := e.EncodeSettings(presented[i])
		if err != nil {
			// EncodeAggregator failures are a transformer contract bug
			// (encode of a summary just produced by Present must not
			// fail); the core cannot proceed with a partial settings row.
			panic(fmt.Errorf("featureset: encode settings for %q: %w", e.Name(), err))
		}
		out[i] = settings.Entry{Name: e.Name(), Params: e.Params(), Aggregator: encoded}
	}
	return out
}

// DecodeAggregators rebuilds the presented-slot array from settings,
// matching by name. Missing settings for a declared transformer is an
// error (§4.5, §7.2).
func (fs *FeatureSet[T]) DecodeAggregators(s settings.Settings) ([]any, error) {
	byName := s.ByName()
	out := make([]any, len(fs.entries))
	for i, e := range fs.entries {
		row, ok := byName[e.Name()]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrSettingsMissing, e.Name())
		}
		decoded, err := e.DecodeSettings(row.Aggregator)
		if err != nil {
			return nil, &SettingsMismatchError{Transformer: e.Name(), Err: fmt.Errorf("%w: %v", ErrSettingsMalformed, err)}
		}
		out[i] = decoded
	}
	return out, nil
}
