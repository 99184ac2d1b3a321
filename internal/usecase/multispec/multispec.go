// Package multispec implements the multi-spec & multi-extractor usecase
// (C8): bundling several named groups of entries into one union
// featureset.FeatureSet[T] sharing a single extraction pass, then routing
// each entry's emission back to its group's own output vector by an
// injective name -> group_id mapping (spec.md §3 "Group mapping (multi)",
// §4.8).
package multispec

import (
	"errors"
	"fmt"

	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/featureflow/internal/domain/builder"
	"github.com/kailas-cloud/featureflow/internal/domain/collection"
	"github.com/kailas-cloud/featureflow/internal/domain/entry"
	"github.com/kailas-cloud/featureflow/internal/domain/feature"
	"github.com/kailas-cloud/featureflow/internal/domain/featureset"
	ffLog "github.com/kailas-cloud/featureflow/internal/logger"
	"github.com/kailas-cloud/featureflow/internal/settings"
	"github.com/kailas-cloud/featureflow/internal/usecase/extract"
	"github.com/kailas-cloud/featureflow/internal/usecase/specbuilder"
)

// ErrCrossGroupMismatch signals a cross declaration whose two endpoints
// were assigned to different groups; §4.8 requires every cross to stay
// inside one group, and this is rejected at construction, before any data
// is touched.
var ErrCrossGroupMismatch = errors.New("multispec: cross endpoints belong to different groups")

// ErrMissingTemplate signals a group with no builder template supplied to
// FeatureValues/EmitAll.
var ErrMissingTemplate = errors.New("multispec: no builder template for group")

// MultiSpec bundles G named groups of entries into one union
// featureset.FeatureSet[T], remembering each entry's original group in a
// name -> group_id map (§3, §4.8). Construction enforces the same
// uniqueness invariants as a single spec, plus that every cross's two
// endpoints share a group.
type MultiSpec[T any] struct {
	fs         *featureset.FeatureSet[T]
	groupOf    map[string]string
	groupOrder []string
}

// New concatenates each named group's entries and crosses (in group-name
// order, for determinism) into one union spec. Duplicate transformer names
// across groups, unknown cross names, and cross-group crosses all surface
// here, before any data is touched (§7.1).
func New[T any](groups map[string]*specbuilder.Spec[T]) (*MultiSpec[T], error) {
	names := sortedKeys(groups)

	var allEntries []entry.Entry[T]
	var allCrosses []featureset.Cross
	groupOf := make(map[string]string)
	var groupOrder []string

	for _, name := range names {
		spec := groups[name]
		entries := spec.Entries()
		if len(entries) == 0 {
			continue
		}
		groupOrder = append(groupOrder, name)
		for _, e := range entries {
			groupOf[e.Name()] = name
		}
		allEntries = append(allEntries, entries...)
		allCrosses = append(allCrosses, spec.Crosses()...)
	}

	for _, c := range allCrosses {
		if groupOf[c.Left] != groupOf[c.Right] {
			return nil, fmt.Errorf("%w: %q (group %q) x %q (group %q)",
				ErrCrossGroupMismatch, c.Left, groupOf[c.Left], c.Right, groupOf[c.Right])
		}
	}

	fs, err := featureset.New[T](allEntries, allCrosses)
	if err != nil {
		return nil, fmt.Errorf("multispec: %w", err)
	}
	return &MultiSpec[T]{fs: fs, groupOf: groupOf, groupOrder: groupOrder}, nil
}

// Groups returns the distinct group names, in group-id order.
func (m *MultiSpec[T]) Groups() []string {
	return append([]string(nil), m.groupOrder...)
}

// Filter returns a derived MultiSpec retaining only the entries for which
// keep(name) is true, pruning any cross whose endpoint was removed and
// rebuilding the group mapping over the survivors (§4.8 "Filter"). Unlike
// a plain predicate over the union FeatureSet, this produces a fresh,
// independently buildable/replayable MultiSpec: replaying it later via
// FromSettings only needs settings rows for the retained transformers.
func (m *MultiSpec[T]) Filter(keep func(name string) bool) (*MultiSpec[T], error) {
	var entries []entry.Entry[T]
	groupOf := make(map[string]string)
	for _, e := range m.fs.Entries() {
		if !keep(e.Name()) {
			continue
		}
		entries = append(entries, e)
		groupOf[e.Name()] = m.groupOf[e.Name()]
	}

	var crosses []featureset.Cross
	for _, c := range m.fs.Crosses() {
		_, lok := groupOf[c.Left]
		_, rok := groupOf[c.Right]
		if lok && rok {
			crosses = append(crosses, c)
		}
	}

	fs, err := featureset.New[T](entries, crosses)
	if err != nil {
		return nil, fmt.Errorf("multispec: filter: %w", err)
	}

	var groupOrder []string
	seen := make(map[string]bool, len(m.groupOrder))
	for _, e := range entries {
		g := groupOf[e.Name()]
		if !seen[g] {
			seen[g] = true
			groupOrder = append(groupOrder, g)
		}
	}

	return &MultiSpec[T]{fs: fs, groupOf: groupOf, groupOrder: groupOrder}, nil
}

// Fit builds a single Extractor over the union spec, fitting every group's
// entries in one shared reduce pass over dataset (§4.8: "one extraction
// pass", not one pass per group). Logging goes to zap.NewNop(); use
// FitWithLogger to attach a real logger.
func (m *MultiSpec[T]) Fit(dataset collection.Collection[T]) *MultiExtractor[T] {
	return m.FitWithLogger(dataset, zap.NewNop())
}

// FitWithLogger is Fit with an injected logger, so the shared aggregate
// pass across every group logs under one name instead of per-group extract
// calls being indistinguishable from each other.
func (m *MultiSpec[T]) FitWithLogger(dataset collection.Collection[T], log *zap.Logger) *MultiExtractor[T] {
	named := ffLog.ForSpec(log, strings.Join(m.groupOrder, "+")).With(zap.Strings("groups", m.groupOrder))
	return &MultiExtractor[T]{fs: m.fs, ex: extract.NewWithLogger[T](m.fs, dataset, named), groupOf: m.groupOf, groupOrder: m.groupOrder}
}

// FromSettings replays the union spec from one previously fitted settings
// row, without touching any dataset (§4.5 "replay"). The settings row must
// carry an entry for every transformer this MultiSpec still declares;
// callers wanting to replay a subset of transformers should Filter first,
// then replay the filtered MultiSpec against a settings row scoped the
// same way. Logging goes to zap.NewNop(); use FromSettingsWithLogger to
// attach a real logger.
func (m *MultiSpec[T]) FromSettings(s settings.Settings) (*MultiExtractor[T], error) {
	return m.FromSettingsWithLogger(s, zap.NewNop())
}

// FromSettingsWithLogger is FromSettings with an injected logger.
func (m *MultiSpec[T]) FromSettingsWithLogger(s settings.Settings, log *zap.Logger) (*MultiExtractor[T], error) {
	named := ffLog.ForSpec(log, strings.Join(m.groupOrder, "+")).With(zap.Strings("groups", m.groupOrder))
	ex, err := extract.FromSettingsWithLogger[T](m.fs, s, named)
	if err != nil {
		return nil, fmt.Errorf("multispec: %w", err)
	}
	return &MultiExtractor[T]{fs: m.fs, ex: ex, groupOf: m.groupOf, groupOrder: m.groupOrder}, nil
}

// MultiExtractor drives one shared extraction pass over the union spec,
// exposing per-group names/dimensions/emission (§4.8).
type MultiExtractor[T any] struct {
	fs         *featureset.FeatureSet[T]
	ex         *extract.Extractor[T]
	groupOf    map[string]string
	groupOrder []string
}

// Groups returns the distinct group names, in group-id order.
func (mx *MultiExtractor[T]) Groups() []string {
	return append([]string(nil), mx.groupOrder...)
}

// FeatureNames returns each group's fitted, per-column output names,
// keyed by group name (§4.8 "Names and dimensions follow the same
// group-bucketing").
func (mx *MultiExtractor[T]) FeatureNames() (map[string][]string, error) {
	presented, err := mx.ex.Present()
	if err != nil {
		return nil, err
	}
	entries := mx.fs.Entries()
	index := indexByName(entries)

	names := make(map[string][]string, len(mx.groupOrder))
	for _, g := range mx.groupOrder {
		names[g] = nil
	}
	for i, e := range entries {
		g := mx.groupOf[e.Name()]
		names[g] = append(names[g], e.Names(presented[i])...)
	}
	for _, c := range mx.fs.Crosses() {
		g := mx.groupOf[c.Left]
		li, ri := index[c.Left], index[c.Right]
		for _, ln := range entries[li].Names(presented[li]) {
			for _, rn := range entries[ri].Names(presented[ri]) {
				names[g] = append(names[g], featureset.CrossBlockName(ln, rn))
			}
		}
	}
	return names, nil
}

// FeatureDimension returns each group's fitted output width, keyed by
// group name.
func (mx *MultiExtractor[T]) FeatureDimension() (map[string]int, error) {
	names, err := mx.FeatureNames()
	if err != nil {
		return nil, err
	}
	dims := make(map[string]int, len(names))
	for g, ns := range names {
		dims[g] = len(ns)
	}
	return dims, nil
}

// FeatureSettings serializes the union spec's fitted settings as one
// sequence, entry-ordered exactly like a single spec's (§4.5, §6): a
// multi-spec is one FeatureSet underneath, so its settings round-trip is
// the ordinary single-spec one.
func (mx *MultiExtractor[T]) FeatureSettings() (settings.Settings, error) {
	return mx.ex.FeatureSettings()
}

// FeatureValues assembles one record's output across every group,
// dispatching each entry's emission — in the union spec's declared
// order — to its group's builder (§4.8 "Flow per record"). A free
// function, not a method, because Go methods cannot introduce a new type
// parameter (F) beyond the receiver's own.
func FeatureValues[T, F any](mx *MultiExtractor[T], t T, templates map[string]builder.Builder[F]) (map[string]F, error) {
	presented, err := mx.ex.Present()
	if err != nil {
		return nil, err
	}
	raw := mx.fs.UnsafeGet(t)
	return assembleGrouped[T, F](mx, raw, presented, templates)
}

// EmitAll runs FeatureValues over every element of dataset, returning each
// group's results as its own slice, in dataset order.
func EmitAll[T, F any](mx *MultiExtractor[T], dataset collection.Collection[T], templates map[string]builder.Builder[F]) (map[string][]F, error) {
	presented, err := mx.ex.Present()
	if err != nil {
		return nil, err
	}

	hint := 0
	if n := dataset.Len(); n >= 0 {
		hint = n
	}
	out := make(map[string][]F, len(mx.groupOrder))
	for _, g := range mx.groupOrder {
		out[g] = make([]F, 0, hint)
	}

	var forEachErr error
	dataset.ForEach(func(t T) {
		if forEachErr != nil {
			return
		}
		raw := mx.fs.UnsafeGet(t)
		results, err := assembleGrouped[T, F](mx, raw, presented, templates)
		if err != nil {
			forEachErr = err
			return
		}
		for g, v := range results {
			out[g] = append(out[g], v)
		}
	})
	if forEachErr != nil {
		return nil, forEachErr
	}
	return out, nil
}

// assembleGrouped implements §4.8's per-record flow: compute each group's
// width, Init a fresh builder per group from templates, then walk entries
// in declared order dispatching each one's BuildFeatures to its group's
// builder. Crossed entries buffer through a groupRecordingSink exactly the
// way featureset.FeatureValues buffers a single spec's crossed blocks, so
// the multi path's per-group output matches the single-spec union output
// up to permutation by group (§8 "Multi routing").
func assembleGrouped[T, F any](mx *MultiExtractor[T], raw, presented []any, templates map[string]builder.Builder[F]) (map[string]F, error) {
	entries := mx.fs.Entries()
	crosses := mx.fs.Crosses()
	index := indexByName(entries)

	widths := make(map[string]int, len(mx.groupOrder))
	for i, e := range entries {
		widths[mx.groupOf[e.Name()]] += e.Dimension(presented[i])
	}
	for _, c := range crosses {
		li, ri := index[c.Left], index[c.Right]
		lw := entries[li].Dimension(presented[li])
		rw := entries[ri].Dimension(presented[ri])
		widths[mx.groupOf[c.Left]] += lw * rw
	}

	builders := make(map[string]builder.Builder[F], len(mx.groupOrder))
	for _, g := range mx.groupOrder {
		tmpl, ok := templates[g]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingTemplate, g)
		}
		b := tmpl.NewBuilder()
		b.Init(widths[g])
		builders[g] = b
	}

	crossed := make(map[string]bool, len(crosses)*2)
	for _, c := range crosses {
		crossed[c.Left] = true
		crossed[c.Right] = true
	}

	blocks := make(map[string]*groupRecordingSink, len(crosses)*2)
	for i, e := range entries {
		name := e.Name()
		b := builders[mx.groupOf[name]]
		width := e.Dimension(presented[i])
		b.Prepare(name, width)
		if crossed[name] {
			rec := newGroupRecordingSink(b)
			e.BuildFeatures(raw[i], presented[i], rec)
			blocks[name] = rec
		} else {
			e.BuildFeatures(raw[i], presented[i], b)
		}
	}

	for _, c := range crosses {
		b := builders[mx.groupOf[c.Left]]
		li, ri := index[c.Left], index[c.Right]
		lw := entries[li].Dimension(presented[li])
		rw := entries[ri].Dimension(presented[ri])
		width := lw * rw
		if width == 0 {
			continue
		}
		left, right := blocks[c.Left], blocks[c.Right]
		if left.fullySkipped() || right.fullySkipped() {
			b.SkipN(width)
			continue
		}
		leftNames := entries[li].Names(presented[li])
		rightNames := entries[ri].Names(presented[ri])
		for li2, lv := range left.values {
			for ri2, rv := range right.values {
				b.Add(featureset.CrossBlockName(leftNames[li2], rightNames[ri2]), c.Combine(lv, rv))
			}
		}
	}

	out := make(map[string]F, len(mx.groupOrder))
	for _, g := range mx.groupOrder {
		out[g] = builders[g].Result()
	}
	return out, nil
}

func indexByName[T any](entries []entry.Entry[T]) map[string]int {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name()] = i
	}
	return index
}

func sortedKeys[T any](m map[string]*specbuilder.Spec[T]) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

// sortStrings is a tiny insertion sort: the group counts multispec deals
// with are small enough that pulling in "sort" for one call site isn't
// worth it, and this keeps the ordering dependency-free and obviously
// stable.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// groupRecordingSink is featureset's recordingSink, duplicated here rather
// than exported: it buffers one crossed block's emissions so the cross
// term can be computed without re-invoking the transformer, but the group
// it buffers into is a group's builder.Builder[F], not a whole spec's.
type groupRecordingSink struct {
	inner  feature.Sink
	values []float64
	anyAdd bool
}

func newGroupRecordingSink(inner feature.Sink) *groupRecordingSink {
	return &groupRecordingSink{inner: inner}
}

func (r *groupRecordingSink) Add(name string, value float64) {
	r.inner.Add(name, value)
	r.values = append(r.values, value)
	r.anyAdd = true
}

func (r *groupRecordingSink) Skip() {
	r.inner.Skip()
	r.values = append(r.values, math.NaN())
}

func (r *groupRecordingSink) SkipN(n int) {
	r.inner.SkipN(n)
	for i := 0; i < n; i++ {
		r.values = append(r.values, math.NaN())
	}
}

func (r *groupRecordingSink) fullySkipped() bool {
	return !r.anyAdd
}
