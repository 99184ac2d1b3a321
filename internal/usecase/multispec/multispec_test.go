package multispec_test

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/featureflow/internal/domain/builder"
	"github.com/kailas-cloud/featureflow/internal/domain/collection"
	"github.com/kailas-cloud/featureflow/internal/usecase/multispec"
	"github.com/kailas-cloud/featureflow/internal/usecase/specbuilder"
	"github.com/kailas-cloud/featureflow/pkg/transformers"
)

type record struct {
	a float64
	b float64
}

func buildGroups(t *testing.T) map[string]*specbuilder.Spec[record] {
	t.Helper()
	g0 := specbuilder.Of[record]()
	transformers.WireIdentity(g0, func(r record) float64 { return r.a }, transformers.NewIdentity("id"))

	g1 := specbuilder.Of[record]()
	transformers.WireIdentity(g1, func(r record) float64 { return r.b }, transformers.NewIdentity("id2"))

	return map[string]*specbuilder.Spec[record]{"g0": g0, "g1": g1}
}

func dataset() collection.Collection[record] {
	return collection.FromSlice([]record{{a: 1.0, b: 2.0}})
}

// TestUnionSpecEquivalence exercises spec.md §8 testable property 6: two
// one-entry specs grouped {g0: id, g1: id2}, one record, output per record
// is [[1.0], [2.0]] keyed by group.
func TestUnionSpecEquivalence(t *testing.T) {
	ms, err := multispec.New(buildGroups(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mx := ms.Fit(dataset())

	names, err := mx.FeatureNames()
	if err != nil {
		t.Fatalf("FeatureNames: %v", err)
	}
	if got := names["g0"]; len(got) != 1 || got[0] != "id" {
		t.Fatalf("g0 names = %v, want [id]", got)
	}
	if got := names["g1"]; len(got) != 1 || got[0] != "id2" {
		t.Fatalf("g1 names = %v, want [id2]", got)
	}

	templates := map[string]builder.Builder[[]float64]{
		"g0": builder.NewDense(),
		"g1": builder.NewDense(),
	}

	out, err := multispec.FeatureValues[record, []float64](mx, record{a: 1.0, b: 2.0}, templates)
	if err != nil {
		t.Fatalf("FeatureValues: %v", err)
	}
	if got := out["g0"]; len(got) != 1 || got[0] != 1.0 {
		t.Fatalf("g0 output = %v, want [1.0]", got)
	}
	if got := out["g1"]; len(got) != 1 || got[0] != 2.0 {
		t.Fatalf("g1 output = %v, want [2.0]", got)
	}
}

func TestEmitAllRoutesEveryGroup(t *testing.T) {
	ms, err := multispec.New(buildGroups(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ds := collection.FromSlice([]record{{a: 1.0, b: 2.0}, {a: 3.0, b: 4.0}})
	mx := ms.Fit(ds)

	templates := map[string]builder.Builder[[]float64]{
		"g0": builder.NewDense(),
		"g1": builder.NewDense(),
	}
	out, err := multispec.EmitAll[record, []float64](mx, ds, templates)
	if err != nil {
		t.Fatalf("EmitAll: %v", err)
	}
	if len(out["g0"]) != 2 || out["g0"][0][0] != 1.0 || out["g0"][1][0] != 3.0 {
		t.Fatalf("g0 emissions = %v", out["g0"])
	}
	if len(out["g1"]) != 2 || out["g1"][0][0] != 2.0 || out["g1"][1][0] != 4.0 {
		t.Fatalf("g1 emissions = %v", out["g1"])
	}
}

func TestFilterPrunesIndividualEntries(t *testing.T) {
	groups := buildGroups(t)
	g0 := groups["g0"]
	transformers.WireIdentity(g0, func(r record) float64 { return r.a }, transformers.NewIdentity("id_extra"))

	ms, err := multispec.New(groups)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	filtered, err := ms.Filter(func(name string) bool { return name != "id_extra" })
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	mx := filtered.Fit(dataset())
	names, err := mx.FeatureNames()
	if err != nil {
		t.Fatalf("FeatureNames: %v", err)
	}
	if got := names["g0"]; len(got) != 1 || got[0] != "id" {
		t.Fatalf("g0 names after filter = %v, want [id]", got)
	}
	if got := names["g1"]; len(got) != 1 || got[0] != "id2" {
		t.Fatalf("g1 names after filter = %v, want [id2]", got)
	}
}

func TestCrossGroupMismatchRejectedAtConstruction(t *testing.T) {
	groups := buildGroups(t)
	groups["g0"].Cross("id", "id2", func(l, r float64) float64 { return l * r })

	_, err := multispec.New(groups)
	if !errors.Is(err, multispec.ErrCrossGroupMismatch) {
		t.Fatalf("New: got %v, want ErrCrossGroupMismatch", err)
	}
}

func TestSameGroupCrossSurvivesFilter(t *testing.T) {
	groups := buildGroups(t)
	g0 := groups["g0"]
	transformers.WireIdentity(g0, func(r record) float64 { return r.a }, transformers.NewIdentity("id_same"))
	g0.Cross("id", "id_same", func(l, r float64) float64 { return l + r })

	ms, err := multispec.New(groups)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	filtered, err := ms.Filter(func(name string) bool { return name != "id2" })
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}

	mx := filtered.Fit(dataset())
	names, err := mx.FeatureNames()
	if err != nil {
		t.Fatalf("FeatureNames: %v", err)
	}
	want := []string{"id", "id_same", "id_x_id_same"}
	got := names["g0"]
	if len(got) != len(want) {
		t.Fatalf("g0 names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("g0 names = %v, want %v", got, want)
		}
	}
}

func TestFromSettingsReplaysWithoutDataset(t *testing.T) {
	ms, err := multispec.New(buildGroups(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mx := ms.Fit(dataset())
	fitted, err := mx.FeatureSettings()
	if err != nil {
		t.Fatalf("FeatureSettings: %v", err)
	}

	replayed, err := ms.FromSettings(fitted)
	if err != nil {
		t.Fatalf("FromSettings: %v", err)
	}

	names, err := replayed.FeatureNames()
	if err != nil {
		t.Fatalf("FeatureNames: %v", err)
	}
	if got := names["g0"]; len(got) != 1 || got[0] != "id" {
		t.Fatalf("g0 names after replay = %v, want [id]", got)
	}
}

func TestFilterThenFromSettingsIsSubsetReplay(t *testing.T) {
	ms, err := multispec.New(buildGroups(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mx := ms.Fit(dataset())
	fitted, err := mx.FeatureSettings()
	if err != nil {
		t.Fatalf("FeatureSettings: %v", err)
	}

	filtered, err := ms.Filter(func(name string) bool { return name == "id" })
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	replayed, err := filtered.FromSettings(fitted)
	if err != nil {
		t.Fatalf("FromSettings: %v", err)
	}

	if got := replayed.Groups(); len(got) != 1 || got[0] != "g0" {
		t.Fatalf("Groups after subset replay = %v, want [g0]", got)
	}
}
