package feature

import "testing"

func TestStatelessAggregatorIsIdentityOnUnit(t *testing.T) {
	agg := Stateless[string]()

	state := agg.Prepare("anything")
	if state != (Unit{}) {
		t.Fatalf("Prepare = %v; want Unit{}", state)
	}

	combined := agg.Combine(Unit{}, Unit{})
	if combined != (Unit{}) {
		t.Fatalf("Combine = %v; want Unit{}", combined)
	}

	presented, err := agg.Present(Unit{})
	if err != nil {
		t.Fatalf("Present returned error: %v", err)
	}
	if presented != (Unit{}) {
		t.Fatalf("Present = %v; want Unit{}", presented)
	}
}
