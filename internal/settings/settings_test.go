package settings

import "testing"

func strPtr(s string) *string { return &s }

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	s := Settings{
		{Name: "age_scaler", Params: map[string]string{"kind": "minmax"}, Aggregator: strPtr("18,65")},
		{Name: "country_encoder", Params: nil, Aggregator: nil},
	}

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("len(decoded) = %d; want 2", len(decoded))
	}
	if decoded[0].Name != "age_scaler" || *decoded[0].Aggregator != "18,65" {
		t.Fatalf("decoded[0] = %+v", decoded[0])
	}
	if decoded[1].Aggregator != nil {
		t.Fatalf("decoded[1].Aggregator = %v; want nil", decoded[1].Aggregator)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	if _, err := Unmarshal([]byte("not json")); err == nil {
		t.Fatal("Unmarshal accepted malformed JSON")
	}
}

func TestByName(t *testing.T) {
	s := Settings{
		{Name: "a", Aggregator: strPtr("1")},
		{Name: "b", Aggregator: strPtr("2")},
	}
	byName := s.ByName()
	if len(byName) != 2 {
		t.Fatalf("len(byName) = %d; want 2", len(byName))
	}
	if byName["a"].Aggregator == nil || *byName["a"].Aggregator != "1" {
		t.Fatalf("byName[a] = %+v", byName["a"])
	}
}
