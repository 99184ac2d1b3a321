package settings

import "testing"

func TestMergePatchOverridesField(t *testing.T) {
	base := []byte(`[{"name":"age_scaler","params":{"kind":"minmax"},"aggregators":"18,65"}]`)
	patch := []byte(`[{"name":"age_scaler","params":{"kind":"standard"}}]`)

	merged, err := MergePatch(base, patch)
	if err != nil {
		t.Fatalf("MergePatch returned error: %v", err)
	}

	s, err := Unmarshal(merged)
	if err != nil {
		t.Fatalf("Unmarshal(merged) returned error: %v", err)
	}
	if len(s) != 1 {
		t.Fatalf("len(s) = %d; want 1", len(s))
	}
	if s[0].Params["kind"] != "standard" {
		t.Fatalf("params[kind] = %q; want standard", s[0].Params["kind"])
	}
	if s[0].Aggregator == nil || *s[0].Aggregator != "18,65" {
		t.Fatal("merge patch dropped the untouched aggregators field")
	}
}

func TestMergePatchInvalidJSON(t *testing.T) {
	if _, err := MergePatch([]byte("not json"), []byte("{}")); err == nil {
		t.Fatal("MergePatch accepted malformed base JSON")
	}
}
