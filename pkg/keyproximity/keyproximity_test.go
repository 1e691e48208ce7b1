package keyproximity

import (
	"strings"
	"testing"
)

func TestDecodeAndIsInProximity(t *testing.T) {
	src := `{"a": ["q","w","s","z"], "s": ["a","w","e","d","x","z"]}`
	m, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !m.IsInProximity("q", "a") {
		t.Error("expected q to be in proximity of a")
	}
	if m.IsInProximity("q", "s") {
		t.Error("did not expect q to be in proximity of s")
	}
	if m.IsInProximity("a", "missing-key") {
		t.Error("expected unknown key to report no proximity")
	}
}

func TestEmptyMap(t *testing.T) {
	m := Empty()
	if m.IsInProximity("a", "s") {
		t.Error("expected empty map to report no proximity")
	}
}
