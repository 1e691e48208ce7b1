package grapheme

import (
	"reflect"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"ascii", "cat", []string{"c", "a", "t"}},
		{"combining", "éclair", []string{"é", "c", "l", "a", "i", "r"}},
		{"emoji_zwj", "family: \U0001F468‍\U0001F469‍\U0001F467", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.in)
			if tt.want != nil && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if Join(got) != tt.in {
				t.Errorf("Join(Segment(%q)) = %q, want %q", tt.in, Join(got), tt.in)
			}
		})
	}
}

func TestCaseFolding(t *testing.T) {
	if got := ToLower("HELLO", "en"); got != "hello" {
		t.Errorf("ToLower(HELLO) = %q, want hello", got)
	}
	if got := ToUpper("hello", "en"); got != "HELLO" {
		t.Errorf("ToUpper(hello) = %q, want HELLO", got)
	}
	if got := ToLower("", "en"); got != "" {
		t.Errorf("ToLower(empty) = %q, want empty", got)
	}
}

func TestOppositeCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A", "a"},
		{"a", "A"},
		{"5", "5"},
	}
	for _, tt := range tests {
		if got := OppositeCase(tt.in, "en"); got != tt.want {
			t.Errorf("OppositeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateLocaleTag(t *testing.T) {
	if !ValidateLocaleTag("en-US") {
		t.Error("expected en-US to validate")
	}
	if !ValidateLocaleTag("en") {
		t.Error("expected en to validate")
	}
	if ValidateLocaleTag("!!!not-a-tag!!!") {
		t.Error("expected malformed tag to fail validation")
	}
}

func TestSplitByGrapheme(t *testing.T) {
	got := SplitByGrapheme("a,b,c", ",")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitByGrapheme = %v, want %v", got, want)
	}
}
