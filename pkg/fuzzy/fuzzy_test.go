package fuzzy

import (
	"strings"
	"testing"

	"github.com/florisboard/nlp/internal/grapheme"
	"github.com/florisboard/nlp/internal/trie"
	"github.com/florisboard/nlp/pkg/keyproximity"
)

func insertWord(root *trie.Node, word string, score int, offensive bool) {
	n := root.Insert(grapheme.Segment(word))
	n.SetProperties(trie.Properties{AbsoluteScore: score, IsPossiblyOffensive: offensive})
}

func searchAll(sr *Searcher, root *trie.Node, searchType SearchType, maxCost int, flags Flags, word string) map[string]int {
	out := make(map[string]int)
	sr.Search(root, searchType, maxCost, flags, word, func(r Result) {
		out[r.Text] = r.EditDistance
	})
	return out
}

func TestExactMatchZeroCost(t *testing.T) {
	root := trie.New()
	insertWord(root, "hello", 1000, false)
	sr := New(nil, "en")

	results := searchAll(sr, root, Proximity, MaxCost, Flags{}, "hello")
	if d, ok := results["hello"]; !ok || d != 0 {
		t.Fatalf("expected hello at cost 0, got %v", results)
	}
}

func TestProximityWithoutSelfSuppressesExactMatch(t *testing.T) {
	root := trie.New()
	insertWord(root, "hello", 1000, false)
	sr := New(nil, "en")

	results := searchAll(sr, root, ProximityWithoutSelf, MaxCost, Flags{}, "hello")
	if _, ok := results["hello"]; ok {
		t.Fatalf("expected self-match suppressed, got %v", results)
	}
}

func TestTransposition(t *testing.T) {
	root := trie.New()
	insertWord(root, "hello", 1000, false)
	sr := New(nil, "en")

	results := searchAll(sr, root, ProximityWithoutSelf, MaxCost, Flags{}, "helol")
	d, ok := results["hello"]
	if !ok {
		t.Fatalf("expected hello to be found for typo helol, got %v", results)
	}
	if d != CostTranspose+PenaltyDefault {
		t.Errorf("transposition cost = %d, want %d", d, CostTranspose+PenaltyDefault)
	}
}

func TestOppositeCaseSubstitution(t *testing.T) {
	root := trie.New()
	insertWord(root, "Hello", 1000, false)
	sr := New(nil, "en")

	results := searchAll(sr, root, ProximityWithoutSelf, MaxCost, Flags{}, "hello")
	d, ok := results["Hello"]
	if !ok {
		t.Fatalf("expected Hello to be found for hello, got %v", results)
	}
	if d != CostIsOppositeCase {
		t.Errorf("opposite-case cost = %d, want %d", d, CostIsOppositeCase)
	}
}

func TestOffensiveFilteredUnlessAllowed(t *testing.T) {
	root := trie.New()
	insertWord(root, "fuck", 10, true)
	insertWord(root, "duck", 900, false)
	sr := New(nil, "en")

	blocked := searchAll(sr, root, ProximityWithoutSelf, MaxCost, Flags{AllowPossiblyOffensive: false}, "fck")
	if _, ok := blocked["fuck"]; ok {
		t.Fatalf("expected fuck to be excluded when offensive not allowed, got %v", blocked)
	}
	if _, ok := blocked["duck"]; !ok {
		t.Fatalf("expected duck to be found, got %v", blocked)
	}

	allowed := searchAll(sr, root, ProximityWithoutSelf, MaxCost, Flags{AllowPossiblyOffensive: true}, "fck")
	if _, ok := allowed["fuck"]; !ok {
		t.Fatalf("expected fuck to be found when offensive is allowed, got %v", allowed)
	}
}

func TestProximitySubstitution(t *testing.T) {
	root := trie.New()
	insertWord(root, "cat", 500, false)
	km, err := keyproximity.Decode(strings.NewReader(`{"s": ["a"]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sr := New(km, "en")

	results := searchAll(sr, root, ProximityWithoutSelf, MaxCost, Flags{}, "cst")
	d, ok := results["cat"]
	if !ok {
		t.Fatalf("expected cat to be found for cst, got %v", results)
	}
	if d != CostSubstituteInProximity {
		t.Errorf("proximity substitution cost = %d, want %d", d, CostSubstituteInProximity)
	}
}

func TestHiddenWordNeverEmitted(t *testing.T) {
	root := trie.New()
	n := root.Insert(grapheme.Segment("secret"))
	n.SetProperties(trie.Properties{AbsoluteScore: 1, IsHiddenByUser: true})
	sr := New(nil, "en")

	results := searchAll(sr, root, ProximityOrPrefix, MaxCost, Flags{}, "secre")
	if _, ok := results["secret"]; ok {
		t.Fatalf("expected hidden word to never be emitted, got %v", results)
	}
}

func TestPrefixCompletion(t *testing.T) {
	root := trie.New()
	insertWord(root, "hello", 1000, false)
	insertWord(root, "help", 500, false)
	insertWord(root, "helm", 200, false)
	sr := New(nil, "en")

	results := searchAll(sr, root, ProximityOrPrefix, MaxCost, Flags{}, "hel")
	for _, w := range []string{"hello", "help", "helm"} {
		if _, ok := results[w]; !ok {
			t.Errorf("expected %q among completions of hel, got %v", w, results)
		}
	}
}
