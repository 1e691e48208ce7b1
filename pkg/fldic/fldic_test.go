package fldic

import (
	"strings"
	"testing"

	"github.com/florisboard/nlp/internal/grapheme"
	"github.com/florisboard/nlp/internal/trie"
)

func buildSample() (*trie.Node, map[string]string) {
	root := trie.New()
	hello := root.Insert(grapheme.Segment("hello"))
	hello.SetProperties(trie.Properties{AbsoluteScore: 1000})
	world := hello.SubsequentWordsOrCreate().Insert(grapheme.Segment("world"))
	world.SetProperties(trie.Properties{AbsoluteScore: 50})
	fuck := root.Insert(grapheme.Segment("fuck"))
	fuck.SetProperties(trie.Properties{AbsoluteScore: 10, IsPossiblyOffensive: true})
	shortcuts := map[string]string{"brb": "be right back"}
	return root, shortcuts
}

func TestRoundTrip(t *testing.T) {
	root, shortcuts := buildSample()
	header := Header{Schema: DefaultSchema, Name: "test", Locales: []string{"en"}, GeneratedBy: "unit-test"}

	var buf strings.Builder
	if err := Serialize(&buf, header, root, shortcuts); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	root2 := trie.New()
	shortcuts2 := make(map[string]string)
	header2, err := Deserialize(strings.NewReader(buf.String()), "test.fldic", root2, shortcuts2)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if header2.Name != header.Name || header2.GeneratedBy != header.GeneratedBy {
		t.Errorf("header mismatch: %+v vs %+v", header2, header)
	}
	if len(header2.Locales) != 1 || header2.Locales[0] != "en" {
		t.Errorf("locales mismatch: %v", header2.Locales)
	}

	helloNode := root2.Resolve(grapheme.Segment("hello"))
	if helloNode == nil || helloNode.Properties().AbsoluteScore != 1000 {
		t.Fatal("expected hello to round-trip with score 1000")
	}
	sub := helloNode.SubsequentWordsOrNil()
	if sub == nil || sub.Resolve(grapheme.Segment("world")) == nil {
		t.Fatal("expected hello->world bigram to round-trip")
	}

	fuckNode := root2.Resolve(grapheme.Segment("fuck"))
	if fuckNode == nil || !fuckNode.Properties().IsPossiblyOffensive {
		t.Fatal("expected fuck to round-trip with offensive flag")
	}

	if shortcuts2["brb"] != "be right back" {
		t.Errorf("expected shortcut round-trip, got %v", shortcuts2)
	}
}

func TestDeserializeFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"level_too_deep", "\n[words]\n" + strings.Repeat("\t", 8) + "x\t1\n"},
		{"level_jump", "\n[words]\nhello\t1\n\t\t\tworld\t1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := trie.New()
			_, err := Deserialize(strings.NewReader(tt.body), "bad.fldic", root, map[string]string{})
			if err == nil {
				t.Fatal("expected a SerializationError")
			}
			if _, ok := err.(*SerializationError); !ok {
				t.Fatalf("expected *SerializationError, got %T", err)
			}
		})
	}
}
