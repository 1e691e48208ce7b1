package wiktextract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func compiledFilter(t *testing.T, name string, excluded, offensive RuleSet) Filter {
	t.Helper()
	if err := excluded.compile(); err != nil {
		t.Fatalf("compiling excluded rule-set: %v", err)
	}
	if err := offensive.compile(); err != nil {
		t.Fatalf("compiling offensive rule-set: %v", err)
	}
	return Filter{Name: name, Excluded: excluded, Offensive: offensive}
}

func newTestConfig(t *testing.T, filters ...Filter) *Config {
	t.Helper()
	return &Config{Filters: filters}
}

func runPreprocessor(t *testing.T, lines []string, cfg *Config, filterName string) *Preprocessor {
	t.Helper()
	src := filepath.Join(t.TempDir(), "dump.jsonl")
	if err := writeLines(src, lines); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	dst := filepath.Join(t.TempDir(), "out.fldic")
	p := New(cfg, dst)
	if err := p.Run(src, filterName); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return p
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644)
}

func TestFormOfInheritance(t *testing.T) {
	cfg := newTestConfig(t, compiledFilter(t, "root", RuleSet{}, RuleSet{}))
	lines := []string{
		`{"word":"cat","pos":"n","senses":[{}]}`,
		`{"word":"cats","pos":"n","senses":[{"form_of":[{"word":"cat"}]}]}`,
	}
	p := runPreprocessor(t, lines, cfg, "root")

	if !p.Dict.Contains("cat") {
		t.Fatal("expected cat to be kept")
	}
	if !p.Dict.Contains("cats") {
		t.Fatal("expected cats to be kept")
	}

	catNode := p.Dict.Resolve("cat")
	catsNode := p.Dict.Resolve("cats")
	if catNode == nil || catsNode == nil {
		t.Fatal("expected both cat and cats to resolve")
	}

	// cats' own sense contributes normal_count=1 at weight 1 (depth 0);
	// cat's sense contributes normal_count=1 at weight 2 (depth 1, form_of).
	wantCatsScore := 1*1 + 1*2
	if catsNode.Properties().AbsoluteScore != wantCatsScore {
		t.Errorf("cats absolute_score = %d, want %d", catsNode.Properties().AbsoluteScore, wantCatsScore)
	}
	if catNode.Properties().AbsoluteScore != 1 {
		t.Errorf("cat absolute_score = %d, want 1", catNode.Properties().AbsoluteScore)
	}
}

func TestExclusionRequiresBothEvaluators(t *testing.T) {
	// "misspelling" tagged sense alone would exclude the plain evaluator,
	// but the form-of-aware evaluator also sees the base word's clean
	// sense, so per the design note the word must survive since not both
	// evaluators agree on exclusion.
	excluded := RuleSet{Tags: []string{"misspelling"}}
	cfg := newTestConfig(t, compiledFilter(t, "root", excluded, RuleSet{}))

	lines := []string{
		`{"word":"base","pos":"n","senses":[{}]}`,
		`{"word":"baes","pos":"n","senses":[{"tags":["misspelling"],"form_of":[{"word":"base"}]}]}`,
	}
	p := runPreprocessor(t, lines, cfg, "root")

	if !p.Dict.Contains("base") {
		t.Fatal("expected base to be kept")
	}
	if !p.Dict.Contains("baes") {
		t.Error("expected baes to survive: plain evaluator excludes it but form-of-aware does not, so both caps do not agree")
	}
}

func TestExclusionWhenBothEvaluatorsAgree(t *testing.T) {
	excluded := RuleSet{Tags: []string{"obsolete"}}
	cfg := newTestConfig(t, compiledFilter(t, "root", excluded, RuleSet{}))

	lines := []string{
		`{"word":"thee","pos":"pron","senses":[{"tags":["obsolete"]}]}`,
	}
	p := runPreprocessor(t, lines, cfg, "root")

	if p.Dict.Contains("thee") {
		t.Error("expected thee excluded when both plain and form-of-aware evaluators agree")
	}
	if p.Stats.TotalWordsExcluded != 1 {
		t.Errorf("TotalWordsExcluded = %d, want 1", p.Stats.TotalWordsExcluded)
	}
}

func TestOffensiveWordKeptAndFlagged(t *testing.T) {
	offensive := RuleSet{Tags: []string{"vulgar"}}
	cfg := newTestConfig(t, compiledFilter(t, "root", RuleSet{}, offensive))

	lines := []string{
		`{"word":"darn","pos":"intj","senses":[{"tags":["vulgar"]}]}`,
	}
	p := runPreprocessor(t, lines, cfg, "root")

	node := p.Dict.Resolve("darn")
	if node == nil {
		t.Fatal("expected darn to be kept")
	}
	if !node.Properties().IsPossiblyOffensive {
		t.Error("expected darn marked possibly offensive")
	}
}

func TestWordFailingGraphemeValidationExcluded(t *testing.T) {
	cfg := newTestConfig(t, compiledFilter(t, "root", RuleSet{}, RuleSet{}))
	lines := []string{
		`{"word":"100","pos":"num","senses":[{}]}`,
	}
	p := runPreprocessor(t, lines, cfg, "root")

	if p.Dict.Contains("100") {
		t.Error("expected non-alphabetic word to be excluded by grapheme validation")
	}
}

func TestFilterMonotonicity(t *testing.T) {
	lines := []string{
		`{"word":"zorp","pos":"n","senses":[{"tags":["rare"]}]}`,
	}

	permissive := newTestConfig(t, compiledFilter(t, "root", RuleSet{}, RuleSet{}))
	stricter := newTestConfig(t, compiledFilter(t, "root", RuleSet{Tags: []string{"rare"}}, RuleSet{}))

	keptUnderPermissive := runPreprocessor(t, lines, permissive, "root").Dict.Contains("zorp")
	keptUnderStricter := runPreprocessor(t, lines, stricter, "root").Dict.Contains("zorp")

	if !keptUnderPermissive {
		t.Fatal("expected zorp kept under the permissive filter")
	}
	if keptUnderStricter {
		t.Error("adding a matching tag to excluded should never keep a word that a stricter filter drops")
	}
}

func TestProjectSpecificWordsInsertedWithScoreOne(t *testing.T) {
	cfg := &Config{ProjectSpecificWords: []string{"FlorisBoard"}}
	p := runPreprocessor(t, nil, cfg, "root")

	node := p.Dict.Resolve("FlorisBoard")
	if node == nil {
		t.Fatal("expected project-specific word inserted")
	}
	if node.Properties().AbsoluteScore != 1 {
		t.Errorf("absolute_score = %d, want 1", node.Properties().AbsoluteScore)
	}
}

func TestUnknownFilterFallsBackToRoot(t *testing.T) {
	root := compiledFilter(t, "root", RuleSet{Tags: []string{"obsolete"}}, RuleSet{})
	cfg := newTestConfig(t, root)

	lines := []string{`{"word":"relic","pos":"n","senses":[{"tags":["obsolete"]}]}`}
	p := runPreprocessor(t, lines, cfg, "nonexistent-filter-name")

	if p.Dict.Contains("relic") {
		t.Error("expected unknown filter name to fall back to root, which excludes obsolete-tagged words")
	}
}
