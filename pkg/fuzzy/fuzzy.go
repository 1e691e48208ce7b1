// Package fuzzy implements a Unicode-aware Damerau-Levenshtein variant
// that walks a trie incrementally, maintaining a dynamic-programming
// matrix row per prefix depth with transposition, opposite-case, and
// keyboard-proximity substitutions, early-terminating on branches whose DP
// row has reached the cost bound.
package fuzzy

import (
	"github.com/florisboard/nlp/internal/grapheme"
	"github.com/florisboard/nlp/internal/trie"
	"github.com/florisboard/nlp/pkg/keyproximity"
)

// SearchType selects the self-exclusion / prefix-completion behavior of a
// search.
type SearchType int

const (
	// Proximity reports any terminal whose cost is within the bound.
	Proximity SearchType = iota
	// ProximityWithoutSelf is Proximity, but never emits a candidate equal
	// to the query.
	ProximityWithoutSelf
	// ProximityOrPrefix emits exactly as Proximity does. Completions longer
	// than the query are reached only through CostInsert per extra grapheme
	// within the bound; there is no separate prefix-match rule.
	ProximityOrPrefix
)

// Cost table constants, fixed by the reference algorithm.
const (
	CostIsEqual               = 0
	CostIsOppositeCase        = 1
	CostInsert                = 2
	CostDelete                = 2
	CostSubstituteDefault     = 2
	CostSubstituteInProximity = 1
	CostTranspose             = 1
	PenaltyStartOfStr         = 2
	PenaltyDefault            = 0
	// MaxCost is the default distance bound used by spell/suggest.
	MaxCost = 6
)

// Flags gates policy decisions applied during emission.
type Flags struct {
	AllowPossiblyOffensive bool
}

// Result is one emitted candidate.
type Result struct {
	Text         string
	Node         *trie.Node
	EditDistance int
}

// Searcher runs fuzzy searches against tries under a fixed locale and
// key-proximity map.
type Searcher struct {
	KeyProximity *keyproximity.Map
	LocaleTag    string
}

// New returns a Searcher. A nil keyProximity is equivalent to an empty map
// (no proximity-aware substitutions).
func New(keyProximity *keyproximity.Map, localeTag string) *Searcher {
	if keyProximity == nil {
		keyProximity = keyproximity.Empty()
	}
	return &Searcher{KeyProximity: keyProximity, LocaleTag: localeTag}
}

// state holds the DP matrix and query-derived lookup tables for a single
// search invocation.
type state struct {
	wordChars         []string
	wordCharsOpposite []string
	prefixChars       []string
	distances         [][]int
	maxCost           int
	keyProximity      *keyproximity.Map
}

func newState(word string, maxCost int, keyProximity *keyproximity.Map, localeTag string) *state {
	graphemes := grapheme.Segment(word)
	wordChars := make([]string, len(graphemes)+1)
	wordCharsOpposite := make([]string, len(graphemes)+1)
	for i, g := range graphemes {
		wordChars[i+1] = g
		wordCharsOpposite[i+1] = grapheme.OppositeCase(g, localeTag)
	}
	s := &state{
		wordChars:         wordChars,
		wordCharsOpposite: wordCharsOpposite,
		maxCost:           maxCost,
		keyProximity:      keyProximity,
	}
	s.setPrefixCharAt(0, "")
	return s
}

// queryLen is W, the query's grapheme count (excluding the sentinel).
func (s *state) queryLen() int {
	return len(s.wordChars) - 1
}

func (s *state) ensureCapacity(prefixIndex int) {
	for len(s.prefixChars) <= prefixIndex {
		s.prefixChars = append(s.prefixChars, "")
	}
	for len(s.distances) <= prefixIndex {
		s.distances = append(s.distances, make([]int, len(s.wordChars)))
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// setPrefixCharAt extends the trie path by one grapheme g at depth p and
// computes the new DP row, per the recurrence in the fuzzy search engine
// design.
func (s *state) setPrefixCharAt(p int, g string) {
	s.ensureCapacity(p)
	s.prefixChars[p] = g
	s.distances[p][0] = p * CostInsert

	if p == 0 {
		for i := 0; i < len(s.wordChars); i++ {
			s.distances[0][i] = i * CostInsert
		}
		return
	}

	for i := 1; i < len(s.wordChars); i++ {
		penalty := PenaltyDefault
		if p == 1 && i == 1 {
			penalty = PenaltyStartOfStr
		}

		var subCost int
		switch {
		case s.wordChars[i] == g:
			subCost = CostIsEqual
		case s.wordCharsOpposite[i] == g:
			subCost = CostIsOppositeCase
		case p > 1 && i > 1 && s.prefixChars[p-1] == s.wordChars[i] && g == s.wordChars[i-1]:
			subCost = CostTranspose - 1 + penalty
		case s.keyProximity.IsInProximity(g, s.wordChars[i]):
			subCost = CostSubstituteInProximity + penalty
		default:
			subCost = CostSubstituteDefault + penalty
		}

		deletion := s.distances[p-1][i] + CostInsert
		insertion := s.distances[p][i-1] + CostDelete
		substitution := s.distances[p-1][i-1] + subCost
		s.distances[p][i] = min3(deletion, insertion, substitution)

		// A swap of the two most recent graphemes is also reachable from two
		// rows and two columns back, at CostTranspose.
		if p > 1 && i > 1 && s.prefixChars[p-1] == s.wordChars[i] && g == s.wordChars[i-1] {
			if t := s.distances[p-2][i-2] + CostTranspose + penalty; t < s.distances[p][i] {
				s.distances[p][i] = t
			}
		}
	}
}

// editDistanceAt returns the distance between the trie path of length p and
// the full query, i.e. distances[p][W].
func (s *state) editDistanceAt(p int) int {
	return s.distances[p][s.queryLen()]
}

// prefixStrAt concatenates prefixChars[1..p].
func (s *state) prefixStrAt(p int) string {
	return grapheme.Join(s.prefixChars[1 : p+1])
}

// isDeadEndAt reports whether the branch rooted at depth p is pruned: the
// smallest entry of DP row p has already reached maxCost. Costs are
// non-negative, so deeper rows grow from this minimum; only a transposition,
// which reaches back one more row, can come in below it.
func (s *state) isDeadEndAt(p int) bool {
	rowMin := s.distances[p][0]
	for _, d := range s.distances[p][1:] {
		if d < rowMin {
			rowMin = d
		}
	}
	return rowMin >= s.maxCost
}

// Search walks root, emitting every terminal within maxCost of word via
// onResult, in ascending-grapheme-key traversal order.
func (sr *Searcher) Search(root *trie.Node, searchType SearchType, maxCost int, flags Flags, word string, onResult func(Result)) {
	if word == "" {
		return
	}
	st := newState(word, maxCost, sr.KeyProximity, sr.LocaleTag)
	searchRecursive(root, st, 0, searchType, flags, word, onResult)
}

func searchRecursive(node *trie.Node, st *state, prefixIndex int, searchType SearchType, flags Flags, word string, onResult func(Result)) {
	dist := st.editDistanceAt(prefixIndex)
	if dist <= st.maxCost && node.IsTerminal() {
		prefix := st.prefixStrAt(prefixIndex)
		if prefix != "" {
			props := node.Properties()
			skip := props.IsHiddenByUser ||
				(props.IsPossiblyOffensive && !flags.AllowPossiblyOffensive) ||
				(searchType == ProximityWithoutSelf && prefix == word)
			if !skip {
				onResult(Result{Text: prefix, Node: node, EditDistance: dist})
			}
		}
	}

	if st.isDeadEndAt(prefixIndex) {
		return
	}

	for _, g := range node.SortedKeys() {
		if len(g) > 0 && g[0] < 0x20 {
			continue
		}
		child := node.Child(g)
		st.setPrefixCharAt(prefixIndex+1, g)
		searchRecursive(child, st, prefixIndex+1, searchType, flags, word, onResult)
	}
}
