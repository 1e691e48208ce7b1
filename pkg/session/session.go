// Package session orchestrates base and user dictionaries, the key
// proximity map, and the fuzzy search engine into the spell/suggest
// request surface consumed by the IPC server and the debug CLI.
package session

import (
	"fmt"
	"strings"

	"github.com/florisboard/nlp/internal/grapheme"
	"github.com/florisboard/nlp/pkg/dictionary"
	"github.com/florisboard/nlp/pkg/fuzzy"
	"github.com/florisboard/nlp/pkg/keyproximity"

	"github.com/charmbracelet/log"
)

// DefaultLocaleTag is used when a Session is constructed without an
// explicit locale.
const DefaultLocaleTag = "en_us"

// Session binds together every dictionary and the search machinery needed
// to answer spell/suggest requests for one active input context.
type Session struct {
	BaseDictionaries []*dictionary.Dictionary
	UserDictionary   *dictionary.Dictionary
	LocaleTag        string
	KeyProximity     *keyproximity.Map

	searcher *fuzzy.Searcher
	cache    *ResultCache
}

// New returns a Session with no dictionaries loaded. cacheSize is the
// ResultCache capacity; pass 0 to disable caching.
func New(localeTag string, keyProximity *keyproximity.Map, cacheSize int) *Session {
	if localeTag == "" {
		localeTag = DefaultLocaleTag
	}
	if keyProximity == nil {
		keyProximity = keyproximity.Empty()
	}
	return &Session{
		LocaleTag:    localeTag,
		KeyProximity: keyProximity,
		searcher:     fuzzy.New(keyProximity, localeTag),
		cache:        NewResultCache(cacheSize),
	}
}

// LoadBaseDictionary loads an immutable dictionary from path and adds it to
// the session's base set.
func (s *Session) LoadBaseDictionary(path string) error {
	d, err := dictionary.LoadImmutable(path)
	if err != nil {
		return fmt.Errorf("session: loading base dictionary: %w", err)
	}
	s.BaseDictionaries = append(s.BaseDictionaries, d)
	s.cache.Invalidate("")
	log.Debugf("session: loaded base dictionary %s", path)
	return nil
}

// LoadUserDictionary loads (or creates) the session's mutable user
// dictionary. The user dictionary is not yet consulted by Spell or
// Suggest: the dictionary session contract queries base dictionary 0
// only, reserving the user dictionary for future per-user learning.
func (s *Session) LoadUserDictionary(path string) error {
	d, err := dictionary.LoadMutable(path)
	if err != nil {
		d = dictionary.NewMutable(path)
		log.Debugf("session: starting empty user dictionary at %s", path)
	}
	s.UserDictionary = d
	s.cache.Invalidate("")
	return nil
}

// primaryDictionary returns base dictionary 0, the only dictionary Spell
// and Suggest consult, or nil if none has been loaded yet.
func (s *Session) primaryDictionary() *dictionary.Dictionary {
	if len(s.BaseDictionaries) == 0 {
		return nil
	}
	return s.BaseDictionaries[0]
}

// Spell checks word against base dictionary 0. A known word reports
// InTheDictionary with no suggestions; an unknown word is searched via
// ProximityWithoutSelf and reports LooksLikeTypo plus ranked corrections.
func (s *Session) Spell(word string, flags RequestFlags) SpellingResult {
	normalized := grapheme.TrimSpace(word)
	if normalized == "" {
		return SpellingResult{Attributes: Unspecified}
	}

	primary := s.primaryDictionary()
	if primary != nil && primary.Contains(normalized) {
		return SpellingResult{Attributes: InTheDictionary}
	}

	candidates := s.search(normalized, fuzzy.ProximityWithoutSelf, flags)
	if len(candidates) == 0 {
		return SpellingResult{Attributes: LooksLikeTypo}
	}

	suggestions := make([]string, len(candidates))
	for i, c := range candidates {
		suggestions[i] = c.Text
	}
	return SpellingResult{
		Attributes:  LooksLikeTypo | HasRecommendedSuggestions,
		Suggestions: suggestions,
	}
}

// Suggest returns ranked completion/correction candidates for word, drawn
// from base dictionary 0. Results are served from the hot cache when
// available and otherwise cached after computation.
func (s *Session) Suggest(word string, flags RequestFlags) []SuggestionCandidate {
	normalized := grapheme.TrimSpace(word)
	if normalized == "" {
		return nil
	}

	cacheKey := cacheKeyFor(normalized, flags)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached
	}

	candidates := s.search(normalized, fuzzy.ProximityOrPrefix, flags)
	s.cache.Put(cacheKey, candidates)
	return candidates
}

func cacheKeyFor(word string, flags RequestFlags) string {
	return fmt.Sprintf("%s\x00%d", strings.ToLower(word), flags)
}

// search runs the fuzzy searcher against base dictionary 0, ranking
// results through a candidateList. Confidence is normalized against base
// dictionary 0's own max unigram score, per the session's ranking rules.
func (s *Session) search(word string, searchType fuzzy.SearchType, flags RequestFlags) []SuggestionCandidate {
	list := newCandidateList(flags.MaxSuggestionCount())

	primary := s.primaryDictionary()
	if primary == nil {
		return list.results()
	}

	maxScore := primary.MaxUnigramScore()
	searchFlags := fuzzy.Flags{AllowPossiblyOffensive: flags.AllowPossiblyOffensive()}
	s.searcher.Search(primary.Root(), searchType, fuzzy.MaxCost, searchFlags, word, func(r fuzzy.Result) {
		props := r.Node.Properties()
		list.add(SuggestionCandidate{
			Text:                     r.Text,
			EditDistance:             r.EditDistance,
			Confidence:               confidence(props.AbsoluteScore, maxScore),
			IsEligibleForAutoCommit:  r.EditDistance == 0,
			IsEligibleForUserRemoval: true,
		})
	})

	return list.results()
}
