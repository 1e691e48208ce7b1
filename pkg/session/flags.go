package session

// RequestFlags is a packed integer: low 8 bits carry max_suggestion_count
// (1..255), bit 8 is allow_possibly_offensive, bit 9 is is_private_session.
type RequestFlags uint32

// NewRequestFlags packs the individual fields into a RequestFlags value.
// maxSuggestionCount is clamped to [1, 255].
func NewRequestFlags(maxSuggestionCount int, allowPossiblyOffensive, isPrivateSession bool) RequestFlags {
	if maxSuggestionCount < 1 {
		maxSuggestionCount = 1
	}
	if maxSuggestionCount > 255 {
		maxSuggestionCount = 255
	}
	f := RequestFlags(maxSuggestionCount)
	if allowPossiblyOffensive {
		f |= 1 << 8
	}
	if isPrivateSession {
		f |= 1 << 9
	}
	return f
}

// MaxSuggestionCount returns the packed count field.
func (f RequestFlags) MaxSuggestionCount() int {
	return int(f & 0xFF)
}

// AllowPossiblyOffensive reports the packed offensive-allowance bit.
func (f RequestFlags) AllowPossiblyOffensive() bool {
	return f&(1<<8) != 0
}

// IsPrivateSession reports the packed private-session bit.
func (f RequestFlags) IsPrivateSession() bool {
	return f&(1<<9) != 0
}

// SpellingAttribute is a bit in a SpellingResult attribute set.
type SpellingAttribute uint32

const (
	Unspecified SpellingAttribute = 0
	InTheDictionary SpellingAttribute = 1 << iota
	LooksLikeTypo
	HasRecommendedSuggestions
	LooksLikeGrammarError
	DontShowUIForSuggestions
)

// SpellingResult reports whether a word is known, and if not, ranked
// correction suggestions.
type SpellingResult struct {
	Attributes  SpellingAttribute
	Suggestions []string
}

// Has reports whether attr is set.
func (r SpellingResult) Has(attr SpellingAttribute) bool {
	return r.Attributes&attr != 0
}
