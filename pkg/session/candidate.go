package session

import "sort"

// SuggestionCandidate is a single ranked correction/completion candidate.
type SuggestionCandidate struct {
	Text                     string
	SecondaryText            string
	EditDistance             int
	Confidence               float64
	IsEligibleForAutoCommit  bool
	IsEligibleForUserRemoval bool
}

// candidateList accumulates suggestion candidates under the ranking and
// merging rules shared by spell and suggest: merge-by-text on insert, sort
// by ascending edit distance then descending confidence, and cap to the
// caller's maximum, dropping the worst entry.
type candidateList struct {
	items      []SuggestionCandidate
	maxResults int
}

func newCandidateList(maxResults int) *candidateList {
	return &candidateList{maxResults: maxResults}
}

func (c *candidateList) add(candidate SuggestionCandidate) {
	for i, existing := range c.items {
		if existing.Text == candidate.Text {
			if existing.EditDistance < candidate.EditDistance {
				candidate.EditDistance = existing.EditDistance
			}
			if existing.Confidence > candidate.Confidence {
				candidate.Confidence = existing.Confidence
			}
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}

	c.items = append(c.items, candidate)
	sort.SliceStable(c.items, func(i, j int) bool {
		if c.items[i].EditDistance != c.items[j].EditDistance {
			return c.items[i].EditDistance < c.items[j].EditDistance
		}
		return c.items[i].Confidence > c.items[j].Confidence
	})

	if c.maxResults > 0 && len(c.items) > c.maxResults {
		c.items = c.items[:len(c.items)-1]
	}
}

func (c *candidateList) results() []SuggestionCandidate {
	return c.items
}

// confidence clamps a raw score ratio into the [0, 0.9] band reserved for
// dictionary-derived candidates; (0.9, 1.0] is reserved for caller-injected
// system candidates.
func confidence(absoluteScore, maxUnigramScore int) float64 {
	if maxUnigramScore <= 0 {
		return 0
	}
	c := float64(absoluteScore) / float64(maxUnigramScore)
	if c < 0 {
		return 0
	}
	if c > 0.9 {
		return 0.9
	}
	return c
}
