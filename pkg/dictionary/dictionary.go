// Package dictionary owns a root n-gram trie, a shortcuts map, and
// per-level max-score accumulators, with immutable and mutable variants
// sharing a common read-only capability set.
package dictionary

import (
	"fmt"
	"os"
	"sync"

	"github.com/florisboard/nlp/internal/grapheme"
	"github.com/florisboard/nlp/internal/trie"
	"github.com/florisboard/nlp/pkg/fldic"

	"github.com/charmbracelet/log"
)

// scoreAdjustmentThreshold triggers a halving pass on a level once its max
// score gets this close to trie.SCORE_MAX, preventing overflow under
// long-running incremental learning.
const scoreAdjustmentThreshold = trie.SCORE_MAX - 128

// ErrImmutable is returned by any mutation attempted on an immutable
// Dictionary.
type ErrImmutable struct {
	Op string
}

func (e *ErrImmutable) Error() string {
	return fmt.Sprintf("dictionary: %s: immutable dictionary cannot be mutated", e.Op)
}

// Dictionary is the shared data model for both the immutable (base) and
// mutable (user) variants. Mutating methods on an immutable instance
// return *ErrImmutable instead of applying the change.
type Dictionary struct {
	Header    fldic.Header
	root      *trie.Node
	shortcuts map[string]string

	maxUnigramScore int
	maxBigramScore  int
	maxTrigramScore int

	srcPath string
	dstPath string

	mutable bool
	mu      sync.RWMutex
}

// LoadImmutable loads a read-only base dictionary from path.
func LoadImmutable(path string) (*Dictionary, error) {
	return load(path, path, false)
}

// LoadMutable loads a mutable user dictionary, persisting back to path by
// default. Use LoadMutableTo to persist elsewhere.
func LoadMutable(path string) (*Dictionary, error) {
	return load(path, path, true)
}

// LoadMutableTo loads a mutable dictionary from srcPath, persisting to
// dstPath.
func LoadMutableTo(srcPath, dstPath string) (*Dictionary, error) {
	return load(srcPath, dstPath, true)
}

// NewMutable returns an empty mutable dictionary that persists to dstPath.
func NewMutable(dstPath string) *Dictionary {
	return &Dictionary{
		Header:    fldic.NewHeader(),
		root:      trie.New(),
		shortcuts: make(map[string]string),
		dstPath:   dstPath,
		srcPath:   dstPath,
		mutable:   true,
	}
}

func load(srcPath, dstPath string, mutable bool) (*Dictionary, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("dictionary: opening %s: %w", srcPath, err)
	}
	defer f.Close()

	d := &Dictionary{
		root:      trie.New(),
		shortcuts: make(map[string]string),
		srcPath:   srcPath,
		dstPath:   dstPath,
		mutable:   mutable,
	}

	header, err := fldic.Deserialize(f, srcPath, d.root, d.shortcuts)
	if err != nil {
		return nil, fmt.Errorf("dictionary: deserializing %s: %w", srcPath, err)
	}
	d.Header = header
	d.recomputeMaxScores()
	log.Debugf("loaded dictionary %s: max_unigram=%d max_bigram=%d max_trigram=%d",
		srcPath, d.maxUnigramScore, d.maxBigramScore, d.maxTrigramScore)
	return d, nil
}

// recomputeMaxScores walks the freshly loaded trie to seed the max-score
// accumulators, since .fldic files do not carry them explicitly.
func (d *Dictionary) recomputeMaxScores() {
	d.root.ForEach(func(_ []string, unigram *trie.Node) {
		if s := unigram.Properties().AbsoluteScore; s > d.maxUnigramScore {
			d.maxUnigramScore = s
		}
		if sub := unigram.SubsequentWordsOrNil(); sub != nil {
			sub.ForEach(func(_ []string, bigram *trie.Node) {
				if s := bigram.Properties().AbsoluteScore; s > d.maxBigramScore {
					d.maxBigramScore = s
				}
				if sub2 := bigram.SubsequentWordsOrNil(); sub2 != nil {
					sub2.ForEach(func(_ []string, trigram *trie.Node) {
						if s := trigram.Properties().AbsoluteScore; s > d.maxTrigramScore {
							d.maxTrigramScore = s
						}
					})
				}
			})
		}
	})
}

// Root returns the root trie node, for read-only use by the fuzzy search
// engine.
func (d *Dictionary) Root() *trie.Node {
	return d.root
}

// Contains reports whether word resolves to a unigram terminal.
func (d *Dictionary) Contains(word string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root.Resolve(grapheme.Segment(word)) != nil
}

// Resolve returns the unigram terminal node for word, or nil.
func (d *Dictionary) Resolve(word string) *trie.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root.Resolve(grapheme.Segment(word))
}

// ForEach performs a deterministic pre-order walk of unigrams.
func (d *Dictionary) ForEach(action func(key []string, node *trie.Node)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	d.root.ForEach(action)
}

// MaxUnigramScore returns the running maximum unigram score.
func (d *Dictionary) MaxUnigramScore() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.maxUnigramScore
}

// MaxBigramScore returns the running maximum bigram score.
func (d *Dictionary) MaxBigramScore() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.maxBigramScore
}

// MaxTrigramScore returns the running maximum trigram score.
func (d *Dictionary) MaxTrigramScore() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.maxTrigramScore
}

// Shortcut returns the expansion registered for key, if any.
func (d *Dictionary) Shortcut(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.shortcuts[key]
	return v, ok
}

// IsMutable reports whether this instance permits mutation.
func (d *Dictionary) IsMutable() bool {
	return d.mutable
}

// InsertUnigram inserts/updates word1, returning its properties node.
// Returns *ErrImmutable on an immutable dictionary.
func (d *Dictionary) InsertUnigram(word1 string, properties trie.Properties) (*trie.Node, error) {
	if !d.mutable {
		return nil, &ErrImmutable{Op: "InsertUnigram"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.root.Insert(grapheme.Segment(word1))
	node.SetProperties(properties)
	d.bumpMax(&d.maxUnigramScore, properties.AbsoluteScore)
	return node, nil
}

// InsertBigram inserts/updates the (word1, word2) chain.
func (d *Dictionary) InsertBigram(word1, word2 string, properties trie.Properties) (*trie.Node, error) {
	if !d.mutable {
		return nil, &ErrImmutable{Op: "InsertBigram"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n1 := d.root.Insert(grapheme.Segment(word1))
	n2 := n1.SubsequentWordsOrCreate().Insert(grapheme.Segment(word2))
	n2.SetProperties(properties)
	d.bumpMax(&d.maxBigramScore, properties.AbsoluteScore)
	return n2, nil
}

// InsertTrigram inserts/updates the (word1, word2, word3) chain.
func (d *Dictionary) InsertTrigram(word1, word2, word3 string, properties trie.Properties) (*trie.Node, error) {
	if !d.mutable {
		return nil, &ErrImmutable{Op: "InsertTrigram"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	n1 := d.root.Insert(grapheme.Segment(word1))
	n2 := n1.SubsequentWordsOrCreate().Insert(grapheme.Segment(word2))
	n3 := n2.SubsequentWordsOrCreate().Insert(grapheme.Segment(word3))
	n3.SetProperties(properties)
	d.bumpMax(&d.maxTrigramScore, properties.AbsoluteScore)
	return n3, nil
}

func (d *Dictionary) bumpMax(max *int, score int) {
	if score > *max {
		*max = score
	}
}

// SetShortcut registers or overwrites a shortcut expansion.
func (d *Dictionary) SetShortcut(key, expansion string) error {
	if !d.mutable {
		return &ErrImmutable{Op: "SetShortcut"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shortcuts[key] = expansion
	return nil
}

// AdjustScoresIfNecessary halves every score at a level whose running
// maximum exceeds SCORE_MAX-128, to prevent overflow under long-running
// incremental learning. It holds an exclusive writer lock against
// concurrent readers for the duration of the traversal. Returns true if any
// level was adjusted.
func (d *Dictionary) AdjustScoresIfNecessary() (bool, error) {
	if !d.mutable {
		return false, &ErrImmutable{Op: "AdjustScoresIfNecessary"}
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	adjUnigrams := d.maxUnigramScore > scoreAdjustmentThreshold
	adjBigrams := d.maxBigramScore > scoreAdjustmentThreshold
	adjTrigrams := d.maxTrigramScore > scoreAdjustmentThreshold
	if !adjUnigrams && !adjBigrams && !adjTrigrams {
		return false, nil
	}

	d.root.ForEach(func(_ []string, unigram *trie.Node) {
		if adjUnigrams {
			p := unigram.Properties()
			p.AbsoluteScore /= 2
			unigram.SetProperties(p)
		}
		if !adjBigrams && !adjTrigrams {
			return
		}
		sub := unigram.SubsequentWordsOrNil()
		if sub == nil {
			return
		}
		sub.ForEach(func(_ []string, bigram *trie.Node) {
			if adjBigrams {
				p := bigram.Properties()
				p.AbsoluteScore /= 2
				bigram.SetProperties(p)
			}
			if !adjTrigrams {
				return
			}
			sub2 := bigram.SubsequentWordsOrNil()
			if sub2 == nil {
				return
			}
			sub2.ForEach(func(_ []string, trigram *trie.Node) {
				p := trigram.Properties()
				p.AbsoluteScore /= 2
				trigram.SetProperties(p)
			})
		})
	})

	if adjUnigrams {
		d.maxUnigramScore /= 2
	}
	if adjBigrams {
		d.maxBigramScore /= 2
	}
	if adjTrigrams {
		d.maxTrigramScore /= 2
	}
	log.Debugf("adjusted scores: unigram=%v bigram=%v trigram=%v", adjUnigrams, adjBigrams, adjTrigrams)
	return true, nil
}

// Persist serializes the dictionary to its destination path.
func (d *Dictionary) Persist() error {
	if !d.mutable {
		return &ErrImmutable{Op: "Persist"}
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	f, err := os.Create(d.dstPath)
	if err != nil {
		return fmt.Errorf("dictionary: creating %s: %w", d.dstPath, err)
	}
	defer f.Close()

	if err := fldic.Serialize(f, d.Header, d.root, d.shortcuts); err != nil {
		return fmt.Errorf("dictionary: serializing %s: %w", d.dstPath, err)
	}
	log.Debugf("persisted dictionary to %s", d.dstPath)
	return nil
}
