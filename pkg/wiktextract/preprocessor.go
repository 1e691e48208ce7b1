package wiktextract

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"unicode"

	"github.com/florisboard/nlp/internal/trie"
	"github.com/florisboard/nlp/pkg/dictionary"

	"github.com/charmbracelet/log"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/errgroup"
)

// maxPartitions bounds how many goroutines split the input file across.
// Partition loading may parallelize; final dictionary insertion does not.
const maxPartitions = 8

type category struct {
	Name string `json:"name"`
}

type formOfRef struct {
	Word string `json:"word"`
}

type sense struct {
	Tags       []string    `json:"tags"`
	Categories []category  `json:"categories"`
	FormOf     []formOfRef `json:"form_of"`
	AltOf      []formOfRef `json:"alt_of"`
}

type entry struct {
	Word   string  `json:"word"`
	POS    string  `json:"pos"`
	Senses []sense `json:"senses"`
}

// Preprocessor reads a wiktextract JSON-lines dump and turns it into a
// dictionary of excluded/offensive/normal words.
type Preprocessor struct {
	Config *Config
	Dict   *dictionary.Dictionary
	Stats  *Stats
}

// New returns a Preprocessor configured with cfg, persisting its dictionary
// to dstPath.
func New(cfg *Config, dstPath string) *Preprocessor {
	return &Preprocessor{
		Config: cfg,
		Dict:   dictionary.NewMutable(dstPath),
		Stats:  newStats(),
	}
}

// Run reads srcPath under the named filter, merges evidence across POS and
// form_of chains, and inserts decided words into p.Dict. It does not
// persist; call p.Dict.Persist() separately.
func (p *Preprocessor) Run(srcPath, filterName string) error {
	lines, err := readLines(srcPath)
	if err != nil {
		return err
	}
	filter := p.Config.GetFilter(filterName)

	partitions := splitLines(lines, maxPartitions)
	partialData := make([]map[string]map[string]*wordEvaluator, len(partitions))
	partialStats := make([]*Stats, len(partitions))

	var g errgroup.Group
	for i, part := range partitions {
		i, part := i, part
		g.Go(func() error {
			data, stats := parsePartition(part, filter)
			partialData[i] = data
			partialStats[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Single-writer merge: partition loading parallelized above, everything
	// from here on runs on one goroutine.
	parsedData := make(map[string]map[string]*wordEvaluator)
	for i := range partitions {
		mergeParsedData(parsedData, partialData[i])
		p.Stats.merge(partialStats[i])
	}

	p.decideAndInsert(parsedData)
	p.insertProjectSpecificWords()
	p.Stats.finish()
	log.Debugf("wiktextract: processed %d raw words (%d excluded, %d offensive, %d normal)",
		p.Stats.TotalRawWords, p.Stats.TotalWordsExcluded, p.Stats.TotalWordsOffensive, p.Stats.TotalWordsNormal)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wiktextract: opening source %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wiktextract: reading source %s: %w", path, err)
	}
	return lines, nil
}

func splitLines(lines []string, maxParts int) [][]string {
	parts := maxParts
	if cpus := runtime.NumCPU(); cpus < parts {
		parts = cpus
	}
	if parts < 1 {
		parts = 1
	}
	if len(lines) < parts {
		parts = 1
	}
	if parts <= 1 {
		return [][]string{lines}
	}

	chunkSize := (len(lines) + parts - 1) / parts
	out := make([][]string, 0, parts)
	for start := 0; start < len(lines); start += chunkSize {
		end := start + chunkSize
		if end > len(lines) {
			end = len(lines)
		}
		out = append(out, lines[start:end])
	}
	return out
}

func parsePartition(lines []string, filter Filter) (map[string]map[string]*wordEvaluator, *Stats) {
	parsedData := make(map[string]map[string]*wordEvaluator)
	stats := newStats()

	for _, line := range lines {
		var e entry
		if err := jsoniter.UnmarshalFromString(line, &e); err != nil {
			continue
		}
		if e.Word == "" || e.POS == "" || e.Senses == nil {
			continue
		}

		posMap, ok := parsedData[e.Word]
		if !ok {
			posMap = make(map[string]*wordEvaluator)
			parsedData[e.Word] = posMap
		}
		evaluator, ok := posMap[e.POS]
		if !ok {
			evaluator = &wordEvaluator{}
			posMap[e.POS] = evaluator
		}

		stats.TotalRawWords++
		stats.POSStats[e.POS]++

		for _, s := range e.Senses {
			stats.TotalRawSenses++
			for _, tag := range s.Tags {
				stats.TagStats[tag]++
			}
			categoryNames := make([]string, 0, len(s.Categories))
			for _, c := range s.Categories {
				stats.CategoryStats[c.Name]++
				categoryNames = append(categoryNames, c.Name)
			}

			if len(s.FormOf) > 0 {
				evaluator.formOfs = append(evaluator.formOfs, s.FormOf[0].Word)
			} else if len(s.AltOf) > 0 {
				evaluator.formOfs = append(evaluator.formOfs, s.AltOf[0].Word)
			}

			switch {
			case filter.Excluded.matches(e.Word, s.Tags, categoryNames):
				evaluator.exclusionCount++
			case filter.Offensive.matches(e.Word, s.Tags, categoryNames):
				evaluator.offensiveCount++
			default:
				evaluator.normalCount++
			}
		}
	}

	return parsedData, stats
}

func mergeParsedData(dst, src map[string]map[string]*wordEvaluator) {
	for word, posMap := range src {
		dstPosMap, ok := dst[word]
		if !ok {
			dst[word] = posMap
			continue
		}
		for pos, evaluator := range posMap {
			existing, ok := dstPosMap[pos]
			if !ok {
				dstPosMap[pos] = evaluator
				continue
			}
			existing.exclusionCount += evaluator.exclusionCount
			existing.offensiveCount += evaluator.offensiveCount
			existing.normalCount += evaluator.normalCount
			existing.formOfs = append(existing.formOfs, evaluator.formOfs...)
		}
	}
}

// validateWord reports whether every codepoint in word is alphabetic,
// an apostrophe, or a hyphen.
func validateWord(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

func (p *Preprocessor) decideAndInsert(parsedData map[string]map[string]*wordEvaluator) {
	for word, posMap := range parsedData {
		plain := &wordEvaluator{}
		withFormOf := &wordEvaluator{}
		for pos, posEvaluator := range posMap {
			mergeEvaluatorCounts(plain, posEvaluator, pos, mergingMaxDepth, 0, parsedData)
			mergeEvaluatorCounts(withFormOf, posEvaluator, pos, mergingMaxDepthWithFormOf, 0, parsedData)
		}

		if (plain.isExcluded() && withFormOf.isExcluded()) || !validateWord(word) {
			p.Stats.TotalWordsExcluded++
			continue
		}

		if withFormOf.isOffensive() {
			p.Stats.TotalWordsOffensive++
			p.Dict.InsertUnigram(word, trie.Properties{
				AbsoluteScore:       withFormOf.offensiveCount,
				IsPossiblyOffensive: true,
			})
		} else {
			p.Stats.TotalWordsNormal++
			p.Dict.InsertUnigram(word, trie.Properties{
				AbsoluteScore: withFormOf.normalCount,
			})
		}
	}
}

func (p *Preprocessor) insertProjectSpecificWords() {
	for _, word := range p.Config.ProjectSpecificWords {
		p.Dict.InsertUnigram(word, trie.Properties{AbsoluteScore: 1})
	}
}
