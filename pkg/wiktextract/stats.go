package wiktextract

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Stats accumulates run totals for an optional statistics report.
type Stats struct {
	ParseDurationSeconds float64          `json:"_parse_duration_in_seconds"`
	TotalRawWords        int64            `json:"_total_raw_words"`
	TotalRawSenses       int64            `json:"_total_raw_senses"`
	TotalWordsExcluded   int64            `json:"_total_words_excluded"`
	TotalWordsOffensive  int64            `json:"_total_words_offensive"`
	TotalWordsNormal     int64            `json:"_total_words_normal"`
	POSStats             map[string]int64 `json:"pos_stats"`
	TagStats             map[string]int64 `json:"tag_stats"`
	CategoryStats        map[string]int64 `json:"category_stats"`

	parseStart time.Time
}

func newStats() *Stats {
	return &Stats{
		POSStats:      make(map[string]int64),
		TagStats:      make(map[string]int64),
		CategoryStats: make(map[string]int64),
		parseStart:    time.Now(),
	}
}

func (s *Stats) finish() {
	s.ParseDurationSeconds = time.Since(s.parseStart).Seconds()
}

func (s *Stats) merge(other *Stats) {
	s.TotalRawWords += other.TotalRawWords
	s.TotalRawSenses += other.TotalRawSenses
	for k, v := range other.POSStats {
		s.POSStats[k] += v
	}
	for k, v := range other.TagStats {
		s.TagStats[k] += v
	}
	for k, v := range other.CategoryStats {
		s.CategoryStats[k] += v
	}
}

// WriteJSON writes the stats report to path as pretty-printed JSON.
func (s *Stats) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wiktextract: creating stats file %s: %w", path, err)
	}
	defer f.Close()

	enc := jsoniter.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("wiktextract: writing stats file %s: %w", path, err)
	}
	return nil
}
