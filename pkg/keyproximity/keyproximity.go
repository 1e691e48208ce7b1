// Package keyproximity loads a keyboard-layout adjacency map and answers
// whether one key is physically adjacent to another.
package keyproximity

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Map is a mapping from key string (typically a single grapheme) to the set
// of strings considered physically adjacent to it on the user's keyboard.
type Map struct {
	adjacency map[string]map[string]struct{}
}

// Empty returns a Map with no entries; IsInProximity always reports false.
func Empty() *Map {
	return &Map{adjacency: make(map[string]map[string]struct{})}
}

// Load reads a key-proximity map from a JSON object of the form
// { "a": ["q","w","s","z"], ... }. Duplicate keys yield the last-written
// set.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("keyproximity: opening %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a key-proximity map from an arbitrary reader.
func Decode(r io.Reader) (*Map, error) {
	var raw map[string][]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("keyproximity: decoding: %w", err)
	}
	m := Empty()
	for key, neighbors := range raw {
		set := make(map[string]struct{}, len(neighbors))
		for _, n := range neighbors {
			set[n] = struct{}{}
		}
		m.adjacency[key] = set
	}
	return m, nil
}

// IsInProximity reports whether actual's proximity entry exists and
// contains assumed.
func (m *Map) IsInProximity(assumed, actual string) bool {
	if m == nil {
		return false
	}
	neighbors, ok := m.adjacency[actual]
	if !ok {
		return false
	}
	_, ok = neighbors[assumed]
	return ok
}
