// Package fldic implements the .fldic dictionary file format: a UTF-8,
// LF-terminated, line-based text serialization of a header and an n-gram
// trie body.
package fldic

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/florisboard/nlp/internal/grapheme"
)

// DefaultSchema is used when a loaded header carries no schema key.
const DefaultSchema = "https://florisboard.org/schemas/fldic/v0~draft1/dictionary.txt"

const (
	headerSchema      = "schema"
	headerName        = "name"
	headerLocales     = "locales"
	headerGeneratedBy = "generated_by"

	assignment    = "="
	listSeparator = ","
	sectionWords  = "[words]"
	sectionShort  = "[shortcuts]"
)

// Header carries the dictionary's schema identity, display name, locale
// coverage, and generator provenance.
type Header struct {
	Schema      string
	Name        string
	Locales     []string
	GeneratedBy string
}

// NewHeader returns a Header with the default schema and no other fields
// set.
func NewHeader() Header {
	return Header{Schema: DefaultSchema}
}

// readHeader reads key=value lines until a blank line (or EOF), returning
// the parsed header and the number of lines consumed. Unknown keys are
// ignored; missing keys default to empty except schema.
func readHeader(scanner *bufio.Scanner) (Header, int) {
	h := NewHeader()
	h.Schema = "" // overwritten below only if present; default applied at the end
	lineCount := 0
	sawSchema := false
	for scanner.Scan() {
		lineCount++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		idx := strings.Index(line, assignment)
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}
		switch key {
		case headerSchema:
			h.Schema = value
			sawSchema = true
		case headerName:
			h.Name = value
		case headerLocales:
			for _, tag := range strings.Split(value, listSeparator) {
				tag = strings.TrimSpace(tag)
				if tag != "" && grapheme.ValidateLocaleTag(tag) {
					h.Locales = append(h.Locales, tag)
				}
			}
		case headerGeneratedBy:
			h.GeneratedBy = value
		default:
			// unknown header key, ignored
		}
	}
	if !sawSchema {
		h.Schema = DefaultSchema
	}
	return h, lineCount
}

// writeHeader writes the header followed by a blank line, matching the
// teacher's three-or-four-line layout (schema, name, locales if present,
// generated_by, blank line).
func writeHeader(w io.Writer, h Header) error {
	if _, err := fmt.Fprintf(w, "%s%s%s\n", headerSchema, assignment, h.Schema); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n", headerName, assignment, h.Name); err != nil {
		return err
	}
	if len(h.Locales) > 0 {
		if _, err := fmt.Fprintf(w, "%s%s%s\n", headerLocales, assignment, strings.Join(h.Locales, listSeparator)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%s%s\n\n", headerGeneratedBy, assignment, h.GeneratedBy); err != nil {
		return err
	}
	return nil
}
