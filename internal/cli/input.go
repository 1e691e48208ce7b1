// Package cli handles command-line input and suggestion display for
// debugging and manual testing, standing in for the keyboard process that
// would otherwise speak the msgpack IPC protocol.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/florisboard/nlp/pkg/session"

	"github.com/charmbracelet/log"
)

// InputHandler reads prefixes from stdin and prints spell/suggest results
// against a Session.
type InputHandler struct {
	sess         *session.Session
	flags        session.RequestFlags
	spellMode    bool
	requestCount int
}

// NewInputHandler returns an InputHandler bound to sess. When spellMode is
// true, input is run through Spell instead of Suggest.
func NewInputHandler(sess *session.Session, maxSuggestionCount int, allowPossiblyOffensive, spellMode bool) *InputHandler {
	return &InputHandler{
		sess:      sess,
		flags:     session.NewRequestFlags(maxSuggestionCount, allowPossiblyOffensive, false),
		spellMode: spellMode,
	}
}

// Start begins the interface loop: prompt, read a line, handle it. The loop
// terminates when stdin returns an error (including EOF at Ctrl+D).
func (h *InputHandler) Start() error {
	log.Print("nlp CLI [debug]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a word and press Enter (Ctrl+C to exit):")

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		h.handleInput(word)
	}
}

// handleInput runs one word through spell or suggest and prints the
// result.
func (h *InputHandler) handleInput(word string) {
	h.requestCount++
	start := time.Now()

	if h.spellMode {
		result := h.sess.Spell(word, h.flags)
		elapsed := time.Since(start)
		log.Debugf("spell('%s') took %v", word, elapsed)

		if result.Has(session.InTheDictionary) {
			log.Printf("%q is in the dictionary", word)
			return
		}
		if len(result.Suggestions) == 0 {
			log.Warnf("%q looks like a typo, no corrections found", word)
			return
		}
		log.Printf("%q looks like a typo, %d correction(s):", word, len(result.Suggestions))
		for i, s := range result.Suggestions {
			log.Printf("%2d. %s", i+1, colorize(s))
		}
		return
	}

	candidates := h.sess.Suggest(word, h.flags)
	elapsed := time.Since(start)
	log.Debugf("suggest('%s') took %v", word, elapsed)

	if len(candidates) == 0 {
		log.Warnf("no suggestions found for %q", word)
		return
	}
	log.Printf("found %d suggestion(s) for %q:", len(candidates), word)
	for i, c := range candidates {
		log.Printf("%2d. %-30s (dist: %d, confidence: %.2f)", i+1, colorize(c.Text), c.EditDistance, c.Confidence)
	}
}

func colorize(word string) string {
	return fmt.Sprintf("\033[38;5;75m%s\033[0m", word)
}
