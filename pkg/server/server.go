package server

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/florisboard/nlp/pkg/session"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for spell/suggest requests over stdin/stdout.
type Server struct {
	sess    *session.Session
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer returns a Server answering requests against sess, reading from
// stdin and writing to stdout.
func NewServer(sess *session.Session) *Server {
	return NewServerWithIO(sess, os.Stdin, os.Stdout)
}

// NewServerWithIO is NewServer with explicit IO streams, for tests and for
// callers embedding the protocol over a transport other than stdio.
func NewServerWithIO(sess *session.Session, r io.Reader, w io.Writer) *Server {
	return &Server{
		sess:    sess,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start blocks, handling requests until stdin is closed or a decode error
// occurs.
func (s *Server) Start() error {
	log.Debug("server: starting IPC loop")
	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			log.Errorf("server: decoding request: %v", err)
			return err
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "spell":
		s.handleSpell(req)
	case "suggest":
		s.handleSuggest(req)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action %q", req.Action))
	}
}

func (s *Server) handleSpell(req Request) {
	if req.Word == "" {
		s.sendError(req.ID, "missing word")
		return
	}
	start := time.Now()
	result := s.sess.Spell(req.Word, session.RequestFlags(req.Flags))
	elapsed := time.Since(start)

	suggestions := make([]SuggestionMsg, len(result.Suggestions))
	for i, text := range result.Suggestions {
		suggestions[i] = SuggestionMsg{Word: text}
	}

	s.send(Response{
		ID:          req.ID,
		Status:      "ok",
		Attributes:  uint32(result.Attributes),
		Suggestions: suggestions,
		TimeTakenUs: elapsed.Microseconds(),
	})
}

func (s *Server) handleSuggest(req Request) {
	if req.Word == "" {
		s.sendError(req.ID, "missing word")
		return
	}
	start := time.Now()
	candidates := s.sess.Suggest(req.Word, session.RequestFlags(req.Flags))
	elapsed := time.Since(start)

	suggestions := make([]SuggestionMsg, len(candidates))
	for i, c := range candidates {
		suggestions[i] = SuggestionMsg{Word: c.Text, EditDistance: c.EditDistance, Confidence: c.Confidence}
	}

	s.send(Response{
		ID:          req.ID,
		Status:      "ok",
		Suggestions: suggestions,
		TimeTakenUs: elapsed.Microseconds(),
	})
}

func (s *Server) send(resp Response) {
	if err := s.encoder.Encode(resp); err != nil {
		log.Errorf("server: encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string) {
	s.send(Response{ID: id, Status: "error", Error: message})
}
