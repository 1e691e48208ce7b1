package server

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/florisboard/nlp/internal/trie"
	"github.com/florisboard/nlp/pkg/dictionary"
	"github.com/florisboard/nlp/pkg/session"

	"github.com/vmihailenco/msgpack/v5"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	dict := dictionary.NewMutable(filepath.Join(t.TempDir(), "test.fldic"))
	if _, err := dict.InsertUnigram("hello", trie.Properties{AbsoluteScore: 1000}); err != nil {
		t.Fatalf("InsertUnigram: %v", err)
	}
	sess := session.New("en_us", nil, 16)
	sess.BaseDictionaries = append(sess.BaseDictionaries, dict)
	return sess
}

func roundTrip(t *testing.T, sess *session.Session, req Request) Response {
	t.Helper()
	var out bytes.Buffer
	s := NewServerWithIO(sess, bytes.NewReader(nil), &out)
	s.handleRequest(req)

	var resp Response
	if err := msgpack.NewDecoder(&out).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestHandleSpellKnownWord(t *testing.T) {
	sess := newTestSession(t)
	resp := roundTrip(t, sess, Request{ID: "r1", Action: "spell", Word: "hello", Flags: uint32(session.NewRequestFlags(10, false, false))})
	if resp.Status != "ok" {
		t.Fatalf("expected ok status, got %+v", resp)
	}
	if resp.Attributes&uint32(session.InTheDictionary) == 0 {
		t.Errorf("expected InTheDictionary bit set, got %+v", resp)
	}
}

func TestHandleSuggestReturnsCandidates(t *testing.T) {
	sess := newTestSession(t)
	resp := roundTrip(t, sess, Request{ID: "r2", Action: "suggest", Word: "hel", Flags: uint32(session.NewRequestFlags(10, false, false))})
	if resp.Status != "ok" {
		t.Fatalf("expected ok status, got %+v", resp)
	}
	if len(resp.Suggestions) == 0 || resp.Suggestions[0].Word != "hello" {
		t.Errorf("expected hello among suggestions, got %+v", resp.Suggestions)
	}
}

func TestHandleUnknownAction(t *testing.T) {
	sess := newTestSession(t)
	resp := roundTrip(t, sess, Request{ID: "r3", Action: "bogus", Word: "x"})
	if resp.Status != "error" {
		t.Fatalf("expected error status, got %+v", resp)
	}
}

func TestHandleMissingWord(t *testing.T) {
	sess := newTestSession(t)
	resp := roundTrip(t, sess, Request{ID: "r4", Action: "spell", Word: ""})
	if resp.Status != "error" {
		t.Fatalf("expected error status for missing word, got %+v", resp)
	}
}

func TestStartProcessesStreamUntilEOF(t *testing.T) {
	sess := newTestSession(t)
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	if err := enc.Encode(Request{ID: "a", Action: "spell", Word: "hello"}); err != nil {
		t.Fatalf("encoding first request: %v", err)
	}
	if err := enc.Encode(Request{ID: "b", Action: "suggest", Word: "hel"}); err != nil {
		t.Fatalf("encoding second request: %v", err)
	}

	s := NewServerWithIO(sess, &in, &out)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var first, second Response
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decoding first response: %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decoding second response: %v", err)
	}
	if first.ID != "a" || second.ID != "b" {
		t.Errorf("expected responses in request order, got %q then %q", first.ID, second.ID)
	}
}
