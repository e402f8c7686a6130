package chat

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Store owns every session of one client process. Exactly one session is
// current at any time. Safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	order        []string
	current      string
	defaultModel string
}

// NewStore creates a store holding a single fresh session.
func NewStore(defaultModel string) *Store {
	s := &Store{
		sessions:     make(map[string]*Session),
		defaultModel: defaultModel,
	}
	s.newChatLocked()
	return s
}

// NewChat creates a session, makes it current and returns a snapshot of it.
// The new session inherits the model of the previous current session.
func (s *Store) NewChat() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newChatLocked().snapshot()
}

func (s *Store) newChatLocked() *Session {
	model := s.defaultModel
	if cur, ok := s.sessions[s.current]; ok {
		model = cur.Model
	}
	sess := newSession(model)
	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)
	s.current = sess.ID
	return sess
}

// Switch makes the session with id current.
func (s *Store) Switch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	s.current = id
	return nil
}

// Current returns a snapshot of the current session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[s.current].snapshot()
}

// Get returns a snapshot of the session with id.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess.snapshot(), nil
}

// Sessions returns snapshots of all sessions in creation order.
func (s *Store) Sessions() []Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id].snapshot())
	}
	return out
}

// SetModel changes the model used for the next turns of the current session
// and for sessions created afterwards.
func (s *Store) SetModel(model string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[s.current].Model = model
	s.defaultModel = model
}

// Append adds msg to the session with id.
func (s *Store) Append(id string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.append(msg)
	return nil
}

// begin marks the session busy and appends msg. It returns false, changing
// nothing, when a request for the session is already in flight.
func (s *Store) begin(id string, msg Message) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false, ErrSessionNotFound
	}
	if sess.busy {
		return Session{}, false, nil
	}
	sess.busy = true
	sess.append(msg)
	return sess.snapshot(), true, nil
}

// finish appends the reply (or error bubble) and clears the busy flag.
func (s *Store) finish(id string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.append(msg)
		sess.busy = false
	}
}
