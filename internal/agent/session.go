package agent

import (
	"fmt"
	"sync"
)

// DefaultHistoryWindow bounds retained history to the last five exchanges.
const DefaultHistoryWindow = 10

// Sessions holds per-session conversation state in process memory, keyed
// by an opaque session key. Reads return copies; writes are last-writer-
// wins. The mutex keeps concurrent sessions from corrupting the map, but
// turns within one session are assumed to arrive sequentially.
type Sessions struct {
	mu     sync.RWMutex
	byKey  map[string]State
	window int
}

// NewSessions creates a session manager that keeps at most window history
// messages per session. window <= 0 uses DefaultHistoryWindow.
func NewSessions(window int) *Sessions {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Sessions{
		byKey:  make(map[string]State),
		window: window,
	}
}

// SessionKey derives the stable session key for a user.
func SessionKey(userID int64) string {
	return fmt.Sprintf("session_%d_0", userID)
}

// Get returns the state for a session key. Unknown sessions yield a fresh
// empty state; Get never fails.
func (s *Sessions) Get(key string) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byKey[key]
	if !ok {
		return State{}
	}
	// Copy history so callers cannot mutate stored state.
	history := make([]Turn, len(st.History))
	copy(history, st.History)
	st.History = history
	return st
}

// Update appends the given turns, overwrites the previous intent and
// topic, and trims history to the configured window.
func (s *Sessions) Update(key string, intent Intent, topic string, turns ...Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.byKey[key]
	st.PreviousIntent = intent
	st.Topic = topic
	st.History = append(st.History, turns...)
	if len(st.History) > s.window {
		st.History = st.History[len(st.History)-s.window:]
	}
	s.byKey[key] = st
}

// Reset clears a session back to a fresh state.
func (s *Sessions) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey[key] = State{}
}
