package keypad

import "sync"

// slot pairs a session with its own lock so slow work inside With (such
// as message delivery) stalls only the owning conversation.
type slot struct {
	mu      sync.Mutex
	session *Session
}

// Store owns the live sessions keyed by chat id. At most one session exists
// per key; concurrent creation is last-write-wins. Sessions are never evicted
// and live for the process lifetime.
type Store struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

// NewStore constructs an empty session store.
func NewStore() *Store {
	return &Store{slots: make(map[int64]*slot)}
}

// With runs fn against the chat's session, creating it on first use. The
// store lock covers only the map lookup; fn runs under the chat's own lock,
// which serializes key events within a conversation without blocking other
// conversations.
func (s *Store) With(chatID int64, fn func(*Session)) {
	s.mu.Lock()
	sl, exists := s.slots[chatID]
	if !exists {
		sl = &slot{session: &Session{}}
		s.slots[chatID] = sl
	}
	s.mu.Unlock()

	sl.mu.Lock()
	defer sl.mu.Unlock()
	fn(sl.session)
}

// Len reports the number of live sessions, used in diagnostics.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
