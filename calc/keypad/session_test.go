package keypad

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func press(s *Session, keys ...string) {
	for _, k := range keys {
		s.Apply(k)
	}
}

func TestSessionEvaluateFlow(t *testing.T) {
	var s Session
	press(&s, "1", "2", "+", "3", KeyEquals)

	if s.Expression != "12+3" {
		t.Fatalf("Expression = %q, want %q", s.Expression, "12+3")
	}
	if s.LastResult != "15" {
		t.Fatalf("LastResult = %q, want %q", s.LastResult, "15")
	}

	s.Apply(KeyClear)
	if s.Expression != "" || s.LastResult != "" {
		t.Fatalf("Clear left state %q / %q", s.Expression, s.LastResult)
	}

	// Backspace on empty buffer is a no-op.
	s.Apply(KeyBackspace)
	if s.Expression != "" || s.LastResult != "" {
		t.Fatalf("Backspace on empty session changed state to %q / %q", s.Expression, s.LastResult)
	}
}

func TestSessionBackspace(t *testing.T) {
	var s Session
	press(&s, "4", "2", KeyBackspace)
	if s.Expression != "4" {
		t.Fatalf("Expression = %q, want %q", s.Expression, "4")
	}
}

func TestSessionEqualsOnEmpty(t *testing.T) {
	var s Session
	s.LastResult = "stale"
	s.Apply(KeyEquals)
	if s.LastResult != "" {
		t.Fatalf("LastResult = %q, want empty", s.LastResult)
	}
}

func TestSessionEqualsError(t *testing.T) {
	var s Session
	press(&s, "(", "2", "+", KeyEquals)
	if !strings.HasPrefix(s.LastResult, "Error: ") {
		t.Fatalf("LastResult = %q, want an error string", s.LastResult)
	}
	// The buffer survives a failed evaluation so the user can fix it.
	if s.Expression != "(2+" {
		t.Fatalf("Expression = %q, want %q", s.Expression, "(2+")
	}
}

func TestRenderAlwaysStable(t *testing.T) {
	var s Session
	empty := s.Render()
	if !strings.Contains(empty, placeholder) {
		t.Fatal("empty render should pad with placeholder characters")
	}

	press(&s, "7", "*", "6", KeyEquals)
	full := s.Render()
	if !strings.Contains(full, "7*6") || !strings.Contains(full, "= 42") {
		t.Fatalf("render missing state: %q", full)
	}
	if strings.Count(empty, "\n") != strings.Count(full, "\n") {
		t.Fatal("render line count must not depend on state")
	}
}

func TestLayoutShape(t *testing.T) {
	rows := Layout()
	if len(rows) != 5 {
		t.Fatalf("layout rows = %d, want 5", len(rows))
	}
	for i, row := range rows {
		if len(row) != 4 {
			t.Fatalf("row %d has %d keys, want 4", i, len(row))
		}
	}
	last := rows[4]
	want := []string{KeyClear, KeyBackspace, "+", KeyEquals}
	for i, btn := range last {
		if btn.Data != want[i] {
			t.Fatalf("control row key %d = %q, want %q", i, btn.Data, want[i])
		}
	}
}

func TestStoreOneSessionPerChat(t *testing.T) {
	store := NewStore()

	var first *Session
	store.With(7, func(s *Session) { first = s })
	store.With(7, func(s *Session) {
		if s != first {
			t.Fatal("same chat id must resolve to the same session")
		}
	})
	store.With(8, func(s *Session) {
		if s == first {
			t.Fatal("different chat ids must not share a session")
		}
	})
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
}

func TestStoreSlowChatDoesNotBlockOthers(t *testing.T) {
	store := NewStore()

	started := make(chan struct{})
	release := make(chan struct{})
	go store.With(1, func(*Session) {
		close(started)
		<-release
	})
	<-started

	// While chat 1 holds its session (e.g. waiting on message delivery),
	// other chats must still be able to process key events.
	done := make(chan struct{})
	go func() {
		store.With(2, func(s *Session) { s.Apply("5") })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second chat blocked behind a busy first chat")
	}
	close(release)
}

func TestStoreSerializesPerChat(t *testing.T) {
	store := NewStore()
	const presses = 100

	var wg sync.WaitGroup
	for i := 0; i < presses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.With(1, func(s *Session) { s.Apply("1") })
		}()
	}
	wg.Wait()

	store.With(1, func(s *Session) {
		if len(s.Expression) != presses {
			t.Fatalf("expression length = %d, want %d", len(s.Expression), presses)
		}
	})
}
