// Package keypad drives the per-chat interactive calculator: it accumulates
// key presses into an expression buffer, evaluates on equals, and renders the
// message text plus button layout the transport layer delivers.
package keypad

import "github.com/m3rciful/calcbot/calc"

// Control keys; every other key token is appended to the buffer literally.
const (
	KeyClear     = "C"
	KeyBackspace = "del"
	KeyEquals    = "="
)

// MessageRef identifies the Telegram message currently displaying a session's
// keypad. The zero value means no render has been delivered yet.
type MessageRef struct {
	ChatID    int64
	MessageID string
}

// Zero reports whether the ref points at no message.
func (r MessageRef) Zero() bool {
	return r.MessageID == ""
}

// Session is the calculator state for one conversation. Fields are mutated in
// place by Apply; the owning Store serializes access per chat.
type Session struct {
	Expression string
	LastResult string
	Message    MessageRef
}

// Apply advances the session by one key event. Clear resets both fields,
// Backspace drops the trailing character (a no-op on an empty buffer), Equals
// evaluates a non-empty buffer into LastResult, and any other key is appended
// to the buffer as-is.
func (s *Session) Apply(key string) {
	switch key {
	case KeyClear:
		s.Expression = ""
		s.LastResult = ""
	case KeyBackspace:
		if s.Expression != "" {
			runes := []rune(s.Expression)
			s.Expression = string(runes[:len(runes)-1])
		}
	case KeyEquals:
		if s.Expression == "" {
			s.LastResult = ""
			return
		}
		out := calc.Evaluate(s.Expression)
		if out.OK() {
			s.LastResult = out.Value
		} else {
			s.LastResult = out.ErrorText()
		}
	default:
		s.Expression += key
	}
}
