package keypad

import "strings"

// placeholder keeps empty expression/result lines visually stable: Telegram
// collapses regular spaces, U+00A0 survives inside monospace spans.
const placeholder = " "

// Button is one keypad key: Label is shown to the user, Data is the key token
// sent back on press.
type Button struct {
	Label string
	Data  string
}

// Layout returns the fixed 4x5 keypad. Display glyphs differ from the key
// tokens for divide, multiply, and minus.
func Layout() [][]Button {
	return [][]Button{
		{{"7", "7"}, {"8", "8"}, {"9", "9"}, {"÷", "/"}},
		{{"4", "4"}, {"5", "5"}, {"6", "6"}, {"×", "*"}},
		{{"1", "1"}, {"2", "2"}, {"3", "3"}, {"−", "-"}},
		{{"0", "0"}, {".", "."}, {"(", "("}, {")", ")"}},
		{{"C", KeyClear}, {"⌫", KeyBackspace}, {"+", "+"}, {"=", KeyEquals}},
	}
}

// Render produces the message text for the current session state. The caller
// pairs it with Layout and delivers it by editing the previous message or
// sending a fresh one.
func (s *Session) Render() string {
	expr := s.Expression
	if expr == "" {
		expr = placeholder
	}
	result := s.LastResult
	if result == "" {
		result = placeholder
	}
	var b strings.Builder
	b.WriteString("🧮 *Calculator*\n\n")
	b.WriteString("`" + expr + "`\n")
	b.WriteString("`= " + result + "`")
	return b.String()
}
