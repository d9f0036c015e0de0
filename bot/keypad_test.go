package bot

import (
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/calcbot/calc/keypad"
)

func TestKeypadMarkupMatchesLayout(t *testing.T) {
	markup := keypadMarkup()
	layout := keypad.Layout()

	if len(markup.InlineKeyboard) != len(layout) {
		t.Fatalf("rows = %d, want %d", len(markup.InlineKeyboard), len(layout))
	}
	for i, row := range markup.InlineKeyboard {
		if len(row) != len(layout[i]) {
			t.Fatalf("row %d has %d buttons, want %d", i, len(row), len(layout[i]))
		}
		for j, btn := range row {
			want := layout[i][j]
			if btn.Text != want.Label {
				t.Errorf("button (%d,%d) label = %q, want %q", i, j, btn.Text, want.Label)
			}
			if btn.Unique != cbKeypad {
				t.Errorf("button (%d,%d) unique = %q, want %q", i, j, btn.Unique, cbKeypad)
			}
			if btn.Data != want.Data {
				t.Errorf("button (%d,%d) data = %q, want %q", i, j, btn.Data, want.Data)
			}
		}
	}
}

func TestKeypadMarkupDisplayGlyphs(t *testing.T) {
	markup := keypadMarkup()
	var labels strings.Builder
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			labels.WriteString(btn.Text)
		}
	}
	for _, glyph := range []string{"÷", "×", "−", "⌫"} {
		if !strings.Contains(labels.String(), glyph) {
			t.Errorf("keypad is missing display glyph %q", glyph)
		}
	}
}

func TestIsNotModified(t *testing.T) {
	if !isNotModified(errors.New("telegram: Bad Request: message is not modified (400)")) {
		t.Error("expected not-modified detection")
	}
	if isNotModified(errors.New("telegram: message to edit not found (400)")) {
		t.Error("unrelated edit error must not match")
	}
	if isNotModified(nil) {
		t.Error("nil error must not match")
	}
}
