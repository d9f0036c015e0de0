package calc

import "strings"

// glyphReplacer maps Unicode operator glyphs commonly typed (or produced by
// mobile keyboards) onto their ASCII equivalents and strips grouping commas.
// Substitution changes encoding only, never the numeric meaning of valid input.
var glyphReplacer = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"—", "-", // em dash
	"–", "-", // en dash
	"−", "-", // minus sign
	"‐", "-", // hyphen
	",", "",
)

// Normalize trims the raw input and substitutes alternate glyphs so the rest
// of the pipeline only ever sees ASCII arithmetic.
func Normalize(raw string) string {
	return strings.TrimSpace(glyphReplacer.Replace(raw))
}
