package level

import (
	"regexp"
	"strings"
)

// The level format is edited by hand and by a zoo of external tools, so
// files routinely arrive with small mechanical defects. Repair applies a
// fixed, ordered sequence of textual substitutions once (not iteratively)
// before the text reaches the permissive decoder.
var (
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	bareDecor     = regexp.MustCompile(`(\s)("decorations")`)
	doubledComma  = regexp.MustCompile(`,\s*,`)
)

// Repair sanitizes raw level text. The substitutions, in order:
//  1. strip a UTF-8 byte-order mark
//  2. collapse the escape-newline artifact ("\" followed by a real newline)
//     into a plain "\n" escape
//  3. drop a trailing comma directly before a closing brace or bracket
//  4. insert the comma missing before a "decorations" key that directly
//     follows whitespace
//  5. collapse any doubled comma
func Repair(text string) string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.ReplaceAll(text, "\\\n", "\\n")
	text = trailingComma.ReplaceAllString(text, "$1")
	text = bareDecor.ReplaceAllString(text, "$1,$2")
	text = doubledComma.ReplaceAllString(text, ",")
	return text
}
