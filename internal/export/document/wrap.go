package document

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// DefaultWrapWidth is the maximum paragraph line width in characters.
const DefaultWrapWidth = 90

// Wrap splits text into lines of at most width characters, breaking only at
// whitespace. A single word longer than width gets a line of its own; nothing
// is ever dropped.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	return strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
}
