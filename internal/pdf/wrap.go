// Package pdf renders the agreement confirmation document. The layout engine
// is separate from the encoder: Wrap and Cursor decide line and page breaks,
// the renderer only draws what they hand back.
package pdf

import "strings"

// Wrap splits text into lines no wider than maxWidth under the given measure
// function. Whitespace runs, including embedded newlines, are collapsed to
// single spaces first so manually broken text re-flows to the page width.
//
// The wrap is greedy: words accumulate until the candidate line measures wider
// than maxWidth, then the line is flushed and the overflowing word starts the
// next one. A single word wider than maxWidth is emitted on its own line,
// unsplit. Identical input always yields the identical line sequence.
func Wrap(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
		} else {
			current = candidate
		}
	}
	return append(lines, current)
}

// Cursor tracks the vertical position on a page. Coordinates grow downward;
// top and bottom are the first usable baseline offset and the last usable one.
type Cursor struct {
	top    float64
	bottom float64
	y      float64
}

// NewCursor creates a cursor for pages whose content area runs from top to
// bottom.
func NewCursor(top, bottom float64) *Cursor {
	return &Cursor{top: top, bottom: bottom, y: top}
}

// Line reserves one line of height h and returns its baseline. ok is false
// when the line would cross the bottom margin; the caller must start a new
// page and Reset before retrying.
func (c *Cursor) Line(h float64) (y float64, ok bool) {
	y = c.y + h
	if y > c.bottom {
		return 0, false
	}
	c.y = y
	return y, true
}

// Skip consumes h of vertical space without emitting a line.
func (c *Cursor) Skip(h float64) {
	c.y += h
}

// Reset moves the cursor back to the top of a fresh page.
func (c *Cursor) Reset() {
	c.y = c.top
}
