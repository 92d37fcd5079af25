// Package terminal provides utilities for terminal operations such as clearing
// prompts and reading secrets without echo.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// defaultWidth is used when the terminal size is unavailable.
const defaultWidth = 80

// Width returns the width of the terminal on f, or 80 if f is not a terminal.
func Width(f *os.File) int {
	if f == nil {
		return defaultWidth
	}
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return defaultWidth
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// LinesFor returns how many lines textLength characters occupy at width,
// plus the empty line left below the input after Enter.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	totalLines := int(math.Ceil(float64(textLength) / float64(width)))
	if totalLines < 1 {
		totalLines = 1
	}
	return totalLines + 1
}

// ClearPreviousLines clears text previously printed to w, typically a prompt
// together with what the user typed into it.
//
// Parameters:
//   - w: The stream the prompt was written to
//   - textLength: The total number of characters in the text to clear (prompt + user input)
func ClearPreviousLines(w io.Writer, textLength int) {
	width := defaultWidth
	if f, ok := w.(*os.File); ok {
		width = Width(f)
	}

	linesToClear := LinesFor(textLength, width)
	for i := 0; i < linesToClear; i++ {
		fmt.Fprint(w, "\r\x1b[2K") // Move to start and clear entire line
		if i < linesToClear-1 {
			fmt.Fprint(w, "\x1b[1A") // Move up one line (don't move up on last iteration)
		}
	}
}
