// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

// scanState is the quoting state of the scanner.
type scanState int

const (
	stateNormal scanState = iota
	stateInSingleQuote
	stateInDoubleQuote
)

// scanner walks a string one byte at a time, tracking quote state and the
// parenthesis depth. Depth only moves in stateNormal. Inside a quote a
// backslash escapes the following byte.
type scanner struct {
	state   scanState
	depth   int
	escaped bool
}

// step feeds one byte to the machine and reports whether that byte sits at
// the top level: outside any quote and, when nested is set, at depth zero.
func (s *scanner) step(ch byte, nested bool) bool {
	switch s.state {
	case stateInSingleQuote, stateInDoubleQuote:
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '\'' && s.state == stateInSingleQuote,
			ch == '"' && s.state == stateInDoubleQuote:
			s.state = stateNormal
		}
		return false
	}

	switch ch {
	case '\'':
		s.state = stateInSingleQuote
		return false
	case '"':
		s.state = stateInDoubleQuote
		return false
	case '(':
		s.depth++
		return false
	case ')':
		if s.depth > 0 {
			s.depth--
		}
		return false
	}
	return !nested || s.depth == 0
}

// splitTopLevel splits text on sep wherever sep appears outside quotes and,
// when nested is set, outside parentheses. Pieces are returned untrimmed.
func splitTopLevel(text string, sep byte, nested bool) []string {
	var (
		sc    scanner
		parts []string
		start int
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if sc.step(ch, nested) && ch == sep {
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

// matchingParen returns the index of the ')' closing the '(' at text[open],
// skipping quoted text and nested pairs. It returns -1 when the pair never closes.
func matchingParen(text string, open int) int {
	if open < 0 || open >= len(text) || text[open] != '(' {
		return -1
	}
	var sc scanner
	for i := open; i < len(text); i++ {
		quoted := sc.state != stateNormal
		sc.step(text[i], true)
		if !quoted && text[i] == ')' && sc.depth == 0 {
			return i
		}
	}
	return -1
}
