// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import "strings"

// tokenKind classifies a lexical token.
type tokenKind int

const (
	tokEOF tokenKind = iota
	// tokWord is a run of letters, digits, underscores and backticks.
	tokWord
	// tokString is a single-quoted literal.
	tokString
	// tokQuoted is a double-quoted identifier.
	tokQuoted
	// tokPunct is any other single byte.
	tokPunct
)

// token is a lexeme with its byte offsets in the source.
type token struct {
	kind tokenKind
	text string
	pos  int
	end  int
}

// is reports whether t is the word kw, ignoring case.
func (t token) is(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

// punct reports whether t is the punctuation byte ch.
func (t token) punct(ch byte) bool {
	return t.kind == tokPunct && len(t.text) == 1 && t.text[0] == ch
}

// lexer splits DDL text into tokens. Whitespace separates tokens and is not
// emitted; callers detect it through the gap between one token's end and the
// next token's pos.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isLetter(ch byte) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' }
func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool { return isLetter(ch) || ch == '_' }
func isIdentPart(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }

// isWordPart matches the \w class plus the backtick.
func isWordPart(ch byte) bool { return isIdentPart(ch) || ch == '`' }

// next returns the following token, or a tokEOF token at the end of input.
func (l *lexer) next() token {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	start := l.pos
	if start >= len(l.src) {
		return token{kind: tokEOF, pos: start, end: start}
	}

	ch := l.src[start]
	switch {
	case isWordPart(ch):
		for l.pos < len(l.src) && isWordPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokWord, text: l.src[start:l.pos], pos: start, end: l.pos}
	case ch == '\'' || ch == '"':
		l.readQuoted(ch)
		kind := tokString
		if ch == '"' {
			kind = tokQuoted
		}
		return token{kind: kind, text: l.src[start:l.pos], pos: start, end: l.pos}
	default:
		l.pos++
		return token{kind: tokPunct, text: l.src[start:l.pos], pos: start, end: l.pos}
	}
}

// readQuoted consumes a quoted run starting at l.pos. An unterminated quote
// runs to the end of input.
func (l *lexer) readQuoted(quote byte) {
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case quote:
			l.pos++
			return
		}
		l.pos++
	}
	l.pos = len(l.src)
}

// peek returns up to n upcoming tokens without consuming them.
func (l *lexer) peek(n int) []token {
	saved := l.pos
	defer func() { l.pos = saved }()
	out := make([]token, 0, n)
	for i := 0; i < n; i++ {
		tok := l.next()
		out = append(out, tok)
		if tok.kind == tokEOF {
			break
		}
	}
	return out
}
