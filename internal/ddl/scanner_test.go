// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		sep    byte
		nested bool
		want   []string
	}{
		{
			name:   "simple commas",
			input:  "a INT,b INT",
			sep:    ',',
			nested: true,
			want:   []string{"a INT", "b INT"},
		},
		{
			name:   "comma inside decimal params",
			input:  "price DECIMAL(10,2),qty INT",
			sep:    ',',
			nested: true,
			want:   []string{"price DECIMAL(10,2)", "qty INT"},
		},
		{
			name:   "comma inside quoted enum values",
			input:  "s ENUM('a,b','c,d'),x INT",
			sep:    ',',
			nested: true,
			want:   []string{"s ENUM('a,b','c,d')", "x INT"},
		},
		{
			name:   "paren inside quotes does not change depth",
			input:  "a VARCHAR(5) DEFAULT '(',b INT",
			sep:    ',',
			nested: true,
			want:   []string{"a VARCHAR(5) DEFAULT '('", "b INT"},
		},
		{
			name:   "escaped quote stays inside literal",
			input:  `a TEXT DEFAULT 'it\'s, fine',b INT`,
			sep:    ',',
			nested: true,
			want:   []string{`a TEXT DEFAULT 'it\'s, fine'`, "b INT"},
		},
		{
			name:   "double quotes protect separator",
			input:  `a TEXT DEFAULT "x,y",b INT`,
			sep:    ',',
			nested: true,
			want:   []string{`a TEXT DEFAULT "x,y"`, "b INT"},
		},
		{
			name:   "single quote inside double quotes",
			input:  `a TEXT DEFAULT "it's",b INT`,
			sep:    ',',
			nested: true,
			want:   []string{`a TEXT DEFAULT "it's"`, "b INT"},
		},
		{
			name:   "statement split ignores depth",
			input:  "x (a;b)",
			sep:    ';',
			nested: false,
			want:   []string{"x (a", "b)"},
		},
		{
			name:  "no separator",
			input: "abc",
			sep:   ';',
			want:  []string{"abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitTopLevel(tt.input, tt.sep, tt.nested))
		})
	}
}

func TestMatchingParen(t *testing.T) {
	tests := []struct {
		name  string
		input string
		open  int
		want  int
	}{
		{"flat", "(10,2)", 0, 5},
		{"nested", "ENUM((a),b) X", 4, 10},
		{"quoted close paren", "('a)',b)", 0, 7},
		{"unclosed", "(10,2", 0, -1},
		{"not an open paren", "x(1)", 0, -1},
		{"out of range", "()", 5, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchingParen(tt.input, tt.open))
		})
	}
}

func TestLexer(t *testing.T) {
	lx := newLexer("CREATE TABLE `users`(id 'a\\'b' \"q\"")
	var kinds []tokenKind
	var texts []string
	for {
		tok := lx.next()
		if tok.kind == tokEOF {
			break
		}
		kinds = append(kinds, tok.kind)
		texts = append(texts, tok.text)
	}
	assert.Equal(t, []tokenKind{tokWord, tokWord, tokWord, tokPunct, tokWord, tokString, tokQuoted}, kinds)
	assert.Equal(t, []string{"CREATE", "TABLE", "`users`", "(", "id", `'a\'b'`, `"q"`}, texts)
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lx := newLexer("a b c")
	first := lx.peek(2)
	assert.Len(t, first, 2)
	assert.Equal(t, "a", lx.next().text)
	assert.Equal(t, "b", lx.next().text)
}
