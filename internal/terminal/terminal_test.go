package terminal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesFor(t *testing.T) {
	tests := []struct {
		length, width, want int
	}{
		{0, 80, 2},
		{10, 80, 2},
		{80, 80, 2},
		{81, 80, 3},
		{200, 40, 6},
		{10, 0, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LinesFor(tt.length, tt.width), "length=%d width=%d", tt.length, tt.width)
	}
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 100)

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "\r\x1b[2K"))
	assert.Equal(t, 2, strings.Count(out, "\x1b[1A"))
}

func TestReadLine(t *testing.T) {
	got, err := ReadLine(strings.NewReader("secret\r\nmore\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	got, err = ReadLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	assert.Equal(t, "no newline", got)

	_, err = ReadLine(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestReadSecretFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in")
	require.NoError(t, os.WriteFile(path, []byte("  tok-123  \n"), 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out bytes.Buffer
	got, err := ReadSecret(f, &out, "Token: ")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", got)
	assert.Equal(t, "Token: ", out.String())
	assert.False(t, IsTerminal(f))
}
