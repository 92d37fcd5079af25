package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user enters nothing.
var ErrEmptyInput = errors.New("no input provided")

// ReadSecret prints prompt to out and reads one line from in. When in is a
// terminal the input is not echoed; otherwise a single line is read, which
// lets secrets be piped in.
func ReadSecret(in *os.File, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)

	var value string
	if IsTerminal(in) {
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		value = string(b)
	} else {
		line, err := ReadLine(in)
		if err != nil {
			return "", err
		}
		value = line
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrEmptyInput
	}
	return value, nil
}

// ReadLine reads a single line from r without its line ending.
func ReadLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrEmptyInput
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
