// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"timeout", fmt.Errorf("post: %w", context.DeadlineExceeded), Timeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}, DNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, ConnectionRefused},
		{"tls", errors.New("x509: certificate signed by unknown authority"), TLS},
		{"unauthorized", errors.New("chat failed: HTTP error! status: 401"), Unauthorized},
		{"server", errors.New("HTTP error! status: 502"), Server},
		{"generic", errors.New("something else"), Generic},
		{"nil", nil, Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFormatNetworkError(t *testing.T) {
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var buf bytes.Buffer
	cause := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	err := FormatNetworkError(&buf, cause, "sending schema", "localhost:8000")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "Connection refused while sending schema")
	assert.Contains(t, buf.String(), "localhost:8000")
	assert.NoError(t, FormatNetworkError(&buf, nil, "x", ""))
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "h.example.com:9000", ExtractHostFromURL("https://h.example.com:9000/api"))
	assert.Equal(t, "server", ExtractHostFromURL("not a url"))
}
