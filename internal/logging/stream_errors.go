// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// StreamErrorType represents the category of a relay stream error.
type StreamErrorType int

const (
	StreamErrorUnknown StreamErrorType = iota
	StreamErrorNetwork
	StreamErrorAuth
	StreamErrorTimeout
	StreamErrorInternal
	StreamErrorUnavailable
)

var reHTTPStatus = regexp.MustCompile(`status: (\d{3})`)

// ParseStreamError categorizes a stream error message from either transport.
// gRPC status text and "HTTP error! status: N" messages are both recognized.
func ParseStreamError(errMsg string) StreamErrorType {
	lower := strings.ToLower(errMsg)

	if m := reHTTPStatus.FindStringSubmatch(lower); m != nil {
		code, _ := strconv.Atoi(m[1])
		switch {
		case code == 401 || code == 403:
			return StreamErrorAuth
		case code == 408 || code == 504:
			return StreamErrorTimeout
		case code == 502 || code == 503:
			return StreamErrorUnavailable
		case code >= 500:
			return StreamErrorInternal
		}
	}

	switch {
	case strings.Contains(lower, "rst_stream"), strings.Contains(lower, "connection reset"),
		strings.Contains(lower, "connection refused"), strings.Contains(lower, "network error"):
		return StreamErrorNetwork
	case strings.Contains(lower, "internal_error"), strings.Contains(lower, "internal:"):
		return StreamErrorInternal
	case strings.Contains(lower, "unavailable"):
		return StreamErrorUnavailable
	case strings.Contains(lower, "deadline"), strings.Contains(lower, "timeout"):
		return StreamErrorTimeout
	case strings.Contains(lower, "unauthenticated"), strings.Contains(lower, "unauthorized"),
		strings.Contains(lower, "permissiondenied"):
		return StreamErrorAuth
	}
	return StreamErrorUnknown
}

// FormatStreamError formats a stream error in a user-friendly way.
func FormatStreamError(errMsg string) string {
	errType := ParseStreamError(errMsg)

	var builder strings.Builder
	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Model generation interrupted"))
	builder.WriteString("\n\n")

	switch errType {
	case StreamErrorNetwork:
		builder.WriteString("The connection to the harmonizer was lost or could not be opened.\n")
		builder.WriteString("Check that the service is running and that --api-host points to it.\n")
	case StreamErrorInternal:
		builder.WriteString("The harmonizer failed while processing the schema.\n")
		builder.WriteString("The service logs for this request id will have the details.\n")
	case StreamErrorUnavailable:
		builder.WriteString("The harmonizer is currently unavailable or overloaded.\n")
	case StreamErrorTimeout:
		builder.WriteString("The harmonizer did not answer in time.\n")
	case StreamErrorAuth:
		builder.WriteString("The harmonizer rejected the API token.\n")
	default:
		builder.WriteString("The stream ended unexpectedly.\n")
	}
	builder.WriteString("\n")

	if errType == StreamErrorAuth {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Run 'harmonizer token set' and try again"))
	} else {
		builder.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ Please try again"))
	}
	builder.WriteString("\n")

	if strings.TrimSpace(errMsg) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + Mask(errMsg)))
	}
	return builder.String()
}

// PresentStreamError writes a formatted stream error to w.
func PresentStreamError(w io.Writer, errMsg string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, FormatStreamError(errMsg))
	fmt.Fprintln(w)
}
