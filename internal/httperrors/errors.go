// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for harmonizer requests.
package httperrors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Category is the detected cause of a failed request.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
	Unauthorized
)

// Classify detects the common error types: timeout, DNS, connection refused,
// TLS, server side (5xx) and rejected credentials.
func Classify(err error) Category {
	if err == nil {
		return Generic
	}
	errStr := strings.ToLower(err.Error())
	switch {
	case isTimeoutError(err, errStr):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err, errStr):
		return ConnectionRefused
	case isSSLError(errStr):
		return TLS
	case strings.Contains(errStr, "status: 401"), strings.Contains(errStr, "status: 403"):
		return Unauthorized
	case isServerError(errStr):
		return Server
	}
	return Generic
}

// FormatNetworkError writes a troubleshooting message for err to w and
// returns err wrapped for logging. host names the harmonizer in the message.
func FormatNetworkError(w io.Writer, err error, context, host string) error {
	if err == nil {
		return nil
	}
	pterm.Fprintln(w, Describe(err, context, host))
	return fmt.Errorf("%s: %w", context, err)
}

// Describe returns the message FormatNetworkError prints.
func Describe(err error, context, host string) string {
	if host == "" {
		host = "the harmonizer"
	}
	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	switch Classify(err) {
	case Timeout:
		line("⏱️  Connection timeout while %s", context)
		line("")
		line("%s took too long to respond. Raise --timeout or try again in a few moments.", host)
	case DNS:
		line("🌐 Cannot resolve server address while %s", context)
		line("")
		line("Unable to look up %s. Check the api_host setting and your DNS.", host)
	case ConnectionRefused:
		line("🚫 Connection refused while %s", context)
		line("")
		line("Nothing is listening at %s. Check that the service is running and that --api-host is right.", host)
	case TLS:
		line("🔒 Secure connection failed while %s", context)
		line("")
		line("Cannot establish a TLS connection to %s. Check the certificate and your system clock.", host)
	case Unauthorized:
		line("🔑 Request rejected while %s", context)
		line("")
		line("%s did not accept the API token. Run 'harmonizer token set' to store a new one.", host)
	case Server:
		line("⚠️  Server error while %s", context)
		line("")
		line("%s failed to process the request. This is not a problem with your schema.", host)
	default:
		line("❌ Cannot reach %s while %s", host, context)
	}

	if details := err.Error(); details != "" {
		if len(details) > 100 {
			details = details[:100] + "..."
		}
		line("")
		b.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Technical details: " + details))
	}
	return strings.TrimRight(b.String(), "\n")
}

func isTimeoutError(err error, errStr string) bool {
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error, errStr string) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(errStr, "connection refused")
}

func isSSLError(errStr string) bool {
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

func isServerError(errStr string) bool {
	for _, s := range []string{"status: 500", "status: 502", "status: 503", "status: 504",
		"internal server error", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(errStr, s) {
			return true
		}
	}
	return false
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
