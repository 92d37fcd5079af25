// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build darwin

package keychain

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// securityBackend stores secrets through the macOS security CLI. Items are
// generic passwords with account ServiceName and the key as service.
type securityBackend struct {
	bin string
}

var errItemNotFound = errors.New("keychain item not found")

func newSecurityBackend() (*securityBackend, error) {
	bin, err := exec.LookPath("security")
	if err != nil {
		return nil, fmt.Errorf("security command not found: %w", err)
	}
	return &securityBackend{bin: bin}, nil
}

// run executes one security subcommand for key and returns its stdout.
// A missing item is reported as errItemNotFound.
func (s *securityBackend) run(op, key string, extra ...string) (string, error) {
	args := append([]string{op, "-a", ServiceName, "-s", key}, extra...)
	cmd := exec.Command(s.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	slog.Debug("keychain: security", "op", op, "key", key, "ok", err == nil)
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "could not be found") {
			return "", errItemNotFound
		}
		return "", fmt.Errorf("security %s %q: %s: %w", op, key, msg, err)
	}
	return stdout.String(), nil
}

// Set replaces the stored value for key.
func (s *securityBackend) Set(key, value string) error {
	if err := s.Delete(key); err != nil {
		slog.Debug("keychain: delete before set failed", "key", key, "err", err)
	}
	_, err := s.run("add-generic-password", key, "-w", value, "-U")
	return err
}

// Get returns the stored value for key, or ErrNotFound.
func (s *securityBackend) Get(key string) (string, error) {
	out, err := s.run("find-generic-password", key, "-w")
	if errors.Is(err, errItemNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *securityBackend) Delete(key string) error {
	_, err := s.run("delete-generic-password", key)
	if errors.Is(err, errItemNotFound) {
		return nil
	}
	return err
}
