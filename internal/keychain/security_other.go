// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

//go:build !darwin

package keychain

import (
	"fmt"
	"runtime"
)

// securityBackend wraps the macOS security CLI. Elsewhere every call fails
// and the keyring backends are used instead.
type securityBackend struct{}

var errNoSecurityCLI = fmt.Errorf("security CLI backend unavailable on %s", runtime.GOOS)

func newSecurityBackend() (*securityBackend, error) { return nil, errNoSecurityCLI }

func (*securityBackend) Set(string, string) error   { return errNoSecurityCLI }
func (*securityBackend) Get(string) (string, error) { return "", errNoSecurityCLI }
func (*securityBackend) Delete(string) error        { return errNoSecurityCLI }
