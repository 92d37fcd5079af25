// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe access to the OS credential store for the
// harmonizer CLI. It holds the harmonizer API token and the database DSN used by
// schema pulls.
//
// macOS uses the security command first and the keyring library as fallback;
// Windows uses Credential Manager; Linux uses Secret Service, the kernel keyctl
// store or pass, whichever is available.
package keychain

import (
	"errors"
	"runtime"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	backend keychainBackend
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "harmonizer"

// Keys used for storing secrets in the OS keychain.
const (
	KeyAPIToken = "api_token"
	KeyDBDSN    = "db_dsn"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend()
		if err == nil {
			return &Manager{backend: backend}, nil
		}
		// Fall through to keyring library if security command fails
	}

	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{backend: ringBackend{ring: ring}}, nil
}

// NewMemoryManager returns a manager backed by an in-memory map.
// It is used in tests and when no OS store is available.
func NewMemoryManager() *Manager {
	return &Manager{backend: &memoryBackend{items: map[string]string{}}}
}

// GetManager returns the global keychain manager instance.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}
	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Pass requires 'pass' utility installed: brew install pass
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux":
		allowedBackends = []keyring.BackendType{keyring.SecretServiceBackend, keyring.KeyCtlBackend, keyring.PassBackend}
	default:
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
		KeyCtlScope:     "user",
		WinCredPrefix:   ServiceName,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// Save stores value under key. This method is thread-safe.
func (m *Manager) Save(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Set(key, value)
}

// Load retrieves the value stored under key.
// A missing or empty value returns ErrNotFound.
func (m *Manager) Load(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, err := m.backend.Get(key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", ErrNotFound
	}
	return v, nil
}

// Delete removes key; a missing key is not an error.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.backend.Delete(key)
}

// SaveAPIToken stores the harmonizer bearer token.
func (m *Manager) SaveAPIToken(token string) error { return m.Save(KeyAPIToken, strings.TrimSpace(token)) }

// LoadAPIToken retrieves the harmonizer bearer token.
func (m *Manager) LoadAPIToken() (string, error) { return m.Load(KeyAPIToken) }

// SaveDBDSN stores the database DSN used by schema pulls.
func (m *Manager) SaveDBDSN(dsn string) error { return m.Save(KeyDBDSN, strings.TrimSpace(dsn)) }

// LoadDBDSN retrieves the stored database DSN.
func (m *Manager) LoadDBDSN() (string, error) { return m.Load(KeyDBDSN) }

// ClearAll removes all secrets from the keychain.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.backend.Delete(KeyAPIToken), m.backend.Delete(KeyDBDSN))
}

// ringBackend adapts keyring.Keyring to keychainBackend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (r ringBackend) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringBackend) Delete(key string) error {
	if err := r.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

type memoryBackend struct {
	items map[string]string
}

func (b *memoryBackend) Set(key, value string) error {
	b.items[key] = value
	return nil
}

func (b *memoryBackend) Get(key string) (string, error) {
	v, ok := b.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (b *memoryBackend) Delete(key string) error {
	delete(b.items, key)
	return nil
}
