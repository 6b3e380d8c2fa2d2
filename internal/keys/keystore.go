// Package keys stores explorer API keys in the OS keychain.
package keys

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/99designs/keyring"
)

const keychainService = "tonscope"

// Services with a stored API key.
const (
	Toncenter = "toncenter"
	Tonapi    = "tonapi"
)

// ErrUnknownService is returned for a service name other than Toncenter or
// Tonapi.
var ErrUnknownService = errors.New("unknown service")

var envVars = map[string]string{
	Toncenter: "TONCENTER_API_KEY",
	Tonapi:    "TONAPI_API_KEY",
}

// Services lists the known service names in a stable order.
func Services() []string {
	out := make([]string, 0, len(envVars))
	for s := range envVars {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// EnvVar returns the environment variable that overrides service's key.
func EnvVar(service string) string {
	return envVars[service]
}

// Store is the key storage used by Resolve.
type Store interface {
	Set(service, key string) error
	Get(service string) (string, error)
	Delete(service string) error
}

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// DefaultKeystore returns a keystore backed by the OS keychain, falling back
// to the encrypted file backend on headless Linux.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, err = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
		if err != nil {
			return &Keystore{}
		}
	}
	return &Keystore{ring: ring}
}

func itemKey(service string) string {
	return keychainService + "." + service
}

func checkService(service string) error {
	if _, ok := envVars[service]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	return nil
}

// Set saves the API key for service.
func (k *Keystore) Set(service, key string) error {
	if err := checkService(service); err != nil {
		return err
	}
	if k.ring == nil {
		return fmt.Errorf("keychain not available")
	}
	err := k.ring.Set(keyring.Item{
		Key:   itemKey(service),
		Data:  []byte(key),
		Label: "tonscope " + service + " API key",
	})
	if err != nil {
		return fmt.Errorf("keychain store: %w", err)
	}
	return nil
}

// Get returns the stored key for service, or "" when none is stored.
func (k *Keystore) Get(service string) (string, error) {
	if err := checkService(service); err != nil {
		return "", err
	}
	if k.ring == nil {
		return "", nil
	}
	item, err := k.ring.Get(itemKey(service))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes the stored key. Deleting a missing key is not an error.
func (k *Keystore) Delete(service string) error {
	if err := checkService(service); err != nil {
		return err
	}
	if k.ring == nil {
		return nil
	}
	if err := k.ring.Remove(itemKey(service)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Resolve returns the API key for service. The environment variable wins
// over the store; an empty result means the free tier.
func Resolve(s Store, service string) (string, error) {
	if err := checkService(service); err != nil {
		return "", err
	}
	if v := strings.TrimSpace(os.Getenv(envVars[service])); v != "" {
		return v, nil
	}
	if s == nil {
		return "", nil
	}
	return s.Get(service)
}

// Source describes where Resolve would find service's key, for display.
func Source(s Store, service string) string {
	if os.Getenv(envVars[service]) != "" {
		return "env " + envVars[service]
	}
	if s != nil {
		if v, err := s.Get(service); err == nil && v != "" {
			return "keychain"
		}
	}
	return "none"
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

// InMemoryKeystore keeps keys in memory (for tests).
type InMemoryKeystore struct {
	data map[string]string
}

// NewInMemoryKeystore creates an empty in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Set(service, key string) error {
	if err := checkService(service); err != nil {
		return err
	}
	k.data[service] = key
	return nil
}

func (k *InMemoryKeystore) Get(service string) (string, error) {
	if err := checkService(service); err != nil {
		return "", err
	}
	return k.data[service], nil
}

func (k *InMemoryKeystore) Delete(service string) error {
	delete(k.data, service)
	return nil
}
