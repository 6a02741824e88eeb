// Package secrets keeps the Gemini API key in the OS keyring.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "jsonstudio"
	apiKeyUser  = "gemini-api-key"

	// EnvAPIKey overrides the stored key when set
	EnvAPIKey = "GEMINI_API_KEY"
)

// ErrKeyNotFound is returned when no API key is stored
var ErrKeyNotFound = errors.New("api key not found in keyring")

// SaveError wraps a keyring write failure
type SaveError struct {
	Err     error
	Message string
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// ReadError wraps a keyring read failure other than a missing entry
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read api key from keyring: %v", e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Store reads and writes the API key
type Store struct {
	service string
}

// NewStore creates a store under the application's keyring service
func NewStore() *Store {
	return &Store{service: serviceName}
}

// Save stores key. An empty key deletes the stored one.
func (s *Store) Save(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return s.Delete()
	}

	if err := keyring.Set(s.service, apiKeyUser, key); err != nil {
		return &SaveError{
			Err:     err,
			Message: "failed to save api key to keyring",
		}
	}
	return nil
}

// Get returns the stored key
func (s *Store) Get() (string, error) {
	key, err := keyring.Get(s.service, apiKeyUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyNotFound
		}
		return "", &ReadError{Err: err}
	}
	return key, nil
}

// Delete removes the stored key. Deleting a missing key is not an error.
func (s *Store) Delete() error {
	err := keyring.Delete(s.service, apiKeyUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete api key from keyring: %w", err)
	}
	return nil
}

// Resolve returns the key from the environment, falling back to the
// keyring. A missing key yields "" with no error.
func (s *Store) Resolve() (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	key, err := s.Get()
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return key, err
}

// Mask hides all but the last four characters of key for display
func Mask(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("•", len(key))
	}
	return strings.Repeat("•", 8) + key[len(key)-4:]
}
