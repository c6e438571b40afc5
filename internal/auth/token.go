package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "tallyup"
	defaultSecretUser    = "quickbooks_access_token"

	tokenEnv = "QUICKBOOKS_ACCESS_TOKEN"
)

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// ErrNoToken means neither the environment nor the keyring holds a token.
var ErrNoToken = errors.New("no QuickBooks access token configured; run `tallyup auth set`")

// LoadToken loads the QuickBooks OAuth access token.
//
// Order of precedence:
// 1) QUICKBOOKS_ACCESS_TOKEN environment variable.
// 2) System keyring item referenced by service/account.
func LoadToken() (string, error) {
	if token := strings.TrimSpace(os.Getenv(tokenEnv)); token != "" {
		return token, nil
	}

	token, err := loadFromKeyring()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// SaveToken stores the access token in the system credential store.
func SaveToken(token string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return errors.New("access token cannot be empty")
	}

	service, account := keyringItem()
	if err := keyringSet(service, account, trimmed); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// RemoveToken deletes the stored token. A missing item is not an error.
func RemoveToken() error {
	service, account := keyringItem()
	if err := keyringDelete(service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf(
			"failed to delete keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func loadFromKeyring() (string, error) {
	service, account := keyringItem()

	secret, err := keyringGet(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return strings.TrimSpace(secret), nil
}

func keyringItem() (string, string) {
	return envOrDefault("TALLYUP_KEYRING_SERVICE", defaultSecretService),
		envOrDefault("TALLYUP_KEYRING_ACCOUNT", defaultSecretUser)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
