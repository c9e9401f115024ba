package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups this app’s secrets in the OS keychain.
	KeyringService = "sovtrack"

	// EnvAPIKey is the fallback for headless hosts without a keychain.
	EnvAPIKey = "SERP_API_KEY"
)

var ErrMissingAPIKey = errors.New("SerpAPI key not found (set it in the keychain via `engine secret set` or export SERP_API_KEY)")

// GetSerpAPIKey resolves the SerpAPI credential: keyring first, then
// the SERP_API_KEY environment variable.
func GetSerpAPIKey(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) != "" {
		key, err := keyring.Get(KeyringService, keyringAccount)
		if err == nil && strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), nil
		}
	}

	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	return "", ErrMissingAPIKey
}

func SetSerpAPIKey(keyringAccount, key string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, key)
}

func DeleteSerpAPIKey(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
