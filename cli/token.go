package cli

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringService = "smsly-code"

// Tokens are stored per API endpoint.
func saveToken(endpoint, token string) error {
	return keyring.Set(keyringService, endpoint, token)
}

func loadToken(endpoint string) (string, error) {
	token, err := keyring.Get(keyringService, endpoint)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && token == "") {
		return "", errNotLoggedIn
	}
	return token, err
}

func deleteToken(endpoint string) error {
	err := keyring.Delete(keyringService, endpoint)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
