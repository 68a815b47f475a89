package providers

import (
	"fmt"
	"launchpad/internal/structures"

	"github.com/99designs/keyring"
)

const BackendSecretKey = "backend_secret"

type CredentialProviderInterface interface {
	Get(key string) (string, error)
	Set(key string, value string) error
}

// KeyringCredentials keeps secrets in the OS keychain, falling back to an
// encrypted file store where no keychain is available.
type KeyringCredentials struct {
	config keyring.Config
}

func NewCredentialProvider(conf *structures.Config) CredentialProviderInterface {
	return &KeyringCredentials{
		config: keyring.Config{
			ServiceName: conf.Credentials.Service,
			AllowedBackends: []keyring.BackendType{
				keyring.KeychainBackend,
				keyring.SecretServiceBackend,
				keyring.WinCredBackend,
				keyring.PassBackend,
				keyring.FileBackend,
			},
			FileDir:                  conf.Credentials.FileDir,
			FilePasswordFunc:         keyring.FixedStringPrompt(conf.Credentials.Service + "-file-key"),
			KeychainTrustApplication: true,
		},
	}
}

func (k *KeyringCredentials) open() (keyring.Keyring, error) {
	ring, err := keyring.Open(k.config)
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func (k *KeyringCredentials) Get(key string) (string, error) {
	ring, err := k.open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (k *KeyringCredentials) Set(key string, value string) error {
	ring, err := k.open()
	if err != nil {
		return err
	}
	if err = ring.Set(keyring.Item{Key: key, Data: []byte(value)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// BackendSecret returns the history endpoint credential. The config value (or
// its environment override) wins over the keyring.
func BackendSecret(conf *structures.Config, credentials CredentialProviderInterface) (string, error) {
	if conf.Backend.Secret != "" {
		return conf.Backend.Secret, nil
	}
	secret, err := credentials.Get(BackendSecretKey)
	if err != nil {
		return "", fmt.Errorf("no backend secret configured: %w", err)
	}
	return secret, nil
}
