package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"launchpad/internal/providers"
	"launchpad/internal/structures"
	"strings"
)

var errEmptySecret = errors.New("backend secret is empty")

// storeSecret reads one line from in and saves it as the backend secret in the
// keyring selected by the config file.
func storeSecret(flags *structures.CliFlags, in io.Reader, credentials func(*structures.Config) providers.CredentialProviderInterface) error {
	conf, err := providers.NewConfigProvider(flags)
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading backend secret: %w", err)
	}
	secret := strings.TrimSpace(line)
	if secret == "" {
		return errEmptySecret
	}

	return credentials(conf).Set(providers.BackendSecretKey, secret)
}
