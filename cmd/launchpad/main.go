package main

import (
	"fmt"
	"launchpad/internal/di"
	"launchpad/internal/providers"
	"launchpad/internal/structures"
	"os"

	flag "github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console at debug level")
	flag.BoolVar(&flags.PreviewMode, "preview", false, "show sample history without reading the cache or calling the backend")
	flag.BoolVar(&flags.SetSecret, "set-secret", false, "read the backend secret from stdin, store it in the keyring and exit")
	flag.Parse()

	if flags.SetSecret {
		if err := storeSecret(flags, os.Stdin, providers.NewCredentialProvider); err != nil {
			fmt.Fprintf(os.Stderr, "launchpad: %s\n", err)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "launchpad: backend secret stored")
		return
	}

	app, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "launchpad: %s\n", err)
		os.Exit(1)
	}
	app.Close()
}
