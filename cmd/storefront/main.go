package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"storefront/pkg/collection/infrastructure/prompt"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := newApp(os.Stdin, os.Stdout, os.Stderr, prompt.IsInteractive(os.Stdin.Fd()))
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("storefront stopped")
	}
}
