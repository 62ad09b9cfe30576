// Package main is the dart command itself.
package main

import (
	"os"

	dartcli "github.com/RomanBuckle/dart/cli"
	"github.com/RomanBuckle/dart/logging"
)

func main() {
	logging.ReplaceGlobal(logging.NewLogger("dart"))
	app := dartcli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.Global().Error(err)
		//nolint:errcheck
		logging.Global().Sync()
		os.Exit(1)
	}
}
