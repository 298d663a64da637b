package main

import (
	"os"

	"github.com/hirenkeraliya/go-health/cmd/health/app"
)

func main() {
	if err := app.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
