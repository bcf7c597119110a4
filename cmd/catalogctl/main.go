package main

import (
	"os"

	"github.com/imgcatalog/backend/cmd/catalogctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
