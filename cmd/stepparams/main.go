package main

import (
	"os"

	"github.com/askiada/go-stepparams/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
