package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/dirstore/cmd/dirstore"
)

func main() {
	rootCmd := dirstore.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, dirstore.RenderError(err))
		os.Exit(1)
	}
}
