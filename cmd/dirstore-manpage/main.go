package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/dirstore/cmd/dirstore"
	"github.com/arthur-debert/dirstore/internal/version"
)

func main() {
	rootCmd := dirstore.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "DIRSTORE",
		Section: "1",
		Source:  "dirstore " + version.Version,
		Manual:  "dirstore manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
