// Package dirstore assembles the dirstore command line interface. The
// commands here stay thin; the behavior lives in internal/commands so
// it can be tested without going through cobra.
package dirstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dirstore/internal/cli/topics"
	"github.com/arthur-debert/dirstore/internal/version"
	"github.com/arthur-debert/dirstore/pkg/logging"
)

// NewRootCmd builds the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "dirstore",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("root", "", MsgFlagRoot)

	rootCmd.AddGroup(
		&cobra.Group{ID: "store", Title: "Store Commands:"},
		&cobra.Group{ID: "bulk", Title: "Bulk Commands:"},
		&cobra.Group{ID: "misc", Title: "Misc Commands:"},
	)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(
		newSetCmd(),
		newGetCmd(),
		newDelCmd(),
		newHasCmd(),
		newKeysCmd(),
		newLenCmd(),
		newAddCmd(),
		newDiscardCmd(),
		newAppendCmd(),
		newInsertCmd(),
		newAtCmd(),
		newSetAtCmd(),
		newSliceCmd(),
		newClearCmd(),
		newDestroyCmd(),
		newCheckCmd(),
		newImportCmd(),
		newExportCmd(),
		newGenConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)

	if dir := findTopicsDir(); dir != "" {
		if err := topics.Initialize(rootCmd, dir, topics.Options{
			Extensions: []string{".txt", ".md"},
			Renderer:   topics.NewGlamourRenderer(),
		}); err != nil {
			log.Debug().Err(err).Str("dir", dir).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

// findTopicsDir locates the help topic files, first next to the
// installed binary and then in the source tree for development runs.
func findTopicsDir() string {
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "topics"))
	}
	candidates = append(candidates, filepath.Join("cmd", "dirstore", "topics"))

	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
