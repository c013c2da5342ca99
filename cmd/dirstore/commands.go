package dirstore

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/dirstore/internal/commands"
	"github.com/arthur-debert/dirstore/internal/version"
)

// rootFlag reads the persistent --root override. An empty string means
// config and environment decide.
func rootFlag(cmd *cobra.Command) string {
	root, _ := cmd.Flags().GetString("root")
	return root
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set CONTAINER KEY VALUE",
		Short:   MsgSetShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.SetEntry(commands.SetEntryOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Key:       args[1],
				Value:     args[2],
			})
		},
	}
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get CONTAINER KEY",
		Short:   MsgGetShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := commands.GetEntry(commands.GetEntryOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Key:       args[1],
			})
			if err != nil {
				return err
			}
			s, err := commands.RenderValue(v)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "del CONTAINER KEY",
		Short:   MsgDelShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.DeleteEntry(commands.DeleteEntryOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Key:       args[1],
			})
		},
	}
}

func newHasCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "has CONTAINER KEY",
		Short:   MsgHasShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := commands.HasEntry(commands.HasEntryOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Key:       args[1],
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "keys CONTAINER",
		Short:   MsgKeysShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := commands.ListKeys(commands.ListKeysOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
			})
			if err != nil {
				return err
			}
			s, err := commands.RenderValue(keys)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newLenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "len CONTAINER",
		Short:   MsgLenShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := commands.Length(commands.ContainerOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "add CONTAINER MEMBER",
		Short:   MsgAddShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.AddMember(commands.AddMemberOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Member:    args[1],
			})
		},
	}
}

func newDiscardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "discard CONTAINER MEMBER",
		Short:   MsgDiscardShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.DiscardMember(commands.DiscardMemberOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Member:    args[1],
			})
		},
	}
}

func newAppendCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "append CONTAINER VALUE",
		Short:   MsgAppendShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.AppendValue(commands.AppendValueOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Value:     args[1],
			})
		},
	}
}

func newInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "insert CONTAINER INDEX VALUE",
		Short:   MsgInsertShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.InsertValue(commands.InsertValueOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Index:     args[1],
				Value:     args[2],
			})
		},
	}
}

func newAtCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "at CONTAINER INDEX",
		Short:   MsgAtShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := commands.ValueAt(commands.ValueAtOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Index:     args[1],
			})
			if err != nil {
				return err
			}
			s, err := commands.RenderValue(v)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newSetAtCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "setat CONTAINER INDEX VALUE",
		Short:   MsgSetAtShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.SetValueAt(commands.SetValueAtOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Index:     args[1],
				Value:     args[2],
			})
		},
	}
}

func newSliceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "slice CONTAINER RANGE",
		Short:   MsgSliceShort,
		Long: MsgSliceShort + `.

RANGE uses start:stop:step syntax. Empty fields fall back to the
defaults for the step direction, so ':' selects everything, '2:' the
tail from index 2, and '::-1' the whole sequence reversed.`,
		GroupID: "store",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			elems, err := commands.SliceValues(commands.SliceValuesOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				Range:     args[1],
			})
			if err != nil {
				return err
			}
			s, err := commands.RenderValue(elems)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear CONTAINER",
		Short:   MsgClearShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Clear(commands.ContainerOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
			})
		},
	}
}

func newDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "destroy CONTAINER",
		Short:   MsgDestroyShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.DestroyContainer(commands.ContainerOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
			})
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "check CONTAINER",
		Short:   MsgCheckShort,
		GroupID: "store",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := commands.Check(commands.ContainerOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgCheckOK)
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "import CONTAINER [FILE]",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		GroupID: "bulk",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := ""
			if len(args) == 2 {
				file = args[1]
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")
			kind, _ := cmd.Flags().GetString("kind")

			result, err := commands.Import(commands.ImportOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
				File:      file,
				Kind:      kind,
				DryRun:    dryRun,
				Force:     force,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.DryRun {
				fmt.Fprintf(out, MsgDryRunHeader+"\n", len(result.Operations), result.Path)
				for _, op := range result.Operations {
					fmt.Fprintf(out, MsgDryRunOpFormat+"\n", op.Type, op.Target)
				}
				return nil
			}
			fmt.Fprintf(out, MsgImportedFormat+"\n", result.Path, len(result.Operations))
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, MsgFlagDryRun)
	cmd.Flags().Bool("force", false, MsgFlagForce)
	cmd.Flags().String("kind", "", MsgFlagKind)
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "export CONTAINER",
		Short:   MsgExportShort,
		GroupID: "bulk",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := commands.Export(commands.ExportOptions{
				Root:      rootFlag(cmd),
				Container: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")
			effective, _ := cmd.Flags().GetBool("effective")
			result, err := commands.GenConfig(commands.GenConfigOptions{
				Write:     write,
				Effective: effective,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if effective || !write {
				fmt.Fprint(out, result.ConfigContent)
				return nil
			}
			if result.FileWritten != "" {
				fmt.Fprintf(out, MsgConfigWrittenFormat+"\n", result.FileWritten)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("write", "w", false, MsgFlagWrite)
	cmd.Flags().BoolP("effective", "e", false, MsgFlagEffective)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat+"\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
