package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"gitlab.com/tozd/go/errors"
)

// NewFolderCmd creates the folder command and its subcommands
func NewFolderCmd(getOpts func() *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Show or change the remembered folder",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the remembered folder",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), getOpts().Folders.Get())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set PATH",
			Short: "Remember PATH without checking it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				getOpts().Folders.Set(cmd.Context(), args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "choose [DIR]",
			Short: "Pick an existing directory and remember it",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				o := getOpts()
				current := ""
				if len(args) == 1 {
					current = args[0]
				}
				dir, err := o.Chooser.Directory(cmd.Context(), current)
				if err != nil {
					return errors.Errorf("choosing directory: %w", err)
				}
				o.Console.Success("remembered " + dir)
				return nil
			},
		},
	)

	return cmd
}
