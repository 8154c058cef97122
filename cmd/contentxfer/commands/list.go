package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates a new list command
func NewListCmd(getOpts func() *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := getOpts().Values.List(cmd.Context())
			if err != nil {
				return errors.Errorf("listing values: %w", err)
			}

			if len(infos) == 0 {
				pterm.Info.WithWriter(cmd.OutOrStdout()).Println("no values stored")
				return nil
			}

			data := pterm.TableData{{"Name", "Content Type", "Kind", "Size", "Updated"}}
			for _, info := range infos {
				data = append(data, []string{
					info.Name,
					info.ContentType,
					info.Kind().String(),
					humanize.IBytes(uint64(info.Size)),
					humanize.Time(info.UpdatedAt),
				})
			}

			return pterm.DefaultTable.
				WithHasHeader().
				WithWriter(cmd.OutOrStdout()).
				WithData(data).
				Render()
		},
	}
}
