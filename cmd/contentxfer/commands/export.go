package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/operation"
	"github.com/walteh/contentxfer/pkg/remote/github"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewExportCmd creates a new export command
func NewExportCmd(getOpts func() *opts.RootOpts) *cobra.Command {
	var (
		githubSource string
		githubToken  string
	)

	cmd := &cobra.Command{
		Use:   "export [NAME] [FILE]",
		Short: "Write a value's content to a file",
		Long: `Export writes the value NAME to FILE. FILE defaults to the value's name in the
remembered folder. With --github the value is a file in a GitHub repository
(owner/repo/path[@ref]) and NAME is omitted.

Interrupting an export leaves what was written so far in place unless
partial_output is set to remove.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o := getOpts()

			var (
				value content.Value
				file  string
			)

			if githubSource != "" {
				if len(args) > 1 {
					return errors.New("with --github only FILE may be given")
				}
				src, err := github.ParseSource(githubSource)
				if err != nil {
					return err
				}
				value = github.NewValue(github.NewClient(githubToken), src)
				if len(args) == 1 {
					file = args[0]
				}
			} else {
				if len(args) == 0 {
					return errors.New("NAME is required")
				}
				v, err := o.Values.Get(ctx, args[0])
				if err != nil {
					return errors.Errorf("getting value: %w", err)
				}
				value = v
				if len(args) == 2 {
					file = args[1]
				}
			}

			if file == "" {
				file = value.Name()
			}
			path, err := o.Chooser.Save(ctx, file)
			if err != nil {
				return errors.Errorf("choosing destination: %w", err)
			}

			ctx = zerolog.Ctx(ctx).With().Str("command", "export").Logger().WithContext(ctx)

			var res *operation.Result
			err = o.Runner.Run(ctx, value.Name(), func(ctx context.Context, mon status.Monitor) error {
				var terr error
				res, terr = o.Transferer.Export(ctx, mon, value, path)
				return terr
			})
			if errors.Is(err, operation.ErrBusy) {
				return errors.Errorf("exporting %s: %w", value.Name(), err)
			}

			if err == nil {
				zerolog.Ctx(ctx).Debug().Str("transfer_id", res.ID.String()).Uint64("xxhash", res.Checksum).Msg("export checksum")
			}
			return report(ctx, o, operation.Export, value.Name(), content.Classify(value).String(), path, res, err)
		},
	}

	cmd.Flags().StringVar(&githubSource, "github", "", "export a GitHub file (owner/repo/path[@ref])")
	cmd.Flags().StringVar(&githubToken, "github-token", "", "GitHub token (defaults to GITHUB_TOKEN)")

	return cmd
}
