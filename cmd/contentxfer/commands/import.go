package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"github.com/walteh/contentxfer/pkg/content"
	"github.com/walteh/contentxfer/pkg/lobstore"
	"github.com/walteh/contentxfer/pkg/operation"
	"github.com/walteh/contentxfer/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// NewImportCmd creates a new import command
func NewImportCmd(getOpts func() *opts.RootOpts) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "import NAME FILE",
		Short: "Replace a value's content with a file",
		Long: `Import reads FILE into the value NAME, creating the value when it does not exist.
Relative file names are resolved against the remembered folder.
The value keeps its previous content if the import fails or is cancelled.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			o := getOpts()
			name := args[0]

			path, err := o.Chooser.Open(ctx, args[1])
			if err != nil {
				return errors.Errorf("choosing file: %w", err)
			}

			created := false
			value, err := o.Values.Get(ctx, name)
			if errors.Is(err, lobstore.ErrNotFound) {
				ct := contentType
				if ct == "" {
					ct = content.TypeForName(path)
				}
				value, err = o.Values.Create(ctx, name, ct, nil)
				created = err == nil
			}
			if err != nil {
				return errors.Errorf("getting value: %w", err)
			}

			ctx = zerolog.Ctx(ctx).With().Str("command", "import").Logger().WithContext(ctx)

			var res *operation.Result
			h, err := o.Runner.Go(ctx, name, func(ctx context.Context, mon status.Monitor) error {
				var terr error
				res, terr = o.Transferer.Import(ctx, mon, value, path)
				return terr
			})
			if err != nil {
				if created {
					discard(ctx, o, name)
				}
				return errors.Errorf("starting import: %w", err)
			}

			werr := h.Wait()
			if werr != nil && created {
				discard(ctx, o, name)
			}

			return report(ctx, o, operation.Import, name, content.Classify(value).String(), path, res, werr)
		},
	}

	cmd.Flags().StringVarP(&contentType, "content-type", "t", "", "content type for a new value (guessed from the file name)")

	return cmd
}

// discard removes a value created for an import that did not complete
func discard(ctx context.Context, o *opts.RootOpts, name string) {
	if err := o.Values.Delete(context.WithoutCancel(ctx), name); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("value", name).Msg("removing value of failed import")
	}
}
