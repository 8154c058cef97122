// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/contentxfer/cmd/contentxfer/commands"
	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"github.com/walteh/contentxfer/pkg/config"
	"github.com/walteh/contentxfer/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags are the persistent flags shared by all commands
type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd builds the command tree. Shared options are created once the
// flags are parsed; the returned closer releases them, also when the command
// failed.
func newRootCmd(console io.Writer) (*cobra.Command, func() error) {
	flags := &rootFlags{}
	var root *opts.RootOpts

	get := func() *opts.RootOpts { return root }

	cmd := &cobra.Command{
		Use:   "contentxfer",
		Short: "Move stored content values to and from files",
		Long: `contentxfer keeps named content values in a local database and moves their
content to and from files. Text values are transferred as UTF-8, everything
else byte for byte. Press Ctrl-C to cancel a running transfer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			ctx := setupLogging(cmd.Context(), flags.debug)

			cfg, err := loadConfig(ctx, flags.configFile)
			if err != nil {
				return err
			}
			if !flags.debug {
				if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
					ctx = zerolog.Ctx(ctx).Level(level).WithContext(ctx)
				}
			}

			root, err = opts.New(ctx, cfg, console)
			if err != nil {
				return errors.Errorf("initializing: %w", err)
			}

			cmd.SetContext(log.NewContext(ctx, root.Console))
			return nil
		},
	}

	closer := func() error {
		if root == nil {
			return nil
		}
		err := root.Close()
		root = nil
		return err
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewImportCmd(get),
		commands.NewExportCmd(get),
		commands.NewFolderCmd(get),
		commands.NewListCmd(get),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprint(cmd.OutOrStdout(), FormatVersion())
			},
		},
	)

	return cmd, closer
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file path (yaml, hcl or json)")
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.LoadDefault(ctx)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	return logger.WithContext(ctx)
}
