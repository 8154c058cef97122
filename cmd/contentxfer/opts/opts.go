package opts

import (
	"context"
	"database/sql"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/contentxfer/pkg/chooser"
	"github.com/walteh/contentxfer/pkg/config"
	"github.com/walteh/contentxfer/pkg/db"
	"github.com/walteh/contentxfer/pkg/folder"
	"github.com/walteh/contentxfer/pkg/lobstore"
	"github.com/walteh/contentxfer/pkg/log"
	"github.com/walteh/contentxfer/pkg/operation"
	"github.com/walteh/contentxfer/pkg/settings"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	DB         *sql.DB
	Values     *lobstore.Store
	Folders    *folder.Memory
	Chooser    *chooser.Chooser
	Transferer operation.Transferer
	Runner     *operation.Runner
	Console    *log.Logger
}

// New wires everything a command needs from cfg. Close releases it.
func New(ctx context.Context, cfg *config.Config, console io.Writer) (*RootOpts, error) {
	logger := zerolog.Ctx(ctx)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, errors.Errorf("parsing log level: %w", err)
	}

	partial, err := operation.ParsePartialPolicy(cfg.PartialOutput)
	if err != nil {
		return nil, err
	}

	transferer, err := operation.New(operation.Options{
		BufferSize: cfg.BufferSize,
		Partial:    partial,
	})
	if err != nil {
		return nil, errors.Errorf("creating transferer: %w", err)
	}

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, errors.Errorf("opening database: %w", err)
	}

	var store settings.Store
	switch cfg.SettingsStore {
	case config.StoreYAML:
		store, err = settings.OpenYAML(cfg.SettingsFile)
		if err != nil {
			conn.Close()
			return nil, errors.Errorf("opening settings: %w", err)
		}
	default:
		store = settings.NewSQLiteStore(conn)
	}

	folders := folder.Load(ctx, store)

	ch, err := chooser.New(folders, cfg.OpenFilters)
	if err != nil {
		conn.Close()
		return nil, errors.Errorf("creating chooser: %w", err)
	}

	return &RootOpts{
		Config:     cfg,
		DB:         conn,
		Values:     lobstore.New(conn, cfg.BufferSize),
		Folders:    folders,
		Chooser:    ch,
		Transferer: transferer,
		Runner:     operation.NewRunner(logger, nil),
		Console:    log.New(console, level),
	}, nil
}

// Close waits for background transfers and closes the database
func (o *RootOpts) Close() error {
	werr := o.Runner.Wait()
	if err := o.DB.Close(); err != nil {
		return errors.Errorf("closing database: %w", err)
	}
	return werr
}
