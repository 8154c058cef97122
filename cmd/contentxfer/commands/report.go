package commands

import (
	"context"
	"fmt"

	"github.com/walteh/contentxfer/cmd/contentxfer/opts"
	"github.com/walteh/contentxfer/pkg/log"
	"github.com/walteh/contentxfer/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// report prints the outcome of a transfer. Cancellation is reported as a
// warning and is not an error.
func report(ctx context.Context, o *opts.RootOpts, dir operation.Direction, value, kind, path string, res *operation.Result, err error) error {
	op := log.TransferOperation{
		Direction: dir.String(),
		Value:     value,
		Path:      path,
		Kind:      kind,
		Bytes:     -1,
		Outcome:   log.OutcomeDone,
	}
	if res != nil {
		op.Bytes = res.Bytes
		op.Kind = res.Kind.String()
	}

	switch {
	case err == nil:
		o.Console.LogTransfer(ctx, op)
		return nil
	case operation.IsCancelled(err):
		op.Outcome = log.OutcomeCancel
		o.Console.LogTransfer(ctx, op)
		o.Console.Warning(fmt.Sprintf("%s of %s cancelled", dir, value))
		return nil
	}

	op.Outcome = log.OutcomeFailed
	op.Err = err
	o.Console.LogTransfer(ctx, op)

	if errors.Is(err, operation.ErrUnsupportedValue) {
		return errors.Errorf("%s does not carry content: %w", value, err)
	}
	if dir == operation.Export {
		return errors.Errorf("could not save content to file '%s': %w", path, err)
	}
	return errors.Errorf("could not load content from file '%s': %w", path, err)
}
