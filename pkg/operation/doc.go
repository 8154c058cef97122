/*
Package operation implements content transfer between values and files.

	+-------------+       +-------------+       +-----------+
	|   Runner    | ----> | Transferer  | ----> |  content  |
	| (host/task) |       | (import/    |       | (classify |
	+-------------+       |  export)    |       |  storage) |
	                      +-------------+       +-----------+

🎯 Purpose:
- Decides whether a value is text or binary, once per transfer
- Builds the storage for the chosen file (import) or reads the value's own
  storage (export)
- Streams the bytes under a cancellable context and a progress monitor
- Reduces every outcome to a *TransferError or a *Result

🔄 Import flow:
1. Reject values that carry no content (ErrUnsupportedValue, no file I/O)
2. Classify the target value
3. Wrap the file as text (UTF-8) or binary storage (ErrStorageOpen)
4. Hand the storage to the value; this is the only mutation point

🔄 Export flow:
1. Reject values that carry no content
2. Obtain the value's storage, which may be a remote fetch
3. Open a character reader (text) or byte stream (binary)
4. Create the destination and copy; the reader and the file are always closed

⚡ Outcomes:
- ErrUnsupportedValue: do not show a file dialog at all
- ErrStorageOpen: retry with another path
- ErrTransferFailed: I/O failed mid-copy, retry
- ErrCancelled: the caller asked to stop, not an error for the user

🧵 Concurrency:
A value must not be part of two transfers at once. The Transferer does not
lock; Runner rejects a second task with the same key (ErrBusy). Callers pick
Run (block until done) or Go (fire and forget, Wait later).

🔍 Example:

	t, _ := operation.New(operation.Options{})
	runner := operation.NewRunner(zerolog.Ctx(ctx), nil)
	err := runner.Run(ctx, value.Name(), func(ctx context.Context, mon status.Monitor) error {
		_, err := t.Export(ctx, mon, value, "/tmp/out.txt")
		return err
	})
*/
package operation
