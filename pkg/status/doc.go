/*
Package status reports progress for content transfers.

	+-------------+        +-----------+
	|  operation  | -----> |  Monitor  |
	| (transfer)  |        | (progress)|
	+-------------+        +-----+-----+
	                             |
	                       +-----+-----+
	                       |  zerolog  |
	                       +-----------+

🎯 Purpose:
- Gives long running steps (fetching a value, streaming a file) a place to
  report how many bytes they have moved
- Keeps cancellation out of the monitor: a transfer is cancelled through its
  context, never through the progress sink

🔄 Flow:
1. A step calls StartOperation with its name and total size (-1 if unknown)
2. The copy loop calls UpdateProgress after every buffer
3. FinishOperation closes the step

🤝 Interfaces:
- Monitor: progress sink handed to every transfer step
- ProgressFormatter: renders the log message for a progress update

🔍 Example:

	mon := status.New(zerolog.Ctx(ctx))
	res, err := transferer.Export(ctx, mon, value, "/tmp/out.txt")
*/
package status
