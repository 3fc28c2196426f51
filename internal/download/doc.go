// Package download implements the download orchestrator: a bounded FIFO queue
// drained by a single worker goroutine that streams HTTP responses to disk.
//
// Submitters receive a Handle immediately after their request is accepted.
// The handle reports the latest state of the download as a mods.Result,
// starting at InProgress(0) and ending with exactly one terminal value:
// Completed, Failed or Cancelled. Intermediate progress values may be
// skipped by slow observers; the terminal value never is.
//
// Transfer errors are never returned from QueueDownload. They surface only
// through the handle.
//
// # Lifecycle
//
//	svc := download.NewService(download.Config{}, download.WithEventSink(sink))
//	svc.Start()
//	defer svc.Stop()
//
//	h, err := svc.QueueDownload(ctx, "https://example.com/mods/hud.zip")
//	if err != nil {
//	    return err // ctx ended before the queue had room, or svc is stopped
//	}
//	res, err := h.Wait(ctx)
//
// QueueDownload blocks while the queue is full. Stop cancels the item in
// flight, reports every pending item as Cancelled and waits for the worker.
package download
