package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/metrics"
	"github.com/voidmm/voidmm/internal/tracing"
)

func (s *Service) run() {
	defer close(s.workerDone)

	for {
		select {
		case <-s.done:
			s.drain()
			return
		default:
		}

		select {
		case <-s.done:
			s.drain()
			return
		case item := <-s.queue:
			s.process(item)
		}
	}
}

func (s *Service) process(item *queuedDownload) {
	s.metrics.Started()
	start := time.Now()

	ctx, span := s.tracer.Start(item.ctx, tracing.SpanDownload,
		trace.WithLinks(item.link),
		trace.WithAttributes(
			attribute.String(tracing.AttrDownloadID, item.id),
			attribute.String(tracing.AttrModID, item.modID),
			attribute.String(tracing.AttrURL, item.url),
		),
	)

	log.Debug(log.CatDownload, "Download started", "id", item.id, "mod_id", item.modID,
		"waited", start.Sub(item.queuedAt))

	result := s.transferSafely(ctx, item)
	item.finish(result)

	span.SetAttributes(attribute.String(tracing.AttrOutcome, result.Kind.String()))
	switch result.Kind {
	case mods.KindFailed:
		span.SetStatus(codes.Error, result.Reason)
		log.Warn(log.CatDownload, "Download failed", "id", item.id, "url", item.url, "reason", result.Reason)
	case mods.KindCancelled:
		log.Info(log.CatDownload, "Download cancelled", "id", item.id, "url", item.url)
	default:
		span.SetStatus(codes.Ok, "")
		log.Info(log.CatDownload, "Download completed", "id", item.id, "path", result.Path,
			"elapsed", time.Since(start))
	}
	span.End()

	s.metrics.Finished(outcomeLabel(result), time.Since(start))
}

func outcomeLabel(r mods.Result) string {
	switch r.Kind {
	case mods.KindCompleted:
		return metrics.OutcomeCompleted
	case mods.KindCancelled:
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeFailed
	}
}

func (s *Service) transferSafely(ctx context.Context, item *queuedDownload) (result mods.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(log.CatDownload, "Download panicked", "id", item.id, "panic", r)
			result = mods.Failed(fmt.Sprintf("download panicked: %v", r))
		}
	}()
	return s.transfer(ctx, item)
}

// transfer runs one download to completion. Every return is terminal.
func (s *Service) transfer(ctx context.Context, item *queuedDownload) mods.Result {
	if ctx.Err() != nil {
		return mods.Cancelled()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.url, nil)
	if err != nil {
		return mods.Failed(err.Error())
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return mods.Cancelled()
		}
		return mods.Failed(err.Error())
	}
	defer resp.Body.Close()

	span := trace.SpanFromContext(ctx)
	span.AddEvent(tracing.EventResponseReceived, trace.WithAttributes(
		attribute.Int(tracing.AttrHTTPStatus, resp.StatusCode),
		attribute.String(tracing.AttrFinalURL, resp.Request.URL.String()),
		attribute.Int64(tracing.AttrContentSize, resp.ContentLength),
	))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mods.Failed(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	filename := FilenameFromURL(resp.Request.URL)

	dir, err := s.dirFn()
	if err != nil {
		return mods.Failed(fmt.Sprintf("resolve download directory: %v", err))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return mods.Failed(fmt.Sprintf("create download directory: %v", err))
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path) // #nosec G304 -- filename is a single sanitized segment
	if err != nil {
		return mods.Failed(fmt.Sprintf("create file: %v", err))
	}
	// The file is closed, and removed unless completed, on every exit
	// including a recovered panic.
	closed, completed := false, false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		if !completed {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				log.Warn(log.CatDownload, "Failed to remove partial download", "path", path, "error", err)
			}
		}
	}()

	span.AddEvent(tracing.EventFileCreated, trace.WithAttributes(attribute.String(tracing.AttrFilename, filename)))
	s.emit(EventStarted, StartedPayload{ID: item.id, ModID: item.modID, Filename: filename})

	written, result := s.stream(ctx, item, resp.Body, resp.ContentLength, f)
	span.SetAttributes(attribute.Int64(tracing.AttrBytes, written))

	closeErr := f.Close()
	closed = true
	if result.Kind == mods.KindCompleted && closeErr != nil {
		result = mods.Failed(fmt.Sprintf("close file: %v", closeErr))
	}
	if result.Kind != mods.KindCompleted {
		return result
	}

	completed = true
	result = mods.Completed(path)
	s.emit(EventCompleted, CompletedPayload{ID: item.id, ModID: item.modID, Path: path})
	return result
}

// stream copies body into w chunk by chunk, publishing progress when the
// rounded percentage grows. A Completed result carries no path; the caller
// fills it in after closing the file.
func (s *Service) stream(ctx context.Context, item *queuedDownload, body io.Reader, total int64, w io.Writer) (int64, mods.Result) {
	buf := make([]byte, chunkSize)
	var downloaded int64
	var last uint8

	for {
		if ctx.Err() != nil {
			return downloaded, mods.Cancelled()
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return downloaded, mods.Failed(fmt.Sprintf("write file: %v", err))
			}
			downloaded += int64(n)
			s.metrics.Bytes(n)

			if p := Percent(downloaded, total); p > last {
				last = p
				item.publish(mods.InProgress(p))
				s.emit(EventProgress, ProgressPayload{ID: item.id, ModID: item.modID, Percent: p})
			}
		}

		if errors.Is(readErr, io.EOF) {
			return downloaded, mods.Result{Kind: mods.KindCompleted}
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return downloaded, mods.Cancelled()
			}
			return downloaded, mods.Failed(fmt.Sprintf("read response: %v", readErr))
		}
	}
}
