package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netedit/pkg/errors"
)

// newLogger creates a stderr-style logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation when it is done.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg followed by the elapsed time, e.g. "Replayed wires.nes (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports undo stack activity to a logger.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnExecute(title string, d time.Duration) {
	h.logger.Debug("transaction", "title", title, "duration", d)
}

func (h *logHooks) OnUndo(title string) { h.logger.Debug("undo", "title", title) }

func (h *logHooks) OnRedo(title string) { h.logger.Debug("redo", "title", title) }

func (h *logHooks) OnAbort(title string) { h.logger.Debug("aborted", "title", title) }

func (h *logHooks) OnFailure(title string, err error) {
	if errors.IsUserActionable(err) {
		h.logger.Warn("transaction failed", "title", title, "error", errors.UserMessage(err))
		return
	}
	h.logger.Error("transaction failed", "title", title, "error", err)
}
