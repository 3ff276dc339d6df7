package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dockspace/pkg/observability"
)

// newLogger creates a logger writing to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time, e.g.
// "Rendered workbench (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

// debug is like done but logs at debug level.
func (p *progress) debug(msg string) {
	p.logger.Debugf("%s (%s)", msg, p.elapsed())
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger in ctx, or log.Default() if none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// storeLogHooks logs snapshot store operations at debug level.
type storeLogHooks struct {
	logger *log.Logger
}

func (h storeLogHooks) OnLoad(_ context.Context, backend, name string, d time.Duration, err error) {
	h.log("load", backend, name, d, err)
}

func (h storeLogHooks) OnSave(_ context.Context, backend, name string, size int, d time.Duration, err error) {
	if err != nil {
		h.log("save", backend, name, d, err)
		return
	}
	h.logger.Debug("store save", "backend", backend, "name", name, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h storeLogHooks) OnDelete(_ context.Context, backend, name string, err error) {
	h.log("delete", backend, name, 0, err)
}

func (h storeLogHooks) log(op, backend, name string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store "+op, "backend", backend, "name", name, "err", err)
		return
	}
	h.logger.Debug("store "+op, "backend", backend, "name", name, "took", d.Round(time.Microsecond))
}

var _ observability.StoreHooks = storeLogHooks{}
