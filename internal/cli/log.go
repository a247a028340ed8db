package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/observability"
)

// newLogger returns the CLI logger: leveled, with short wall-clock
// timestamps such as "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress reports how long a command step took, e.g.
// "Rendered 42 people (1.234s)". Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// donef logs the formatted message with the elapsed time rounded to the
// millisecond.
func (p *progress) donef(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
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

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports pipeline and HTTP events through the CLI logger.
// Pipeline events are logged at debug level; HTTP responses form the
// server's access log.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.HTTPHooks     = (*logHooks)(nil)
)

func (h *logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading", "source", source)
}

func (h *logHooks) OnLoadComplete(_ context.Context, source string, s observability.LoadStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("parsed", "source", source, "lines", s.Lines, "media", s.Media, "diagnostics", s.Diagnostics, "duration", d)
}

func (h *logHooks) OnQueryStart(context.Context, string, string) {}

func (h *logHooks) OnQueryComplete(_ context.Context, query, root string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("query failed", "query", query, "root", root, "err", err)
	}
}

func (h *logHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("rendering", "format", format, "nodes", nodes)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
	}
}

func (h *logHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "path", route)
}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
}
