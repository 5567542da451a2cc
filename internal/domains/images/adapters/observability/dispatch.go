package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/ravengallery/gallery-api/internal/shared/dispatch"
)

const tracerName = "github.com/ravengallery/gallery-api/internal/domains/images/adapters/observability"

const (
	outcomeOK     = "ok"
	outcomeError  = "error"
	outcomeDefect = "defect"
)

type instruments struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics dispatchMetrics
}

type Option func(*instruments)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *instruments) {
		i.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(i *instruments) {
		i.tracer = tr
	}
}

// WithMeter injects the meter used to create dispatch counters.
func WithMeter(m metric.Meter) Option {
	return func(i *instruments) {
		i.metrics = newDispatchMetrics(m)
	}
}

func newInstruments(opts []Option) instruments {
	i := instruments{
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: defaultLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&i)
		}
	}
	if i.tracer == nil {
		i.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if i.logger == nil {
		i.logger = defaultLogger()
	}
	return i
}

// CommandInvoker decorates a dispatch.CommandInvoker with tracing, logging, and metrics.
type CommandInvoker struct {
	inner dispatch.CommandInvoker
	instruments
}

// NewCommandInvoker wires a decorator around the invoker.
func NewCommandInvoker(inner dispatch.CommandInvoker, opts ...Option) *CommandInvoker {
	return &CommandInvoker{inner: inner, instruments: newInstruments(opts)}
}

// Execute runs cmd through the inner invoker. A resolution defect is recorded and re-raised.
func (c *CommandInvoker) Execute(ctx context.Context, cmd dispatch.Command) (err error) {
	kind := commandKind(cmd)
	ctx, span := c.startSpan(ctx, "CommandInvoker.Execute", attribute.String("command.kind", kind))
	defer span.End()
	defer c.observeDefect(ctx, span, func(ctx context.Context) {
		c.metrics.recordCommand(ctx, kind, outcomeDefect)
	}, slog.String("command.kind", kind))

	c.logger.LogAttrs(ctx, slog.LevelInfo, "executing command", slog.String("command.kind", kind))
	if err = c.inner.Execute(ctx, cmd); err != nil {
		c.metrics.recordCommand(ctx, kind, outcomeError)
		return c.handleError(ctx, span, err, "command failed", slog.String("command.kind", kind))
	}
	c.metrics.recordCommand(ctx, kind, outcomeOK)
	c.logger.LogAttrs(ctx, slog.LevelInfo, "command executed", slog.String("command.kind", kind))
	return nil
}

// ViewRepository decorates a dispatch.ViewRepository with tracing, logging, and metrics.
type ViewRepository struct {
	inner dispatch.ViewRepository
	instruments
}

// NewViewRepository wires a decorator around the view repository.
func NewViewRepository(inner dispatch.ViewRepository, opts ...Option) *ViewRepository {
	return &ViewRepository{inner: inner, instruments: newInstruments(opts)}
}

// Load produces the view through the inner repository. A resolution defect is recorded and re-raised.
func (r *ViewRepository) Load(ctx context.Context, input dispatch.InputModel, want dispatch.ViewKind) (dispatch.View, error) {
	kind := inputKind(input)
	attrs := []slog.Attr{slog.String("input.kind", kind), slog.String("view.kind", string(want))}
	ctx, span := r.startSpan(ctx, "ViewRepository.Load",
		attribute.String("input.kind", kind),
		attribute.String("view.kind", string(want)),
	)
	defer span.End()
	defer r.observeDefect(ctx, span, func(ctx context.Context) {
		r.metrics.recordView(ctx, kind, string(want), outcomeDefect)
	}, attrs...)

	view, err := r.inner.Load(ctx, input, want)
	if err != nil {
		r.metrics.recordView(ctx, kind, string(want), outcomeError)
		return nil, r.handleError(ctx, span, err, "view load failed", attrs...)
	}
	r.metrics.recordView(ctx, kind, string(want), outcomeOK)
	r.logger.LogAttrs(ctx, slog.LevelDebug, "view loaded", attrs...)
	return view, nil
}

func (i instruments) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (i instruments) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	i.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

// observeDefect must be deferred directly. It records a panic on the span and re-raises it.
func (i instruments) observeDefect(ctx context.Context, span trace.Span, record func(context.Context), attrs ...slog.Attr) {
	recovered := recover()
	if recovered == nil {
		return
	}
	if err, ok := recovered.(error); ok {
		span.RecordError(err)
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	span.SetStatus(codes.Error, "dispatch defect")
	record(ctx)
	i.logger.LogAttrs(ctx, slog.LevelError, "dispatch defect", attrs...)
	panic(recovered)
}

func commandKind(cmd dispatch.Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return string(cmd.CommandKind())
}

func inputKind(input dispatch.InputModel) string {
	if input == nil {
		return "<nil>"
	}
	return string(input.InputKind())
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type dispatchMetrics struct {
	commands metric.Int64Counter
	views    metric.Int64Counter
}

func newDispatchMetrics(m metric.Meter) dispatchMetrics {
	if m == nil {
		return dispatchMetrics{}
	}
	commands, _ := m.Int64Counter("images.commands.executed", metric.WithDescription("Number of dispatched image commands"))
	views, _ := m.Int64Counter("images.views.loaded", metric.WithDescription("Number of image views loaded"))
	return dispatchMetrics{commands: commands, views: views}
}

func (m dispatchMetrics) recordCommand(ctx context.Context, kind, outcome string) {
	addCounter(ctx, m.commands, 1,
		attribute.String("command.kind", kind),
		attribute.String("outcome", outcome),
	)
}

func (m dispatchMetrics) recordView(ctx context.Context, input, view, outcome string) {
	addCounter(ctx, m.views, 1,
		attribute.String("input.kind", input),
		attribute.String("view.kind", view),
		attribute.String("outcome", outcome),
	)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var (
	_ dispatch.CommandInvoker = (*CommandInvoker)(nil)
	_ dispatch.ViewRepository = (*ViewRepository)(nil)
)
