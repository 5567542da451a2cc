package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ravengallery/gallery-api/internal/shared/dispatch"
)

type renameCommand struct{ name string }

func (renameCommand) CommandKind() dispatch.CommandKind { return "test.rename" }

type lookupInput struct{}

func (lookupInput) InputKind() dispatch.InputKind { return "test.lookup" }
func (lookupInput) PairedView() dispatch.ViewKind { return "test.result" }

type resultView struct{ value string }

func (resultView) ViewKind() dispatch.ViewKind { return "test.result" }

type telemetry struct {
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	opts   []Option
}

func newTelemetry() telemetry {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return telemetry{
		spans:  spans,
		reader: reader,
		opts:   []Option{WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test"))},
	}
}

func (tm telemetry) counter(t *testing.T, name string) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, tm.reader.Collect(context.Background(), &rm))
	byOutcome := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				byOutcome[outcome.AsString()] += dp.Value
			}
		}
	}
	return byOutcome
}

func TestCommandInvoker_RecordsOutcomes(t *testing.T) {
	tm := newTelemetry()
	boom := errors.New("boom")
	inner, err := dispatch.NewInvoker([]dispatch.CommandRoute{
		dispatch.OnCommand(func(_ context.Context, cmd renameCommand) error {
			if cmd.name == "" {
				return boom
			}
			return nil
		}),
	})
	require.NoError(t, err)
	invoker := NewCommandInvoker(inner, tm.opts...)

	require.NoError(t, invoker.Execute(context.Background(), renameCommand{name: "x"}))
	require.Same(t, boom, invoker.Execute(context.Background(), renameCommand{}))

	ended := tm.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "CommandInvoker.Execute", ended[0].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)

	assert.Equal(t, map[string]int64{outcomeOK: 1, outcomeError: 1}, tm.counter(t, "images.commands.executed"))
}

type otherCommand struct{}

func (otherCommand) CommandKind() dispatch.CommandKind { return "test.other" }

func TestCommandInvoker_ReraisesDefect(t *testing.T) {
	tm := newTelemetry()
	inner, err := dispatch.NewInvoker(nil)
	require.NoError(t, err)
	invoker := NewCommandInvoker(inner, tm.opts...)

	require.PanicsWithError(t, (&dispatch.ResolutionDefect{Command: "test.other"}).Error(), func() {
		_ = invoker.Execute(context.Background(), otherCommand{})
	})

	ended := tm.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, map[string]int64{outcomeDefect: 1}, tm.counter(t, "images.commands.executed"))
}

func TestViewRepository_PassesViewThrough(t *testing.T) {
	tm := newTelemetry()
	inner, err := dispatch.NewRepository([]dispatch.ViewRoute{
		dispatch.OnView(func(context.Context, lookupInput) (resultView, error) {
			return resultView{value: "found"}, nil
		}),
	})
	require.NoError(t, err)
	repo := NewViewRepository(inner, tm.opts...)

	view, err := dispatch.Load[resultView](context.Background(), repo, lookupInput{})
	require.NoError(t, err)
	assert.Equal(t, "found", view.value)

	ended := tm.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "ViewRepository.Load", ended[0].Name())
	assert.Equal(t, map[string]int64{outcomeOK: 1}, tm.counter(t, "images.views.loaded"))
}

func TestDecorators_DefaultToNoop(t *testing.T) {
	inner, err := dispatch.NewInvoker([]dispatch.CommandRoute{
		dispatch.OnCommand(func(context.Context, renameCommand) error { return nil }),
	})
	require.NoError(t, err)

	invoker := NewCommandInvoker(inner, WithLogger(nil), WithTracer(nil))
	require.NoError(t, invoker.Execute(context.Background(), renameCommand{name: "x"}))
}
