package crew

import (
	"context"
	"io"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

const tracerName = "github.com/odvcencio/stagehand"

// Tracer opens an OpenTelemetry span per correlated Starts/Attempted
// event and ends it on the matching terminal event. Spans nest following
// the activity tree: a child span's parent is the innermost span still
// open when the child starts.
type Tracer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[events.CorrelationID]spanEntry
	stack []events.CorrelationID
}

type spanEntry struct {
	span trace.Span
	ctx  context.Context
}

// NewTracer builds a tracing crew member from the given provider.
func NewTracer(provider trace.TracerProvider) *Tracer {
	return &Tracer{
		tracer: provider.Tracer(tracerName),
		spans:  make(map[events.CorrelationID]spanEntry),
	}
}

// StdoutTracerProvider builds a provider exporting spans as JSON lines
// to w, for runs without a collector.
func StdoutTracerProvider(w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}

// AssignedTo implements screenplay.CrewMember.
func (t *Tracer) AssignedTo(*screenplay.Stage) {}

// NotifyOf implements screenplay.CrewMember.
func (t *Tracer) NotifyOf(event events.DomainEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := event.(type) {
	case events.TaskStarts:
		t.openSpan(e.ActivityID, e.Details.Name, e, attribute.String("stagehand.activity", "task"))
	case events.InteractionStarts:
		t.openSpan(e.ActivityID, e.Details.Name, e, attribute.String("stagehand.activity", "interaction"))
	case events.AsyncOperationAttempted:
		t.openSpan(e.CorrelationID, e.Name, e, attribute.String("stagehand.activity", "async"),
			attribute.String("stagehand.description", e.Description))
	case events.TaskFinished:
		t.closeSpan(e.ActivityID, e.Outcome, e)
	case events.InteractionFinished:
		t.closeSpan(e.ActivityID, e.Outcome, e)
	case events.AsyncOperationCompleted:
		t.closeSpan(e.CorrelationID, events.Success(), e)
	case events.AsyncOperationFailed:
		t.closeSpan(e.CorrelationID, events.Failed(e.Err), e)
	case events.AsyncOperationAborted:
		t.closeSpan(e.CorrelationID, events.Skipped(), e)
	}
}

func (t *Tracer) openSpan(id events.CorrelationID, name string, event events.DomainEvent, attrs ...attribute.KeyValue) {
	parent := context.Background()
	if n := len(t.stack); n > 0 {
		if entry, ok := t.spans[t.stack[n-1]]; ok {
			parent = entry.ctx
		}
	}

	ctx, span := t.tracer.Start(parent, name,
		trace.WithTimestamp(event.OccurredAt()),
		trace.WithAttributes(append(attrs, attribute.String("stagehand.correlation_id", id.String()))...),
	)
	t.spans[id] = spanEntry{span: span, ctx: ctx}
	t.stack = append(t.stack, id)
}

func (t *Tracer) closeSpan(id events.CorrelationID, outcome events.Outcome, event events.DomainEvent) {
	entry, ok := t.spans[id]
	if !ok {
		// Unknown correlation id: another pairing, or already finalized.
		return
	}
	delete(t.spans, id)
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i] == id {
			t.stack = append(t.stack[:i], t.stack[i+1:]...)
			break
		}
	}

	switch outcome.Kind {
	case events.OutcomeError:
		if outcome.Err != nil {
			entry.span.RecordError(outcome.Err)
			entry.span.SetStatus(codes.Error, outcome.Err.Error())
		} else {
			entry.span.SetStatus(codes.Error, "failed")
		}
	case events.OutcomeSuccess:
		entry.span.SetStatus(codes.Ok, "")
	}
	entry.span.End(trace.WithTimestamp(event.OccurredAt()))
}
