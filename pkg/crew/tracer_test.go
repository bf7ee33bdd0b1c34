package crew

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/odvcencio/stagehand/pkg/events"
)

func newRecordedTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(provider), recorder
}

func TestTracer_SpansFollowActivityNesting(t *testing.T) {
	tracer, recorder := newRecordedTracer()

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	taskID := events.NewCorrelationID()
	childID := events.NewCorrelationID()

	tracer.NotifyOf(events.TaskStarts{ActivityID: taskID, Details: events.ActivityDetails{Name: "checks out"}, Timestamp: base})
	tracer.NotifyOf(events.InteractionStarts{ActivityID: childID, Details: events.ActivityDetails{Name: "pays"}, Timestamp: base.Add(time.Second)})
	tracer.NotifyOf(events.InteractionFinished{ActivityID: childID, Outcome: events.Success(), Timestamp: base.Add(2 * time.Second)})
	tracer.NotifyOf(events.TaskFinished{ActivityID: taskID, Outcome: events.Success(), Timestamp: base.Add(3 * time.Second)})

	ended := recorder.Ended()
	require.Len(t, ended, 2)

	child, parent := ended[0], ended[1]
	assert.Equal(t, "pays", child.Name())
	assert.Equal(t, "checks out", parent.Name())
	assert.Equal(t, parent.SpanContext().SpanID(), child.Parent().SpanID())
	assert.Equal(t, codes.Ok, parent.Status().Code)
	assert.True(t, child.EndTime().Equal(base.Add(2*time.Second)))
}

func TestTracer_FailureSetsErrorStatus(t *testing.T) {
	tracer, recorder := newRecordedTracer()

	id := events.NewCorrelationID()
	boom := stderrors.New("card declined")

	tracer.NotifyOf(events.InteractionStarts{ActivityID: id, Details: events.ActivityDetails{Name: "pays"}, Timestamp: time.Now()})
	tracer.NotifyOf(events.InteractionFinished{ActivityID: id, Outcome: events.Failed(boom), Timestamp: time.Now()})

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "card declined", ended[0].Status().Description)

	require.Len(t, ended[0].Events(), 1, "expected the recorded error event")
}

func TestTracer_AsyncOperationSpans(t *testing.T) {
	tracer, recorder := newRecordedTracer()

	id := events.NewCorrelationID()
	tracer.NotifyOf(events.AsyncOperationAttempted{CorrelationID: id, Name: "photographer", Description: "taking photo", Timestamp: time.Now()})
	tracer.NotifyOf(events.AsyncOperationCompleted{CorrelationID: id, Timestamp: time.Now()})

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "photographer", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
}

func TestTracer_IgnoresUnknownTerminalEvents(t *testing.T) {
	tracer, recorder := newRecordedTracer()

	tracer.NotifyOf(events.InteractionFinished{ActivityID: events.NewCorrelationID(), Outcome: events.Success(), Timestamp: time.Now()})
	assert.Empty(t, recorder.Ended())
}
