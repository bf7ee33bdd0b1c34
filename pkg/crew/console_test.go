package crew

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/stagehand/pkg/events"
)

func TestConsoleReporter_RendersStepTree(t *testing.T) {
	var out bytes.Buffer
	reporter := NewConsoleReporter(&out)

	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	taskID := events.NewCorrelationID()
	childID := events.NewCorrelationID()

	reporter.NotifyOf(events.SceneStarts{SceneID: "s", Name: "customer checks out", Timestamp: base})
	reporter.NotifyOf(events.TaskStarts{ActivityID: taskID, Details: events.ActivityDetails{Name: "checks out"}, Timestamp: base})
	reporter.NotifyOf(events.InteractionStarts{ActivityID: childID, Details: events.ActivityDetails{Name: "pays"}, Timestamp: base})
	reporter.NotifyOf(events.InteractionFinished{ActivityID: childID, Details: events.ActivityDetails{Name: "pays"}, Outcome: events.Failed(stderrors.New("card declined")), Timestamp: base.Add(120 * time.Millisecond)})
	reporter.NotifyOf(events.TaskFinished{ActivityID: taskID, Details: events.ActivityDetails{Name: "checks out"}, Outcome: events.Failed(stderrors.New("card declined")), Timestamp: base.Add(130 * time.Millisecond)})
	reporter.NotifyOf(events.SceneFinished{SceneID: "s", Name: "customer checks out", Outcome: events.Failed(stderrors.New("card declined")), Timestamp: base.Add(130 * time.Millisecond)})

	text := out.String()
	for _, want := range []string{
		"Scene: customer checks out",
		"checks out",
		"pays",
		"card declined",
		"120ms",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	// The child renders deeper than its parent.
	childLine := lineContaining(t, text, "  pays")
	if !strings.HasPrefix(childLine, "    ") {
		t.Errorf("child step not indented under parent: %q", childLine)
	}
}

func TestConsoleReporter_CloseRendersPendingFrames(t *testing.T) {
	var out bytes.Buffer
	reporter := NewConsoleReporter(&out)

	reporter.NotifyOf(events.InteractionStarts{
		ActivityID: events.NewCorrelationID(),
		Details:    events.ActivityDetails{Name: "uploads the report"},
		Timestamp:  time.Now(),
	})

	if err := reporter.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !strings.Contains(out.String(), "uploads the report (still pending)") {
		t.Errorf("pending frame not rendered:\n%s", out.String())
	}
}

func TestConsoleReporter_IgnoresUnknownTerminalEvents(t *testing.T) {
	var out bytes.Buffer
	reporter := NewConsoleReporter(&out)

	reporter.NotifyOf(events.InteractionFinished{
		ActivityID: events.NewCorrelationID(),
		Details:    events.ActivityDetails{Name: "never started"},
		Outcome:    events.Success(),
		Timestamp:  time.Now(),
	})

	if out.Len() != 0 {
		t.Errorf("unexpected output for unmatched terminal event:\n%s", out.String())
	}
}

func TestConsoleReporter_OutOfOrderClosesUnwindIndentation(t *testing.T) {
	var out bytes.Buffer
	reporter := NewConsoleReporter(&out)

	at := time.Now()
	first := events.NewCorrelationID()
	second := events.NewCorrelationID()

	reporter.NotifyOf(events.InteractionStarts{ActivityID: first, Details: events.ActivityDetails{Name: "first"}, Timestamp: at})
	reporter.NotifyOf(events.InteractionStarts{ActivityID: second, Details: events.ActivityDetails{Name: "second"}, Timestamp: at})

	// Closes arrive in the opposite order to the opens.
	reporter.NotifyOf(events.InteractionFinished{ActivityID: first, Details: events.ActivityDetails{Name: "first"}, Outcome: events.Success(), Timestamp: at})
	reporter.NotifyOf(events.InteractionFinished{ActivityID: second, Details: events.ActivityDetails{Name: "second"}, Outcome: events.Success(), Timestamp: at})

	reporter.NotifyOf(events.AsyncOperationAttempted{CorrelationID: events.NewCorrelationID(), Name: "photographer", Description: "taking photo", Timestamp: at})

	line := lineContaining(t, out.String(), "photographer")
	if got := leadingSpaces(line); got != 2 {
		t.Errorf("async line indented %d spaces, want 2:\n%s", got, out.String())
	}
}

func TestConsoleReporter_ArtifactRendersUnderClosedFrame(t *testing.T) {
	var out bytes.Buffer
	reporter := NewConsoleReporter(&out)

	at := time.Now()
	taskID := events.NewCorrelationID()
	childID := events.NewCorrelationID()

	reporter.NotifyOf(events.TaskStarts{ActivityID: taskID, Details: events.ActivityDetails{Name: "checks out"}, Timestamp: at})
	reporter.NotifyOf(events.InteractionStarts{ActivityID: childID, Details: events.ActivityDetails{Name: "pays"}, Timestamp: at})
	reporter.NotifyOf(events.InteractionFinished{ActivityID: childID, Details: events.ActivityDetails{Name: "pays"}, Outcome: events.Failed(stderrors.New("card declined")), Timestamp: at})
	reporter.NotifyOf(events.TaskFinished{ActivityID: taskID, Details: events.ActivityDetails{Name: "checks out"}, Outcome: events.Failed(stderrors.New("card declined")), Timestamp: at})

	// The capture lands after both frames closed.
	reporter.NotifyOf(events.ActivityRelatedArtifactGenerated{
		ActivityID: childID,
		Name:       "pays",
		Artifact:   events.Artifact{Name: "pays"},
		Timestamp:  at,
	})

	line := lineContaining(t, out.String(), "📎 pays")
	if got := leadingSpaces(line); got != 4 {
		t.Errorf("artifact line indented %d spaces, want 4 (under its interaction):\n%s", got, out.String())
	}
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

func lineContaining(t *testing.T, text, substr string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	t.Fatalf("no line contains %q:\n%s", substr, text)
	return ""
}
