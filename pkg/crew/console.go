package crew

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

var (
	sceneStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	asyncStyle   = lipgloss.NewStyle().Faint(true)
	detailStyle  = lipgloss.NewStyle().Faint(true)
)

// ConsoleReporter renders a nested step tree from the event stream.
// It reconstructs the tree keyed by correlation id: a frame opens on a
// Starts event and closes on the matching Finished event. Terminal
// events for unknown correlation ids are ignored.
type ConsoleReporter struct {
	mu     sync.Mutex
	out    io.Writer
	open   map[events.CorrelationID]*stepFrame
	closed map[events.CorrelationID]int
	stack  []events.CorrelationID
}

type stepFrame struct {
	details   events.ActivityDetails
	startedAt time.Time
	depth     int
}

// NewConsoleReporter writes the step tree to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		out:    out,
		open:   make(map[events.CorrelationID]*stepFrame),
		closed: make(map[events.CorrelationID]int),
	}
}

// AssignedTo implements screenplay.CrewMember.
func (c *ConsoleReporter) AssignedTo(*screenplay.Stage) {}

// NotifyOf implements screenplay.CrewMember.
func (c *ConsoleReporter) NotifyOf(event events.DomainEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e := event.(type) {
	case events.SceneStarts:
		fmt.Fprintln(c.out, sceneStyle.Render("Scene: "+e.Name))
	case events.SceneFinished:
		fmt.Fprintln(c.out, sceneStyle.Render("Scene finished: ")+c.renderOutcome(e.Outcome))
	case events.SceneTagged:
		fmt.Fprintln(c.out, detailStyle.Render(fmt.Sprintf("@%s:%s", e.Tag.Type, e.Tag.Name)))
	case events.TaskStarts:
		c.openFrame(e.ActivityID, e.Details, e.Timestamp)
	case events.InteractionStarts:
		c.openFrame(e.ActivityID, e.Details, e.Timestamp)
	case events.TaskFinished:
		c.closeFrame(e.ActivityID, e.Outcome, e.Timestamp)
	case events.InteractionFinished:
		c.closeFrame(e.ActivityID, e.Outcome, e.Timestamp)
	case events.ActivityRelatedArtifactGenerated:
		// The capture usually lands after its frame closed; fall back to
		// the closed frame's depth so the artifact renders under it.
		depth := 1
		if frame, ok := c.open[e.ActivityID]; ok {
			depth = frame.depth + 1
		} else if d, ok := c.closed[e.ActivityID]; ok {
			depth = d + 1
		}
		fmt.Fprintln(c.out, indent(depth)+asyncStyle.Render("📎 "+e.Artifact.Name))
	case events.AsyncOperationAttempted:
		fmt.Fprintln(c.out, indent(len(c.stack)+1)+asyncStyle.Render("… "+e.Name+": "+e.Description))
	case events.AsyncOperationFailed:
		fmt.Fprintln(c.out, indent(len(c.stack)+1)+failureStyle.Render("… async operation failed: ")+detailStyle.Render(errorText(e.Err)))
	case events.AsyncOperationAborted:
		fmt.Fprintln(c.out, indent(len(c.stack)+1)+asyncStyle.Render("… async operation aborted: "+e.Reason))
	case events.AsyncOperationCompleted:
		// Quiet on success; the attempted line already told the story.
	}
}

func (c *ConsoleReporter) openFrame(id events.CorrelationID, details events.ActivityDetails, at time.Time) {
	frame := &stepFrame{
		details:   details,
		startedAt: at,
		depth:     len(c.stack),
	}
	c.open[id] = frame
	c.stack = append(c.stack, id)
	fmt.Fprintln(c.out, indent(frame.depth+1)+details.Name)
}

func (c *ConsoleReporter) closeFrame(id events.CorrelationID, outcome events.Outcome, at time.Time) {
	frame, ok := c.open[id]
	if !ok {
		// Another crew member's pairing, or already finalized.
		return
	}
	delete(c.open, id)
	c.closed[id] = frame.depth
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i] == id {
			c.stack = append(c.stack[:i], c.stack[i+1:]...)
			break
		}
	}

	line := indent(frame.depth+1) + c.renderOutcome(outcome) + " " + frame.details.Name
	if d := at.Sub(frame.startedAt); d > 0 {
		line += " " + detailStyle.Render(fmt.Sprintf("(%s)", d.Round(time.Millisecond)))
	}
	if outcome.IsError() && outcome.Err != nil {
		line += "\n" + indent(frame.depth+2) + failureStyle.Render(outcome.Err.Error())
	}
	fmt.Fprintln(c.out, line)
}

// Close renders any frames still open at teardown as pending; an
// unmatched start means the process never saw the terminal event.
func (c *ConsoleReporter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.stack {
		if frame, ok := c.open[id]; ok {
			fmt.Fprintln(c.out, indent(frame.depth+1)+pendingStyle.Render("? "+frame.details.Name+" (still pending)"))
		}
	}
	c.open = make(map[events.CorrelationID]*stepFrame)
	c.closed = make(map[events.CorrelationID]int)
	c.stack = nil
	return nil
}

func (c *ConsoleReporter) renderOutcome(outcome events.Outcome) string {
	switch outcome.Kind {
	case events.OutcomeSuccess:
		return successStyle.Render("✓")
	case events.OutcomeError:
		return failureStyle.Render("✗")
	case events.OutcomeSkipped:
		return pendingStyle.Render("↷")
	default:
		return "?"
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
