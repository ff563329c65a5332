package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// Renderer writes snapshots as plain text
type Renderer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewRenderer creates a new Renderer instance
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes the balance line, the three steps and the status line.
// The status line is omitted while there is no message.
func (r *Renderer) Render(snapshot domain.Snapshot) {
	var b strings.Builder

	fmt.Fprintf(&b, "Account Balance: %s\n", domain.FormatMoney(snapshot.Balance))
	for _, step := range snapshot.Steps {
		fmt.Fprintf(&b, "  [%s] %s", stepMarker(step), step.Label)
		switch {
		case step.Status == domain.StepStatusProcessing:
			b.WriteString(" (processing)")
		case step.Result != "":
			fmt.Fprintf(&b, " - %s", step.Result)
		}
		b.WriteString("\n")
	}
	if snapshot.StatusMessage != "" {
		fmt.Fprintf(&b, "%s %s\n", statusTag(snapshot.StatusKind), snapshot.StatusMessage)
	}
	b.WriteString("\n")

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.out, b.String())
}

// Prompt asks for the next amount
func (r *Renderer) Prompt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.out, "Transfer amount ($), q to quit: ")
}

func stepMarker(step domain.Step) string {
	switch step.Status {
	case domain.StepStatusCompleted:
		return "✓"
	case domain.StepStatusFailed:
		return "✗"
	default:
		return fmt.Sprintf("%d", int(step.ID))
	}
}

func statusTag(kind domain.StatusKind) string {
	switch kind {
	case domain.StatusKindSuccess:
		return "[OK]"
	case domain.StatusKindError:
		return "[ERROR]"
	default:
		return "[..]"
	}
}
