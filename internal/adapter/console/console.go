package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/fundsflow-backend/internal/domain"
)

// Transferer is the part of the orchestrator the console drives
type Transferer interface {
	Start(ctx context.Context, rawAmount string) (*domain.Snapshot, error)
	State(ctx context.Context) (domain.Snapshot, error)
}

// Console reads one amount per line and starts a transfer for each.
// Snapshots are expected to reach the Renderer through the orchestrator's
// state listener.
type Console struct {
	transferer Transferer
	renderer   *Renderer
	in         io.Reader
	logger     logrus.FieldLogger
}

// NewConsole creates a new Console instance
func NewConsole(transferer Transferer, renderer *Renderer, in io.Reader, logger logrus.FieldLogger) *Console {
	return &Console{
		transferer: transferer,
		renderer:   renderer,
		in:         in,
		logger:     logger,
	}
}

// Run renders the current state and processes input until EOF, a quit
// command or a cancelled context. Transfer errors are already shown in the
// rendered status line; any other error ends the session.
func (c *Console) Run(ctx context.Context) error {
	state, err := c.transferer.State(ctx)
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	c.renderer.Render(state)

	scanner := bufio.NewScanner(c.in)
	for {
		c.renderer.Prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if isQuit(line) {
			return nil
		}

		if _, err := c.transferer.Start(ctx, line); err != nil {
			var transferErr *domain.TransferError
			if errors.As(err, &transferErr) {
				c.logger.WithField("error_kind", transferErr.Kind).Debug("input rejected")
				continue
			}
			return err
		}
	}
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "q", "quit", "exit":
		return true
	}
	return false
}
