package command

import (
	"context"
	"fmt"
)

type SessionFlusher interface {
	Flush(ctx context.Context) error
	Path() string
}

type SaveCommand struct {
	session   SessionFlusher
	formatter *ResponseFormatter
}

func NewSaveCommand(session SessionFlusher) *SaveCommand {
	return &SaveCommand{session: session, formatter: NewResponseFormatter()}
}

func (c *SaveCommand) Name() string {
	return "save"
}

func (c *SaveCommand) Description() string {
	return "Write the session file now"
}

func (c *SaveCommand) Execute(ctx context.Context, args []string) (string, error) {
	if err := c.session.Flush(ctx); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return c.formatter.Combine(
		c.formatter.Success("Session saved"),
		c.formatter.Label("Path", c.session.Path()),
	), nil
}
