package core

import "context"

// Command is a slash command available inside a chat.
type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) (string, error)
}
