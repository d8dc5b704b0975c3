package command

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/studybuddy/internal/core"
)

// Router dispatches "/name args..." lines to registered commands.
type Router struct {
	commands map[string]core.Command
}

func New(commands []core.Command) *Router {
	c := &Router{
		commands: make(map[string]core.Command),
	}

	for _, cmd := range commands {
		c.commands[cmd.Name()] = cmd
	}
	c.commands["help"] = NewHelpCommand(c.ListCommands)
	return c
}

// Execute runs input as a command. The second result is false when input is
// not a command and should be treated as a question.
func (c *Router) Execute(ctx context.Context, input string) (string, bool) {
	if !strings.HasPrefix(input, "/") {
		return "", false
	}

	parts := strings.Fields(input)
	name := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Sprintf("Unknown command: /%s. Type /help for the list.", name), true
	}

	result, err := cmd.Execute(ctx, args)
	if err != nil {
		return NewResponseFormatter().Error(name, err), true
	}
	return result, true
}

// ListCommands returns the registered commands sorted by name.
func (c *Router) ListCommands() []core.Command {
	res := make([]core.Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		res = append(res, cmd)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}
