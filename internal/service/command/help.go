package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/studybuddy/internal/core"
)

type HelpCommand struct {
	list      func() []core.Command
	formatter *ResponseFormatter
}

func NewHelpCommand(list func() []core.Command) *HelpCommand {
	return &HelpCommand{list: list, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "Show available commands"
}

func (c *HelpCommand) Execute(ctx context.Context, args []string) (string, error) {
	var items []string
	for _, cmd := range c.list() {
		items = append(items, fmt.Sprintf("`/%s`  %s", cmd.Name(), cmd.Description()))
	}
	items = append(items, "`quit`, `exit`, `q`  Save the session and leave")

	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
	), nil
}
