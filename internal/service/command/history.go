package command

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/sandevgo/studybuddy/internal/core"
)

const historyPreview = 200

type ConversationLister interface {
	Conversations(ctx context.Context) ([]core.Conversation, error)
}

type HistoryCommand struct {
	lister    ConversationLister
	formatter *ResponseFormatter
}

func NewHistoryCommand(lister ConversationLister) *HistoryCommand {
	return &HistoryCommand{lister: lister, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "List previous questions, optionally only the last N"
}

func (c *HistoryCommand) Execute(ctx context.Context, args []string) (string, error) {
	convs, err := c.lister.Conversations(ctx)
	if err != nil {
		return "", err
	}
	if len(convs) == 0 {
		return c.formatter.Info("No conversations yet"), nil
	}

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return c.formatter.Usage("/history [N]"), nil
		}
		if n < len(convs) {
			convs = convs[len(convs)-n:]
		}
	}

	var items []string
	for _, conv := range convs {
		answer := conv.Answer
		if utf8.RuneCountInString(answer) > historyPreview {
			answer = string([]rune(answer)[:historyPreview]) + "..."
		}
		items = append(items, fmt.Sprintf("**%s**\n%s", conv.Question, answer))
	}

	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("History (%d)", len(convs))),
		c.formatter.List(items),
	), nil
}
