package command

import (
	"github.com/sandevgo/studybuddy/internal/core"
)

type Session interface {
	ConversationLister
	SessionFlusher
}

// NewCommands returns the chat commands. /help is added by New.
func NewCommands(session Session, documents DocumentStore) []core.Command {
	return []core.Command{
		NewHistoryCommand(session),
		NewSaveCommand(session),
		NewSourcesCommand(documents),
	}
}
