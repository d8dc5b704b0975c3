package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/pkg/log"
)

// SessionManager persists conversation memory to a JSON file between runs.
type SessionManager struct {
	path   string
	memory *ConversationMemory
	now    func() time.Time
}

func NewSessionManager(path string, memory *ConversationMemory) *SessionManager {
	return &SessionManager{path: path, memory: memory, now: time.Now}
}

func (s *SessionManager) Path() string {
	return s.path
}

func (s *SessionManager) Memory() *ConversationMemory {
	return s.memory
}

// Save overwrites the session file with conversations. The write is not atomic.
func (s *SessionManager) Save(ctx context.Context, conversations []core.Conversation) error {
	if conversations == nil {
		conversations = []core.Conversation{}
	}
	session := core.Session{
		Timestamp:     s.now().Format(time.RFC3339Nano),
		Conversations: conversations,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(session); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("path", s.path).
		Int("conversations", len(conversations)).
		Msg("session saved")
	return nil
}

// Load reads the saved conversations. A missing, unreadable or malformed
// file yields nil: it only means there is no prior session.
func (s *SessionManager) Load(ctx context.Context) []core.Conversation {
	logger := log.FromCtx(ctx)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", s.path).Msg("failed to read session file")
		}
		return nil
	}

	var session core.Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn().Err(err).Str("path", s.path).Msg("ignoring malformed session file")
		return nil
	}
	if session.Conversations == nil {
		return []core.Conversation{}
	}
	return session.Conversations
}

// Restore replays the saved conversations into memory and returns how many
// were added. Records are not deduplicated against what memory already holds.
func (s *SessionManager) Restore(ctx context.Context) (int, error) {
	restored := 0
	for _, conv := range s.Load(ctx) {
		if _, err := s.memory.Add(ctx, conv.Question, conv.Answer, conv.Metadata); err != nil {
			return restored, fmt.Errorf("restore conversation %d: %w", restored+1, err)
		}
		restored++
	}
	return restored, nil
}

// Conversations returns every turn currently in memory, oldest first.
func (s *SessionManager) Conversations(ctx context.Context) ([]core.Conversation, error) {
	return s.memory.All(ctx)
}

// Flush saves whatever memory currently holds.
func (s *SessionManager) Flush(ctx context.Context) error {
	conversations, err := s.Conversations(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, conversations)
}
