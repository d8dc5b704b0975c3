package core

// Conversation is one question/answer turn.
type Conversation struct {
	Question  string         `json:"question"`
	Answer    string         `json:"answer"`
	Timestamp string         `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	// Distance is set only on entries returned by a relevance lookup.
	Distance float64 `json:"-"`
}

// Session is the on-disk snapshot of a chat run.
type Session struct {
	Timestamp     string         `json:"timestamp"`
	Conversations []Conversation `json:"conversations"`
}
