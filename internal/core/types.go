package core

const (
	AppName       = "StudyBuddy"
	AppUserAgent  = "StudyBuddy/0.1"
	AppVersion    = "0.1.0"
	RepositoryURL = "https://github.com/sandevgo/studybuddy"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
