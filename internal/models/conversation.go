package models

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is one entry in a conversation's message log.
// Within a conversation only the last message may be mutated after
// insertion (streamed assistant output); earlier messages are immutable.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
	Model     string `json:"model,omitempty"`
}

// Conversation is one chat thread: ordered messages plus metadata.
// ConfigID references an AI provider configuration; dangling references
// are tolerated.
type Conversation struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	ConfigID  string        `json:"configId"`
	CreatedAt int64         `json:"createdAt"`
	UpdatedAt int64         `json:"updatedAt"`
	IsPinned  bool          `json:"isPinned"`
}

// ConversationMetadata is the lightweight projection used for list views,
// without materializing full message logs.
type ConversationMetadata struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ConfigID     string `json:"configId"`
	CreatedAt    int64  `json:"createdAt"`
	UpdatedAt    int64  `json:"updatedAt"`
	MessageCount int    `json:"messageCount"`
	IsPinned     bool   `json:"isPinned"`
	LastMessage  string `json:"lastMessage,omitempty"` // truncated preview
}
