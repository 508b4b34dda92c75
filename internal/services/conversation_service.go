package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"tabhome/internal/models"
	"tabhome/internal/storage"
)

// DefaultConversationTitle is the placeholder pending the first user message
const DefaultConversationTitle = "New Conversation"

const (
	titleMaxRunes   = 30
	previewMaxRunes = 50
)

// greetingPrefixes are stripped case-insensitively when deriving a title
// from the first user message
var greetingPrefixes = []string{
	"you there",
	"hello",
	"hey",
	"hi",
	"你好",
	"在吗",
}

// ConversationService manages the chat conversation collection. The whole
// collection is persisted as a single id→Conversation mapping under one
// storage key, plus a separate current-conversation pointer. All mutations
// are serialized behind a mutex so streamed chunk handlers cannot
// interleave.
type ConversationService struct {
	store *storage.Store
	mu    sync.Mutex
}

// NewConversationService creates a new conversation service
func NewConversationService(store *storage.Store) *ConversationService {
	return &ConversationService{store: store}
}

// load reads the conversation mapping; an absent or corrupt mapping reads
// as empty
func (s *ConversationService) load() map[string]models.Conversation {
	conversations := map[string]models.Conversation{}
	s.store.Get(storage.KeyAIConversations, &conversations)
	return conversations
}

// persist writes the whole mapping back
func (s *ConversationService) persist(conversations map[string]models.Conversation) bool {
	return s.store.Set(storage.KeyAIConversations, conversations)
}

// Create generates a fresh conversation and persists it immediately: a
// freshly created, empty conversation is a valid, listable state.
func (s *ConversationService) Create(configID, title string) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		title = DefaultConversationTitle
	}

	now := nowMillis()
	conversation := models.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		Messages:  []models.ChatMessage{},
		ConfigID:  configID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	conversations := s.load()
	conversations[conversation.ID] = conversation
	s.persist(conversations)

	return conversation
}

// Save upserts a conversation by id. The caller is responsible for bumping
// UpdatedAt.
func (s *ConversationService) Save(conversation models.Conversation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	conversations[conversation.ID] = conversation
	return s.persist(conversations)
}

// Get returns the conversation at id
func (s *ConversationService) Get(id string) (models.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversation, ok := s.load()[id]
	return conversation, ok
}

// Delete removes a conversation. If it was current, the current-pointer is
// cleared.
func (s *ConversationService) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	if _, ok := conversations[id]; !ok {
		return false
	}
	delete(conversations, id)

	ok := s.persist(conversations)
	if s.store.GetString(storage.KeyAICurrentConversation, "") == id {
		s.store.Remove(storage.KeyAICurrentConversation)
	}
	return ok
}

// AddMessage appends to the log and bumps UpdatedAt. If this is the
// conversation's first message and it comes from the user, the title is
// derived from its content.
func (s *ConversationService) AddMessage(conversationID string, message models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	conversation, ok := conversations[conversationID]
	if !ok {
		return false
	}

	firstMessage := len(conversation.Messages) == 0
	conversation.Messages = append(conversation.Messages, message)
	conversation.UpdatedAt = bump(conversation.UpdatedAt)

	if firstMessage && message.Role == models.RoleUser && conversation.Title == DefaultConversationTitle {
		conversation.Title = deriveTitle(message.Content)
	}

	conversations[conversationID] = conversation
	return s.persist(conversations)
}

// UpdateLastMessage replaces the last message's content wholesale with the
// accumulated streamed text. Only valid when the last message is an
// assistant message; otherwise it is silently a no-op — callers are
// expected to have checked state already.
func (s *ConversationService) UpdateLastMessage(conversationID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	conversation, ok := conversations[conversationID]
	if !ok || len(conversation.Messages) == 0 {
		return true
	}

	last := len(conversation.Messages) - 1
	if conversation.Messages[last].Role != models.RoleAssistant {
		return true
	}

	conversation.Messages[last].Content = content
	conversation.UpdatedAt = bump(conversation.UpdatedAt)

	conversations[conversationID] = conversation
	return s.persist(conversations)
}

// TogglePin flips the pin state and bumps UpdatedAt
func (s *ConversationService) TogglePin(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	conversation, ok := conversations[id]
	if !ok {
		return false
	}

	conversation.IsPinned = !conversation.IsPinned
	conversation.UpdatedAt = bump(conversation.UpdatedAt)

	conversations[id] = conversation
	return s.persist(conversations)
}

// UpdateTitle sets a new title and bumps UpdatedAt
func (s *ConversationService) UpdateTitle(id, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	conversation, ok := conversations[id]
	if !ok {
		return false
	}

	conversation.Title = title
	conversation.UpdatedAt = bump(conversation.UpdatedAt)

	conversations[id] = conversation
	return s.persist(conversations)
}

// AllMetadata returns the metadata projection of every conversation, in no
// particular order
func (s *ConversationService) AllMetadata() []models.ConversationMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()

	conversations := s.load()
	metadata := make([]models.ConversationMetadata, 0, len(conversations))
	for _, conversation := range conversations {
		metadata = append(metadata, toMetadata(conversation))
	}
	return metadata
}

// Sorted returns conversation metadata ordered pinned-first, then by
// UpdatedAt descending within each pin group. Equal timestamps tie-break
// on id lexical order so the result is deterministic.
func (s *ConversationService) Sorted() []models.ConversationMetadata {
	metadata := s.AllMetadata()

	sort.Slice(metadata, func(i, j int) bool {
		if metadata[i].IsPinned != metadata[j].IsPinned {
			return metadata[i].IsPinned
		}
		if metadata[i].UpdatedAt != metadata[j].UpdatedAt {
			return metadata[i].UpdatedAt > metadata[j].UpdatedAt
		}
		return metadata[i].ID < metadata[j].ID
	})

	return metadata
}

// CurrentID returns the current-conversation pointer, empty when unset
func (s *ConversationService) CurrentID() string {
	return s.store.GetString(storage.KeyAICurrentConversation, "")
}

// SetCurrentID updates the current-conversation pointer
func (s *ConversationService) SetCurrentID(id string) bool {
	return s.store.Set(storage.KeyAICurrentConversation, id)
}

// ClearCurrentID removes the current-conversation pointer
func (s *ConversationService) ClearCurrentID() bool {
	return s.store.Remove(storage.KeyAICurrentConversation)
}

// Export serializes one conversation record verbatim
func (s *ConversationService) Export(id string) ([]byte, error) {
	conversation, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("conversation %s not found", id)
	}
	return json.MarshalIndent(conversation, "", "  ")
}

// Import parses an exported conversation document and stores it under a
// freshly minted id — the imported id is never reused, to avoid collisions
// with existing local conversations. UpdatedAt is set to the import time.
func (s *ConversationService) Import(data []byte) (models.Conversation, error) {
	var conversation models.Conversation
	if err := json.Unmarshal(data, &conversation); err != nil {
		return models.Conversation{}, fmt.Errorf("failed to parse conversation: %w", err)
	}

	conversation.ID = uuid.NewString()
	conversation.UpdatedAt = nowMillis()
	if conversation.Title == "" {
		conversation.Title = DefaultConversationTitle
	}
	if conversation.Messages == nil {
		conversation.Messages = []models.ChatMessage{}
	}

	if !s.Save(conversation) {
		return models.Conversation{}, fmt.Errorf("failed to persist imported conversation")
	}

	log.Printf("📥 [CONVERSATION] Imported conversation as %s (%d messages)", conversation.ID, len(conversation.Messages))
	return conversation, nil
}

// ClearAll drops the conversation mapping and the current-pointer
func (s *ConversationService) ClearAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.store.Remove(storage.KeyAIConversations)
	return s.store.Remove(storage.KeyAICurrentConversation) && ok
}

// toMetadata projects a conversation for list views
func toMetadata(conversation models.Conversation) models.ConversationMetadata {
	preview := ""
	if n := len(conversation.Messages); n > 0 {
		preview = truncateRunes(conversation.Messages[n-1].Content, previewMaxRunes)
	}

	return models.ConversationMetadata{
		ID:           conversation.ID,
		Title:        conversation.Title,
		ConfigID:     conversation.ConfigID,
		CreatedAt:    conversation.CreatedAt,
		UpdatedAt:    conversation.UpdatedAt,
		MessageCount: len(conversation.Messages),
		IsPinned:     conversation.IsPinned,
		LastMessage:  preview,
	}
}

// deriveTitle builds a conversation title from the first user message:
// truncate to 30 runes (ellipsis-suffixed if longer), strip common
// greeting prefixes case-insensitively, and fall back to the placeholder
// when nothing remains. A heuristic, not a grammar.
func deriveTitle(content string) string {
	title := truncateRunes(strings.TrimSpace(content), titleMaxRunes)
	title = stripGreetings(title)

	if strings.TrimSpace(strings.TrimSuffix(title, "...")) == "" {
		return DefaultConversationTitle
	}
	return title
}

// stripGreetings removes leading greeting words and the separators that
// follow them, repeating until no prefix matches
func stripGreetings(title string) string {
	for {
		stripped := strings.TrimLeft(title, " ,!?，。！？、:：~～")
		lower := strings.ToLower(stripped)

		matched := false
		for _, greeting := range greetingPrefixes {
			if strings.HasPrefix(lower, greeting) && !runsIntoWord(lower, greeting) {
				stripped = stripped[len(greeting):]
				matched = true
				break
			}
		}

		stripped = strings.TrimLeft(stripped, " ,!?，。！？、:：~～")
		if !matched {
			return stripped
		}
		title = stripped
	}
}

// runsIntoWord reports whether an ASCII greeting prefix continues straight
// into more letters ("hi" in "history"), which disqualifies the match
func runsIntoWord(lower, greeting string) bool {
	last := greeting[len(greeting)-1]
	if last >= utf8.RuneSelf {
		return false
	}
	rest := lower[len(greeting):]
	if rest == "" {
		return false
	}
	next := rest[0]
	return (next >= 'a' && next <= 'z') || (next >= '0' && next <= '9')
}

// truncateRunes limits s to max runes, appending "..." when shortened
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// bump returns a timestamp that never moves backwards even when the clock
// and a prior update land in the same millisecond
func bump(previous int64) int64 {
	now := nowMillis()
	if now < previous {
		return previous
	}
	return now
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
