package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/docuchat/internal/client/api"
	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/common"
	"github.com/dmitrijs2005/docuchat/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrNoCurrentSession = errors.New("no current session")
	ErrSessionNotFound  = errors.New("session not found in list")
	ErrSendInFlight     = errors.New("a message is already being sent")
	ErrUnknownModel     = errors.New("unknown model")
)

// chatModels maps the user-facing model names to backend identifiers.
var chatModels = map[string]string{
	"claude-instant": "claude",
	"titan-text-g1":  "titan",
}

// DefaultModel is selected until the user picks another one.
const DefaultModel = "claude-instant"

const maxTitleRunes = 50

// ChatSnapshot is an immutable copy of the chat state for rendering.
// Messages always correspond to CurrentSessionID.
type ChatSnapshot struct {
	Sessions         []models.Session
	CurrentSessionID *int64
	Messages         []models.Message
	RAGEnabled       bool
	SelectedModel    string
	Loading          bool
}

// ChatService owns the conversation list, the identifier of the current
// session, and the message cache for that session. No other component
// mutates this state. The message cache and the current session id are
// always replaced together; a mismatch is a correctness bug.
type ChatService struct {
	client api.Client
	log    logging.Logger

	mu         sync.Mutex
	sessions   []models.Session
	currentID  *int64
	messages   []models.Message
	ragEnabled bool
	model      string
	loading    bool
}

func NewChatService(client api.Client, log logging.Logger) *ChatService {
	return &ChatService{client: client, log: log, model: DefaultModel}
}

// Snapshot returns a copy of the current chat state.
func (c *ChatService) Snapshot() ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := ChatSnapshot{
		Sessions:      append([]models.Session(nil), c.sessions...),
		Messages:      append([]models.Message(nil), c.messages...),
		RAGEnabled:    c.ragEnabled,
		SelectedModel: c.model,
		Loading:       c.loading,
	}
	if c.currentID != nil {
		id := *c.currentID
		snap.CurrentSessionID = &id
	}
	return snap
}

// LoadSessions replaces the session list with the server's, preserving the
// server-defined order.
func (c *ChatService) LoadSessions(ctx context.Context) error {
	sessions, err := c.client.Sessions(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = sessions
	return nil
}

// CreateSession creates a conversation on the backend, appends it to the
// list (append, not prepend: list order is server-defined), makes it
// current, and resets the message cache. The title is derived from the
// seed message when one is given.
func (c *ChatService) CreateSession(ctx context.Context, seed string) (models.Session, error) {
	session, err := c.client.CreateSession(ctx, deriveTitle(seed))
	if err != nil {
		return models.Session{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = append(c.sessions, session)
	id := session.ID
	c.currentID = &id
	c.messages = nil
	return session, nil
}

// SwitchSession makes the given session current. A switch to the session
// that is already current is a no-op. The history is fetched first and
// only then the current id and the message cache are replaced together.
func (c *ChatService) SwitchSession(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.currentID != nil && *c.currentID == id {
		c.mu.Unlock()
		return nil
	}
	if !c.hasSessionLocked(id) {
		c.mu.Unlock()
		return fmt.Errorf("session %d: %w", id, ErrSessionNotFound)
	}
	c.mu.Unlock()

	messages, err := c.client.SessionMessages(ctx, id)
	if err != nil {
		return fmt.Errorf("loading history for session %d: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceCurrentLocked(&id, messages)
	return nil
}

// SendMessage sends a chat turn for the current session.
//
// The user message is appended optimistically (DeliveryPending) before the
// network call, and the loading flag is raised; the flag doubles as the
// per-session send mutex, so a second send while one is in flight fails
// with ErrSendInFlight. On success the optimistic message is confirmed and
// the assistant reply appended; on failure it is kept and marked
// DeliveryFailed. A response arriving after the cache has moved to another
// session is discarded.
func (c *ChatService) SendMessage(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.currentID == nil {
		c.mu.Unlock()
		return ErrNoCurrentSession
	}
	if c.loading {
		c.mu.Unlock()
		return ErrSendInFlight
	}

	sessionID := *c.currentID
	userMsg := models.Message{
		LocalID:   uuid.NewString(),
		Role:      models.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
		Delivery:  models.DeliveryPending,
	}
	c.messages = append(c.messages, userMsg)
	c.loading = true
	req := api.ChatRequest{
		Model:        chatModels[c.model],
		SystemPrompt: common.DefaultSystemPrompt,
		SessionID:    sessionID,
		UserInput:    text,
		EnableRAG:    c.ragEnabled,
	}
	c.mu.Unlock()

	reply, sendErr := c.client.SendChat(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if c.currentID == nil || *c.currentID != sessionID {
		// stale response: the cache has moved on, discard the result
		c.log.Warn(ctx, "discarding reply for abandoned session", "session_id", sessionID)
		return sendErr
	}

	if sendErr != nil {
		c.markDeliveryLocked(userMsg.LocalID, models.DeliveryFailed)
		return sendErr
	}

	c.markDeliveryLocked(userMsg.LocalID, models.DeliveryConfirmed)
	c.messages = append(c.messages, models.Message{
		LocalID:   uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now(),
		Delivery:  models.DeliveryConfirmed,
	})
	return nil
}

// DeleteSession deletes the session on the backend and removes it from
// the list. If the deleted session was current, the fallback is resolved
// synchronously before this method returns: with no sessions left the
// current id and cache are cleared; otherwise the first element of the
// post-deletion list becomes current and its history is loaded.
func (c *ChatService) DeleteSession(ctx context.Context, id int64) error {
	c.mu.Lock()
	if !c.hasSessionLocked(id) {
		c.mu.Unlock()
		return fmt.Errorf("session %d: %w", id, ErrSessionNotFound)
	}
	c.mu.Unlock()

	if err := c.client.DeleteSession(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	remaining := make([]models.Session, 0, len(c.sessions))
	for _, s := range c.sessions {
		if s.ID != id {
			remaining = append(remaining, s)
		}
	}
	c.sessions = remaining

	wasCurrent := c.currentID != nil && *c.currentID == id
	if !wasCurrent {
		c.mu.Unlock()
		return nil
	}

	if len(remaining) == 0 {
		c.replaceCurrentLocked(nil, nil)
		c.mu.Unlock()
		return nil
	}

	fallbackID := remaining[0].ID
	c.mu.Unlock()

	messages, err := c.client.SessionMessages(ctx, fallbackID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// the fallback must still be defined: clear rather than point the
		// UI at a session whose history could not be loaded
		c.replaceCurrentLocked(nil, nil)
		return fmt.Errorf("loading fallback session %d: %w", fallbackID, err)
	}
	c.replaceCurrentLocked(&fallbackID, messages)
	return nil
}

// ToggleRAG flips retrieval augmentation and returns the new value.
// Pure state flip, no network call.
func (c *ChatService) ToggleRAG() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ragEnabled = !c.ragEnabled
	return c.ragEnabled
}

// SetRAGEnabled sets retrieval augmentation unconditionally.
func (c *ChatService) SetRAGEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ragEnabled = enabled
}

// SetModel selects the model used for subsequent turns.
func (c *ChatService) SetModel(name string) error {
	if _, ok := chatModels[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownModel)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = name
	return nil
}

// Models lists the selectable model names.
func (c *ChatService) Models() []string {
	names := make([]string, 0, len(chatModels))
	for name := range chatModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *ChatService) hasSessionLocked(id int64) bool {
	for _, s := range c.sessions {
		if s.ID == id {
			return true
		}
	}
	return false
}

// replaceCurrentLocked swaps the current session id and the message cache
// as a unit.
func (c *ChatService) replaceCurrentLocked(id *int64, messages []models.Message) {
	c.currentID = id
	c.messages = messages
}

func (c *ChatService) markDeliveryLocked(localID string, d models.Delivery) {
	for i := range c.messages {
		if c.messages[i].LocalID == localID {
			c.messages[i].Delivery = d
			return
		}
	}
}

// deriveTitle builds a session title from the seed message, or falls back
// to a placeholder.
func deriveTitle(seed string) string {
	if seed == "" {
		return "New Chat"
	}
	if utf8.RuneCountInString(seed) <= maxTitleRunes {
		return seed
	}
	runes := []rune(seed)
	return string(runes[:maxTitleRunes]) + "..."
}
