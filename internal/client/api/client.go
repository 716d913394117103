package api

import (
	"context"

	"github.com/dmitrijs2005/docuchat/internal/client/models"
)

// ChatRequest is the payload of a single chat turn.
type ChatRequest struct {
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	SessionID    int64  `json:"session_id"`
	UserInput    string `json:"user_input"`
	EnableRAG    bool   `json:"enable_rag"`
}

// UploadReceipt is the backend's acknowledgement of a document upload.
type UploadReceipt struct {
	Message string `json:"message"`
}

// Client is the typed surface of the backend REST contract. Services
// depend on this interface; tests substitute a fake without touching the
// network.
type Client interface {
	Login(ctx context.Context, email, password string) (models.TokenPair, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context, refreshToken string) error

	Sessions(ctx context.Context) ([]models.Session, error)
	CreateSession(ctx context.Context, title string) (models.Session, error)
	DeleteSession(ctx context.Context, id int64) error
	SessionMessages(ctx context.Context, id int64) ([]models.Message, error)

	SendChat(ctx context.Context, req ChatRequest) (string, error)
	Upload(ctx context.Context, filename string, content []byte) (UploadReceipt, error)
}
