package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/dmitrijs2005/docuchat/internal/client/api"
	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient implements api.Client for unit tests. Fixed results live in
// the Ret/Err fields; tests that need per-call behavior set the
// corresponding hook instead.
type fakeClient struct {
	mu sync.Mutex

	LoginRet models.TokenPair
	LoginErr error

	RegisterRet *models.User
	RegisterErr error

	CurrentUserRet *models.User
	CurrentUserErr error

	LogoutErr   error
	LogoutCalls int

	SessionsRet []models.Session
	SessionsErr error

	CreateSessionRet models.Session
	CreateSessionErr error

	DeleteSessionErr     error
	DeletedIDs           []int64
	SessionMessagesRet   map[int64][]models.Message
	SessionMessagesErr   error
	SessionMessagesCalls int

	SendChatRet  string
	SendChatErr  error
	SendChatHook func(req api.ChatRequest) (string, error)
	SendChatReqs []api.ChatRequest

	UploadRet   api.UploadReceipt
	UploadErr   error
	UploadNames []string

	// argument capture
	LastLoginEmail    string
	LastLoginPassword string
	LastCreateTitle   string
	LastLogoutToken   string
}

func (f *fakeClient) Login(_ context.Context, email, password string) (models.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLoginEmail, f.LastLoginPassword = email, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, email, password, firstName, lastName string) (*models.User, error) {
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeClient) CurrentUser(_ context.Context) (*models.User, error) {
	return f.CurrentUserRet, f.CurrentUserErr
}

func (f *fakeClient) Logout(_ context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	f.LastLogoutToken = refreshToken
	return f.LogoutErr
}

func (f *fakeClient) Sessions(_ context.Context) ([]models.Session, error) {
	return f.SessionsRet, f.SessionsErr
}

func (f *fakeClient) CreateSession(_ context.Context, title string) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastCreateTitle = title
	return f.CreateSessionRet, f.CreateSessionErr
}

func (f *fakeClient) DeleteSession(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeletedIDs = append(f.DeletedIDs, id)
	return f.DeleteSessionErr
}

func (f *fakeClient) SessionMessages(_ context.Context, id int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SessionMessagesCalls++
	if f.SessionMessagesErr != nil {
		return nil, f.SessionMessagesErr
	}
	return f.SessionMessagesRet[id], nil
}

func (f *fakeClient) SendChat(_ context.Context, req api.ChatRequest) (string, error) {
	f.mu.Lock()
	f.SendChatReqs = append(f.SendChatReqs, req)
	hook := f.SendChatHook
	f.mu.Unlock()
	if hook != nil {
		return hook(req)
	}
	return f.SendChatRet, f.SendChatErr
}

func (f *fakeClient) Upload(_ context.Context, filename string, _ []byte) (api.UploadReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UploadNames = append(f.UploadNames, filename)
	return f.UploadRet, f.UploadErr
}
