package cli

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/docuchat/internal/client/api"
	"github.com/dmitrijs2005/docuchat/internal/client/config"
	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/docuchat/internal/client/services"
	"github.com/dmitrijs2005/docuchat/internal/logging"

	_ "modernc.org/sqlite"
)

// authAPI is the slice of the auth service the CLI uses. Tests provide a
// stub.
type authAPI interface {
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email string, password []byte) error
	Register(ctx context.Context, email string, password []byte, firstName, lastName string) error
	Logout(ctx context.Context) error
	Snapshot() services.AuthSnapshot
	TokenExpiresAt(ctx context.Context) (time.Time, error)
	ForceSignOut()
}

// chatAPI is the slice of the chat service the CLI uses.
type chatAPI interface {
	LoadSessions(ctx context.Context) error
	CreateSession(ctx context.Context, seed string) (models.Session, error)
	SwitchSession(ctx context.Context, id int64) error
	SendMessage(ctx context.Context, text string) error
	DeleteSession(ctx context.Context, id int64) error
	Snapshot() services.ChatSnapshot
	ToggleRAG() bool
	SetRAGEnabled(enabled bool)
	SetModel(name string) error
	Models() []string
}

// uploadAPI is the slice of the upload service the CLI uses.
type uploadAPI interface {
	Upload(ctx context.Context, path string) (api.UploadReceipt, error)
	UploadAll(ctx context.Context, paths []string) error
}

// App wires the services together behind the REPL.
type App struct {
	config        *config.Config
	authService   authAPI
	chatService   chatAPI
	uploadService uploadAPI
	log           logging.Logger
	reader        *bufio.Reader
}

// NewApp builds the full dependency graph: local database, credential
// store, token gateway, typed HTTP client, and the three services.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := credentials.NewStore(db)
	gateway := api.NewGateway(c.ServerEndpointAddr, &http.Client{Timeout: c.RequestTimeout}, store, log)
	client := api.NewHTTPClient(gateway)

	authService := services.NewAuthService(client, store, log)
	chatService := services.NewChatService(client, log)
	uploadService := services.NewUploadService(client, log, c.UploadConcurrency)

	// a terminally failed refresh drops the in-memory auth projection;
	// the next prompt falls back to the signed-out command set
	gateway.OnSessionExpired(authService.ForceSignOut)

	return &App{
		config:        c,
		authService:   authService,
		chatService:   chatService,
		uploadService: uploadService,
		log:           log,
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.Snapshot().IsAuthenticated
}

// Run bootstraps the auth state from the credential store and enters the
// command loop.
func (a *App) Run(ctx context.Context) error {
	if err := a.authService.Bootstrap(ctx); err != nil {
		return err
	}

	if a.isLoggedIn() {
		if err := a.chatService.LoadSessions(ctx); err != nil {
			a.log.Warn(ctx, "failed to load sessions", "error", err)
		}
	}

	a.Root(ctx)
	return nil
}
