// Package services contains the application services of the docuchat
// client. This file defines the authentication lifecycle: an explicit
// state machine over the credential store and the backend client.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/docuchat/internal/client/api"
	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthState enumerates the lifecycle states. The only valid transitions
// are the ones listed in authTransitions; everything else is a bug and is
// rejected at transition time.
type AuthState int

const (
	StateBooting AuthState = iota
	StateUnauthenticated
	StateAuthenticating
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var authTransitions = map[AuthState][]AuthState{
	StateBooting:         {StateAuthenticated, StateUnauthenticated},
	StateUnauthenticated: {StateAuthenticating},
	StateAuthenticating:  {StateAuthenticated, StateUnauthenticated},
	StateAuthenticated:   {StateUnauthenticated},
}

// AuthSnapshot is the projection the UI renders from.
type AuthSnapshot struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
}

// CredentialStore is the persistence surface the auth service needs.
// *credentials.Store satisfies it.
type CredentialStore interface {
	Tokens(ctx context.Context) (models.TokenPair, error)
	SaveTokens(ctx context.Context, pair models.TokenPair) error
	User(ctx context.Context) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	Clear(ctx context.Context) error
}

// AuthService drives the authentication lifecycle.
type AuthService struct {
	client api.Client
	store  CredentialStore
	log    logging.Logger

	mu    sync.Mutex
	state AuthState
	user  *models.User
}

// NewAuthService constructs an AuthService in the Booting state.
func NewAuthService(client api.Client, store CredentialStore, log logging.Logger) *AuthService {
	return &AuthService{client: client, store: store, log: log, state: StateBooting}
}

// transition moves the machine to the target state, or fails if the move
// is not in the table. Callers hold a.mu.
func (a *AuthService) transition(to AuthState) error {
	for _, allowed := range authTransitions[a.state] {
		if allowed == to {
			a.state = to
			return nil
		}
	}
	return fmt.Errorf("invalid auth transition %s -> %s", a.state, to)
}

// State returns the current lifecycle state.
func (a *AuthService) State() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Snapshot returns the {user, isAuthenticated, isLoading} projection.
func (a *AuthService) Snapshot() AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AuthSnapshot{
		User:            a.user,
		IsAuthenticated: a.state == StateAuthenticated,
		IsLoading:       a.state == StateBooting || a.state == StateAuthenticating,
	}
}

// Bootstrap resolves the Booting state from the credential store without a
// network round-trip: a stored token pair plus a cached profile means
// Authenticated optimistically, anything else means Unauthenticated.
// A cached profile that no longer parses wipes the store.
func (a *AuthService) Bootstrap(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateBooting {
		return fmt.Errorf("bootstrap called in state %s", a.state)
	}

	pair, err := a.store.Tokens(ctx)
	if err != nil {
		return err
	}

	user, err := a.store.User(ctx)
	if err != nil {
		a.log.Warn(ctx, "cached profile unreadable, clearing credentials", "error", err)
		if clearErr := a.store.Clear(ctx); clearErr != nil {
			return clearErr
		}
		return a.transition(StateUnauthenticated)
	}

	if pair.Valid() && user != nil {
		a.user = user
		return a.transition(StateAuthenticated)
	}
	return a.transition(StateUnauthenticated)
}

// Login authenticates against the backend, persists the returned token
// pair, then fetches and caches the profile. On any failure the machine
// returns to Unauthenticated and the error is surfaced to the caller.
func (a *AuthService) Login(ctx context.Context, email string, password []byte) error {
	a.mu.Lock()
	if err := a.transition(StateAuthenticating); err != nil {
		a.mu.Unlock()
		return err
	}
	a.mu.Unlock()

	user, err := a.doLogin(ctx, email, password)

	a.mu.Lock()
	defer a.mu.Unlock()
	if err != nil {
		_ = a.transition(StateUnauthenticated)
		return err
	}
	a.user = user
	return a.transition(StateAuthenticated)
}

func (a *AuthService) doLogin(ctx context.Context, email string, password []byte) (*models.User, error) {
	pair, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.store.SaveTokens(ctx, pair); err != nil {
		return nil, fmt.Errorf("persisting tokens: %w", err)
	}

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	if err := a.store.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("caching profile: %w", err)
	}
	return user, nil
}

// Register creates the account and immediately logs in with the same
// credentials, so registration never leaves the user half-authenticated.
func (a *AuthService) Register(ctx context.Context, email string, password []byte, firstName, lastName string) error {
	if _, err := a.client.Register(ctx, email, string(password), firstName, lastName); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return a.Login(ctx, email, password)
}

// Logout notifies the backend to invalidate the refresh token (failure of
// that notification is absorbed: local sign-out always succeeds), clears
// the credential store, and transitions to Unauthenticated.
func (a *AuthService) Logout(ctx context.Context) error {
	pair, err := a.store.Tokens(ctx)
	if err == nil && pair.RefreshToken != "" {
		if err := a.client.Logout(ctx, pair.RefreshToken); err != nil {
			a.log.Warn(ctx, "server logout notification failed", "error", err)
		}
	}

	if err := a.store.Clear(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	if a.state != StateUnauthenticated {
		return a.transition(StateUnauthenticated)
	}
	return nil
}

// ForceSignOut is the terminal session-expired path: the gateway has
// already cleared the store, here we only drop the in-memory projection.
func (a *AuthService) ForceSignOut() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.user = nil
	if a.state != StateUnauthenticated {
		_ = a.transition(StateUnauthenticated)
	}
}

// TokenExpiresAt reports the expiry claim of the stored access token.
// The token is parsed without signature verification: the value is for
// status display only and never gates a request.
func (a *AuthService) TokenExpiresAt(ctx context.Context) (time.Time, error) {
	pair, err := a.store.Tokens(ctx)
	if err != nil {
		return time.Time{}, err
	}
	if !pair.Valid() {
		return time.Time{}, fmt.Errorf("no stored token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return exp.Time, nil
}
