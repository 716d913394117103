// Package api implements the HTTP client for the docuchat backend: a
// token gateway that attaches the bearer credential to every outbound
// request and transparently heals an expired access token with a
// single-flight refresh, plus a typed client for the REST contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/docuchat/internal/client/models"
	"github.com/dmitrijs2005/docuchat/internal/common"
	"github.com/dmitrijs2005/docuchat/internal/logging"
	"golang.org/x/sync/singleflight"
)

// TokenStore is the subset of the credential store the gateway needs.
// *credentials.Store satisfies it.
type TokenStore interface {
	Tokens(ctx context.Context) (models.TokenPair, error)
	SaveTokens(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

// Gateway wraps every outbound call to the backend.
//
// On a 401 response for a not-yet-retried request it performs the token
// refresh exactly once per expiry event (concurrent 401s share one
// in-flight refresh through the singleflight group), persists the new
// pair, and re-dispatches the request once with the new credential. If
// the refresh itself is rejected, the stored credentials are cleared,
// the registered session-expired callback fires, and ErrSessionExpired
// is returned. A request that fails authorization after its retry is
// surfaced as ErrUnauthorized and never triggers a second refresh.
type Gateway struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     logging.Logger

	refreshGroup     singleflight.Group
	onSessionExpired func()
}

func NewGateway(baseURL string, httpClient *http.Client, tokens TokenStore, log logging.Logger) *Gateway {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     log,
	}
}

// OnSessionExpired registers the callback invoked when a refresh fails
// terminally. The UI layer uses it to return to the sign-in prompt.
func (g *Gateway) OnSessionExpired(fn func()) {
	g.onSessionExpired = fn
}

// Do dispatches an authenticated request. The body is buffered so it can
// be replayed on the single retry.
func (g *Gateway) Do(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	pair, err := g.tokens.Tokens(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.dispatch(ctx, method, path, contentType, body, pair.AccessToken)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	drain(resp)

	newPair, err := g.refresh(ctx, pair)
	if err != nil {
		return nil, err
	}

	// mark retried: this dispatch is the one and only re-issue
	resp, err = g.dispatch(ctx, method, path, contentType, body, newPair.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		return nil, fmt.Errorf("retried request rejected: %w", ErrUnauthorized)
	}
	return resp, nil
}

// DoBare dispatches a request without a bearer credential and without the
// refresh-and-retry path. Used for login, register, and refresh itself.
func (g *Gateway) DoBare(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	return g.dispatch(ctx, method, path, contentType, body, "")
}

func (g *Gateway) dispatch(ctx context.Context, method, path, contentType string, body []byte, accessToken string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+accessToken)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// refresh exchanges the refresh token for a new pair. Concurrent callers
// that hit a 401 at the same time share a single in-flight exchange; each
// of them receives the same outcome.
func (g *Gateway) refresh(ctx context.Context, stale models.TokenPair) (models.TokenPair, error) {
	if stale.RefreshToken == "" {
		return models.TokenPair{}, g.expire(ctx, fmt.Errorf("no refresh token: %w", ErrSessionExpired))
	}

	v, err, _ := g.refreshGroup.Do("refresh", func() (any, error) {
		// another caller may have finished a refresh between our 401 and
		// now; if the stored pair already moved on, reuse it
		current, err := g.tokens.Tokens(ctx)
		if err == nil && current.Valid() && current.AccessToken != stale.AccessToken {
			return current, nil
		}

		pair, err := g.exchange(ctx, stale.RefreshToken)
		if err != nil {
			return models.TokenPair{}, err
		}
		if err := g.tokens.SaveTokens(ctx, pair); err != nil {
			return models.TokenPair{}, err
		}
		return pair, nil
	})
	if err != nil {
		return models.TokenPair{}, g.expire(ctx, fmt.Errorf("token refresh failed: %w", ErrSessionExpired))
	}
	return v.(models.TokenPair), nil
}

func (g *Gateway) exchange(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return models.TokenPair{}, err
	}

	resp, err := g.DoBare(ctx, http.MethodPost, "/auth/refresh", "application/json", body)
	if err != nil {
		return models.TokenPair{}, err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		return models.TokenPair{}, common.ErrRefreshTokenExpired
	}

	var pair models.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return models.TokenPair{}, err
	}
	if !pair.Valid() {
		return models.TokenPair{}, common.ErrInvalidToken
	}
	return pair, nil
}

// expire clears all stored credentials and signals the terminal
// session-expired event.
func (g *Gateway) expire(ctx context.Context, err error) error {
	if clearErr := g.tokens.Clear(ctx); clearErr != nil {
		g.log.Error(ctx, "failed to clear credentials", "error", clearErr)
	}
	if g.onSessionExpired != nil {
		g.onSessionExpired()
	}
	return err
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
