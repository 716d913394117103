package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/docuchat/internal/client/models"
)

// HTTPClient implements Client over the token gateway.
type HTTPClient struct {
	gw *Gateway
}

func NewHTTPClient(gw *Gateway) *HTTPClient {
	return &HTTPClient{gw: gw}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return models.TokenPair{}, err
	}

	resp, err := c.gw.DoBare(ctx, http.MethodPost, "/auth/login", "application/json", body)
	if err != nil {
		return models.TokenPair{}, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return models.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	var pair models.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	body, err := json.Marshal(map[string]string{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.gw.DoBare(ctx, http.MethodPost, "/auth/register", "application/json", body)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	var u models.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	resp, err := c.gw.Do(ctx, http.MethodGet, "/auth/me", "", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	var u models.User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}

	resp, err := c.gw.Do(ctx, http.MethodPost, "/auth/logout", "application/json", body)
	if err != nil {
		return err
	}
	defer drain(resp)

	return mapStatus(resp)
}

func (c *HTTPClient) Sessions(ctx context.Context) ([]models.Session, error) {
	resp, err := c.gw.Do(ctx, http.MethodGet, "/sessions/", "", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var sessions []models.Session
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, title string) (models.Session, error) {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return models.Session{}, err
	}

	resp, err := c.gw.Do(ctx, http.MethodPost, "/sessions/", "application/json", body)
	if err != nil {
		return models.Session{}, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return models.Session{}, fmt.Errorf("create session: %w", err)
	}

	var s models.Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return models.Session{}, err
	}
	return s, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, id int64) error {
	resp, err := c.gw.Do(ctx, http.MethodDelete, fmt.Sprintf("/sessions/%d/", id), "", nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}

func (c *HTTPClient) SessionMessages(ctx context.Context, id int64) ([]models.Message, error) {
	resp, err := c.gw.Do(ctx, http.MethodGet, fmt.Sprintf("/sessions/%d/messages/", id), "", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return nil, fmt.Errorf("session %d messages: %w", id, err)
	}

	var messages []models.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].Delivery = models.DeliveryConfirmed
	}
	return messages, nil
}

func (c *HTTPClient) SendChat(ctx context.Context, req ChatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	resp, err := c.gw.Do(ctx, http.MethodPost, "/chat/", "application/json", body)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	var out struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Response, nil
}

func (c *HTTPClient) Upload(ctx context.Context, filename string, content []byte) (UploadReceipt, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return UploadReceipt{}, err
	}
	if _, err := part.Write(content); err != nil {
		return UploadReceipt{}, err
	}
	if err := w.Close(); err != nil {
		return UploadReceipt{}, err
	}

	resp, err := c.gw.Do(ctx, http.MethodPost, "/upload/", w.FormDataContentType(), buf.Bytes())
	if err != nil {
		return UploadReceipt{}, err
	}
	defer drain(resp)

	if err := mapStatus(resp); err != nil {
		return UploadReceipt{}, fmt.Errorf("upload %s: %w", filename, err)
	}

	var receipt UploadReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return UploadReceipt{}, err
	}
	return receipt, nil
}

// mapStatus converts non-2xx responses to sentinel errors. The gateway has
// already consumed recoverable 401s; whatever reaches here is final.
func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
