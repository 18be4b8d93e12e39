// Package adminclient — HTTP-клиент административного API жизненного цикла подписок.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/commacards/card-subscriptions/internal/models"
)

// ErrTransportFailure возвращается при сетевой ошибке или ответе не из диапазона 2xx.
// Текст ответа сервера считается непрозрачным и только добавляется к сообщению.
var ErrTransportFailure = errors.New("transport failure")

const adminKeyHeader = "x-admin-key"

// Client вызывает административные и публичные маршруты API.
type Client struct {
	baseURL    string
	adminKey   string
	token      string
	httpClient *http.Client
}

// Option настраивает Client.
type Option func(*Client)

// WithAdminKey передаёт ключ администратора в заголовке x-admin-key.
func WithAdminKey(key string) Option {
	return func(c *Client) { c.adminKey = key }
}

// WithToken передаёт токен сессии в заголовке Authorization.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient заменяет HTTP-клиент по умолчанию.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New создаёт клиент для API по адресу baseURL, например http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// Session — токен административной сессии.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GetTrialControl читает глобальную настройку пробного периода.
func (c *Client) GetTrialControl(ctx context.Context) (models.TrialControl, error) {
	var tc models.TrialControl
	err := c.do(ctx, "adminclient.GetTrialControl", http.MethodGet, "/api/admin/trial-control", nil, &tc)
	return tc, err
}

// SetTrialControl полностью заменяет глобальную настройку.
func (c *Client) SetTrialControl(ctx context.Context, next models.TrialControl) (models.TrialControl, error) {
	body := models.DummyTrialControl{Enabled: &next.Enabled, DefaultTrialDays: &next.DefaultTrialDays}
	var tc models.TrialControl
	err := c.do(ctx, "adminclient.SetTrialControl", http.MethodPatch, "/api/admin/trial-control", body, &tc)
	return tc, err
}

// PutSubscription назначает профилю план и цикл оплаты.
func (c *Client) PutSubscription(ctx context.Context, profileID string, req models.DummySubscription) (models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	err := c.do(ctx, "adminclient.PutSubscription", http.MethodPut, profilePath("/api/admin/profile/", profileID, "/subscription"), req, &rec)
	return rec, err
}

// GetSubscription читает запись подписки профиля.
func (c *Client) GetSubscription(ctx context.Context, profileID string) (models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	err := c.do(ctx, "adminclient.GetSubscription", http.MethodGet, profilePath("/api/admin/profile/", profileID, "/subscription"), nil, &rec)
	return rec, err
}

// StartTrial запускает пробный период профиля на плане planID.
func (c *Client) StartTrial(ctx context.Context, profileID, planID string) (models.SubscriptionRecord, error) {
	var rec models.SubscriptionRecord
	err := c.do(ctx, "adminclient.StartTrial", http.MethodPost, profilePath("/api/admin/profile/", profileID, "/trial"),
		models.DummyTrialStart{Plan: planID}, &rec)
	return rec, err
}

// TrialRemaining читает публичный статус пробного периода профиля.
func (c *Client) TrialRemaining(ctx context.Context, profileID string) (models.TrialRemaining, error) {
	var res models.TrialRemaining
	err := c.do(ctx, "adminclient.TrialRemaining", http.MethodGet, profilePath("/api/profile/", profileID, "/trial-remaining"), nil, &res)
	return res, err
}

// OpenSession обменивает ключ администратора на токен сессии.
func (c *Client) OpenSession(ctx context.Context, key string) (Session, error) {
	var s Session
	err := c.do(ctx, "adminclient.OpenSession", http.MethodPost, "/api/admin/session", map[string]string{"key": key}, &s)
	return s, err
}

func profilePath(prefix, profileID, suffix string) string {
	return prefix + url.PathEscape(profileID) + suffix
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminKey != "" {
		req.Header.Set(adminKeyHeader, c.adminKey)
	} else if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransportFailure, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s: %w: status %d: %s", op, ErrTransportFailure, resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransportFailure, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransportFailure, err)
	}
	return nil
}
