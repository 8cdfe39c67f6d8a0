package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
	"github.com/sethvargo/go-retry"
)

const (
	defaultRetries   = 2
	defaultRetryBase = 200 * time.Millisecond
)

// APIClient is a thin typed wrapper over the server's JSON API. It holds the
// session token once Login or Register succeeds.
type APIClient struct {
	baseURL   string
	http      *http.Client
	token     string
	retries   uint64
	retryBase time.Duration
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		retries:   defaultRetries,
		retryBase: defaultRetryBase,
	}
}

func (c *APIClient) SetToken(token string) { c.token = token }
func (c *APIClient) Token() string         { return c.token }

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Ping checks that the server answers its health endpoint.
func (c *APIClient) Ping(ctx context.Context) error {
	return c.once(ctx, http.MethodGet, "/healthz", nil, nil)
}

// Register creates an account and keeps the returned token.
func (c *APIClient) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	var out struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	if err := c.once(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.User, nil
}

// Login authenticates and keeps the returned token.
func (c *APIClient) Login(ctx context.Context, in models.LoginInput) error {
	var out tokenResponse
	if err := c.once(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return err
	}
	c.token = out.Token
	return nil
}

func (c *APIClient) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	var out struct {
		Users []models.UserSummary `json:"users"`
	}
	if err := c.get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *APIClient) GetUser(ctx context.Context, username string) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.get(ctx, "/users/"+url.PathEscape(username), &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *APIClient) ListTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	var out struct {
		Messages []models.ReceivedMessage `json:"messages"`
	}
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/to", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *APIClient) ListFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	var out struct {
		Messages []models.SentMessage `json:"messages"`
	}
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/from", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Send is not retried: a lost response could otherwise duplicate the message.
func (c *APIClient) Send(ctx context.Context, in models.SendMessageInput) (*models.Message, error) {
	var out struct {
		Message *models.Message `json:"message"`
	}
	if err := c.once(ctx, http.MethodPost, "/messages", in, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

func (c *APIClient) GetMessage(ctx context.Context, id int64) (*models.MessageDetail, error) {
	var out struct {
		Message *models.MessageDetail `json:"message"`
	}
	if err := c.get(ctx, "/messages/"+strconv.FormatInt(id, 10), &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

func (c *APIClient) MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error) {
	var out struct {
		Message *models.ReadReceipt `json:"message"`
	}
	if err := c.once(ctx, http.MethodPost, "/messages/"+strconv.FormatInt(id, 10)+"/read", nil, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

// get retries while the server is unavailable.
func (c *APIClient) get(ctx context.Context, path string, out any) error {
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.once(ctx, http.MethodGet, path, nil, out)
		if errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *APIClient) once(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}

	var e errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, e.Error)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
}

// SetRetry overrides how many times idempotent GETs are retried and the
// initial backoff.
func (c *APIClient) SetRetry(retries uint64, base time.Duration) {
	c.retries = retries
	c.retryBase = base
}
