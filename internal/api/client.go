package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL = "http://localhost:9000"

	loginPath    = "/api/login"
	articlesPath = "/api/articles"
)

// Client talks to the articles REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates an API client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var res LoginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, "", creds, &res); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &res, nil
}

// GetArticles fetches the full article collection.
func (c *Client) GetArticles(ctx context.Context, token string) (*ArticlesResponse, error) {
	var res ArticlesResponse
	if err := c.do(ctx, http.MethodGet, articlesPath, token, nil, &res); err != nil {
		return nil, fmt.Errorf("get articles: %w", err)
	}
	return &res, nil
}

// PostArticle creates an article and returns it with its server-assigned id.
func (c *Client) PostArticle(ctx context.Context, token string, fields ArticleFields) (*ArticleResponse, error) {
	var res ArticleResponse
	if err := c.do(ctx, http.MethodPost, articlesPath, token, fields, &res); err != nil {
		return nil, fmt.Errorf("post article: %w", err)
	}
	return &res, nil
}

// UpdateArticle replaces the editable fields of article id.
func (c *Client) UpdateArticle(ctx context.Context, token string, id int, fields ArticleFields) (*ArticleResponse, error) {
	var res ArticleResponse
	if err := c.do(ctx, http.MethodPut, articlePath(id), token, fields, &res); err != nil {
		return nil, fmt.Errorf("update article %d: %w", id, err)
	}
	return &res, nil
}

// DeleteArticle removes article id.
func (c *Client) DeleteArticle(ctx context.Context, token string, id int) (*MessageResponse, error) {
	var res MessageResponse
	if err := c.do(ctx, http.MethodDelete, articlePath(id), token, nil, &res); err != nil {
		return nil, fmt.Errorf("delete article %d: %w", id, err)
	}
	return &res, nil
}

func articlePath(id int) string {
	return articlesPath + "/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		// The API expects the raw token, no "Bearer" scheme.
		req.Header.Set("Authorization", token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Request failed", "method", method, "path", path, "requestID", requestID, "err", err)
		return fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("Request complete",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"requestID", requestID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var msg MessageResponse
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			statusErr.Message = msg.Message
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
