package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const loginRequiredMsg = "Please log in as admin"

// TokenSource yields the bearer credential for the current session, or ""
// when nobody is logged in.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  logger.ZapLogger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log logger.ZapLogger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  log,
	}
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// requireAuth refuses to send the request without a token.
	requireAuth bool
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("encode %s body: %w", path, err))
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        bytes.NewReader(data),
		contentType: "application/json",
		requireAuth: true,
	}, out)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return apperr.Wrap(fmt.Errorf("encode %s form: %w", path, err))
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		body:        body,
		contentType: contentType,
		requireAuth: true,
	}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path, requireAuth: true}, nil)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	if r.requireAuth && token == "" {
		return apperr.UnauthorizedErr(loginRequiredMsg)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return apperr.Wrap(fmt.Errorf("build request %s %s: %w", r.method, r.path, err))
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		return apperr.BackendErr(0, "", fmt.Errorf("%s %s: %w", r.method, r.path, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(r, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.BackendErr(resp.StatusCode, "", fmt.Errorf("decode %s %s: %w", r.method, r.path, err))
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
}

func decodeError(r request, resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &body)
	return apperr.BackendErr(resp.StatusCode, body.Message,
		fmt.Errorf("%s %s: status %d", r.method, r.path, resp.StatusCode))
}
