// Package upstream is the typed client for the remote wallet/ledger API. It
// attaches the bearer token, normalises the API's inconsistent response
// envelopes at this one boundary, and classifies failures so callers only
// ever see the panel's error taxonomy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/payorbit/wallet-panel-api/pkg/errors"
)

// Observer receives timing for each upstream call; wired to the metrics
// service by main.
type Observer func(method, path string, status int, duration time.Duration)

// Client encapsulates HTTP interaction with the upstream API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	observe    Observer
}

// NewClient constructs an upstream client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, observe Observer) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		observe:    observe,
	}
}

// envelope covers every success/error shape the upstream has been observed
// to return. Success is `status == "success"` OR `success == true`; the
// human message travels in either `message` or `msg`.
type envelope struct {
	Status  string          `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) ok() bool {
	return e.Status == "success" || e.Success
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// Get performs an authenticated GET and decodes the `data` object into out.
func (c *Client) Get(ctx context.Context, token, path string, out interface{}) error {
	body, status, err := c.do(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return err
	}

	env, err := c.parseEnvelope(body, status, path)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream payload")
	}
	return nil
}

// GetList performs an authenticated GET against a list endpoint and
// normalises every observed payload shape into out (a pointer to a slice):
// an empty body, a bare JSON array, `{status,data:[...]}`, and
// `{status,data:{<key>:[...]}}` for any of the given nested keys all yield
// the same result for the same logical contents.
func (c *Client) GetList(ctx context.Context, token, path string, nestedKeys []string, out interface{}) error {
	body, status, err := c.do(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(body)

	// Some list endpoints answer 200 with no body at all when the result
	// set is empty. That is an empty list, not a parse error.
	if len(trimmed) == 0 {
		if status >= 200 && status < 300 {
			return json.Unmarshal([]byte("[]"), out)
		}
		return c.classifyHTTP(status, nil, path)
	}

	if trimmed[0] == '[' {
		if status < 200 || status >= 300 {
			return c.classifyHTTP(status, nil, path)
		}
		if err := json.Unmarshal(trimmed, out); err != nil {
			return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream list")
		}
		return nil
	}

	env, err := c.parseEnvelope(body, status, path)
	if err != nil {
		return err
	}

	return decodeListData(env.Data, nestedKeys, out)
}

// Post performs an authenticated POST with a JSON payload. It returns the
// upstream's message so mutation flows can surface it verbatim.
func (c *Client) Post(ctx context.Context, token, path string, payload, out interface{}) (string, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream payload")
		}
		reqBody = bytes.NewReader(encoded)
	}

	body, status, err := c.do(ctx, http.MethodPost, token, path, reqBody)
	if err != nil {
		return "", err
	}

	env, err := c.parseEnvelope(body, status, path)
	if err != nil {
		return "", err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream payload")
		}
	}
	return env.message(), nil
}

func (c *Client) do(ctx context.Context, method, token, path string, body io.Reader) ([]byte, int, error) {
	if c.baseURL == "" {
		return nil, 0, appErrors.Clone(appErrors.ErrTransport, "upstream base URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.observe != nil {
			c.observe(method, path, 0, time.Since(start))
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close()

	if c.observe != nil {
		c.observe(method, path, resp.StatusCode, time.Since(start))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "read upstream response")
	}

	return raw, resp.StatusCode, nil
}

// parseEnvelope decodes the body and applies the success rule, folding HTTP
// status classification in.
func (c *Client) parseEnvelope(body []byte, status int, path string) (*envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		if status >= 200 && status < 300 {
			return &envelope{Status: "success"}, nil
		}
		return nil, c.classifyHTTP(status, nil, path)
	}

	env := &envelope{}
	if err := json.Unmarshal(trimmed, env); err != nil {
		c.logger.Warn("unparseable upstream body", zap.String("path", path), zap.Int("status", status))
		return nil, c.classifyHTTP(status, nil, path)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, env.message())
	}

	if !env.ok() {
		return nil, c.classifyHTTP(status, env, path)
	}

	return env, nil
}

// classifyHTTP maps a failed upstream exchange onto the error taxonomy.
// 401/403 escalate to the unauthorized path; an envelope-reported failure is
// an upstream error carrying the backend message; anything else is a
// transport failure.
func (c *Client) classifyHTTP(status int, env *envelope, path string) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		msg := ""
		if env != nil {
			msg = env.message()
		}
		return appErrors.Clone(appErrors.ErrUnauthorized, msg)
	case env != nil:
		msg := env.message()
		if msg == "" {
			msg = fmt.Sprintf("upstream rejected the request (%s)", path)
		}
		return appErrors.Clone(appErrors.ErrUpstream, msg)
	default:
		return appErrors.Clone(appErrors.ErrTransport, fmt.Sprintf("unexpected upstream status %d", status))
	}
}

// decodeListData normalises envelope `data` payloads into a slice: a direct
// array, an object holding the array under one of the expected keys, or an
// object holding it under any key as a last resort.
func decodeListData(data json.RawMessage, nestedKeys []string, out interface{}) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.Unmarshal([]byte("[]"), out)
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, out); err != nil {
			return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream list")
		}
		return nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream list")
	}

	for _, key := range nestedKeys {
		if raw, ok := object[key]; ok && len(bytes.TrimSpace(raw)) > 0 && bytes.TrimSpace(raw)[0] == '[' {
			if err := json.Unmarshal(raw, out); err != nil {
				return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream list")
			}
			return nil
		}
	}

	for _, raw := range object {
		t := bytes.TrimSpace(raw)
		if len(t) > 0 && t[0] == '[' {
			if err := json.Unmarshal(t, out); err != nil {
				return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "malformed upstream list")
			}
			return nil
		}
	}

	return json.Unmarshal([]byte("[]"), out)
}
