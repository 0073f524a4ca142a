// Package client is the typed Go interface to the portal API. Every call
// returns either decoded data or a normalized *Error; callers never see raw
// HTTP details.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/session"
)

// Config carries the settings needed to build a Client.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
	Session        *session.Store
	Logger         *zap.Logger
}

// Client calls the portal API using the stored session token.
type Client struct {
	baseURL string
	http    *http.Client
	uploads *http.Client
	session *session.Store
	logger  *zap.Logger
}

// New builds a client. JSON calls and uploads run on separate timeouts
// because imports routinely take longer than a page load.
func New(cfg Config) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.UploadTimeout <= 0 {
		cfg.UploadTimeout = 60 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		uploads: &http.Client{Timeout: cfg.UploadTimeout},
		session: cfg.Session,
		logger:  cfg.Logger,
	}
}

// Session exposes the underlying session store.
func (c *Client) Session() *session.Store {
	return c.session
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveFileURL turns a stored file path like "/uploads/photos/x.jpg" into
// an absolute URL. Absolute URLs pass through untouched.
func (c *Client) ResolveFileURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// envelope is the decoded legacy response body.
type envelope map[string]json.RawMessage

func (e envelope) success() bool {
	var ok bool
	if raw, found := e["success"]; found {
		_ = json.Unmarshal(raw, &ok)
	}
	return ok
}

func (e envelope) message() string {
	var msg string
	if raw, found := e["message"]; found {
		_ = json.Unmarshal(raw, &msg)
	}
	return msg
}

func (e envelope) decode(key string, dest interface{}) error {
	raw, found := e[key]
	if !found {
		return fmt.Errorf("response has no %q field", key)
	}
	return json.Unmarshal(raw, dest)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload interface{}, fallback string) (envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, validationErr("failed to encode request")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, validationErr("invalid request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(c.http, req, fallback)
}

type filePart struct {
	field    string
	filename string
	reader   io.Reader
}

func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, files []filePart, fallback string) (envelope, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, validationErr("failed to encode request")
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			return nil, validationErr("failed to encode request")
		}
		if _, err := io.Copy(part, file.reader); err != nil {
			return nil, validationErr("failed to read " + file.filename)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, validationErr("failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, validationErr("invalid request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.send(c.uploads, req, fallback)
}

// download fetches a raw file body instead of a JSON envelope.
func (c *Client) download(ctx context.Context, path string, fallback string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, validationErr("invalid request")
	}
	c.authorize(req)

	resp, err := c.uploads.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return nil, transportErr()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr()
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.expireSession(raw)
	}
	if resp.StatusCode >= 400 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return nil, serverErr(env.message(), fallback)
	}
	return raw, nil
}

func (c *Client) send(hc *http.Client, req *http.Request, fallback string) (envelope, error) {
	c.authorize(req)

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, transportErr()
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportErr()
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.expireSession(raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, serverErr("", fallback)
		}
		return nil, transportErr()
	}

	if resp.StatusCode >= 400 || !env.success() {
		return nil, serverErr(env.message(), fallback)
	}
	return env, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.session == nil {
		return
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// expireSession wipes the stored session on any 401 so every surface signs
// out together, then reports the failure.
func (c *Client) expireSession(raw []byte) error {
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			c.logger.Warn("failed to clear session", zap.Error(err))
		}
	}
	var env envelope
	_ = json.Unmarshal(raw, &env)
	message := env.message()
	if message == "" {
		message = "Session expired. Please log in again."
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
