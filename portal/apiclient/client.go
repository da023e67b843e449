// Package apiclient is the portal's typed client for the GES REST API.
//
// Authenticated calls read the bearer token from a session.Store. A 401 on any of them
// clears the store and invokes the unauthorized handler (the portal navigates to the login route).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/scsit/ges/portal/session"
)

// ProfileTimeout bounds the profile and role fetches.
const ProfileTimeout = 10 * time.Second

type Client struct {
	baseURL        string
	http           *http.Client
	store          session.Store
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// OnUnauthorized sets the handler run after a 401 cleared the session.
func OnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Store() session.Store { return c.store }

// AbsoluteURL resolves a server-relative path (e.g. an avatar) against the base URL.
func (c *Client) AbsoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, method, path string, auth bool, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, auth, out)
}

func (c *Client) send(req *http.Request, auth bool, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if auth {
		sess, err := c.store.Load()
		if err == session.ErrNoSession {
			c.unauthorized()
			return ErrUnauthorized
		}
		if err != nil {
			return errors.Wrap(err, "loading session")
		}
		req.Header.Set("Authorization", "Bearer "+sess.Access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized && auth:
		c.unauthorized()
		return ErrUnauthorized
	case resp.StatusCode >= http.StatusBadRequest:
		return newResponseError(resp.StatusCode, data)
	case out == nil || len(data) == 0:
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, out), "decoding response")
}

func (c *Client) unauthorized() {
	_ = c.store.Clear()
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
