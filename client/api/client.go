// Package api is a typed HTTP client for the CRM REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/muhammadheryan/crm/client/session"
	"github.com/muhammadheryan/crm/model"
)

// ErrSessionExpired is returned after the server rejected the token; the
// session has been cleared by then.
var ErrSessionExpired = errors.New("session expired, please log in again")

// APIError is any other non-2xx answer.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() *session.Session {
	return c.session
}

// Signup creates an account and starts a session for it.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	var res model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &res, false); err != nil {
		return nil, err
	}
	if err := c.session.Login(res.Token, res.User); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var res model.AuthResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &res, false); err != nil {
		return nil, err
	}
	if err := c.session.Login(res.Token, res.User); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Logout() error {
	return c.session.Logout()
}

func (c *Client) Me(ctx context.Context) (*model.UserResponse, error) {
	var res model.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.UserResponse, error) {
	var res model.UserResponse
	if err := c.do(ctx, http.MethodPatch, "/api/users/me", req, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]model.ContactEntity, error) {
	var res []model.ContactEntity
	if err := c.do(ctx, http.MethodGet, "/api/contacts", nil, &res, true); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateContact(ctx context.Context, req model.ContactRequest) (*model.ContactEntity, error) {
	var res model.ContactEntity
	if err := c.do(ctx, http.MethodPost, "/api/contacts", req, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) PatchContact(ctx context.Context, id uint64, patch model.ContactPatch) (*model.ContactEntity, error) {
	var res model.ContactEntity
	if err := c.do(ctx, http.MethodPatch, contactPath(id), patch, &res, true); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DeleteContact(ctx context.Context, id uint64) (*model.ContactEntity, error) {
	var res model.DeleteContactResponse
	if err := c.do(ctx, http.MethodDelete, contactPath(id), nil, &res, true); err != nil {
		return nil, err
	}
	return res.Contact, nil
}

func (c *Client) EmployeeStats(ctx context.Context) ([]model.EmployeeStats, error) {
	var res []model.EmployeeStats
	if err := c.do(ctx, http.MethodGet, "/api/users/employees/stats", nil, &res, true); err != nil {
		return nil, err
	}
	return res, nil
}

func contactPath(id uint64) string {
	return "/api/contacts/" + strconv.FormatUint(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, auth bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		tok, err := c.session.Token()
		if err != nil {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && auth {
		_ = c.session.Logout()
		return ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Fields = body.Fields
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
