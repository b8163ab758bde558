// Package client is a typed HTTP client for the marketplace API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a marketplace API server. Token, when set, is sent as a
// bearer credential on every request.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// APIError is a non-2xx response decoded from the {"error": "..."} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// New creates a client with a 10s timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	Service     string    `json:"service,omitempty"`
	Location    string    `json:"location,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ContactRequest struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	ClientName   string     `json:"client_name"`
	ProviderID   string     `json:"provider_id"`
	ProviderName string     `json:"provider_name"`
	Message      string     `json:"message"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ApprovedAt   *time.Time `json:"approved_at"`
}

type Message struct {
	ID               string     `json:"id"`
	ContactRequestID string     `json:"contact_request_id"`
	SenderID         string     `json:"sender_id"`
	SenderName       string     `json:"sender_name"`
	SenderRole       string     `json:"sender_role"`
	Text             string     `json:"message"`
	CreatedAt        time.Time  `json:"created_at"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
}

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type NewContactRequest struct {
	ClientID     string `json:"client_id"`
	ClientName   string `json:"client_name"`
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	Message      string `json:"message"`
}

type CreatedContactRequest struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ApprovedAt time.Time `json:"approved_at"`
}

type NewMessage struct {
	ContactRequestID string `json:"contact_request_id"`
	SenderID         string `json:"sender_id"`
	SenderName       string `json:"sender_name"`
	SenderRole       string `json:"sender_role"`
	Text             string `json:"message"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// --- Auth & directory ---

func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	var out User
	return &out, c.do(ctx, http.MethodPost, "/auth/register", in, &out)
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	return &out, c.do(ctx, http.MethodPost, "/auth/login", body, &out)
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) SearchProviders(ctx context.Context, service, location string) ([]User, error) {
	q := url.Values{}
	if service != "" {
		q.Set("service", service)
	}
	if location != "" {
		q.Set("location", location)
	}
	path := "/providers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []User
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	return out, c.do(ctx, http.MethodGet, "/users", nil, &out)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) PendingProviders(ctx context.Context) ([]User, error) {
	var out []User
	return out, c.do(ctx, http.MethodGet, "/admin/pending-providers", nil, &out)
}

func (c *Client) SetProviderStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPut, "/admin/providers/"+url.PathEscape(id)+"/status", map[string]string{"status": status}, nil)
}

// --- Contact requests ---

func (c *Client) CreateContactRequest(ctx context.Context, in NewContactRequest) (*CreatedContactRequest, error) {
	var out CreatedContactRequest
	return &out, c.do(ctx, http.MethodPost, "/contact-requests", in, &out)
}

func (c *Client) ListContactRequests(ctx context.Context) ([]ContactRequest, error) {
	var out []ContactRequest
	return out, c.do(ctx, http.MethodGet, "/contact-requests", nil, &out)
}

func (c *Client) ListClientRequests(ctx context.Context, clientID string) ([]ContactRequest, error) {
	var out []ContactRequest
	return out, c.do(ctx, http.MethodGet, "/contact-requests/client/"+url.PathEscape(clientID), nil, &out)
}

func (c *Client) ListProviderRequests(ctx context.Context, providerID string) ([]ContactRequest, error) {
	var out []ContactRequest
	return out, c.do(ctx, http.MethodGet, "/contact-requests/provider/"+url.PathEscape(providerID), nil, &out)
}

func (c *Client) UpdateContactRequestStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPut, "/contact-requests/"+url.PathEscape(id), map[string]string{"status": status}, nil)
}

// --- Messages ---

func (c *Client) PostMessage(ctx context.Context, in NewMessage) (*Message, error) {
	var out Message
	return &out, c.do(ctx, http.MethodPost, "/messages", in, &out)
}

func (c *Client) ListMessages(ctx context.Context, contactRequestID string) ([]Message, error) {
	var out []Message
	return out, c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(contactRequestID), nil, &out)
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/messages/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &env) != nil || env.Error == "" {
			env.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
