// Package client is a Go client for the quick-forms HTTP API. A Client is
// an explicit session value: base URL, HTTP transport and, after login, the
// bearer token. There is no package-level state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mbolis/quick-forms/model"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
	}
}

// WithToken returns a copy of the session carrying the given bearer token.
// The receiver is left untouched, so an unauthenticated client can be
// shared freely.
func (c *Client) WithToken(token string) *Client {
	session := *c
	session.Token = token
	return &session
}

// APIError is any non-2xx reply from the server. Message carries the
// user-facing text when the server sent one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

type AuthResponse struct {
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    model.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var auth AuthResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateForm(ctx context.Context, form model.Form) (*model.Form, error) {
	var created model.Form
	err := c.do(ctx, http.MethodPost, "/forms", form, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListForms(ctx context.Context) ([]model.Form, error) {
	var reply struct {
		Forms []model.Form `json:"forms"`
	}
	err := c.do(ctx, http.MethodGet, "/forms", nil, &reply)
	return reply.Forms, err
}

func (c *Client) GetForm(ctx context.Context, id int) (*model.Form, error) {
	var reply struct {
		Form *model.Form `json:"form"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/forms/%d", id), nil, &reply)
	return reply.Form, err
}

func (c *Client) UpdateForm(ctx context.Context, id int, form model.Form) (*model.Form, error) {
	var updated model.Form
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/forms/%d", id), form, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteForm(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/forms/%d", id), nil, nil)
}

func (c *Client) PublishForm(ctx context.Context, id int) (*model.Form, error) {
	var form model.Form
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/forms/%d/publish", id), nil, &form)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) UnpublishForm(ctx context.Context, id int) (*model.Form, error) {
	var form model.Form
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/forms/%d/unpublish", id), nil, &form)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) Responses(ctx context.Context, id int) ([]model.FormResponse, error) {
	var reply struct {
		Responses []model.FormResponse `json:"responses"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/forms/%d/responses", id), nil, &reply)
	return reply.Responses, err
}

// PublicForm fetches a published form. No auth required.
func (c *Client) PublicForm(ctx context.Context, id int) (*model.Form, error) {
	var reply struct {
		Form *model.Form `json:"form"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/forms/public/%d", id), nil, &reply)
	return reply.Form, err
}

// SubmitResponse submits one respondent's answers for a published form.
// No auth required.
func (c *Client) SubmitResponse(ctx context.Context, id int, answers model.AnswerSet) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/forms/public/%d/submit", id), map[string]any{
		"responses": answers,
	}, nil)
}

// do runs one request: marshal body, attach token, fire, decode reply.
// Exactly one attempt, failures are the caller's to retry.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func apiError(resp *http.Response) error {
	apiErr := APIError{Status: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(data) > 0 {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
	}
	return &apiErr
}
