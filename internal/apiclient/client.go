// AngelaMos | 2026
// client.go

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/identity"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/report"
	"github.com/bisestashah-commits/Smart-Rubbish-Detection/internal/user"
)

// Client is a thin typed wrapper over the REST API, used by the CLI and by
// anything else that wants to talk to a running server.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError carries the server's error envelope back to the caller.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(
	ctx context.Context,
	method, path, token string,
	body, out any,
) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		method,
		c.baseURL+path,
		reqBody,
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-side close

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		apiErr := &APIError{Status: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}

	return nil
}

func (c *Client) Register(
	ctx context.Context,
	req identity.RegisterRequest,
) (*identity.AuthResponse, error) {
	var resp identity.AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", "", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(
	ctx context.Context,
	req identity.LoginRequest,
) (*identity.AuthResponse, error) {
	var resp identity.AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AdminLogin(
	ctx context.Context,
	req identity.LoginRequest,
) (*identity.AuthResponse, error) {
	var resp identity.AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/admin-login", "", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", token, nil, nil)
}

func (c *Client) GetCurrentUser(
	ctx context.Context,
	token string,
) (*user.UserResponse, error) {
	var resp struct {
		User user.UserResponse `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/v1/users/me", token, nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) SubmitReport(
	ctx context.Context,
	token string,
	req report.SubmitReportRequest,
) (*report.Report, error) {
	var resp struct {
		Report report.Report `json:"report"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/reports", token, req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Report, nil
}

func (c *Client) ListReportsByUser(
	ctx context.Context,
	token, userID string,
) (*report.ListResponse, error) {
	var resp report.ListResponse
	err := c.do(
		ctx,
		http.MethodGet,
		"/v1/reports/user/"+userID,
		token,
		nil,
		&resp,
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
