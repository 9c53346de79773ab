// Package auth talks to the account service: login, registration and
// reading the claims of the bearer token it hands out.
package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 10 * time.Second

	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	maxBodyBytes = 1 << 20
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Sentinel errors. Every failed request wraps exactly one of them.
var (
	ErrTimeout            = errors.New("request timeout, please try again")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrServer             = errors.New("server error, please try again")
	ErrNoToken            = errors.New("failed to receive token")
)

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Registration is a signup request.
type Registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Response is the service's success body.
type Response struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type errorBody struct {
	Message string `json:"message"`
}

// Client calls the account service with a fixed per-request budget.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     log.FieldLogger
}

// NewClient creates a Client. Zero values select DefaultBaseURL,
// DefaultTimeout and http.DefaultClient.
func NewClient(baseURL string, timeout time.Duration, hc *http.Client, logger log.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, http: hc, log: logger}
}

// Login exchanges credentials for a bearer token. A rejected login wraps
// ErrInvalidCredentials with the service's message.
func (c *Client) Login(ctx context.Context, creds Credentials) (Response, error) {
	if creds.Role == "" {
		creds.Role = RoleUser
	}
	resp, err := c.post(ctx, loginPath, creds, ErrInvalidCredentials)
	if err != nil {
		return Response{}, err
	}
	if resp.Role == "" {
		resp.Role = creds.Role
	}
	return resp, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, reg Registration) (Response, error) {
	if reg.Role == "" {
		reg.Role = RoleUser
	}
	resp, err := c.post(ctx, registerPath, reg, ErrInvalidCredentials)
	if err != nil {
		return Response{}, err
	}
	if resp.Token == "" {
		return Response{}, ErrNoToken
	}
	if resp.Role == "" {
		resp.Role = reg.Role
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body any, rejected error) (Response, error) {
	logger := c.log.WithField("url", c.baseURL+path)

	payload, err := sonic.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("encoding request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.WithField("timeout", c.timeout).Warn("auth request timed out")
			return Response{}, ErrTimeout
		}
		logger.WithError(err).Warn("auth request failed")
		return Response{}, fmt.Errorf("%w: %w", ErrServer, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{}, ErrTimeout
		}
		return Response{}, fmt.Errorf("%w: %w", ErrServer, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var eb errorBody
		if err := sonic.Unmarshal(data, &eb); err != nil {
			// Not JSON at all: the service itself is broken.
			return Response{}, fmt.Errorf("%w: status %d", ErrServer, res.StatusCode)
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return Response{}, fmt.Errorf("%w: %s", ErrServer, messageOr(eb.Message, res.Status))
		}
		return Response{}, fmt.Errorf("%w: %s", rejected, messageOr(eb.Message, rejected.Error()))
	}

	var out Response
	if err := sonic.Unmarshal(data, &out); err != nil {
		return Response{}, fmt.Errorf("%w: decoding response: %w", ErrServer, err)
	}
	return out, nil
}

func messageOr(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
