// Package apiclient performs authenticated JSON calls against the MarketAI
// Suite backend. Every call is a single attempt: there is no retry, no client
// side timeout and no de-duplication of concurrent calls. A 401 response
// ends the session.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validator "github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/suiteclient/internal/logger"
	"github.com/patric-chuzhbe/suiteclient/internal/models"
)

const (
	registerEndpoint = "/api/auth/register"
	loginEndpoint    = "/api/auth/login"
	meEndpoint       = "/api/auth/me"

	requestIDHeader = "X-Request-ID"
)

// ErrPayloadNotAllowed is returned when a body is supplied to a GET or HEAD call.
var ErrPayloadNotAllowed = errors.New("GET and HEAD requests cannot have a body")

type sessionKeeper interface {
	AuthHeader(ctx context.Context) (map[string]string, error)
	Logout(ctx context.Context) error
	SaveLogin(ctx context.Context, resp models.AuthResponse) error
}

// Client wraps a resty client bound to the backend base URL.
type Client struct {
	http     *resty.Client
	session  sessionKeeper
	validate *validator.Validate
}

// Response is a parsed backend answer. Body holds the JSON exactly as received.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Err converts a non-2xx response into *models.APIError and returns nil otherwise.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}

	var body models.ErrorResponse
	_ = json.Unmarshal(r.Body, &body)
	message := body.Error
	if message == "" {
		message = body.Msg
	}

	return &models.APIError{StatusCode: r.StatusCode, Message: message}
}

type Option func(*Client)

// WithRestyClient replaces the underlying resty client.
func WithRestyClient(client *resty.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// New returns a client for the backend at baseURL.
func New(baseURL string, keeper sessionKeeper, opts ...Option) *Client {
	c := &Client{
		http:     resty.New(),
		session:  keeper,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetBaseURL(strings.TrimRight(baseURL, "/"))

	return c
}

// Call sends one authenticated request. method defaults to GET and data,
// when not nil, is sent as the JSON body. A 401 answer logs the session out
// and yields models.ErrUnauthorized; any other answer is returned as parsed
// JSON whatever its status.
func (c *Client) Call(ctx context.Context, endpoint, method string, data any) (*Response, error) {
	resp, err := c.call(ctx, endpoint, method, data)
	if err != nil && !errors.Is(err, models.ErrUnauthorized) {
		logger.Log.Errorw("API call error:", "endpoint", endpoint, "method", method, zap.Error(err))
	}

	return resp, err
}

func (c *Client) call(ctx context.Context, endpoint, method string, data any) (*Response, error) {
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	headers, err := c.session.AuthHeader(ctx)
	if err != nil {
		return nil, fmt.Errorf("in apiclient.Call(): error while building the auth header: %w", err)
	}

	request := c.newRequest(ctx).SetHeaders(headers)

	if data != nil {
		if method == http.MethodGet || method == http.MethodHead {
			return nil, ErrPayloadNotAllowed
		}
		body, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("in apiclient.Call(): error while encoding the payload: %w", err)
		}
		request.SetBody(body)
	}

	resp, err := request.Execute(method, endpoint)
	if err != nil {
		return nil, fmt.Errorf("in apiclient.Call(): %s %s: %w", method, endpoint, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		logger.Log.Infoln("Received 401, logging out", "endpoint", endpoint)
		if err := c.session.Logout(ctx); err != nil {
			return nil, errors.Join(models.ErrUnauthorized, err)
		}

		return nil, models.ErrUnauthorized
	}

	return parseResponse(resp)
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
}

func parseResponse(resp *resty.Response) (*Response, error) {
	body := resp.Body()
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w (status %d)", models.ErrMalformedResponse, resp.StatusCode())
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       json.RawMessage(body),
	}, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password string) (*models.RegisterResponse, error) {
	resp, err := c.postCredentials(ctx, registerEndpoint, email, password)
	if err != nil {
		return nil, err
	}

	if apiErr := resp.Err(); apiErr != nil {
		var typed *models.APIError
		if errors.As(apiErr, &typed) && typed.StatusCode == http.StatusBadRequest && typed.Message == "User already exists" {
			return nil, models.ErrUserExists
		}

		return nil, apiErr
	}

	var result models.RegisterResponse
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("in apiclient.Register(): %w", err)
	}

	return &result, nil
}

// Login exchanges credentials for a token and stores it in the session.
// Rejected credentials yield models.ErrInvalidCredentials; the session is left untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := c.postCredentials(ctx, loginEndpoint, email, password)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, models.ErrInvalidCredentials
	}
	if apiErr := resp.Err(); apiErr != nil {
		return nil, apiErr
	}

	var result models.AuthResponse
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("in apiclient.Login(): %w", err)
	}
	if err := c.validate.Struct(result); err != nil {
		return nil, fmt.Errorf("in apiclient.Login(): incomplete login response: %w", err)
	}

	if err := c.session.SaveLogin(ctx, result); err != nil {
		return nil, err
	}

	return &result, nil
}

// Me fetches the current user through Call, so a rejected token logs out.
func (c *Client) Me(ctx context.Context) (*models.UserInfo, error) {
	resp, err := c.Call(ctx, meEndpoint, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if apiErr := resp.Err(); apiErr != nil {
		return nil, apiErr
	}

	var result models.UserInfo
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("in apiclient.Me(): %w", err)
	}

	return &result, nil
}

func (c *Client) postCredentials(ctx context.Context, endpoint, email, password string) (*Response, error) {
	resp, err := c.newRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.Credentials{Email: email, Password: password}).
		Post(endpoint)
	if err != nil {
		logger.Log.Errorw("API call error:", "endpoint", endpoint, "method", http.MethodPost, zap.Error(err))
		return nil, fmt.Errorf("in apiclient.postCredentials(): %w", err)
	}

	return parseResponse(resp)
}
