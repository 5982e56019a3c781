// Package backdoor is the test harness client for the maintenance endpoints. It seeds and
// clears data by calling the API directly with the backdoor secrets instead of a user login.
package backdoor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// URIPrefix is prepended to every relative resource URL.
const URIPrefix = "/webapi"

// Resource URLs used by the helpers.
const (
	ResourceDataBundle = "/databundle"
	ResourceStudents   = "/students"
	ResourceStudent    = "/student"
	ResourceSession    = "/session"
	ResourceCourse     = "/course"
	ResourceInstructor = "/instructor"
	ResourceAccount    = "/account"
)

// Outcome tokens of RemoveAndRestoreDataBundle.
const (
	StatusSuccess = "[BACKDOOR_STATUS_SUCCESS]"
	StatusFailure = "[BACKDOOR_STATUS_FAILURE]"
)

// Header names carrying the secrets.
const (
	HeaderBackdoorKey = "Backdoor-Key"
	HeaderCSRFKey     = "CSRF-Key"
)

// Method is an HTTP verb the client knows how to build requests for.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

type requestBuilder func(ctx context.Context, target string, body *string) (*http.Request, error)

func withoutBody(method string) requestBuilder {
	return func(ctx context.Context, target string, _ *string) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, method, target, nil)
	}
}

func withBody(method string) requestBuilder {
	return func(ctx context.Context, target string, body *string) (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = strings.NewReader(*body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json; charset=utf-8")
		}
		return req, nil
	}
}

// builders maps each supported verb to its request construction. GET and DELETE never carry a body.
var builders = map[Method]requestBuilder{
	MethodGet:    withoutBody(http.MethodGet),
	MethodPost:   withBody(http.MethodPost),
	MethodPut:    withBody(http.MethodPut),
	MethodDelete: withoutBody(http.MethodDelete),
}

// Config is the immutable client configuration.
type Config struct {
	BaseURL     string
	BackdoorKey string
	CSRFKey     string
	Timeout     time.Duration
}

// Response is the raw outcome of one call.
type Response struct {
	Body       string
	StatusCode int
}

// Client issues backdoor requests. It is safe for concurrent use.
type Client struct {
	config Config
	http   *http.Client
	logger *zap.Logger
}

// New constructs a Client. Each call uses a fresh connection that is released when it returns.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		config: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{DisableKeepAlives: true, Proxy: http.ProxyFromEnvironment},
		},
		logger: logger,
	}
}

// ExecuteGetRequest issues a GET to relativeURL.
func (c *Client) ExecuteGetRequest(ctx context.Context, relativeURL string, params url.Values) (*Response, error) {
	return c.execute(ctx, MethodGet, relativeURL, params, nil)
}

// ExecutePostRequest issues a POST with a raw JSON body.
func (c *Client) ExecutePostRequest(ctx context.Context, relativeURL string, params url.Values, body string) (*Response, error) {
	return c.execute(ctx, MethodPost, relativeURL, params, &body)
}

// ExecutePutRequest issues a PUT with a raw JSON body.
func (c *Client) ExecutePutRequest(ctx context.Context, relativeURL string, params url.Values, body string) (*Response, error) {
	return c.execute(ctx, MethodPut, relativeURL, params, &body)
}

// ExecuteDeleteRequest issues a DELETE to relativeURL.
func (c *Client) ExecuteDeleteRequest(ctx context.Context, relativeURL string, params url.Values) (*Response, error) {
	return c.execute(ctx, MethodDelete, relativeURL, params, nil)
}

func (c *Client) execute(ctx context.Context, method Method, relativeURL string, params url.Values, body *string) (*Response, error) {
	build, ok := builders[method]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInternal, fmt.Sprintf("unaccepted HTTP method: %s", method))
	}

	target := c.config.BaseURL + URIPrefix + relativeURL
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := build(ctx, target, body)
	if err != nil {
		return nil, transportError(err, "build backdoor request")
	}
	req.Header.Set(HeaderBackdoorKey, c.config.BackdoorKey)
	req.Header.Set(HeaderCSRFKey, c.config.CSRFKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err, "backdoor request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err, "read backdoor response")
	}

	c.logger.Debug("backdoor request",
		zap.String("method", string(method)),
		zap.String("url", relativeURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return &Response{Body: string(raw), StatusCode: resp.StatusCode}, nil
}

func transportError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, message)
}
