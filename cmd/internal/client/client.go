package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"consultacnpj/cmd/internal/contract"
	"consultacnpj/cmd/internal/domain/cnpj"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultServerURL  = "http://localhost:7070"
	DefaultRetries    = 2
	DefaultRetryDelay = time.Second
	DefaultTimeout    = 20 * time.Second
)

// ResponseError is a failed lookup as reported by the server.
type ResponseError struct {
	Status  int
	Message string
	Details string
}

func (e *ResponseError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%d): %s", e.Message, e.Status, e.Details)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Transient reports whether repeating the request may succeed.
func (e *ResponseError) Transient() bool {
	return e.Status == http.StatusRequestTimeout || e.Status >= http.StatusInternalServerError
}

type Client struct {
	serverURL  string
	httpClient *http.Client
	retries    uint64
	delay      time.Duration
	notify     backoff.Notify
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetries bounds the retries of a single lookup.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint64(n)
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.delay = d
		}
	}
}

// WithNotify is called before every retry.
func WithNotify(notify func(err error, next time.Duration)) Option {
	return func(c *Client) {
		c.notify = notify
	}
}

func New(serverURL string, opts ...Option) *Client {
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	c := &Client{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		retries:    DefaultRetries,
		delay:      DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup validates the input locally and asks the server for the company.
// Validation failures and 4xx answers are returned at once; timeouts, 5xx and
// network failures are retried with a fixed delay. The retry budget belongs
// to this call only.
func (c *Client) Lookup(ctx context.Context, input string) (*contract.CompanyLookupResponse, error) {
	cleaned, err := cnpj.Validate(input)
	if err != nil {
		return nil, err
	}

	operation := func() (*contract.CompanyLookupResponse, error) {
		resp, err := c.get(ctx, cleaned)
		if err == nil {
			return resp, nil
		}

		var respErr *ResponseError
		if errors.As(err, &respErr) && !respErr.Transient() {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(c.delay), c.retries), ctx)
	return backoff.RetryNotifyWithData(operation, policy, c.notify)
}

func (c *Client) get(ctx context.Context, cleaned string) (*contract.CompanyLookupResponse, error) {
	endpoint := c.serverURL + "/api/cnpj?cnpj=" + url.QueryEscape(cleaned)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, body)
	}

	var out contract.CompanyLookupResponse
	if err = json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	if out.Data == nil {
		return nil, errors.New("lookup response has no data")
	}
	return &out, nil
}

func decodeError(status int, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		envelope.Message = http.StatusText(status)
	}
	return &ResponseError{Status: status, Message: envelope.Message, Details: envelope.Details}
}
