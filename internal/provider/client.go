package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"peoplebot-go/internal/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/http2"
)

// Sentinel errors for the provider boundary. Everything the custodial
// service can do wrong is mapped to one of these at this boundary, so
// downstream logic never inspects raw payloads.
var (
	// ErrUnavailable covers transport failures, timeouts, and non-2xx
	// responses from the provider.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrProtocol covers 2xx responses whose payload does not parse into
	// the documented shape.
	ErrProtocol = errors.New("provider protocol error")
	// ErrNotFound is returned when the provider does not know the
	// referenced wallet or order id.
	ErrNotFound = errors.New("provider: not found")
	// ErrTradeRejected is returned when the provider explicitly reports
	// order failure or returns no order id.
	ErrTradeRejected = errors.New("trade rejected by provider")
)

// Client is a typed wrapper around the custodial trading service's REST
// API. Authentication uses a per-deployment secret key, not per-user
// credentials.
type Client struct {
	http *resty.Client
}

func NewClient(cfg models.ProviderConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base URL cannot be empty")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider API key cannot be empty")
	}

	transport, err := createCustomTransport()
	if err != nil {
		return nil, fmt.Errorf("unable to create provider transport: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTransport(transport).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			// Only idempotent reads may be re-sent. A connection that drops
			// mid-mutation may already have been accepted by the provider;
			// re-sending a swap order or an import would duplicate it.
			if r == nil || r.Request.Method != http.MethodGet {
				return false
			}
			return err != nil
		}).
		SetHeader("X-API-KEY", cfg.APIKey).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}, nil
}

func createCustomTransport() (*http.Transport, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return tr, nil
}

// envelope is the provider's uniform response wrapper: {"err": bool, "res": ...}.
type envelope struct {
	Err bool            `json:"err"`
	Msg string          `json:"msg"`
	Res json.RawMessage `json:"res"`
}

// call executes one provider request and returns the parsed envelope.
// Transport failures become ErrUnavailable, unknown ids become
// ErrNotFound, and unparseable payloads become ErrProtocol.
func (c *Client) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned status %d", ErrUnavailable, method, path, resp.StatusCode())
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("%w: unparseable response from %s %s: %v", ErrProtocol, method, path, err)
	}

	return &env, nil
}
