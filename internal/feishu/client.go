// Package feishu implements the HTTP client for the Feishu (Lark) Bitable
// API: tenant token acquisition, paginated record listing, batched record
// writes and the typed field codec. Untyped field bags never leave this
// package.
package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptsync/internal/logging"
)

const (
	// DefaultEndpoint is the public Feishu Open API base.
	DefaultEndpoint = "https://open.feishu.cn/open-apis"

	// DefaultPageSize is the page_size sent on every list request.
	DefaultPageSize = 500

	// DefaultBatchSize caps one batch_create/batch_update request. The
	// service does not document a hard limit in-band, so it stays
	// configurable.
	DefaultBatchSize = 500
)

// ClientOptions holds optional settings for NewClient. The zero value of
// every field means "use the default".
type ClientOptions struct {
	Endpoint   string
	PageSize   int
	BatchSize  int
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Client talks to the Bitable API on behalf of one app. It caches the tenant
// access token together with its expiry and re-acquires it only when absent
// or about to expire. Safe for use from a single sync run; methods take a
// context for cancellation of individual requests.
type Client struct {
	httpClient *http.Client
	endpoint   string
	appID      string
	appSecret  string
	pageSize   int
	batchSize  int
	log        logging.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient returns a Client for the given app credentials.
func NewClient(appID, appSecret string, opts *ClientOptions) *Client {
	c := &Client{
		appID:     appID,
		appSecret: appSecret,
		endpoint:  DefaultEndpoint,
		pageSize:  DefaultPageSize,
		batchSize: DefaultBatchSize,
		log:       logging.NewDefault(false),
	}
	if opts != nil {
		if opts.Endpoint != "" {
			c.endpoint = opts.Endpoint
		}
		if opts.PageSize > 0 {
			c.pageSize = opts.PageSize
		}
		if opts.BatchSize > 0 {
			c.batchSize = opts.BatchSize
		}
		if opts.HTTPClient != nil {
			c.httpClient = opts.HTTPClient
		}
		if opts.Logger != nil {
			c.log = opts.Logger
		}
	}
	if c.httpClient == nil {
		c.httpClient = defaultHTTPClient()
	}
	return c
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// envelope is the common Feishu API response wrapper. Data stays raw until
// the caller knows what payload to expect.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// doJSON issues one authorized request with an optional JSON body and
// decodes the response body into out.
func (c *Client) doJSON(ctx context.Context, method, url string, body any, out any) error {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
