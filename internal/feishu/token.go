package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// tokenSafetyMargin is subtracted from the reported expiry so a token is
// never used in the last seconds of its lifetime.
const tokenSafetyMargin = 60 * time.Second

// tokenResponse is the auth endpoint's body. Unlike every other endpoint it
// is not wrapped in a data envelope, but it still carries code/msg.
type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// ensureToken returns a valid tenant access token, acquiring a fresh one
// when none is cached or the cached one is close to expiry.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-tokenSafetyMargin)) {
		return c.accessToken, nil
	}

	token, expire, err := c.acquireToken(ctx)
	if err != nil {
		return "", err
	}

	c.accessToken = token
	c.tokenExpiry = time.Now().Add(time.Duration(expire) * time.Second)
	c.log.Debug(ctx, "acquired tenant access token", "expire_s", expire)
	return c.accessToken, nil
}

// acquireToken exchanges the app credentials for a tenant access token.
// The error envelope is checked before the token payload is trusted: the
// service returns errors in the same JSON shape as successes.
func (c *Client) acquireToken(ctx context.Context) (string, int, error) {
	payload, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return "", 0, fmt.Errorf("encoding token request: %w", err)
	}

	url := c.endpoint + "/auth/v3/tenant_access_token/internal"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("reading token response: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", 0, fmt.Errorf("decoding token response: %w", err)
	}
	if tr.Code != 0 {
		return "", 0, apiError(tr.Code, tr.Msg)
	}

	return tr.TenantAccessToken, tr.Expire, nil
}
