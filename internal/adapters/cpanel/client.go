// Package cpanel implements the ControlPanel port against a WHM-style
// JSON-over-HTTPS management API.
package cpanel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) call(ctx context.Context, op string, params url.Values) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/json-api/%s", c.baseURL, op)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "whm "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cpanel: %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cpanel: %s: read response: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cpanel: %s: HTTP %d", op, resp.StatusCode)
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("cpanel: %s: decode: %w", op, err)
	}
	if out.Status != 1 {
		return nil, fmt.Errorf("cpanel: %s: %s", op, out.Message)
	}
	return out.Data, nil
}

// LoadRoster fetches every hosted domain and its owning user.
func (c *Client) LoadRoster(ctx context.Context) (map[string]string, error) {
	data, err := c.call(ctx, "get_domain_info", nil)
	if err != nil {
		return nil, err
	}
	var parsed struct {
		Domains []struct {
			Domain string `json:"domain"`
			User   string `json:"user"`
		} `json:"domains"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("cpanel: roster decode: %w", err)
	}
	roster := make(map[string]string, len(parsed.Domains))
	for _, d := range parsed.Domains {
		roster[d.Domain] = d.User
	}
	return roster, nil
}

// PrimaryDomain reports the account's main domain as recorded by the panel.
func (c *Client) PrimaryDomain(ctx context.Context, user string) (string, bool, error) {
	data, err := c.call(ctx, "accountsummary", url.Values{"user": {user}})
	if err != nil {
		return "", false, err
	}
	var parsed struct {
		Account struct {
			Domain string `json:"domain"`
		} `json:"account"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", false, fmt.Errorf("cpanel: account summary decode: %w", err)
	}
	if parsed.Account.Domain == "" {
		return "", false, nil
	}
	return parsed.Account.Domain, true, nil
}

func (c *Client) RemoveAddonDomain(ctx context.Context, user, domain string) error {
	_, err := c.call(ctx, "delete_addon_domain", url.Values{"user": {user}, "domain": {domain}})
	return err
}

func (c *Client) RemoveParkedDomain(ctx context.Context, user, domain string) error {
	_, err := c.call(ctx, "delete_parked_domain", url.Values{"user": {user}, "domain": {domain}})
	return err
}

func (c *Client) SuspendAccount(ctx context.Context, user, reason string) error {
	_, err := c.call(ctx, "suspendacct", url.Values{"user": {user}, "reason": {reason}})
	return err
}
