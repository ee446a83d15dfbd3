package irys

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NodeClient talks to an Irys bundler node over its REST API.
type NodeClient struct {
	baseURL    string
	currency   string
	httpClient *http.Client
}

// NewNodeClient creates a client for baseURL (e.g. https://node1.irys.xyz)
// paying in currency (e.g. "solana").
func NewNodeClient(baseURL, currency string) *NodeClient {
	return &NodeClient{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		currency: currency,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute, // audio uploads can be large
		},
	}
}

// SetHTTPClient replaces the underlying transport.
func (c *NodeClient) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// Price returns the cost in atomic units of storing size bytes.
func (c *NodeClient) Price(ctx context.Context, size int64) (uint64, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/price/%s/%d", c.currency, size), "", nil)
	if err != nil {
		return 0, fmt.Errorf("get price: %w", err)
	}
	price, err := parseAtomic(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", string(body), err)
	}
	return price, nil
}

// Balance returns the prepaid balance held by address on the node.
func (c *NodeClient) Balance(ctx context.Context, address string) (uint64, error) {
	path := fmt.Sprintf("/account/balance/%s?address=%s", c.currency, url.QueryEscape(address))
	body, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	var res struct {
		Balance json.Number `json:"balance"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	bal, err := parseAtomic(res.Balance.String())
	if err != nil {
		return 0, fmt.Errorf("parse balance %q: %w", res.Balance, err)
	}
	return bal, nil
}

// BundlerAddress returns the node's deposit address for the configured currency.
func (c *NodeClient) BundlerAddress(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/info", "", nil)
	if err != nil {
		return "", fmt.Errorf("get node info: %w", err)
	}
	var res struct {
		Addresses map[string]string `json:"addresses"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode node info: %w", err)
	}
	addr := res.Addresses[c.currency]
	if addr == "" {
		return "", fmt.Errorf("node has no %s deposit address", c.currency)
	}
	return addr, nil
}

// RegisterFunding tells the node about a deposit transaction so it is
// credited to the sender's balance.
func (c *NodeClient) RegisterFunding(ctx context.Context, txID string) error {
	payload, err := json.Marshal(map[string]string{"tx_id": txID})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodPost, "/account/balance/"+c.currency, "application/json", payload); err != nil {
		return fmt.Errorf("register funding tx %s: %w", txID, err)
	}
	return nil
}

// PostDataItem submits a signed data item and returns the id the node
// assigned to it.
func (c *NodeClient) PostDataItem(ctx context.Context, item []byte) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/tx/"+c.currency, "application/octet-stream", item)
	if err != nil {
		return "", fmt.Errorf("post data item: %w", err)
	}
	var res struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if res.ID == "" {
		return "", fmt.Errorf("upload response has empty id")
	}
	return res.ID, nil
}

func (c *NodeClient) do(ctx context.Context, method, path, contentType string, payload []byte) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("irys node url not configured")
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return respBody, nil
}

func parseAtomic(s string) (uint64, error) {
	return strconv.ParseUint(strings.Trim(s, `"`), 10, 64)
}
