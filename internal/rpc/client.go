package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/idilsaglam/todolist/internal/liststore"
	"github.com/idilsaglam/todolist/internal/model"
)

var _ liststore.Backend = (*Client)(nil)

// Client calls a remote list server. Its methods mirror liststore.Store with
// a context added, and report IndexOutOfBounds as an error wrapping
// model.ErrIndexOutOfBounds.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Int64
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying client, e.g. for httptest servers.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

func (c *Client) InsertAt(ctx context.Context, index int, e model.Element) error {
	return c.mutate(ctx, MethodAddElementAt, index, []any{index, e})
}

func (c *Client) RemoveAt(ctx context.Context, index int) error {
	return c.mutate(ctx, MethodRemoveElementAt, index, []any{index})
}

func (c *Client) UpdateAt(ctx context.Context, index int, e model.Element) error {
	return c.mutate(ctx, MethodUpdateElementAt, index, []any{index, e})
}

func (c *Client) ListAll(ctx context.Context) ([]model.Element, error) {
	var out []model.Element
	if err := c.call(ctx, MethodListAll, []any{}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Element{}
	}
	return out, nil
}

func (c *Client) mutate(ctx context.Context, method string, index int, params []any) error {
	// negative indexes cannot be encoded as naturals
	if index < 0 {
		return fmt.Errorf("%s at %d: %w", method, index, model.ErrIndexOutOfBounds)
	}
	var res model.Result
	if err := c.call(ctx, method, params, &res); err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("%s at %d: %w", method, index, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	id := c.nextID.Add(1)
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: http %d: %s", method, resp.StatusCode, bytes.TrimSpace(msg))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *Error          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}
