package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/standardbeagle/project-indexer/internal/types"
)

// Client queries a running IndexServer
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the server at baseURL (for example
// "http://localhost:3030")
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// IsServerRunning checks if the server is accessible
func (c *Client) IsServerRunning() bool {
	_, err := c.Ping()
	return err == nil
}

// Ping sends a health check to the server
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.get("/ping", &resp); err != nil {
		return nil, fmt.Errorf("failed to ping server: %w", err)
	}
	return &resp, nil
}

// GetStatus retrieves the served index status
func (c *Client) GetStatus() (*IndexStatus, error) {
	var status IndexStatus
	if err := c.get("/status", &status); err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return &status, nil
}

// Search runs a query on the server
func (c *Client) Search(query string) ([]types.IndexEntry, error) {
	var results []types.IndexEntry
	if err := c.get(SearchPath+"?"+url.Values{"query": {query}}.Encode(), &results); err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	return results, nil
}

func (c *Client) get(path string, out any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Close releases idle connections
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
