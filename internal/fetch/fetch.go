// Package fetch downloads release archives over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Client downloads files over plain HTTP, following redirects.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a Client without a request timeout: a full PETSc source
// download can legitimately take a long time, and cancellation belongs to
// the caller's context.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// Download fetches url and writes the full response body to dest. There is
// no resume, retry or checksum verification; a non-200 response is an error.
func (c *Client) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return f.Close()
}
