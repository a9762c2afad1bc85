// Package proxyclient talks to a remote clipgrab server's /api/proxy endpoint.
package proxyclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
)

const proxyPath = "/api/proxy"

// maxErrorBody bounds how much of a failed stream response is kept.
const maxErrorBody = 64 * 1024

// Client fetches platform data and media through a clipgrab server.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	streamClient *http.Client
}

// New creates a client for the server at cfg.ProxyURL.
func New(cfg config.ClientConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.ProxyURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// Media can take arbitrarily long; only bound the wait for headers.
		streamClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				ResponseHeaderTimeout: cfg.Timeout,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// FetchJSON asks the server to relay target in JSON mode. Transport
// failures reaching the server are returned as errors; everything the
// server answers, including relay error envelopes, comes back as a
// RelayJSON.
func (c *Client) FetchJSON(ctx context.Context, target string) (*domain.RelayJSON, error) {
	req, err := c.newRequest(ctx, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrNetworkFailure, err)
	}

	return &domain.RelayJSON{Status: resp.StatusCode, Body: body}, nil
}

// OpenStream asks the server to relay target as a file download. On a
// 2xx answer the returned Body must be closed by the caller.
func (c *Client) OpenStream(ctx context.Context, target, filename string) (*domain.RelayStream, error) {
	params := url.Values{}
	params.Set("download", "true")
	if filename != "" {
		params.Set("filename", filename)
	}

	req, err := c.newRequest(ctx, target, params)
	if err != nil {
		return nil, err
	}

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var errorBody json.RawMessage
		if json.Valid(body) {
			errorBody = body
		}
		return &domain.RelayStream{
			Status:        resp.StatusCode,
			ContentLength: -1,
			ErrorBody:     errorBody,
		}, nil
	}

	return &domain.RelayStream{
		Status:        resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, target string, extra url.Values) (*http.Request, error) {
	params := url.Values{}
	params.Set("url", target)
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+proxyPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}
