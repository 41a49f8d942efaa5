// Copyright (c) 2025, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package nyaa queries the torrent search backend that scrapes nyaa-style trackers.
package nyaa

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

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/waluna/waluna/internal/buildinfo"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8080"

	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	maxResponseBytes  = 16 << 20
)

// ErrBackendStatus is wrapped by errors caused by a non-2xx backend response.
var ErrBackendStatus = errors.New("unexpected backend status")

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// Client fetches raw search hits. Identical concurrent queries share one request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	attempts   uint
	retryDelay time.Duration
	group      singleflight.Group
}

// NewClient creates a client for the backend at cfg.BaseURL.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := max(cfg.Retries, 0)
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		attempts:   uint(retries) + 1,
		retryDelay: retryDelay,
	}
}

// Search returns the hits for query. A blank query returns no hits.
func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	ch := c.group.DoChan(query, func() (any, error) {
		// shared by every waiter, so one caller giving up must not cancel it
		return c.searchWithRetry(context.WithoutCancel(ctx), query)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		hits := res.Val.([]Hit)
		if res.Shared {
			log.Trace().Str("query", query).Msg("search request shared with concurrent caller")
		}
		return hits, nil
	}
}

func (c *Client) searchWithRetry(ctx context.Context, query string) ([]Hit, error) {
	var hits []Hit
	err := retry.Do(
		func() error {
			var err error
			hits, err = c.search(ctx, query)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().Err(err).Str("query", query).Uint("attempt", n+1).Msg("retrying search backend request")
		}),
	)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func (c *Client) search(ctx context.Context, query string) ([]Hit, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("pretty", "1")
	endpoint := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("build search request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("%w: %d", ErrBackendStatus, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, retry.Unrecoverable(statusErr)
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("decode search response: %w", err))
	}

	if payload.Results == nil {
		return []Hit{}, nil
	}
	return payload.Results, nil
}
