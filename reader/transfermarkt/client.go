package transfermarkt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	appconfig "transferflow/config"
	"transferflow/logger"
)

// Client talks to the Transfermarkt HTTP API. It owns the pooled transport,
// the request rate limiter and the retry policy; callers only ever see
// decoded records or an empty result.
type Client struct {
	config     *appconfig.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	userAgent  string
	log        *logger.Log
}

// NewClient creates a Client from the source configuration.
func NewClient(cfg *appconfig.Config) *Client {
	log := logger.GetLogger()
	src := cfg.Source.Transfermarkt

	transport := &http.Transport{
		MaxIdleConns:        src.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: src.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     src.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     src.ConnectionPool.IdleConnTimeout.Std(),
		DisableCompression:  false,
	}

	client := &Client{
		config: cfg,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   src.Timeout.Std(),
		},
		limiter:   rate.NewLimiter(rate.Limit(src.RateLimit.RequestsPerSecond), src.RateLimit.BurstSize),
		baseURL:   src.BaseURL,
		apiKey:    src.APIKey,
		userAgent: fmt.Sprintf("%s/%s", cfg.Transferflow.Name, cfg.Transferflow.Version),
		log:       log,
	}

	log.WithComponent("transfermarkt_client").WithFields(logger.Fields{
		"base_url":           src.BaseURL,
		"timeout":            src.Timeout.Std(),
		"max_conns_per_host": src.ConnectionPool.MaxConnsPerHost,
	}).Info("transfermarkt client initialized")

	return client
}

// getJSON performs a GET against path with the given query, decoding the
// body into out. Transport errors and retryable status codes are retried
// with exponential backoff per the configured policy.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	retry := c.config.Source.Transfermarkt.Retry
	delay := retry.BaseDelay.Std()

	var lastErr error
	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}

		lastErr = c.doRequest(ctx, reqURL, out)
		if lastErr == nil {
			return nil
		}

		c.log.WithComponent("transfermarkt_client").WithError(lastErr).WithFields(logger.Fields{
			"url":     reqURL,
			"attempt": attempt,
		}).Warn("request failed")

		if attempt == retry.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= time.Duration(retry.BackoffMultiplier)
		if limit := retry.MaxDelay.Std(); limit > 0 && delay > limit {
			delay = limit
		}
	}

	return lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logger.LogPerformanceEntry(c.log.WithComponent("transfermarkt_client"), "transfermarkt_client", "api_request", time.Since(start), logger.Fields{
		"url":    reqURL,
		"status": resp.StatusCode,
	})

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
