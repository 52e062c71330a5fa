// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the Drive client.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/gdoc-down/internal/logger"
)

// RetryBaseDelay is the first backoff interval. Tests override it to avoid
// real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps a server supplied Retry-After value.
var MaxRetryAfter = 2 * time.Minute

const DefaultMaxRetries = 5

// Retryable reports whether a response status is worth retrying: rate
// limiting and transient server errors.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes req and retries retryable statuses with exponential
// backoff starting at RetryBaseDelay. A Retry-After header given in seconds
// replaces the computed backoff for that attempt.
//
// When maxRetries is 0 the default (5) is used. Bodies of retried responses
// are drained and closed. A context cancelled during a wait returns
// ctx.Err(). Once retries are exhausted the last response is returned as-is
// so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.WarnContext(ctx, "retrying request",
			"url", req.URL.Redacted(),
			"status", resp.StatusCode,
			"wait", wait,
			"attempt", attempt+1,
			"max_retries", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		return min(d, MaxRetryAfter)
	}
	return RetryBaseDelay << attempt
}
