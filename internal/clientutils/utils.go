package clientutils

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// GetRequestConfig holds configuration for JSON GET requests
type GetRequestConfig struct {
	URL     string
	Query   url.Values
	Headers map[string]string
}

// StatusError is returned for non-2xx responses so callers can map the
// status and the raw body onto their own error taxonomy.
type StatusError struct {
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, string(e.Body))
}

// DecodeError is returned when a 2xx body cannot be unmarshalled.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to unmarshal response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// GetJSON performs a JSON GET request and unmarshals the response
func GetJSON[T any](ctx context.Context, client *http.Client, config GetRequestConfig) (*T, error) {
	reqURL := config.URL
	if len(config.Query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, config.Query.Encode())
	}

	// Create HTTP request
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default headers
	req.Header.Set("Accept", "application/json")

	// Set custom headers
	for key, value := range config.Headers {
		req.Header.Set(key, value)
	}

	// Execute request
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for HTTP errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: respBody}
	}

	// Unmarshal response
	var result T
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return &result, nil
}
