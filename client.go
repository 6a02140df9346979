// Package airquality is a Go client for the Air Quality API: a remote HTTP
// service that exposes a list of known cities and NO2/PM/weather prediction
// metrics (or, in live mode, satellite optical-depth readings) per city.
package airquality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Fareedh-7/airquality-go/internal/clientutils"
	"github.com/Fareedh-7/airquality-go/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultBaseURL is the local development address of the backend service.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client calls the Air Quality API.
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// ClientOptions represents configuration options for the client
type ClientOptions struct {
	BaseURL    string
	Headers    map[string]string
	HTTPClient *http.Client
}

// PredictOptions carries the optional query parameters of the prediction
// endpoint.
type PredictOptions struct {
	// Live requests the satellite (MODIS AOD) variant instead of the
	// dataset-backed pollutant variant.
	Live bool
}

func NewClient(options ClientOptions) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	headers := map[string]string{}
	for k, v := range options.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		headers: headers,
	}
}

// BaseURL returns the resolved base URL of the backend service.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListCities fetches the known city names for selection or autocomplete.
// A response without a cities field yields an empty list.
func (c *Client) ListCities(ctx context.Context) ([]string, error) {
	response, err := tracing.TraceFetch(ctx, "cities", nil, func(ctx context.Context) (*citiesResponse, error) {
		response, err := clientutils.GetJSON[citiesResponse](ctx, c.client, clientutils.GetRequestConfig{
			URL:     fmt.Sprintf("%s/cities", c.baseURL),
			Headers: c.headers,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return response, nil
	})
	if err != nil {
		return nil, err
	}

	if response.Cities == nil {
		return []string{}, nil
	}
	return response.Cities, nil
}

// Predict fetches the prediction for a city. The city name is trimmed
// before it goes on the wire; an empty name is rejected without issuing
// a request.
func (c *Client) Predict(ctx context.Context, city string, options *PredictOptions) (*Prediction, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, NewInvalidInputError("city name must not be empty")
	}

	live := options != nil && options.Live

	attrs := []attribute.KeyValue{
		attribute.String("airquality.city", city),
		attribute.Bool("airquality.live", live),
	}

	return tracing.TraceFetch(ctx, "predict", attrs, func(ctx context.Context) (*Prediction, error) {
		query := url.Values{}
		query.Set("city", city)
		if live {
			query.Set("live", "true")
		}

		prediction, err := clientutils.GetJSON[Prediction](ctx, c.client, clientutils.GetRequestConfig{
			URL:     fmt.Sprintf("%s/predict", c.baseURL),
			Query:   query,
			Headers: c.headers,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return prediction, nil
	})
}

// Health checks the backend's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := tracing.TraceFetch(ctx, "health", nil, func(ctx context.Context) (*healthResponse, error) {
		response, err := clientutils.GetJSON[healthResponse](ctx, c.client, clientutils.GetRequestConfig{
			URL:     fmt.Sprintf("%s/health", c.baseURL),
			Headers: c.headers,
		})
		if err != nil {
			return nil, mapError(err)
		}
		return response, nil
	})
	return err
}

// mapError converts transport-layer errors into the client error taxonomy.
// Non-2xx bodies are parsed for the backend's detail message; an unparsable
// error body leaves the detail empty.
func mapError(err error) *ClientError {
	var statusErr *clientutils.StatusError
	if errors.As(err, &statusErr) {
		var body errorResponse
		if jsonErr := json.Unmarshal(statusErr.Body, &body); jsonErr == nil {
			return NewStatusCodeError(statusErr.Status, body.Detail)
		}
		return NewStatusCodeError(statusErr.Status, "")
	}

	var decodeErr *clientutils.DecodeError
	if errors.As(err, &decodeErr) {
		return NewDecodeError(decodeErr.Err)
	}

	return NewTransportError(err)
}
