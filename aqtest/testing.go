// Package aqtest provides a scriptable in-process backend for testing
// code built on the airquality client. Responses are enqueued per endpoint
// and every request is tracked for assertions.
package aqtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	airquality "github.com/Fareedh-7/airquality-go"
)

// PredictResult is a scripted response of the prediction endpoint. It can
// either be a JSON-marshalled body or a raw payload served verbatim.
// A non-zero Delay holds the response back, e.g. to stage overlapping
// submissions.
type PredictResult struct {
	Status  int
	Body    any
	RawBody string
	Delay   time.Duration
}

// NewPredictResultJSON constructs a predict result whose body is marshalled
// as JSON.
func NewPredictResultJSON(status int, body any) PredictResult {
	return PredictResult{
		Status: status,
		Body:   body,
	}
}

// NewPredictResultRaw constructs a predict result served byte-for-byte,
// useful for unparsable error bodies.
func NewPredictResultRaw(status int, raw string) PredictResult {
	return PredictResult{
		Status:  status,
		RawBody: raw,
	}
}

// Backend is a mock Air Quality API for testing purposes that serves
// enqueued results and tracks incoming requests.
type Backend struct {
	mu sync.Mutex

	server *httptest.Server

	cities       []string
	citiesStatus int

	mockedPredictResults []PredictResult

	trackedCitiesRequests  int
	trackedPredictRequests []url.URL
}

// NewBackend starts a mock backend. Close must be called when done.
func NewBackend() *Backend {
	b := &Backend{
		cities:       []string{},
		citiesStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/cities", b.handleCities)
	mux.HandleFunc("/predict", b.handlePredict)
	mux.HandleFunc("/health", b.handleHealth)

	b.server = httptest.NewServer(mux)
	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns an airquality client pointed at this backend.
func (b *Backend) Client() *airquality.Client {
	return airquality.NewClient(airquality.ClientOptions{BaseURL: b.server.URL})
}

// Close shuts the backend down.
func (b *Backend) Close() {
	b.server.Close()
}

// SetCities sets the city list served by the cities endpoint.
func (b *Backend) SetCities(cities []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cities = cities
}

// SetCitiesStatus overrides the status of the cities endpoint, e.g. to
// exercise the best-effort fallback.
func (b *Backend) SetCitiesStatus(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.citiesStatus = status
}

// EnqueuePredictResult enqueues predict results to be served sequentially.
func (b *Backend) EnqueuePredictResult(results ...PredictResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mockedPredictResults = append(b.mockedPredictResults, results...)
}

// CitiesRequests returns how many times the cities endpoint was called.
func (b *Backend) CitiesRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trackedCitiesRequests
}

// PredictRequests returns the URLs of the tracked predict requests.
func (b *Backend) PredictRequests() []url.URL {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]url.URL{}, b.trackedPredictRequests...)
}

func (b *Backend) handleCities(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	status := b.citiesStatus
	cities := b.cities
	b.trackedCitiesRequests++
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "cities unavailable"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"cities": cities})
}

func (b *Backend) handlePredict(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.trackedPredictRequests = append(b.trackedPredictRequests, *r.URL)

	if len(b.mockedPredictResults) == 0 {
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "no mocked predict results available"})
		return
	}

	result := b.mockedPredictResults[0]
	b.mockedPredictResults = b.mockedPredictResults[1:]
	b.mu.Unlock()

	if result.Delay > 0 {
		time.Sleep(result.Delay)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.Status)
	if result.RawBody != "" {
		_, _ = w.Write([]byte(result.RawBody))
		return
	}
	_ = json.NewEncoder(w).Encode(result.Body)
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
