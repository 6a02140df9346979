package session_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	airquality "github.com/Fareedh-7/airquality-go"
	"github.com/Fareedh-7/airquality-go/aqtest"
	"github.com/Fareedh-7/airquality-go/session"
	"github.com/google/go-cmp/cmp"
)

func pollutantBody(city string) map[string]any {
	return map[string]any{
		"city":          city,
		"date":          "2024-05-01",
		"latitude":      28.613901,
		"longitude":     77.208999,
		"no2_avg":       0.000123,
		"no2_predicted": 0.000131,
		"pm25":          81.2,
		"pm10":          122.7,
		"so2":           14.3,
		"co":            1.1,
		"o3":            23.9,
		"temperature":   31.4,
		"humidity":      48.0,
		"wind_speed":    3.2,
	}
}

func TestReduce(t *testing.T) {
	state := session.State{}

	state = session.Reduce(state, session.Event{ListLoaded: &session.ListLoadedEvent{
		Cities: []string{"Delhi", "Paris"},
	}})
	if diff := cmp.Diff([]string{"Delhi", "Paris"}, state.Cities); diff != "" {
		t.Errorf("cities mismatch (-want +got):\n%s", diff)
	}

	state = session.Reduce(state, session.Event{SubmitStarted: &session.SubmitStartedEvent{
		SubmissionID: "sub-1",
		City:         "Delhi",
	}})
	if !state.Loading || state.Err != "" || state.Result != nil || state.City != "Delhi" {
		t.Errorf("unexpected state after start: %+v", state)
	}

	result := &airquality.Prediction{City: "Delhi"}
	state = session.Reduce(state, session.Event{SubmitSucceeded: &session.SubmitSucceededEvent{
		SubmissionID: "sub-1",
		Result:       result,
	}})
	if state.Loading || state.Err != "" || state.Result != result {
		t.Errorf("unexpected state after success: %+v", state)
	}

	state = session.Reduce(state, session.Event{SubmitFailed: &session.SubmitFailedEvent{
		SubmissionID: "sub-2",
		Message:      "city not found",
	}})
	if state.Loading || state.Err != "city not found" || state.Result != nil {
		t.Errorf("result and error must be mutually exclusive: %+v", state)
	}

	// City list survives submissions.
	if len(state.Cities) != 2 {
		t.Errorf("city list should be untouched by submissions: %+v", state.Cities)
	}
}

func TestInit(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()
	backend.SetCities([]string{"Delhi", "Paris"})

	s := session.New(backend.Client())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if diff := cmp.Diff([]string{"Delhi", "Paris"}, s.State().Cities); diff != "" {
		t.Errorf("cities mismatch (-want +got):\n%s", diff)
	}
}

func TestInitBestEffort(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()
	backend.SetCitiesStatus(http.StatusInternalServerError)

	s := session.New(backend.Client())
	if err := s.Init(context.Background()); err == nil {
		t.Error("expected Init to report the fetch error")
	}

	state := s.State()
	if len(state.Cities) != 0 || state.Err != "" {
		t.Errorf("a failed list fetch must leave the state untouched: %+v", state)
	}
}

func TestSubmitBlankInput(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()

	s := session.New(backend.Client())
	state := s.Submit(context.Background(), "   ", nil)

	if state.Err != session.EmptyCityMessage {
		t.Errorf("expected validation message, got %q", state.Err)
	}
	if state.Result != nil || state.Loading {
		t.Errorf("unexpected state: %+v", state)
	}
	if got := len(backend.PredictRequests()); got != 0 {
		t.Errorf("expected zero requests for blank input, got %d", got)
	}
}

func TestSubmitSuccess(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()
	backend.EnqueuePredictResult(
		aqtest.NewPredictResultJSON(http.StatusOK, pollutantBody("Delhi")),
		aqtest.NewPredictResultJSON(http.StatusOK, pollutantBody("Delhi")),
	)

	s := session.New(backend.Client())
	first := s.Submit(context.Background(), " Delhi ", nil)

	if first.Err != "" || first.Loading {
		t.Fatalf("unexpected state: %+v", first)
	}
	if first.Result == nil || first.Result.City != "Delhi" {
		t.Fatalf("expected parsed result, got %+v", first.Result)
	}
	if first.City != "Delhi" {
		t.Errorf("expected trimmed city in state, got %q", first.City)
	}

	// Repeating an identical request replaces the result wholesale and
	// yields an identical state.
	second := s.Submit(context.Background(), " Delhi ", nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated submission should be idempotent (-first +second):\n%s", diff)
	}
}

func TestSubmitServerDetail(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()
	backend.EnqueuePredictResult(aqtest.NewPredictResultJSON(http.StatusNotFound, map[string]string{
		"detail": "city not found",
	}))

	s := session.New(backend.Client())
	state := s.Submit(context.Background(), "Atlantis", nil)

	if state.Err != "city not found" {
		t.Errorf("expected server detail verbatim, got %q", state.Err)
	}
	if state.Result != nil || state.Loading {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestSubmitUnparsableErrorBody(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()
	backend.EnqueuePredictResult(aqtest.NewPredictResultRaw(http.StatusInternalServerError, "<html>boom</html>"))

	s := session.New(backend.Client())
	state := s.Submit(context.Background(), "Delhi", nil)

	if state.Err != session.FetchFailedMessage {
		t.Errorf("expected %q, got %q", session.FetchFailedMessage, state.Err)
	}
	if state.Result != nil {
		t.Errorf("result must stay nil on error: %+v", state.Result)
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	backend := aqtest.NewBackend()
	client := backend.Client()
	backend.Close()

	s := session.New(client)
	state := s.Submit(context.Background(), "Delhi", nil)

	if state.Err == "" {
		t.Error("expected a transport failure message")
	}
	if state.Result != nil || state.Loading {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestSubmitErrorThenSuccessClearsError(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()
	backend.EnqueuePredictResult(
		aqtest.NewPredictResultJSON(http.StatusNotFound, map[string]string{"detail": "city not found"}),
		aqtest.NewPredictResultJSON(http.StatusOK, pollutantBody("Paris")),
	)

	s := session.New(backend.Client())
	s.Submit(context.Background(), "Atlantis", nil)
	state := s.Submit(context.Background(), "Paris", nil)

	if state.Err != "" || state.Result == nil {
		t.Errorf("success must clear the prior error: %+v", state)
	}
}

func TestStaleSettlementDiscarded(t *testing.T) {
	backend := aqtest.NewBackend()
	defer backend.Close()

	slow := aqtest.NewPredictResultJSON(http.StatusOK, pollutantBody("Delhi"))
	slow.Delay = 300 * time.Millisecond
	backend.EnqueuePredictResult(
		slow,
		aqtest.NewPredictResultJSON(http.StatusOK, pollutantBody("Paris")),
	)

	s := session.New(backend.Client())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Submit(context.Background(), "Delhi", nil)
	}()

	// Let the slow submission reach the backend before the second one is
	// issued.
	time.Sleep(100 * time.Millisecond)
	if !s.State().Loading {
		t.Error("loading must be set while a submission is in flight")
	}
	s.Submit(context.Background(), "Paris", nil)
	wg.Wait()

	state := s.State()
	if state.Result == nil || state.Result.City != "Paris" {
		t.Fatalf("stale settlement must not clobber newer state: %+v", state.Result)
	}
	if state.Loading {
		t.Error("loading must be clear once the latest submission settles")
	}
	if state.Err != "" {
		t.Errorf("unexpected error: %q", state.Err)
	}
}
