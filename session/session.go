// Package session holds the UI state of a query client: the typed city,
// the selectable city list, the last result or error, and the loading flag.
// State moves through a pure reducer keyed on discrete events, and a
// Session orchestrates the two backend fetches around it.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	airquality "github.com/Fareedh-7/airquality-go"
	"github.com/google/uuid"
)

// User-visible messages for the terminal error paths of a submission.
const (
	EmptyCityMessage     = "Please enter a city name."
	FetchFailedMessage   = "Failed to fetch prediction"
	RequestFailedMessage = "Request failed"
)

// State is the query client's state record. It is replaced wholesale on
// every event; Result and Err are mutually exclusive.
type State struct {
	City    string
	Cities  []string
	Result  *airquality.Prediction
	Err     string
	Loading bool
}

// Event represents a state transition of the query client.
type Event struct {
	ListLoaded      *ListLoadedEvent
	SubmitStarted   *SubmitStartedEvent
	SubmitSucceeded *SubmitSucceededEvent
	SubmitFailed    *SubmitFailedEvent
}

// ListLoadedEvent carries the city list fetched at startup.
type ListLoadedEvent struct {
	Cities []string
}

// SubmitStartedEvent marks the start of a submission.
type SubmitStartedEvent struct {
	SubmissionID string
	City         string
}

// SubmitSucceededEvent settles a submission with a parsed result.
type SubmitSucceededEvent struct {
	SubmissionID string
	Result       *airquality.Prediction
}

// SubmitFailedEvent settles a submission with a user-facing message.
type SubmitFailedEvent struct {
	SubmissionID string
	Message      string
}

// Reduce applies an event to a state and returns the next state.
func Reduce(state State, event Event) State {
	switch {
	case event.ListLoaded != nil:
		state.Cities = event.ListLoaded.Cities
	case event.SubmitStarted != nil:
		state.City = event.SubmitStarted.City
		state.Result = nil
		state.Err = ""
		state.Loading = true
	case event.SubmitSucceeded != nil:
		state.Result = event.SubmitSucceeded.Result
		state.Err = ""
		state.Loading = false
	case event.SubmitFailed != nil:
		state.Result = nil
		state.Err = event.SubmitFailed.Message
		state.Loading = false
	}
	return state
}

// Session drives a query client against a backend. Each submission carries
// an ID and a monotonically increasing sequence number; a settlement whose
// sequence number is not the latest issued is discarded, so a stale
// response never clobbers newer state and the loading flag clears only
// when the latest submission settles.
type Session struct {
	client *airquality.Client

	mu    sync.Mutex
	state State
	seq   uint64
}

// New creates a session over the given client.
func New(client *airquality.Client) *Session {
	return &Session{client: client}
}

// State returns a snapshot of the current state record.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Init fetches the city list once. The fetch is best-effort: on failure the
// list stays empty, no state changes, and the error is returned only so
// callers may log it.
func (s *Session) Init(ctx context.Context) error {
	cities, err := s.client.ListCities(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Event{ListLoaded: &ListLoadedEvent{Cities: cities}})
	return nil
}

// Submit runs one submission attempt and returns the settled state. A
// blank city sets the validation message without issuing a request.
func (s *Session) Submit(ctx context.Context, city string, options *airquality.PredictOptions) State {
	trimmed := strings.TrimSpace(city)
	submissionID := uuid.NewString()

	if trimmed == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state = Reduce(s.state, Event{SubmitFailed: &SubmitFailedEvent{
			SubmissionID: submissionID,
			Message:      EmptyCityMessage,
		}})
		return s.state
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.state = Reduce(s.state, Event{SubmitStarted: &SubmitStartedEvent{
		SubmissionID: submissionID,
		City:         trimmed,
	}})
	s.mu.Unlock()

	result, err := s.client.Predict(ctx, trimmed, options)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		// A newer submission owns the state now.
		return s.state
	}

	if err != nil {
		s.state = Reduce(s.state, Event{SubmitFailed: &SubmitFailedEvent{
			SubmissionID: submissionID,
			Message:      userMessage(err),
		}})
	} else {
		s.state = Reduce(s.state, Event{SubmitSucceeded: &SubmitSucceededEvent{
			SubmissionID: submissionID,
			Result:       result,
		}})
	}
	return s.state
}

// userMessage maps a client error onto the message shown in the notice
// area: the server's detail verbatim when it sent one, otherwise the
// generic fallback for that error class.
func userMessage(err error) string {
	var clientErr *airquality.ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Kind {
		case airquality.InvalidInput:
			return EmptyCityMessage
		case airquality.StatusCode:
			if clientErr.Detail != "" {
				return clientErr.Detail
			}
			return FetchFailedMessage
		case airquality.Transport:
			if clientErr.Err != nil && clientErr.Err.Error() != "" {
				return clientErr.Err.Error()
			}
			return RequestFailedMessage
		}
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return RequestFailedMessage
}
