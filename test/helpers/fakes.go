package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"studyfunnel_backend/internal/survey"
	"studyfunnel_backend/internal/webhook"
)

// RecordingSink keeps every delivered message
type RecordingSink struct {
	mu       sync.Mutex
	messages []webhook.Message
	Err      error
}

func (s *RecordingSink) Send(_ context.Context, msg webhook.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.Err
}

func (s *RecordingSink) Messages() []webhook.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]webhook.Message(nil), s.messages...)
}

// FakeSurveySource serves a fixed catalog and response list
type FakeSurveySource struct {
	mu           sync.Mutex
	Details      *survey.Details
	Responses    []survey.Response
	DetailsErr   error
	ResponsesErr error
	DetailsCalls int
}

func (f *FakeSurveySource) FetchDetails(context.Context) (*survey.Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DetailsCalls++
	if f.DetailsErr != nil {
		return nil, f.DetailsErr
	}
	if f.Details == nil {
		return nil, errors.New("no catalog")
	}
	return f.Details, nil
}

func (f *FakeSurveySource) FetchCompletedResponses(context.Context) ([]survey.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ResponsesErr != nil {
		return nil, f.ResponsesErr
	}
	return append([]survey.Response(nil), f.Responses...), nil
}

func (f *FakeSurveySource) SetDetailsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DetailsErr = err
}

// PreScreenCatalog has two name questions, an email question and an age question
func PreScreenCatalog() *survey.Details {
	return &survey.Details{
		ID: "survey-1",
		Pages: []survey.DetailsPage{{
			ID: "page-1",
			Questions: []survey.Question{
				{ID: "q-first", Family: "open_ended", Headings: []survey.Heading{{Heading: "Please provide your name: First"}}},
				{ID: "q-last", Family: "open_ended", Headings: []survey.Heading{{Heading: "Please provide your name: Last"}}},
				{ID: "q-email", Family: "open_ended", Headings: []survey.Heading{{Heading: "Email address"}}},
				{ID: "q-age", Family: "open_ended", Headings: []survey.Heading{{Heading: "What is your age?"}}},
			},
		}},
	}
}

// PreScreenResponse builds a completed response against PreScreenCatalog
func PreScreenResponse(t *testing.T, id, first, last, email, age, analyzeURL string) survey.Response {
	t.Helper()
	resp := survey.Response{
		ID:             id,
		ResponseStatus: "completed",
		AnalyzeURL:     analyzeURL,
		Pages: []survey.ResponsePage{{
			ID: "page-1",
			Questions: []survey.ResponseQuestion{
				{ID: "q-first", Answers: []survey.Answer{{Text: first}}},
				{ID: "q-last", Answers: []survey.Answer{{Text: last}}},
				{ID: "q-email", Answers: []survey.Answer{{Text: email}}},
				{ID: "q-age", Answers: []survey.Answer{{Text: age}}},
			},
		}},
	}
	raw, err := resp.Document()
	if err != nil {
		t.Fatalf("failed to encode survey response: %v", err)
	}
	resp.Raw = json.RawMessage(raw)
	return resp
}
