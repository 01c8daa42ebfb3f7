package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"studyfunnel_backend/internal/config"
	"studyfunnel_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailsJSON = `{
  "id": "s1",
  "title": "Pre-screen",
  "pages": [{
    "id": "p1",
    "questions": [
      {"id": "q1", "family": "open_ended", "subtype": "single", "headings": [{"heading": "Please provide your name (first)"}]},
      {"id": "q2", "family": "open_ended", "heading": "Please provide your name (last)"},
      {"id": "q3", "family": "single_choice", "subtype": "vertical", "question": "What is your age?",
       "answers": {"choices": [{"id": "c1", "text": "34"}]}},
      {"id": "q4", "type": "legacy"}
    ]
  }]
}`

func testConfig(baseURL string) config.SurveyConfig {
	return config.SurveyConfig{BaseURL: baseURL, Token: "tok", SurveyID: "s1", PageSize: 2}
}

type stubDetails struct {
	calls   int
	failFor int
	details *Details
}

func (s *stubDetails) FetchDetails(ctx context.Context) (*Details, error) {
	s.calls++
	if s.calls <= s.failFor {
		return nil, errors.New("provider down")
	}
	return s.details, nil
}

func mustDetails(t *testing.T) *Details {
	t.Helper()
	var d Details
	require.NoError(t, json.Unmarshal([]byte(detailsJSON), &d))
	return &d
}

func TestClient_FetchDetailsSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/surveys/s1/details", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(detailsJSON))
	}))
	defer srv.Close()

	details, err := NewClient(testConfig(srv.URL)).FetchDetails(context.Background())
	require.NoError(t, err)
	require.Len(t, details.Pages, 1)
	assert.Len(t, details.Pages[0].Questions, 4)
}

func TestClient_FetchCompletedResponsesFollowsNext(t *testing.T) {
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "completed", r.URL.Query().Get("status"))
		assert.Equal(t, "2", r.URL.Query().Get("per_page"))
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"data":[{"id":"r3"}],"links":{}}`)
			return
		}
		fmt.Fprintf(w, `{"data":[{"id":"r1","analyze_url":"http://a/1"},{"id":"r2"}],"links":{"next":"%s/surveys/s1/responses/bulk?status=completed&per_page=2&page=2"}}`, srvURL)
	}))
	defer srv.Close()
	srvURL = srv.URL

	responses, err := NewClient(testConfig(srv.URL)).FetchCompletedResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, "r1", responses[0].ID)
	assert.Equal(t, "http://a/1", responses[0].AnalyzeURL)
	assert.JSONEq(t, `{"id":"r1","analyze_url":"http://a/1"}`, string(responses[0].Raw))
	assert.Equal(t, "r3", responses[2].ID)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).FetchDetails(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient(config.SurveyConfig{BaseURL: "http://unused"}).FetchCompletedResponses(context.Background())
	assert.Error(t, err)
}

func TestCatalogCache_FetchesOnceAndRetriesAfterFailure(t *testing.T) {
	src := &stubDetails{failFor: 1, details: mustDetails(t)}
	cache := NewCatalogCache(src)

	_, err := cache.Get(context.Background())
	require.Error(t, err)

	_, err = cache.Get(context.Background())
	require.NoError(t, err)
	_, err = cache.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, src.calls)
}

func TestFormatter_FlattensAnswers(t *testing.T) {
	f := NewFormatter(&stubDetails{details: mustDetails(t)})
	resp := &Response{
		ID: "r1",
		Pages: []ResponsePage{{Questions: []ResponseQuestion{
			{ID: "q1", Answers: []Answer{{Text: "Jo"}}},
			{ID: "q2", Answers: []Answer{{Text: "Lee"}, {}}},
			{ID: "q3", Answers: []Answer{{ChoiceID: "c1"}, {ChoiceID: "c9"}}},
			{ID: "q4", Answers: []Answer{{Text: "x"}}},
			{ID: "unknown", Answers: []Answer{{Text: "ignored"}}},
		}}},
	}

	qa, err := f.Format(context.Background(), resp)
	require.NoError(t, err)
	assert.Equal(t, []QA{
		{QuestionText: "Please provide your name (first)", AnswerText: "Jo", QuestionType: "open_ended/single"},
		{QuestionText: "Please provide your name (last)", AnswerText: "Lee", QuestionType: "open_ended"},
		{QuestionText: "What is your age?", AnswerText: "34", QuestionType: "single_choice/vertical"},
		{QuestionText: "What is your age?", AnswerText: "Choice ID: c9", QuestionType: "single_choice/vertical"},
		{QuestionText: "Untitled Question", AnswerText: "x", QuestionType: "legacy"},
	}, qa)
}

func TestFormatter_CatalogFailureIsUpstreamUnavailable(t *testing.T) {
	f := NewFormatter(&stubDetails{failFor: 1})

	_, err := f.Format(context.Background(), &Response{})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeUpstreamUnavailable, appErr.Code)
}

func TestFormatter_FormatRaw(t *testing.T) {
	f := NewFormatter(&stubDetails{details: mustDetails(t)})

	qa, err := f.FormatRaw(context.Background(), []byte(`{"id":"r1","pages":[{"questions":[{"id":"q1","answers":[{"text":"Jo"}]}]}]}`))
	require.NoError(t, err)
	require.Len(t, qa, 1)
	assert.Equal(t, "Jo", qa[0].AnswerText)
}

func TestContact(t *testing.T) {
	resp := &Response{Pages: []ResponsePage{{Questions: []ResponseQuestion{
		{ID: "q1", Answers: []Answer{{ChoiceID: "c1"}, {Text: "Jo Lee"}}},
		{ID: "q2", Answers: []Answer{{Text: " b@y.com; "}, {Text: "other@y.com"}}},
		{ID: "q3", Answers: []Answer{{Text: "Later"}}},
	}}}}

	email, name := Contact(resp)
	assert.Equal(t, "b@y.com", email)
	assert.Equal(t, "Jo Lee", name)

	email, _ = Contact(&Response{})
	assert.Empty(t, email)
}

func TestResponseDocument(t *testing.T) {
	built := &Response{ID: "r1", AnalyzeURL: "http://a"}
	doc, err := built.Document()
	require.NoError(t, err)

	parsed, err := ParseResponse(doc)
	require.NoError(t, err)
	assert.Equal(t, "http://a", parsed.AnalyzeURL)
	assert.Equal(t, "r1", parsed.ID)
}
