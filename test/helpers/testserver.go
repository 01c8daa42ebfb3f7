package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyfunnel_backend/internal/app"
	"studyfunnel_backend/internal/auth"
	"studyfunnel_backend/internal/config"

	"gorm.io/gorm"
)

const TestJWTSecret = "test-secret-0123456789"

type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	App    *app.Application
	Sink   *RecordingSink
	Survey *FakeSurveySource
	// Token is a valid bearer token for the protected routes
	Token string
}

type TestServerOptions struct {
	// Now pins the engine clock; zero means time.Now
	Now time.Time
}

// NewTestServer runs the real router over a private sqlite database with a
// recording sink and a fake survey provider
func NewTestServer(t *testing.T, opts TestServerOptions) *TestServer {
	t.Helper()
	db := NewTestDB(t)

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.Auth.JWTSecret = TestJWTSecret

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}

	ts := &TestServer{
		DB:     db,
		Sink:   &RecordingSink{},
		Survey: &FakeSurveySource{Details: PreScreenCatalog()},
	}

	deps := app.Dependencies{
		SurveySource: ts.Survey,
		Sink:         ts.Sink,
		Location:     loc,
	}
	if !opts.Now.IsZero() {
		deps.Now = func() time.Time { return opts.Now }
	}

	ts.App, err = app.New(cfg, db, deps)
	if err != nil {
		t.Fatalf("failed to build application: %v", err)
	}

	ts.Token, err = auth.SignToken(TestJWTSecret, cfg.Auth.Issuer, "operator-1", "ops@example.com", time.Hour)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}

	ts.Server = httptest.NewServer(ts.App.Router())
	t.Cleanup(ts.Server.Close)
	return ts
}

// SendRequest sends body as JSON and returns the response with its body read
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return res, string(resBody)
}
