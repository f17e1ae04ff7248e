package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shatayaglobal/Manpower/internal/services"
)

// TestJWTService creates a JWTService with test configuration
func TestJWTService() *services.JWTService {
	return services.NewJWTService(
		"test-secret-key-for-testing-only",
		15*time.Minute,
	)
}

// GenerateTestToken generates a valid access token for testing
func GenerateTestToken(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	token, err := TestJWTService().GenerateAccessToken(userID, email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthHeader returns an Authorization header value with a Bearer token
func AuthHeader(token string) string {
	return "Bearer " + token
}

// HTTPTestClient provides helper methods for HTTP testing
type HTTPTestClient struct {
	t       *testing.T
	handler http.Handler
	token   string
}

// NewHTTPTestClient creates a new HTTP test client. A non-empty token is sent
// as a bearer token on every request.
func NewHTTPTestClient(t *testing.T, handler http.Handler, token string) *HTTPTestClient {
	return &HTTPTestClient{t: t, handler: handler, token: token}
}

// Request makes an HTTP request and returns the response
func (c *HTTPTestClient) Request(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal request body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", AuthHeader(c.token))
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func (c *HTTPTestClient) GET(path string) *httptest.ResponseRecorder {
	return c.Request(http.MethodGet, path, nil)
}

func (c *HTTPTestClient) POST(path string, body any) *httptest.ResponseRecorder {
	return c.Request(http.MethodPost, path, body)
}

func (c *HTTPTestClient) PATCH(path string, body any) *httptest.ResponseRecorder {
	return c.Request(http.MethodPatch, path, body)
}

func (c *HTTPTestClient) DELETE(path string) *httptest.ResponseRecorder {
	return c.Request(http.MethodDelete, path, nil)
}

// ParseJSON parses the response body as JSON
func ParseJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}
}

// AssertStatus asserts the response status code
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rec.Code, rec.Body.String())
	}
}
