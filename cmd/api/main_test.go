package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"stylebook/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "main-test-secret",
		ServerPort:        "0",
		TokenTTL:          time.Hour,
		CORSOrigins:       []string{"*"},
		AuthRatePerMinute: 5,
	}
}

func TestNewServer_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := newServer(testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewServer_RejectsMissingTokenBeforeDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// A nil pool panics on first use, so these requests must stop at the gateway.
	server := newServer(testConfig(), nil)

	for _, path := range []string{"/api/v1/profiles", "/api/v1/bookings", "/api/v1/profiles/1/rating"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
		var body struct {
			ErrorCode string `json:"error_code"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode error body: %v", path, err)
		}
		if body.ErrorCode != "not_authenticated" {
			t.Fatalf("%s: expected not_authenticated, got %q", path, body.ErrorCode)
		}
	}
}
