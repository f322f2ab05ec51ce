package submitproxy

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"member-registration/internal/common/auth"
	"member-registration/internal/common/config"
	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"personalInfo":{"fullName":"Dawit Abraham"},"spiritualInfo":{"savedChurch":"Grace"}}`

type failingCredentials struct{}

func (failingCredentials) Token(context.Context) (string, error) {
	return "", stderrors.New("token endpoint unavailable")
}

// newRouter mounts the proxy in front of backendURL. A nil creds uses the
// static key "secret-key".
func newRouter(t *testing.T, backendURL string, creds httpclient.CredentialSource) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if creds == nil {
		key, err := auth.NewStaticKey("secret-key")
		require.NoError(t, err)
		creds = key
	}
	deps := ServiceDependencies{Logger: logger.NewTestLogger(t), Credentials: creds}

	cfg := LoadConfig(config.BackendConfig{URL: backendURL + "/", Timeout: 2000})
	router := gin.New()
	NewHandler(deps, cfg).Register(router)
	return router
}

func post(router http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, Route, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestForward_PassesThroughStatusAndBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "created", status: http.StatusCreated, body: `{"id":"m-1","status":"registered"}`},
		{name: "conflict", status: http.StatusConflict, body: `{"error":"Phone number already registered"}`},
		{name: "validation", status: http.StatusBadRequest, body: `{"error":"invalid","fields":["phoneNumber"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/members", r.URL.Path)
				assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				got, _ := io.ReadAll(r.Body)
				assert.JSONEq(t, payload, string(got))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer backend.Close()

			rec := post(newRouter(t, backend.URL, nil), payload)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestForward_LocalFailures(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	}))
	defer backend.Close()

	down := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	downURL := down.URL
	down.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer slow.Close()

	tests := []struct {
		name   string
		router *gin.Engine
		body   string
	}{
		{name: "invalid json body", router: newRouter(t, backend.URL, nil), body: `{"personalInfo":`},
		{name: "backend unreachable", router: newRouter(t, downURL, nil), body: payload},
		{name: "backend non-json reply", router: newRouter(t, backend.URL, nil), body: payload},
		{name: "credential failure", router: newRouter(t, backend.URL, failingCredentials{}), body: payload},
		{name: "backend timeout", router: newRouter(t, slow.URL, nil), body: payload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(tt.router, tt.body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"Failed to submit form"}`, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "upstream")
		})
	}
	assert.Equal(t, int32(1), calls.Load(), "only the non-json case reaches the backend")
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.BackendConfig{URL: "https://api.example.org/v1/", Timeout: 1500})
	assert.Equal(t, "https://api.example.org/v1/members", cfg.MembersURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, DefaultMaxBodyBytes, cfg.MaxBodyBytes)
}
