// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"member-registration/internal/common/auth"
	"member-registration/internal/common/config"
	"member-registration/internal/common/database"
	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/observability"
	"member-registration/internal/models"

	draftstore "member-registration/internal/registration/draft-store"
	imagenormalize "member-registration/internal/registration/image-normalize"
	stepvalidators "member-registration/internal/registration/step-validators"
	submissiongateway "member-registration/internal/registration/submission-gateway"
	submitproxy "member-registration/internal/registration/submit-proxy"
	wizardapi "member-registration/internal/registration/wizard-api"
	wizardcontroller "member-registration/internal/registration/wizard-controller"
)

const apiKey = "e2e-secret"

// memberBackend stands in for the members service behind the proxy.
type memberBackend struct {
	mu       sync.Mutex
	received []json.RawMessage
	status   int
	body     string
}

func (b *memberBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.URL.Path != "/members" || r.Header.Get("Authorization") != "Bearer "+apiKey {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}
	raw, _ := io.ReadAll(r.Body)
	b.received = append(b.received, raw)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.status)
	_, _ = w.Write([]byte(b.body))
}

func (b *memberBackend) respond(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status, b.body = status, body
}

func (b *memberBackend) payloads() []json.RawMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]json.RawMessage(nil), b.received...)
}

type environment struct {
	t       *testing.T
	redis   *miniredis.Miniredis
	backend *memberBackend
	server  *httptest.Server
}

// start wires the whole service the way cmd/registration-server does, with
// miniredis for drafts and an in-process members backend.
func start(t *testing.T, mr *miniredis.Miniredis, backend *memberBackend) *environment {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewTestLogger(t)

	cfg := &config.Config{}
	cfg.Backend.URL = "placeholder"
	cfg.Backend.APIKey = apiKey
	cfg.Database.Redis.Address = mr.Addr()
	cfg.Draft.Backend = config.DraftBackendRedis

	var router http.Handler
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	members := httptest.NewServer(backend)
	t.Cleanup(members.Close)

	cfg.Backend.URL = members.URL
	cfg.Gateway.Endpoint = server.URL + submitproxy.Route
	applyDefaults(cfg)

	redis, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close() })
	drafts := draftstore.NewRedisBackend(redis, config.GetDuration(cfg.Draft.TTL))

	credentials, err := auth.FromConfig(cfg.Backend, http.DefaultClient)
	require.NoError(t, err)

	gatewayCfg := submissiongateway.LoadConfig(cfg)
	gateway := submissiongateway.NewHTTPGateway(submissiongateway.ServiceDependencies{
		Logger:        log,
		Observability: observability.NewNoop(),
		Client:        httpclient.NewClient(gatewayCfg.Timeout),
	}, gatewayCfg)

	registry := wizardcontroller.NewRegistry(wizardcontroller.RegistryDependencies{
		Logger: log,
		NewStore: func(key string) wizardcontroller.DraftStore {
			return draftstore.NewStore(draftstore.ServiceDependencies{Logger: log, Backend: drafts}, &draftstore.Config{Key: key})
		},
		Validator: stepvalidators.NewValidator(stepvalidators.ServiceDependencies{Logger: log}, stepvalidators.LoadConfig(cfg.Images)),
		Gateway:   gateway,
	}, wizardcontroller.LoadConfig(cfg))

	router = wizardapi.NewRouter(wizardapi.ServiceDependencies{
		Logger:     log,
		Registry:   registry,
		Normalizer: imagenormalize.NewNormalizer(imagenormalize.ServiceDependencies{Logger: log}, imagenormalize.LoadConfig(cfg.Images)),
		Catalog:    i18n.Default(),
		Proxy: submitproxy.NewHandler(submitproxy.ServiceDependencies{
			Logger:      log,
			Credentials: credentials,
		}, submitproxy.LoadConfig(cfg.Backend)),
		Health: map[string]wizardapi.HealthCheck{"redis": redis.Ping},
	}, wizardapi.LoadConfig(cfg.Images))

	return &environment{t: t, redis: mr, backend: backend, server: server}
}

// applyDefaults fills what config.Load would have defaulted.
func applyDefaults(cfg *config.Config) {
	cfg.Draft.Key = draftstore.DefaultKey
	cfg.Draft.TTL = int((7 * 24 * time.Hour).Milliseconds())
	cfg.Backend.Timeout = 5000
	cfg.Gateway.Mode = config.GatewayModeHTTP
	cfg.Gateway.Timeout = 5000
	cfg.Images.MaxBytes = 3 * 1024 * 1024
	cfg.Images.MaxWidth = 500
}

func (e *environment) call(method, path string, body interface{}) (int, map[string]interface{}) {
	e.t.Helper()
	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(e.t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func photo(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func registration(t *testing.T) (step1, step2, step3 map[string]interface{}) {
	step1 = map[string]interface{}{
		"fullName":        "Dawit Abraham",
		"phoneNumber":     "0911223344",
		"city":            "Addis Ababa",
		"subCity":         "Bole",
		"educationStatus": "Master's",
		"workStatus":      "Self-Employed",
		"jobField":        "Design",
		"companyName":     "Abraham Studio",
		"placeOfWork":     "Piassa",
	}
	step2 = map[string]interface{}{
		"savedDate":          "2015",
		"savedChurch":        "Grace Life Church",
		"inviterFullName":    "Selam Tesfaye",
		"inviterPhoneNumber": "0922334455",
		"invitationSource":   "",
		"doesServe":          false,
		"department":         []string{"media"},
		"trainings":          []string{"restoration"},
	}
	step3 = map[string]interface{}{
		"maritalStatus":        "married",
		"ministryExperience":   "",
		"comments":             "Looking forward to serving",
		"childrenAttendChurch": true,
		"numberOfChildren":     2,
		"children": []map[string]interface{}{
			{"fullName": "Liya Dawit", "age": 6, "image": photo(t)},
			{"fullName": "Nahom Dawit", "age": 3, "image": photo(t)},
		},
		"userImage": photo(t),
	}
	return step1, step2, step3
}

func TestRegistrationJourney(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}

	mr := miniredis.RunT(t)
	backend := &memberBackend{status: http.StatusCreated, body: `{"id":"m-1001"}`}
	env := start(t, mr, backend)
	step1, step2, step3 := registration(t)

	t.Log("Starting registration journey...")

	status, body := env.call(http.MethodPost, "/api/wizard/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	id := body["sessionId"].(string)
	base := "/api/wizard/sessions/" + id

	status, _ = env.call(http.MethodPost, base+"/advance", step1)
	require.Equal(t, http.StatusOK, status)
	status, body = env.call(http.MethodPost, base+"/advance", step2)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(75), body["progress"])

	key := draftstore.SessionKey(draftstore.DefaultKey, id)
	require.True(t, mr.Exists(key), "draft should be persisted in redis")
	assert.Greater(t, mr.TTL(key), time.Duration(0))

	t.Log("Restarting service; the draft must come back from redis...")
	env = start(t, mr, backend)

	status, body = env.call(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(wizardcontroller.StateStep1), body["state"])
	draft := body["draft"].(map[string]interface{})
	assert.Equal(t, "Dawit Abraham", draft["1"].(map[string]interface{})["fullName"])
	assert.Equal(t, []interface{}{}, draft["2"].(map[string]interface{})["department"])

	for _, input := range []map[string]interface{}{step1, step2} {
		status, _ = env.call(http.MethodPost, base+"/advance", input)
		require.Equal(t, http.StatusOK, status)
	}

	status, body = env.call(http.MethodPost, base+"/submit", step3)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, string(wizardcontroller.StateCompleted), body["state"])
	assert.Equal(t, float64(100), body["progress"])
	assert.False(t, mr.Exists(key), "draft should be cleared after submission")

	received := backend.payloads()
	require.Len(t, received, 1)
	var payload models.SubmissionPayload
	require.NoError(t, json.Unmarshal(received[0], &payload))
	assert.Equal(t, "Dawit Abraham", payload.PersonalInfo.FullName)
	assert.Equal(t, models.Worker{JobField: "Design", CompanyName: "Abraham Studio", PlaceOfWork: "Piassa"}, payload.PersonalInfo.Occupation)
	assert.False(t, payload.SpiritualInfo.DoesServe)
	assert.Empty(t, payload.SpiritualInfo.Department)
	assert.Equal(t, "married", payload.SpiritualInfo.MaritalStatus)
	require.Len(t, payload.SpiritualInfo.Children, 2)
	assert.Equal(t, "Nahom Dawit", payload.SpiritualInfo.Children[1].FullName)

	t.Log("Registration journey completed")
}

func TestRegistrationRejectedThenRetried(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}

	mr := miniredis.RunT(t)
	backend := &memberBackend{status: http.StatusConflict, body: `{"error":"Phone number already registered"}`}
	env := start(t, mr, backend)
	step1, step2, step3 := registration(t)

	_, body := env.call(http.MethodPost, "/api/wizard/sessions", nil)
	base := "/api/wizard/sessions/" + body["sessionId"].(string)
	env.call(http.MethodPost, base+"/advance", step1)
	env.call(http.MethodPost, base+"/advance", step2)

	status, body := env.call(http.MethodPost, base+"/submit", step3)
	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "generic", body["class"])
	assert.Equal(t, "Phone number already registered", body["error"])

	status, body = env.call(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(wizardcontroller.StateSubmissionFailed), body["state"])
	assert.Len(t, body["draft"], 3)

	backend.respond(http.StatusCreated, `{"id":"m-1002"}`)
	status, body = env.call(http.MethodPost, base+"/submit", step3)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(wizardcontroller.StateCompleted), body["state"])
	assert.Len(t, backend.payloads(), 2)
}

func TestProxyRejectsMalformedRequest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}

	mr := miniredis.RunT(t)
	env := start(t, mr, &memberBackend{status: http.StatusCreated, body: `{}`})

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, env.server.URL+submitproxy.Route, bytes.NewReader([]byte(`not json`)))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Failed to submit form"}`, string(raw))

	status, body := env.call(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}
