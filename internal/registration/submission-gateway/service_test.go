package submissiongateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/logger"
	"member-registration/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() models.SubmissionPayload {
	return models.SubmissionPayload{
		PersonalInfo: models.PersonalInfo{
			FullName:    "Dawit Abraham",
			PhoneNumber: "0911223344",
			City:        "Addis Ababa",
			WorkStatus:  models.WorkStatusEmployee,
			Occupation:  models.Worker{JobField: "Engineering"},
		},
		SpiritualInfo: models.SpiritualInfo{
			ChurchInfo1: models.ChurchInfo1{SavedDate: "2018", SavedChurch: "Grace", Department: []string{}, Trainings: []string{}},
			ChurchInfo2: models.ChurchInfo2{MaritalStatus: "single", UserImage: "data:image/png;base64,AA=="},
		},
	}
}

func newHTTPGateway(t *testing.T, endpoint string) *HTTPGateway {
	t.Helper()
	return NewHTTPGateway(ServiceDependencies{Logger: logger.NewTestLogger(t)}, &Config{
		Endpoint: endpoint,
		Timeout:  2 * time.Second,
	})
}

func TestHTTPGateway_Success(t *testing.T) {
	var received map[string]map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"m-1001"}`))
	}))
	defer srv.Close()

	ack, err := newHTTPGateway(t, srv.URL).Submit(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, ack.Status)
	assert.JSONEq(t, `{"id":"m-1001"}`, string(ack.Body))

	assert.Equal(t, "Dawit Abraham", received["personalInfo"]["fullName"])
	assert.Equal(t, "Engineering", received["personalInfo"]["jobField"])
	assert.Equal(t, "Grace", received["spiritualInfo"]["savedChurch"])
	assert.Equal(t, "single", received["spiritualInfo"]["maritalStatus"])
}

func TestHTTPGateway_Failures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "server message", status: http.StatusConflict, body: `{"error":"Phone number already registered"}`, wantMessage: "Phone number already registered"},
		{name: "proxy generic failure", status: http.StatusInternalServerError, body: `{"error":"Failed to submit form"}`, wantMessage: errors.GenericSubmitFailure},
		{name: "no message", status: http.StatusBadRequest, body: `{"details":["x"]}`, wantMessage: errors.GenericSubmitFailure},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, wantMessage: errors.GenericSubmitFailure},
		{name: "empty message", status: http.StatusUnprocessableEntity, body: `{"error":""}`, wantMessage: errors.GenericSubmitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newHTTPGateway(t, srv.URL).Submit(context.Background(), samplePayload())
			require.Error(t, err)

			stdErr := errors.AsStandard(err)
			assert.Equal(t, errors.ErrCodeSubmissionRejected, stdErr.Code)
			assert.Equal(t, tt.wantMessage, stdErr.Message)
			assert.Equal(t, tt.status, stdErr.Metadata["status"])
		})
	}
}

func TestHTTPGateway_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, err := newHTTPGateway(t, endpoint).Submit(context.Background(), samplePayload())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSubmissionNetworkFailed))
	assert.Equal(t, errors.GenericSubmitFailure, errors.AsStandard(err).Message)
}

func TestHTTPGateway_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newHTTPGateway(t, srv.URL).Submit(ctx, samplePayload())
	assert.True(t, errors.HasCode(err, errors.ErrCodeSubmissionNetworkFailed))
}
