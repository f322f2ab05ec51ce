// internal/registration/submission-gateway/service.go
package submissiongateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"member-registration/internal/common/errors"
	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"
	"member-registration/internal/common/observability"
	"member-registration/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// HTTPGateway posts the payload as JSON to a single endpoint, normally this
// service's own submission proxy. It never retries.
type HTTPGateway struct {
	client   *httpclient.Client
	endpoint string
	obs      *observability.Observability
	logger   logger.Logger
}

func NewHTTPGateway(deps ServiceDependencies, cfg *Config) *HTTPGateway {
	client := deps.Client
	if client == nil {
		client = httpclient.NewClient(cfg.Timeout)
	}
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &HTTPGateway{
		client:   client,
		endpoint: cfg.Endpoint,
		obs:      obs,
		logger:   deps.Logger.WithFields(map[string]interface{}{"gateway": NameHTTP}),
	}
}

// Submit returns SUBMISSION_NETWORK_FAILED when the endpoint could not be
// reached and SUBMISSION_REJECTED, carrying the server's "error" message when
// there is one, for any non-2xx reply.
func (g *HTTPGateway) Submit(ctx context.Context, payload models.SubmissionPayload) (ack models.Ack, err error) {
	start := time.Now()
	ctx, span := g.obs.StartSpan(ctx, "submission.http", attribute.String("endpoint", g.endpoint))
	defer func() {
		observability.EndSpan(span, err)
		record(ctx, g.obs, NameHTTP, start, err)
	}()

	body, err := json.Marshal(payload)
	if err != nil {
		return models.Ack{}, errors.NewInternalError(fmt.Errorf("encode payload: %w", err))
	}

	resp, err := g.client.PostJSON(ctx, g.endpoint, body)
	if err != nil {
		g.logger.WithError(err).Warn("submission endpoint unreachable", nil)
		return models.Ack{}, errors.NewSubmissionNetworkFailedError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.Ack{}, errors.NewSubmissionNetworkFailedError(fmt.Errorf("read response: %w", err))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		rejected := errors.NewSubmissionRejectedError(resp.StatusCode, serverMessage(respBody))
		g.logger.Warn("submission rejected", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": rejected.Message,
		})
		return models.Ack{}, rejected
	}

	ack = models.Ack{Status: resp.StatusCode}
	if json.Valid(respBody) {
		ack.Body = json.RawMessage(respBody)
	}
	g.logger.Info("submission accepted", map[string]interface{}{"status": resp.StatusCode})
	return ack, nil
}

func serverMessage(body []byte) string {
	var se serverError
	if err := json.Unmarshal(body, &se); err != nil {
		return ""
	}
	return se.Error
}

func record(ctx context.Context, obs *observability.Observability, gateway string, start time.Time, err error) {
	outcome := outcomeSuccess
	if err != nil {
		switch errors.AsStandard(err).Code {
		case errors.ErrCodeSubmissionNetworkFailed:
			outcome = outcomeNetwork
		case errors.ErrCodeSubmissionRejected:
			outcome = outcomeRejected
		default:
			outcome = outcomeError
		}
	}
	elapsed := time.Since(start)
	metrics.SubmissionsTotal.WithLabelValues(gateway, outcome).Inc()
	metrics.SubmissionDuration.WithLabelValues(gateway).Observe(elapsed.Seconds())
	obs.RecordSubmission(ctx, gateway, outcome, elapsed)
}
