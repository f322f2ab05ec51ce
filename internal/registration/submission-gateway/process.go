// internal/registration/submission-gateway/process.go
package submissiongateway

import (
	"context"
	"net/http"
	"time"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/observability"
	"member-registration/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

// ProcessGateway hands the payload to a BPMN process instead of calling the
// member API directly. The instance key is returned on the Ack.
type ProcessGateway struct {
	starter   ProcessStarter
	processID string
	obs       *observability.Observability
	logger    logger.Logger
}

func NewProcessGateway(deps ServiceDependencies, cfg *Config) *ProcessGateway {
	obs := deps.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &ProcessGateway{
		starter:   deps.Starter,
		processID: cfg.ProcessID,
		obs:       obs,
		logger: deps.Logger.WithFields(map[string]interface{}{
			"gateway":   NameProcess,
			"processId": cfg.ProcessID,
		}),
	}
}

func (g *ProcessGateway) Submit(ctx context.Context, payload models.SubmissionPayload) (ack models.Ack, err error) {
	start := time.Now()
	ctx, span := g.obs.StartSpan(ctx, "submission.process", attribute.String("process.id", g.processID))
	defer func() {
		observability.EndSpan(span, err)
		record(ctx, g.obs, NameProcess, start, err)
	}()

	key, err := g.starter.StartProcess(ctx, g.processID, payload)
	if err != nil {
		stdErr := errors.AsStandard(err)
		if stdErr.Code == errors.ErrCodeInternal {
			rejected := errors.NewSubmissionRejectedError(0, "")
			rejected.Details = err.Error()
			stdErr = rejected
		}
		g.logger.WithError(err).Warn("process start failed", map[string]interface{}{
			"errorCode": string(stdErr.Code),
		})
		return models.Ack{}, stdErr
	}

	span.SetAttributes(attribute.Int64("process.instance_key", key))
	g.logger.Info("registration process started", map[string]interface{}{"instanceKey": key})
	return models.Ack{Status: http.StatusAccepted, InstanceKey: key}, nil
}
