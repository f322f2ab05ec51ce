// internal/registration/submission-gateway/models.go
package submissiongateway

import (
	"context"

	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/observability"
)

const (
	NameHTTP    = "http"
	NameProcess = "camunda"

	// maxResponseBytes caps how much of a backend reply is read.
	maxResponseBytes = 1 << 20
)

// Outcomes recorded per submission.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeNetwork  = "network"
	outcomeError    = "error"
)

// ProcessStarter starts a BPMN process instance. camunda.Client satisfies it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Observability *observability.Observability
	// Client is used by HTTPGateway.
	Client *httpclient.Client
	// Starter is used by ProcessGateway.
	Starter ProcessStarter
}

// serverError is the error body shape the backend and the proxy use.
type serverError struct {
	Error string `json:"error"`
}
