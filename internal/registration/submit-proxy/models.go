// internal/registration/submit-proxy/models.go
package submitproxy

import (
	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/logger"
)

type ServiceDependencies struct {
	Logger      logger.Logger
	Credentials httpclient.CredentialSource
	// Client is optional; one is built from Config.Timeout when nil.
	Client *httpclient.Client
}

// failureBody is the only error shape the proxy ever returns itself.
type failureBody struct {
	Error string `json:"error"`
}
