// internal/registration/submit-proxy/handler.go
package submitproxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"member-registration/internal/common/errors"
	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"

	"github.com/gin-gonic/gin"
)

// Handler forwards submissions to the member backend with the server-side
// credential attached.
type Handler struct {
	client       *httpclient.Client
	membersURL   string
	maxBodyBytes int64
	logger       logger.Logger
}

func NewHandler(deps ServiceDependencies, cfg *Config) *Handler {
	client := deps.Client
	if client == nil {
		client = httpclient.NewClient(cfg.Timeout)
	}
	if deps.Credentials != nil {
		client = client.WithBearer(deps.Credentials)
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		client:       client,
		membersURL:   cfg.MembersURL,
		maxBodyBytes: maxBody,
		logger:       deps.Logger.WithFields(map[string]interface{}{"component": "submit-proxy"}),
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST(Route, h.Forward)
}

// Forward relays the request body to <backend>/members and answers with the
// backend's status and JSON body unchanged. Any local failure becomes
// 500 {"error":"Failed to submit form"}.
func (h *Handler) Forward(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		h.fail(c, "read", err)
		return
	}
	if !json.Valid(body) {
		h.fail(c, "parse", fmt.Errorf("request body is not valid JSON"))
		return
	}

	resp, err := h.client.PostJSON(c.Request.Context(), h.membersURL, body)
	if err != nil {
		h.fail(c, "forward", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		h.fail(c, "read-response", err)
		return
	}
	if !json.Valid(respBody) {
		h.fail(c, "decode-response", fmt.Errorf("backend replied %d with a non-JSON body", resp.StatusCode))
		return
	}

	metrics.ProxyRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	h.logger.Info("submission forwarded", map[string]interface{}{
		"status": resp.StatusCode,
	})
	c.Data(resp.StatusCode, "application/json", respBody)
}

func (h *Handler) fail(c *gin.Context, stage string, err error) {
	stdErr := errors.NewProxyForwardFailedError(stage, err)
	h.logger.WithError(err).Error("submission proxy failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"stage":     stage,
	})
	metrics.ProxyRequests.WithLabelValues(strconv.Itoa(http.StatusInternalServerError)).Inc()
	c.AbortWithStatusJSON(http.StatusInternalServerError, failureBody{Error: errors.GenericSubmitFailure})
}
