// internal/registration/wizard-api/models.go
package wizardapi

import (
	"context"
	"net/http"

	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/models"
	imagenormalize "member-registration/internal/registration/image-normalize"
	submitproxy "member-registration/internal/registration/submit-proxy"
	wizardcontroller "member-registration/internal/registration/wizard-controller"
)

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

type ServiceDependencies struct {
	Logger     logger.Logger
	Registry   *wizardcontroller.Registry
	Normalizer *imagenormalize.Normalizer
	Catalog    *i18n.Catalog
	// Proxy is mounted at /api/submit-form when set.
	Proxy *submitproxy.Handler
	// Health checks run by GET /health, keyed by dependency name.
	Health map[string]HealthCheck
	// Metrics serves GET /metrics; promhttp.Handler() when nil.
	Metrics http.Handler
}

// SessionResponse describes a wizard session to the client.
type SessionResponse struct {
	SessionID string                    `json:"sessionId"`
	State     wizardcontroller.State    `json:"state"`
	Step      models.StepNumber         `json:"step,omitempty"`
	Title     string                    `json:"title"`
	Progress  int                       `json:"progress"`
	Failure   *wizardcontroller.Failure `json:"failure,omitempty"`
	Ack       *models.Ack               `json:"ack,omitempty"`
	Draft     models.Draft              `json:"draft,omitempty"`
}

type StepResponse struct {
	Step  models.StepNumber `json:"step"`
	Title string            `json:"title"`
	Data  interface{}       `json:"data"`
}

type ImageResponse struct {
	DataURI string `json:"dataUri"`
}

var stepTitles = map[models.StepNumber]string{
	models.StepPersonalInfo: i18n.MsgStep1Title,
	models.StepChurchInfo1:  i18n.MsgStep2Title,
	models.StepChurchInfo2:  i18n.MsgStep3Title,
}
