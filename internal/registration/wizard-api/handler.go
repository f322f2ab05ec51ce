// internal/registration/wizard-api/handler.go
package wizardapi

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/models"
	imagenormalize "member-registration/internal/registration/image-normalize"
	wizardcontroller "member-registration/internal/registration/wizard-controller"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// Handler exposes wizard sessions over HTTP.
type Handler struct {
	config     *Config
	logger     logger.Logger
	registry   *wizardcontroller.Registry
	normalizer *imagenormalize.Normalizer
	catalog    *i18n.Catalog
	responder  *errors.ErrorResponder
}

func NewHandler(deps ServiceDependencies, cfg *Config) *Handler {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = i18n.Default()
	}
	return &Handler{
		config:     cfg,
		logger:     deps.Logger,
		registry:   deps.Registry,
		normalizer: deps.Normalizer,
		catalog:    catalog,
		responder:  errors.NewErrorResponder(deps.Logger),
	}
}

// RegisterRoutes mounts the wizard endpoints under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	wizard := rg.Group("/wizard")
	wizard.POST("/sessions", h.createSession)
	wizard.GET("/sessions/:id", h.getSession)
	wizard.GET("/sessions/:id/steps/:step", h.getStep)
	wizard.POST("/sessions/:id/advance", h.advance)
	wizard.POST("/sessions/:id/retreat", h.retreat)
	wizard.POST("/sessions/:id/submit", h.submit)
	wizard.POST("/images", h.uploadImage)
}

func (h *Handler) createSession(c *gin.Context) {
	id, ctrl := h.registry.Create(c.Request.Context())
	c.JSON(http.StatusCreated, h.sessionResponse(c, id, ctrl, false))
}

func (h *Handler) getSession(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c, c.Param("id"), ctrl, true))
}

func (h *Handler) getStep(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	step, valid := models.ParseStep(c.Param("step"))
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step must be 1, 2 or 3"})
		return
	}

	var data interface{} = gin.H{}
	if raw, found := ctrl.Prefill(step); found {
		data = raw
	}
	c.JSON(http.StatusOK, StepResponse{
		Step:  step,
		Title: h.catalog.Text(localeFrom(c, h.catalog), stepTitles[step]),
		Data:  data,
	})
}

func (h *Handler) advance(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	input, ok := h.readInput(c)
	if !ok {
		return
	}

	step := ctrl.View().Step
	fieldErrs, err := ctrl.Advance(c.Request.Context(), input)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		h.rejectFields(c, step, fieldErrs)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c, c.Param("id"), ctrl, false))
}

func (h *Handler) retreat(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	if err := ctrl.Retreat(); err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c, c.Param("id"), ctrl, false))
}

func (h *Handler) submit(c *gin.Context) {
	ctrl, ok := h.session(c)
	if !ok {
		return
	}
	input, ok := h.readInput(c)
	if !ok {
		return
	}

	fieldErrs, err := ctrl.Submit(c.Request.Context(), input)
	if err != nil {
		view := ctrl.View()
		if view.Failure == nil {
			h.responder.Respond(c, err)
			return
		}
		h.responder.RespondWith(c, err, map[string]interface{}{
			"class": view.Failure.Class,
			"error": h.failureText(localeFrom(c, h.catalog), view.Failure),
			"state": view.State,
		})
		return
	}
	if len(fieldErrs) > 0 {
		h.rejectFields(c, models.StepChurchInfo2, fieldErrs)
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(c, c.Param("id"), ctrl, false))
}

func (h *Handler) uploadImage(c *gin.Context) {
	tag := localeFrom(c, h.catalog)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.MaxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			err = imagenormalize.ErrImageTooLarge
		}
		h.rejectImage(c, tag, err)
		return
	}
	defer file.Close()

	uri, err := h.normalizer.Normalize(file, header.Size)
	if err != nil {
		h.rejectImage(c, tag, err)
		return
	}
	c.JSON(http.StatusOK, ImageResponse{DataURI: uri})
}

func (h *Handler) rejectImage(c *gin.Context, tag language.Tag, err error) {
	msg := h.catalog.Text(tag, imagenormalize.MessageKey(err))
	h.responder.Respond(c, errors.NewImageRejectedError(msg, err))
}

// session resolves :id, answering 404 itself when it is unknown.
func (h *Handler) session(c *gin.Context) (*wizardcontroller.Controller, bool) {
	ctrl, err := h.registry.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.Respond(c, err)
		return nil, false
	}
	return ctrl, true
}

// readInput returns the raw request body. An empty body reads as {} so the
// validators report missing fields rather than a malformed form.
func (h *Handler) readInput(c *gin.Context) (json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.responder.Respond(c, errors.NewInternalError(err))
		return nil, false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	return json.RawMessage(body), true
}

func (h *Handler) rejectFields(c *gin.Context, step models.StepNumber, fieldErrs models.FieldErrors) {
	tag := localeFrom(c, h.catalog)
	localized := make(models.FieldErrors, len(fieldErrs))
	for field, fe := range fieldErrs {
		if fe.Key != "" {
			fe.Message = h.catalog.Text(tag, fe.Key, fe.Args...)
		}
		localized[field] = fe
	}
	h.responder.RespondWith(c,
		errors.NewValidationFailedError(int(step), len(fieldErrs)),
		map[string]interface{}{"fieldErrors": localized},
	)
}

func (h *Handler) failureText(tag language.Tag, f *wizardcontroller.Failure) string {
	switch {
	case f.Class == wizardcontroller.FailureNetwork:
		return h.catalog.Text(tag, i18n.MsgSubmitNetwork)
	case f.Message == "" || f.Message == errors.GenericSubmitFailure:
		return h.catalog.Text(tag, i18n.MsgSubmitFailed)
	default:
		return f.Message
	}
}

func (h *Handler) sessionResponse(c *gin.Context, id string, ctrl *wizardcontroller.Controller, withDraft bool) SessionResponse {
	tag := localeFrom(c, h.catalog)
	view := ctrl.View()

	resp := SessionResponse{
		SessionID: id,
		State:     view.State,
		Step:      view.Step,
		Progress:  view.Progress,
		Ack:       view.Ack,
	}
	if view.State == wizardcontroller.StateCompleted {
		resp.Title = h.catalog.Text(tag, i18n.MsgDoneTitle)
	} else {
		resp.Title = h.catalog.Text(tag, stepTitles[view.Step])
	}
	if view.Failure != nil {
		resp.Failure = &wizardcontroller.Failure{
			Class:   view.Failure.Class,
			Message: h.failureText(tag, view.Failure),
		}
	}
	if withDraft {
		resp.Draft = ctrl.Draft()
	}
	return resp
}
