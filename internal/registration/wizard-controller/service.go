// internal/registration/wizard-controller/service.go
package wizardcontroller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"
	"member-registration/internal/models"
)

// Controller drives one wizard session. All methods are safe for concurrent
// use. Operations are serialized except the gateway call inside Submit.
type Controller struct {
	mu sync.Mutex

	config    *Config
	logger    logger.Logger
	store     DraftStore
	validator StepValidator
	gateway   Gateway
	notifier  Notifier

	onComplete func()

	state   State
	draft   models.Draft
	failure *Failure
	ack     *models.Ack
}

// NewController restores the persisted draft and starts at step 1.
func NewController(ctx context.Context, deps ServiceDependencies, cfg *Config) *Controller {
	return &Controller{
		config:    cfg,
		logger:    deps.Logger,
		store:     deps.Store,
		validator: deps.Validator,
		gateway:   deps.Gateway,
		notifier:  deps.Notifier,

		onComplete: deps.OnComplete,

		state: StateStep1,
		draft: deps.Store.Load(ctx),
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress reports completion as a percentage.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return progressOf(c.state)
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:    c.state,
		Step:     stepOf(c.state),
		Progress: progressOf(c.state),
		Failure:  c.failure,
		Ack:      c.ack,
	}
	return v
}

// Draft returns a copy of the committed step slices.
func (c *Controller) Draft() models.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Prefill returns the committed data for step so a form can be restored.
func (c *Controller) Prefill(step models.StepNumber) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.draft[step]
	if !ok {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// Advance validates input for the current step. On success the step is
// committed and the wizard moves on; on failure the state is unchanged and
// the field errors are returned.
func (c *Controller) Advance(ctx context.Context, input json.RawMessage) (models.FieldErrors, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next State
	switch c.state {
	case StateStep1:
		next = StateStep2
	case StateStep2:
		next = StateStep3
	default:
		return nil, errors.NewInvalidTransitionError("advance", string(c.state))
	}

	step := stepOf(c.state)
	data, fieldErrs := c.validator.ValidateStep(step, input)
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}
	if err := c.commit(ctx, step, data); err != nil {
		return nil, err
	}
	c.transition(next)
	return nil, nil
}

// Retreat moves to the previous step without validating or saving.
func (c *Controller) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateStep2:
		c.transition(StateStep1)
	case StateStep3, StateSubmissionFailed:
		c.failure = nil
		c.transition(StateStep2)
	default:
		return errors.NewInvalidTransitionError("retreat", string(c.state))
	}
	return nil
}

// Submit validates and commits step 3, then sends the assembled payload.
// A gateway failure leaves the wizard in SubmissionFailed with every step's
// data intact; calling Submit again retries.
//
// The gateway call runs without holding the controller lock, so View reports
// Submitting meanwhile. Submitting itself refuses a second Submit.
func (c *Controller) Submit(ctx context.Context, input json.RawMessage) (models.FieldErrors, error) {
	payload, fieldErrs, err := c.beginSubmit(ctx, input)
	if err != nil || len(fieldErrs) > 0 {
		return fieldErrs, err
	}

	submitCtx := ctx
	if c.config.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, c.config.SubmitTimeout)
		defer cancel()
	}

	ack, err := c.gateway.Submit(submitCtx, payload)
	if err := c.finishSubmit(ctx, ack, err); err != nil {
		return nil, err
	}

	c.logger.Info("registration submitted", map[string]interface{}{
		"status":      ack.Status,
		"instanceKey": ack.InstanceKey,
	})
	if c.onComplete != nil {
		c.onComplete()
	}
	if c.notifier != nil {
		if err := c.notifier.Notify(ctx, payload.PersonalInfo); err != nil {
			c.logger.WithError(err).Warn("member notification failed", nil)
		}
	}
	return nil, nil
}

// beginSubmit validates and commits step 3 and moves to Submitting.
func (c *Controller) beginSubmit(ctx context.Context, input json.RawMessage) (models.SubmissionPayload, models.FieldErrors, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateStep3 && c.state != StateSubmissionFailed {
		return models.SubmissionPayload{}, nil, errors.NewInvalidTransitionError("submit", string(c.state))
	}

	data, fieldErrs := c.validator.ValidateStep(models.StepChurchInfo2, input)
	if len(fieldErrs) > 0 {
		return models.SubmissionPayload{}, fieldErrs, nil
	}
	if err := c.commit(ctx, models.StepChurchInfo2, data); err != nil {
		return models.SubmissionPayload{}, nil, err
	}

	payload, err := AssemblePayload(c.draft)
	if err != nil {
		return models.SubmissionPayload{}, nil, errors.NewInternalError(err)
	}

	c.failure = nil
	c.transition(StateSubmitting)
	return payload, nil, nil
}

// finishSubmit records the gateway outcome. It returns gatewayErr unchanged.
func (c *Controller) finishSubmit(ctx context.Context, ack models.Ack, gatewayErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gatewayErr != nil {
		c.failure = classify(gatewayErr)
		c.transition(StateSubmissionFailed)
		c.logger.WithError(gatewayErr).Warn("submission failed", map[string]interface{}{
			"class": string(c.failure.Class),
		})
		return gatewayErr
	}

	c.ack = &ack
	c.transition(StateCompleted)
	c.store.Clear(ctx)
	c.draft = models.Draft{}
	return nil
}

func (c *Controller) commit(ctx context.Context, step models.StepNumber, data interface{}) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("encode step %d: %w", step, err))
	}
	c.draft[step] = encoded
	if err := c.store.Save(ctx, step, json.RawMessage(encoded)); err != nil {
		c.logger.WithError(err).Warn("draft save failed", map[string]interface{}{"step": int(step)})
	}
	return nil
}

func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	metrics.WizardTransitions.WithLabelValues(string(from), string(to)).Inc()
	c.logger.Debug("wizard transition", map[string]interface{}{
		"from": string(from),
		"to":   string(to),
	})
}

func classify(err error) *Failure {
	stdErr := errors.AsStandard(err)
	class := FailureGeneric
	if stdErr.Code == errors.ErrCodeSubmissionNetworkFailed {
		class = FailureNetwork
	}
	msg := stdErr.Message
	if stdErr.Code != errors.ErrCodeSubmissionRejected {
		msg = errors.GenericSubmitFailure
	}
	return &Failure{Class: class, Message: msg}
}

func stepOf(s State) models.StepNumber {
	switch s {
	case StateStep1:
		return models.StepPersonalInfo
	case StateStep2:
		return models.StepChurchInfo1
	case StateStep3, StateSubmitting, StateSubmissionFailed:
		return models.StepChurchInfo2
	default:
		return 0
	}
}

func progressOf(s State) int {
	switch s {
	case StateStep2:
		return 25
	case StateStep3, StateSubmitting, StateSubmissionFailed:
		return 75
	case StateCompleted:
		return 100
	default:
		return 0
	}
}

// AssemblePayload builds the submission body from a complete draft: step 1
// becomes personalInfo and steps 2 and 3 are merged into spiritualInfo.
// Optional text is trimmed and absent lists become empty.
func AssemblePayload(draft models.Draft) (models.SubmissionPayload, error) {
	var payload models.SubmissionPayload
	for _, step := range models.Steps {
		if !draft.Has(step) {
			return payload, fmt.Errorf("draft is missing step %d", step)
		}
	}

	if err := json.Unmarshal(draft[models.StepPersonalInfo], &payload.PersonalInfo); err != nil {
		return payload, fmt.Errorf("decode step 1: %w", err)
	}
	if err := json.Unmarshal(draft[models.StepChurchInfo1], &payload.SpiritualInfo.ChurchInfo1); err != nil {
		return payload, fmt.Errorf("decode step 2: %w", err)
	}
	if err := json.Unmarshal(draft[models.StepChurchInfo2], &payload.SpiritualInfo.ChurchInfo2); err != nil {
		return payload, fmt.Errorf("decode step 3: %w", err)
	}

	p := &payload.PersonalInfo
	trimAll(&p.FullName, &p.PhoneNumber, &p.City, &p.SubCity, &p.EducationStatus, &p.WorkStatus)
	switch o := p.Occupation.(type) {
	case models.Student:
		trimAll(&o.PlaceOfSchool, &o.FieldOfStudy)
		p.Occupation = o
	case models.Worker:
		trimAll(&o.JobField, &o.CompanyName, &o.PlaceOfWork)
		p.Occupation = o
	}

	c1 := &payload.SpiritualInfo.ChurchInfo1
	trimAll(&c1.SavedDate, &c1.SavedChurch, &c1.InviterFullName, &c1.InviterPhoneNumber, &c1.InvitationSource)
	if c1.Department == nil || !c1.DoesServe {
		c1.Department = []string{}
	}
	if c1.Trainings == nil {
		c1.Trainings = []string{}
	}

	c2 := &payload.SpiritualInfo.ChurchInfo2
	trimAll(&c2.MaritalStatus, &c2.MinistryExperience, &c2.Comments)
	if !c2.ChildrenAttendChurch {
		c2.NumberOfChildren = nil
		c2.Children = nil
	}
	for i := range c2.Children {
		c2.Children[i].FullName = strings.TrimSpace(c2.Children[i].FullName)
	}
	return payload, nil
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
