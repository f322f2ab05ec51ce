// internal/registration/wizard-controller/models.go
package wizardcontroller

import (
	"context"
	"encoding/json"

	"member-registration/internal/common/logger"
	"member-registration/internal/models"
)

// State is the wizard's position.
type State string

const (
	StateStep1            State = "step1"
	StateStep2            State = "step2"
	StateStep3            State = "step3"
	StateSubmitting       State = "submitting"
	StateSubmissionFailed State = "submission_failed"
	StateCompleted        State = "completed"
)

// FailureClass tells the user whether retrying after reconnecting may help.
type FailureClass string

const (
	FailureNetwork FailureClass = "network"
	FailureGeneric FailureClass = "generic"
)

// DraftStore is the persistence the controller needs. draftstore.Store satisfies it.
type DraftStore interface {
	Load(ctx context.Context) models.Draft
	Save(ctx context.Context, step models.StepNumber, stepData interface{}) error
	Clear(ctx context.Context)
}

type StepValidator interface {
	ValidateStep(step models.StepNumber, raw json.RawMessage) (interface{}, models.FieldErrors)
}

type Gateway interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (models.Ack, error)
}

type Notifier interface {
	Notify(ctx context.Context, info models.PersonalInfo) error
}

type ServiceDependencies struct {
	Logger    logger.Logger
	Store     DraftStore
	Validator StepValidator
	Gateway   Gateway
	// Notifier is optional.
	Notifier Notifier
	// OnComplete, when set, runs once after a successful submission.
	OnComplete func()
}

// Failure describes the last failed submission.
type Failure struct {
	Class   FailureClass `json:"class"`
	Message string       `json:"message"`
}

// View is a point-in-time snapshot of a controller.
type View struct {
	State    State             `json:"state"`
	Step     models.StepNumber `json:"step,omitempty"`
	Progress int               `json:"progress"`
	Failure  *Failure          `json:"failure,omitempty"`
	Ack      *models.Ack       `json:"ack,omitempty"`
}
