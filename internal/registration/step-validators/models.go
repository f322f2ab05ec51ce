// internal/registration/step-validators/models.go
package stepvalidators

import (
	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
)

// FormField is the key used for errors that are not tied to one field.
const FormField = "_form"

// Field error codes.
const (
	CodeMissingRequired = "MISSING_REQUIRED"
	CodeTooShort        = "TOO_SHORT"
	CodeInvalidOption   = "INVALID_OPTION"
	CodeInvalidType     = "INVALID_TYPE"
	CodeInvalidFormat   = "INVALID_FORMAT"
	CodeCountMismatch   = "COUNT_MISMATCH"
	CodeMalformed       = "MALFORMED"
)

type ServiceDependencies struct {
	Logger logger.Logger
}

type personalInfoInput struct {
	FullName        string `json:"fullName" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"min=10"`
	City            string `json:"city" validate:"required"`
	SubCity         string `json:"subCity"`
	EducationStatus string `json:"educationStatus"`
	WorkStatus      string `json:"workStatus"`
	JobField        string `json:"jobField"`
	CompanyName     string `json:"companyName"`
	PlaceOfWork     string `json:"placeOfWork"`
	PlaceOfSchool   string `json:"placeOfSchool"`
	FieldOfStudy    string `json:"fieldOfStudy"`
}

type churchInfo1Input struct {
	SavedDate          string   `json:"savedDate" validate:"required"`
	SavedChurch        string   `json:"savedChurch" validate:"required"`
	InviterFullName    string   `json:"inviterFullName"`
	InviterPhoneNumber string   `json:"inviterPhoneNumber" validate:"omitempty,min=10"`
	InvitationSource   string   `json:"invitationSource" validate:"omitempty,oneof='Social Media' 'Gospel TV'"`
	DoesServe          *bool    `json:"doesServe" validate:"required"`
	Department         []string `json:"department"`
	Trainings          []string `json:"trainings"`
}

type childInput struct {
	FullName string `json:"fullName"`
	Age      *int   `json:"age"`
	Image    string `json:"image"`
}

type churchInfo2Input struct {
	MaritalStatus        string       `json:"maritalStatus" validate:"required,oneof=married single divorced widow"`
	MinistryExperience   string       `json:"ministryExperience"`
	Comments             string       `json:"comments"`
	ChildrenAttendChurch bool         `json:"childrenAttendChurch"`
	NumberOfChildren     *int         `json:"numberOfChildren"`
	Children             []childInput `json:"children"`
	UserImage            string       `json:"userImage" validate:"required"`
}

// fieldMessages maps a field to the message shown when its own check fails.
var fieldMessages = map[string]string{
	"fullName":           i18n.MsgFullNameRequired,
	"phoneNumber":        i18n.MsgPhoneNumberMin,
	"city":               i18n.MsgCityRequired,
	"educationStatus":    i18n.MsgEducationStatusOneOf,
	"workStatus":         i18n.MsgWorkStatusOneOf,
	"savedDate":          i18n.MsgSavedDateRequired,
	"savedChurch":        i18n.MsgSavedChurchRequired,
	"inviterPhoneNumber": i18n.MsgInviterPhoneMin,
	"invitationSource":   i18n.MsgInvitationSourceOneOf,
	"doesServe":          i18n.MsgDoesServeRequired,
	"department":         i18n.MsgDepartmentRequired,
	"maritalStatus":      i18n.MsgMaritalStatusRequired,
	"userImage":          i18n.MsgUserImageRequired,
	"numberOfChildren":   i18n.MsgNumberOfChildrenMissing,
	"children":           i18n.MsgNumberOfChildrenMissing,
	"children.fullName":  i18n.MsgChildName,
	"children.age":       i18n.MsgChildAge,
	"children.image":     i18n.MsgChildImage,
}
