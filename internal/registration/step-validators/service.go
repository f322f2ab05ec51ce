// internal/registration/step-validators/service.go
package stepvalidators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"
	"member-registration/internal/models"
	imagenormalize "member-registration/internal/registration/image-normalize"

	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validator checks one step's raw input and returns the normalized step data.
// It holds no state beyond its configuration.
type Validator struct {
	config *Config
	logger logger.Logger
}

func NewValidator(deps ServiceDependencies, cfg *Config) *Validator {
	return &Validator{
		config: cfg,
		logger: deps.Logger,
	}
}

// ValidateStep dispatches raw to the validator for step. data is nil whenever
// errs is non-empty.
func (v *Validator) ValidateStep(step models.StepNumber, raw json.RawMessage) (data interface{}, errs models.FieldErrors) {
	switch step {
	case models.StepPersonalInfo:
		info, fe := v.ValidatePersonalInfo(raw)
		data, errs = info, fe
	case models.StepChurchInfo1:
		info, fe := v.ValidateChurchInfo1(raw)
		data, errs = info, fe
	case models.StepChurchInfo2:
		info, fe := v.ValidateChurchInfo2(raw)
		data, errs = info, fe
	default:
		errs = models.FieldErrors{}
		errs.Add(FormField, newFieldError(CodeMalformed, i18n.MsgFormMalformed))
	}

	result := "valid"
	if len(errs) > 0 {
		result = "invalid"
		data = nil
		v.logger.Debug("step rejected", map[string]interface{}{
			"step":   int(step),
			"fields": errs.Fields(),
		})
	}
	metrics.StepValidations.WithLabelValues(step.String(), result).Inc()
	return data, errs
}

// ValidatePersonalInfo validates step 1. Only the occupation fields matching
// workStatus survive into the result.
func (v *Validator) ValidatePersonalInfo(raw json.RawMessage) (models.PersonalInfo, models.FieldErrors) {
	var in personalInfoInput
	errs := models.FieldErrors{}
	if !decode(raw, &in, errs) {
		return models.PersonalInfo{}, errs
	}
	trim(&in.FullName, &in.PhoneNumber, &in.City, &in.SubCity, &in.EducationStatus, &in.WorkStatus,
		&in.JobField, &in.CompanyName, &in.PlaceOfWork, &in.PlaceOfSchool, &in.FieldOfStudy)

	checkStruct(in, errs)
	if in.EducationStatus != "" && !slices.Contains(models.EducationStatuses, in.EducationStatus) {
		errs.Add("educationStatus", fieldErrorFor("educationStatus", CodeInvalidOption))
	}
	if in.WorkStatus != "" && !slices.Contains(models.WorkStatuses, in.WorkStatus) {
		errs.Add("workStatus", fieldErrorFor("workStatus", CodeInvalidOption))
	}
	if len(errs) > 0 {
		return models.PersonalInfo{}, errs
	}

	info := models.PersonalInfo{
		FullName:        in.FullName,
		PhoneNumber:     in.PhoneNumber,
		City:            in.City,
		SubCity:         in.SubCity,
		EducationStatus: in.EducationStatus,
		WorkStatus:      in.WorkStatus,
	}
	if in.WorkStatus == models.WorkStatusStudent {
		info.Occupation = models.Student{PlaceOfSchool: in.PlaceOfSchool, FieldOfStudy: in.FieldOfStudy}
	} else {
		info.Occupation = models.Worker{JobField: in.JobField, CompanyName: in.CompanyName, PlaceOfWork: in.PlaceOfWork}
	}
	return info, nil
}

// ValidateChurchInfo1 validates step 2. department is required when doesServe
// is true and dropped when it is false.
func (v *Validator) ValidateChurchInfo1(raw json.RawMessage) (models.ChurchInfo1, models.FieldErrors) {
	var in churchInfo1Input
	errs := models.FieldErrors{}
	if !decode(raw, &in, errs) {
		return models.ChurchInfo1{}, errs
	}
	trim(&in.SavedDate, &in.SavedChurch, &in.InviterFullName, &in.InviterPhoneNumber, &in.InvitationSource)

	checkStruct(in, errs)

	serves := in.DoesServe != nil && *in.DoesServe
	if serves {
		if len(in.Department) == 0 {
			errs.Add("department", fieldErrorFor("department", CodeMissingRequired))
		}
		for _, d := range in.Department {
			if _, ok := models.Departments[d]; !ok {
				errs.Add("department", newFieldError(CodeInvalidOption, i18n.MsgDepartmentUnknown, d))
			}
		}
	}
	for _, tr := range in.Trainings {
		if _, ok := models.Trainings[tr]; !ok {
			errs.Add("trainings", newFieldError(CodeInvalidOption, i18n.MsgTrainingUnknown, tr))
		}
	}
	if len(errs) > 0 {
		return models.ChurchInfo1{}, errs
	}

	out := models.ChurchInfo1{
		SavedDate:          in.SavedDate,
		SavedChurch:        in.SavedChurch,
		InviterFullName:    in.InviterFullName,
		InviterPhoneNumber: in.InviterPhoneNumber,
		InvitationSource:   in.InvitationSource,
		DoesServe:          serves,
		Department:         []string{},
		Trainings:          append([]string{}, in.Trainings...),
	}
	if serves {
		out.Department = append(out.Department, in.Department...)
	}
	return out, nil
}

// ValidateChurchInfo2 validates step 3. When childrenAttendChurch is true,
// numberOfChildren must be at least 1 and exactly that many children must be given.
func (v *Validator) ValidateChurchInfo2(raw json.RawMessage) (models.ChurchInfo2, models.FieldErrors) {
	var in churchInfo2Input
	errs := models.FieldErrors{}
	if !decode(raw, &in, errs) {
		return models.ChurchInfo2{}, errs
	}
	trim(&in.MaritalStatus, &in.MinistryExperience, &in.Comments)

	checkStruct(in, errs)
	if in.UserImage != "" {
		v.checkImage("userImage", in.UserImage, errs)
	}

	var children []models.Child
	if in.ChildrenAttendChurch {
		children = v.checkChildren(in, errs)
	}
	if len(errs) > 0 {
		return models.ChurchInfo2{}, errs
	}

	out := models.ChurchInfo2{
		MaritalStatus:        in.MaritalStatus,
		MinistryExperience:   in.MinistryExperience,
		Comments:             in.Comments,
		ChildrenAttendChurch: in.ChildrenAttendChurch,
		UserImage:            in.UserImage,
	}
	if in.ChildrenAttendChurch {
		n := *in.NumberOfChildren
		out.NumberOfChildren = &n
		out.Children = children
	}
	return out, nil
}

func (v *Validator) checkChildren(in churchInfo2Input, errs models.FieldErrors) []models.Child {
	if in.NumberOfChildren == nil || *in.NumberOfChildren < 1 {
		errs.Add("numberOfChildren", fieldErrorFor("numberOfChildren", CodeMissingRequired))
		return nil
	}
	if len(in.Children) != *in.NumberOfChildren {
		errs.Add("children", newFieldError(CodeCountMismatch, i18n.MsgChildrenCount, *in.NumberOfChildren))
	}

	children := make([]models.Child, 0, len(in.Children))
	for i, c := range in.Children {
		prefix := fmt.Sprintf("children.%d.", i)
		name := strings.TrimSpace(c.FullName)
		if name == "" {
			errs.Add(prefix+"fullName", newFieldError(CodeMissingRequired, i18n.MsgChildName))
		}
		if c.Age == nil || *c.Age < 0 {
			errs.Add(prefix+"age", newFieldError(CodeInvalidFormat, i18n.MsgChildAge))
		}
		if c.Image == "" {
			errs.Add(prefix+"image", newFieldError(CodeMissingRequired, i18n.MsgChildImage))
		} else {
			v.checkImage(prefix+"image", c.Image, errs)
		}

		child := models.Child{FullName: name, Image: c.Image}
		if c.Age != nil {
			child.Age = *c.Age
		}
		children = append(children, child)
	}
	return children
}

func (v *Validator) checkImage(field, value string, errs models.FieldErrors) {
	if _, err := imagenormalize.VerifyDataURI(value, v.config.Images); err != nil {
		errs.Add(field, newFieldError(CodeInvalidFormat, imagenormalize.MessageKey(err)))
	}
}

// decode unmarshals raw into dst. A type mismatch on one field becomes an
// error on that field and decoding of the rest continues; anything else is a
// form-level error and decode returns false.
func decode(raw json.RawMessage, dst interface{}, errs models.FieldErrors) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	err := json.Unmarshal(raw, dst)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, fieldErrorFor(typeErr.Field, CodeInvalidType))
		return true
	}
	errs.Add(FormField, newFieldError(CodeMalformed, i18n.MsgFormMalformed))
	return false
}

func checkStruct(s interface{}, errs models.FieldErrors) {
	var verrs validator.ValidationErrors
	if !errors.As(validate.Struct(s), &verrs) {
		return
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), fieldErrorFor(fe.Field(), codeForTag(fe.Tag())))
	}
}

func codeForTag(tag string) string {
	switch tag {
	case "required":
		return CodeMissingRequired
	case "min":
		return CodeTooShort
	case "oneof":
		return CodeInvalidOption
	default:
		return CodeInvalidFormat
	}
}

func fieldErrorFor(field, code string) models.FieldError {
	key, ok := fieldMessages[field]
	if !ok {
		key = i18n.MsgFormMalformed
	}
	return newFieldError(code, key)
}

func newFieldError(code, key string, args ...interface{}) models.FieldError {
	return models.FieldError{
		Code:    code,
		Message: i18n.English(key, args...),
		Key:     key,
		Args:    args,
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
