// internal/models/registration.go
package models

import (
	"encoding/json"
	"sort"
	"strconv"
)

// StepNumber identifies one data-entry page of the wizard.
type StepNumber int

const (
	StepPersonalInfo StepNumber = 1
	StepChurchInfo1  StepNumber = 2
	StepChurchInfo2  StepNumber = 3
)

// Steps lists the data-entry steps in order.
var Steps = []StepNumber{StepPersonalInfo, StepChurchInfo1, StepChurchInfo2}

func (s StepNumber) Valid() bool {
	return s >= StepPersonalInfo && s <= StepChurchInfo2
}

func (s StepNumber) String() string {
	return strconv.Itoa(int(s))
}

// ParseStep converts "1".."3" into a StepNumber.
func ParseStep(v string) (StepNumber, bool) {
	n, err := strconv.Atoi(v)
	if err != nil || !StepNumber(n).Valid() {
		return 0, false
	}
	return StepNumber(n), true
}

// Draft maps each completed step to its last validated field object.
// It marshals as {"1": {...}, "2": {...}, "3": {...}}.
type Draft map[StepNumber]json.RawMessage

func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Has reports whether step has been committed.
func (d Draft) Has(step StepNumber) bool {
	_, ok := d[step]
	return ok
}

// --- Step 1 ---

// Work status values offered by the form.
const (
	WorkStatusEmployee     = "Employee"
	WorkStatusSelfEmployed = "Self-Employed"
	WorkStatusUnemployed   = "Unemployed"
	WorkStatusStudent      = "Student"
)

var WorkStatuses = []string{WorkStatusEmployee, WorkStatusSelfEmployed, WorkStatusUnemployed, WorkStatusStudent}

var EducationStatuses = []string{"Other", "High School", "Bachelor's", "Master's", "PhD"}

// PersonalInfo is the validated step 1 slice. The occupation fields that
// apply depend on WorkStatus and are carried as a tagged variant.
type PersonalInfo struct {
	FullName        string
	PhoneNumber     string
	City            string
	SubCity         string
	EducationStatus string
	WorkStatus      string
	Occupation      Occupation
}

// Occupation is either Student or Worker.
type Occupation interface {
	occupation()
}

type Student struct {
	PlaceOfSchool string
	FieldOfStudy  string
}

type Worker struct {
	JobField    string
	CompanyName string
	PlaceOfWork string
}

func (Student) occupation() {}
func (Worker) occupation()  {}

// personalInfoWire is the flat layout used in drafts and on the wire.
type personalInfoWire struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	City            string `json:"city"`
	SubCity         string `json:"subCity"`
	EducationStatus string `json:"educationStatus"`
	WorkStatus      string `json:"workStatus"`
	JobField        string `json:"jobField"`
	CompanyName     string `json:"companyName"`
	PlaceOfWork     string `json:"placeOfWork"`
	PlaceOfSchool   string `json:"placeOfSchool"`
	FieldOfStudy    string `json:"fieldOfStudy"`
}

func (p PersonalInfo) MarshalJSON() ([]byte, error) {
	w := personalInfoWire{
		FullName:        p.FullName,
		PhoneNumber:     p.PhoneNumber,
		City:            p.City,
		SubCity:         p.SubCity,
		EducationStatus: p.EducationStatus,
		WorkStatus:      p.WorkStatus,
	}
	switch o := p.Occupation.(type) {
	case Student:
		w.PlaceOfSchool, w.FieldOfStudy = o.PlaceOfSchool, o.FieldOfStudy
	case Worker:
		w.JobField, w.CompanyName, w.PlaceOfWork = o.JobField, o.CompanyName, o.PlaceOfWork
	}
	return json.Marshal(w)
}

func (p *PersonalInfo) UnmarshalJSON(data []byte) error {
	var w personalInfoWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = PersonalInfo{
		FullName:        w.FullName,
		PhoneNumber:     w.PhoneNumber,
		City:            w.City,
		SubCity:         w.SubCity,
		EducationStatus: w.EducationStatus,
		WorkStatus:      w.WorkStatus,
	}
	if w.WorkStatus == WorkStatusStudent {
		p.Occupation = Student{PlaceOfSchool: w.PlaceOfSchool, FieldOfStudy: w.FieldOfStudy}
	} else {
		p.Occupation = Worker{JobField: w.JobField, CompanyName: w.CompanyName, PlaceOfWork: w.PlaceOfWork}
	}
	return nil
}

// --- Step 2 ---

var InvitationSources = []string{"Social Media", "Gospel TV"}

// Departments maps department values to their display labels.
var Departments = map[string]string{
	"it":                  "IT Team",
	"anakazo":             "Anakazo",
	"follow_up":           "Follow up",
	"foundation_teachers": "Foundation teachers",
	"art":                 "Art Ministry",
	"media":               "Media and Sound",
	"childeren":           "Children Ministry",
	"army":                "A.R.M.Y",
	"usher":               "Ushers",
	"zoe_one":             "Zoe Choir One",
	"zoe_two":             "Zoe Choir Two",
	"zoe_three":           "Zoe Choir Three",
	"zoe_four":            "Zoe Choir Four",
	"zoe_five":            "Zoe Choir Five",
}

// Trainings maps training ids to their display labels.
var Trainings = map[string]string{
	"restoration":        "Restoration",
	"foundation_one":     "Foundation One",
	"foundation_two":     "Foundation Two",
	"ministers_training": "Ministers Training",
}

type ChurchInfo1 struct {
	SavedDate          string   `json:"savedDate"`
	SavedChurch        string   `json:"savedChurch"`
	InviterFullName    string   `json:"inviterFullName"`
	InviterPhoneNumber string   `json:"inviterPhoneNumber"`
	InvitationSource   string   `json:"invitationSource"`
	DoesServe          bool     `json:"doesServe"`
	Department         []string `json:"department"`
	Trainings          []string `json:"trainings"`
}

// --- Step 3 ---

var MaritalStatuses = []string{"married", "single", "divorced", "widow"}

type Child struct {
	FullName string `json:"fullName"`
	Age      int    `json:"age"`
	Image    string `json:"image"`
}

type ChurchInfo2 struct {
	MaritalStatus        string  `json:"maritalStatus"`
	MinistryExperience   string  `json:"ministryExperience"`
	Comments             string  `json:"comments"`
	ChildrenAttendChurch bool    `json:"childrenAttendChurch"`
	NumberOfChildren     *int    `json:"numberOfChildren,omitempty"`
	Children             []Child `json:"children,omitempty"`
	UserImage            string  `json:"userImage"`
}

// --- Submission ---

// SpiritualInfo is the union of steps 2 and 3.
type SpiritualInfo struct {
	ChurchInfo1
	ChurchInfo2
}

// SubmissionPayload is the body sent to the member backend.
type SubmissionPayload struct {
	PersonalInfo  PersonalInfo  `json:"personalInfo"`
	SpiritualInfo SpiritualInfo `json:"spiritualInfo"`
}

// Ack is what a successful submission returns.
type Ack struct {
	Status      int             `json:"status"`
	Body        json.RawMessage `json:"body,omitempty"`
	InstanceKey int64           `json:"instanceKey,omitempty"`
}

// --- Validation feedback ---

// FieldError is one user-correctable problem. Key and Args let the message be
// rendered in another locale.
type FieldError struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Key     string        `json:"-"`
	Args    []interface{} `json:"-"`
}

// FieldErrors is keyed by field path, e.g. "department" or "children.0.image".
type FieldErrors map[string]FieldError

// Add records err for field unless the field already has one.
func (fe FieldErrors) Add(field string, err FieldError) {
	if _, exists := fe[field]; exists {
		return
	}
	fe[field] = err
}

func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Fields returns the failing field paths in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
