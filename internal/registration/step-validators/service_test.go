package stepvalidators

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"testing"

	"member-registration/internal/common/config"
	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	return NewValidator(ServiceDependencies{Logger: logger.NewTestLogger(t)}, LoadConfig(config.ImageConfig{}))
}

func photo(t *testing.T) string {
	return pngURI(t, 4, 4)
}

func pngURI(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func htmlURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("<html>not an image</html>"))
}

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func dawit() map[string]interface{} {
	return map[string]interface{}{
		"fullName":        "Dawit Abraham",
		"phoneNumber":     "0911223344",
		"city":            "Addis Ababa",
		"subCity":         "Bole",
		"educationStatus": "Bachelor's",
		"workStatus":      "Employee",
		"jobField":        "Software",
		"companyName":     "Ethio Tech",
		"placeOfWork":     "Bole",
		"placeOfSchool":   "AAU",
		"fieldOfStudy":    "CS",
	}
}

func with(base map[string]interface{}, kv ...interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base))
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}

func TestValidatePersonalInfo(t *testing.T) {
	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
	}{
		{name: "valid employee", input: dawit()},
		{name: "only required fields", input: map[string]interface{}{"fullName": "Dawit", "phoneNumber": "0911223344", "city": "Adama"}},
		{name: "missing full name", input: with(dawit(), "fullName", ""), wantFields: []string{"fullName"}},
		{name: "whitespace full name", input: with(dawit(), "fullName", "   "), wantFields: []string{"fullName"}},
		{name: "short phone", input: with(dawit(), "phoneNumber", "09112"), wantFields: []string{"phoneNumber"}},
		{name: "missing city", input: with(dawit(), "city", ""), wantFields: []string{"city"}},
		{name: "unknown education", input: with(dawit(), "educationStatus", "Diploma"), wantFields: []string{"educationStatus"}},
		{name: "unknown work status", input: with(dawit(), "workStatus", "Retired"), wantFields: []string{"workStatus"}},
		{name: "phone as number", input: with(dawit(), "phoneNumber", 911223344), wantFields: []string{"phoneNumber"}},
		{name: "empty object", input: map[string]interface{}{}, wantFields: []string{"city", "fullName", "phoneNumber"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := newValidator(t).ValidatePersonalInfo(raw(t, tt.input))
			assert.Equal(t, len(tt.wantFields), len(errs), "errors: %v", errs)
			for _, f := range tt.wantFields {
				assert.True(t, errs.Has(f), "expected error on %s", f)
			}
		})
	}
}

func TestValidatePersonalInfo_OccupationVariant(t *testing.T) {
	v := newValidator(t)

	info, errs := v.ValidatePersonalInfo(raw(t, dawit()))
	require.Empty(t, errs)
	assert.Equal(t, models.Worker{JobField: "Software", CompanyName: "Ethio Tech", PlaceOfWork: "Bole"}, info.Occupation)

	info, errs = v.ValidatePersonalInfo(raw(t, with(dawit(), "workStatus", "Student")))
	require.Empty(t, errs)
	assert.Equal(t, models.Student{PlaceOfSchool: "AAU", FieldOfStudy: "CS"}, info.Occupation)

	out, err := json.Marshal(info)
	require.NoError(t, err)
	var flat map[string]string
	require.NoError(t, json.Unmarshal(out, &flat))
	assert.Equal(t, "", flat["jobField"])
	assert.Equal(t, "", flat["companyName"])
	assert.Equal(t, "AAU", flat["placeOfSchool"])
}

func churchOne() map[string]interface{} {
	return map[string]interface{}{
		"savedDate":          "2015",
		"savedChurch":        "Grace Life Church",
		"inviterFullName":    "Mekdes",
		"inviterPhoneNumber": "0912345678",
		"invitationSource":   "Gospel TV",
		"doesServe":          true,
		"department":         []string{"it", "childeren"},
		"trainings":          []string{"restoration"},
	}
}

func TestValidateChurchInfo1(t *testing.T) {
	tests := []struct {
		name       string
		input      interface{}
		wantFields []string
	}{
		{name: "valid", input: churchOne()},
		{name: "serves without department", input: with(churchOne(), "department", []string{}), wantFields: []string{"department"}},
		{name: "serves with null department", input: with(churchOne(), "department", nil), wantFields: []string{"department"}},
		{name: "does not serve without department", input: with(churchOne(), "doesServe", false, "department", []string{})},
		{name: "doesServe missing", input: with(churchOne(), "doesServe", nil), wantFields: []string{"doesServe"}},
		{name: "doesServe wrong type", input: with(churchOne(), "doesServe", "yes"), wantFields: []string{"doesServe"}},
		{name: "saved fields required", input: with(churchOne(), "savedDate", "", "savedChurch", ""), wantFields: []string{"savedChurch", "savedDate"}},
		{name: "inviter phone empty is fine", input: with(churchOne(), "inviterPhoneNumber", "")},
		{name: "inviter phone short", input: with(churchOne(), "inviterPhoneNumber", "0912"), wantFields: []string{"inviterPhoneNumber"}},
		{name: "invitation source unknown", input: with(churchOne(), "invitationSource", "Radio"), wantFields: []string{"invitationSource"}},
		{name: "invitation source social media", input: with(churchOne(), "invitationSource", "Social Media")},
		{name: "unknown department", input: with(churchOne(), "department", []string{"choir"}), wantFields: []string{"department"}},
		{name: "unknown training", input: with(churchOne(), "trainings", []string{"bootcamp"}), wantFields: []string{"trainings"}},
		{name: "trainings optional", input: with(churchOne(), "trainings", []string{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := newValidator(t).ValidateChurchInfo1(raw(t, tt.input))
			assert.Equal(t, len(tt.wantFields), len(errs), "errors: %v", errs)
			for _, f := range tt.wantFields {
				assert.True(t, errs.Has(f), "expected error on %s", f)
			}
		})
	}
}

func TestValidateChurchInfo1_ClearsDepartment(t *testing.T) {
	out, errs := newValidator(t).ValidateChurchInfo1(raw(t, with(churchOne(), "doesServe", false)))
	require.Empty(t, errs)
	assert.False(t, out.DoesServe)
	assert.Empty(t, out.Department)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"department":[]`)
}

func TestValidateChurchInfo1_DepartmentMessage(t *testing.T) {
	_, errs := newValidator(t).ValidateChurchInfo1(raw(t, with(churchOne(), "department", []string{})))
	fe := errs["department"]
	assert.Equal(t, CodeMissingRequired, fe.Code)
	assert.Equal(t, "Please select at least one department if you serve.", fe.Message)
	assert.Equal(t, "የሚያገለግሉ ከሆነ እባክዎ ቢያንስ አንድ ክፍል ይምረጡ።",
		i18n.Default().Text(language.MustParse("am"), fe.Key, fe.Args...))
}

func churchTwo(t *testing.T, children ...map[string]interface{}) map[string]interface{} {
	in := map[string]interface{}{
		"maritalStatus":        "married",
		"ministryExperience":   "  Sunday school  ",
		"comments":             "",
		"childrenAttendChurch": len(children) > 0,
		"userImage":            photo(t),
	}
	if len(children) > 0 {
		in["numberOfChildren"] = len(children)
		in["children"] = children
	}
	return in
}

func child(t *testing.T, name string, age int) map[string]interface{} {
	return map[string]interface{}{"fullName": name, "age": age, "image": photo(t)}
}

func TestValidateChurchInfo2(t *testing.T) {
	three := func() map[string]interface{} {
		return churchTwo(t, child(t, "Liya", 3), child(t, "Nahom", 0), child(t, "Saron", 12))
	}

	tests := []struct {
		name       string
		input      map[string]interface{}
		wantFields []string
	}{
		{name: "no children", input: churchTwo(t)},
		{name: "three children", input: three()},
		{name: "count below number", input: with(three(), "children", []interface{}{child(t, "Liya", 3), child(t, "Nahom", 1)}), wantFields: []string{"children"}},
		{name: "number zero", input: with(three(), "numberOfChildren", 0), wantFields: []string{"numberOfChildren"}},
		{name: "number missing", input: with(three(), "numberOfChildren", nil), wantFields: []string{"numberOfChildren"}},
		{name: "negative age", input: with(three(), "children", []interface{}{child(t, "Liya", 3), child(t, "Nahom", -1), child(t, "Saron", 12)}), wantFields: []string{"children.1.age"}},
		{
			name: "child without image or name",
			input: with(three(), "children", []interface{}{
				child(t, "Liya", 3),
				child(t, "Nahom", 1),
				map[string]interface{}{"fullName": " ", "age": 4, "image": ""},
			}),
			wantFields: []string{"children.2.fullName", "children.2.image"},
		},
		{name: "child image not a data uri", input: with(three(), "children", []interface{}{child(t, "Liya", 3), child(t, "Nahom", 1), map[string]interface{}{"fullName": "Saron", "age": 4, "image": "saron.png"}}), wantFields: []string{"children.2.image"}},
		{name: "user image required", input: with(churchTwo(t), "userImage", ""), wantFields: []string{"userImage"}},
		{name: "user image not a data uri", input: with(churchTwo(t), "userImage", "http://example.org/me.jpg"), wantFields: []string{"userImage"}},
		{name: "user image is html", input: with(churchTwo(t), "userImage", htmlURI()), wantFields: []string{"userImage"}},
		{name: "user image is garbage", input: with(churchTwo(t), "userImage", "data:image/png;base64,AAAA"), wantFields: []string{"userImage"}},
		{name: "user image too wide", input: with(churchTwo(t), "userImage", pngURI(t, 4000, 10)), wantFields: []string{"userImage"}},
		{name: "user image at width limit", input: with(churchTwo(t), "userImage", pngURI(t, 500, 2))},
		{
			name: "child image too wide",
			input: with(three(), "children", []interface{}{
				child(t, "Liya", 3),
				map[string]interface{}{"fullName": "Nahom", "age": 1, "image": pngURI(t, 1200, 4)},
				child(t, "Saron", 12),
			}),
			wantFields: []string{"children.1.image"},
		},
		{name: "marital status unknown", input: with(churchTwo(t), "maritalStatus", "engaged"), wantFields: []string{"maritalStatus"}},
		{name: "marital status missing", input: with(churchTwo(t), "maritalStatus", ""), wantFields: []string{"maritalStatus"}},
		{name: "children ignored when not attending", input: with(three(), "childrenAttendChurch", false, "numberOfChildren", 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := newValidator(t).ValidateChurchInfo2(raw(t, tt.input))
			assert.Equal(t, len(tt.wantFields), len(errs), "errors: %v", errs.Fields())
			for _, f := range tt.wantFields {
				assert.True(t, errs.Has(f), "expected error on %s", f)
			}
		})
	}
}

func TestValidateChurchInfo2_ImageMessages(t *testing.T) {
	tests := []struct {
		name    string
		image   string
		wantKey string
	}{
		{name: "not an image", image: htmlURI(), wantKey: i18n.MsgImageNotImage},
		{name: "wider than the upload limit", image: pngURI(t, 4000, 10), wantKey: i18n.MsgImageInvalid},
		{name: "not a data uri", image: "me.jpg", wantKey: i18n.MsgImageInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := newValidator(t).ValidateChurchInfo2(raw(t, with(churchTwo(t), "userImage", tt.image)))
			require.True(t, errs.Has("userImage"))
			assert.Equal(t, CodeInvalidFormat, errs["userImage"].Code)
			assert.Equal(t, tt.wantKey, errs["userImage"].Key)
			assert.Equal(t, i18n.English(tt.wantKey), errs["userImage"].Message)
		})
	}
}

func TestValidateChurchInfo2_Output(t *testing.T) {
	v := newValidator(t)

	out, errs := v.ValidateChurchInfo2(raw(t, churchTwo(t, child(t, "Liya", 3))))
	require.Empty(t, errs)
	require.NotNil(t, out.NumberOfChildren)
	assert.Equal(t, 1, *out.NumberOfChildren)
	assert.Equal(t, "Sunday school", out.MinistryExperience)
	require.Len(t, out.Children, 1)
	assert.Equal(t, 3, out.Children[0].Age)

	in := with(churchTwo(t, child(t, "Liya", 3)), "childrenAttendChurch", false)
	out, errs = v.ValidateChurchInfo2(raw(t, in))
	require.Empty(t, errs)
	assert.Nil(t, out.NumberOfChildren)
	assert.Nil(t, out.Children)
}

func TestValidateChurchInfo2_ChildrenCountMessage(t *testing.T) {
	in := with(churchTwo(t, child(t, "Liya", 3)), "numberOfChildren", 2)
	_, errs := newValidator(t).ValidateChurchInfo2(raw(t, in))
	assert.Equal(t, "Please provide details for exactly 2 children.", errs["children"].Message)
	assert.Equal(t, CodeCountMismatch, errs["children"].Code)
}

func TestValidateStep(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name      string
		step      models.StepNumber
		raw       string
		wantValid bool
		wantField string
	}{
		{name: "malformed json", step: models.StepPersonalInfo, raw: `{"fullName": `, wantField: FormField},
		{name: "array body", step: models.StepChurchInfo1, raw: `[1,2]`, wantField: FormField},
		{name: "unknown step", step: models.StepNumber(4), raw: `{}`, wantField: FormField},
		{name: "null body", step: models.StepChurchInfo1, raw: `null`, wantField: "savedDate"},
		{name: "valid step one", step: models.StepPersonalInfo, raw: `{"fullName":"Dawit Abraham","phoneNumber":"0911223344","city":"Addis Ababa"}`, wantValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, errs := v.ValidateStep(tt.step, json.RawMessage(tt.raw))
			if tt.wantValid {
				assert.Empty(t, errs)
				assert.IsType(t, models.PersonalInfo{}, data)
				return
			}
			assert.Nil(t, data)
			assert.True(t, errs.Has(tt.wantField), "errors: %v", errs.Fields())
		})
	}
}
