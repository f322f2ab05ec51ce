package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestMessagesHaveAmharic(t *testing.T) {
	for key, tr := range messages {
		assert.NotEmpty(t, tr.en, key)
		assert.NotEmpty(t, tr.am, key)
	}
}

func TestCatalog_Text(t *testing.T) {
	c := Default()
	am := language.MustParse("am")

	assert.Equal(t, "Basic Information", c.Text(language.English, MsgStep1Title))
	assert.Equal(t, "መሰረታዊ መረጃ", c.Text(am, MsgStep1Title))
	assert.Equal(t, "Unknown department: choir.", c.Text(language.English, MsgDepartmentUnknown, "choir"))
	assert.Equal(t, "Please provide details for exactly 2 children.", English(MsgChildrenCount, 2))
	assert.Equal(t, "Image size must be less than 3MB", English(MsgImageTooLarge))
}

func TestCatalog_ParseTag(t *testing.T) {
	c := Default()

	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{value: "am", want: "am", ok: true},
		{value: "en", want: "en", ok: true},
		{value: " am ", want: "am", ok: true},
		{value: "not a tag!", want: "en", ok: false},
		{value: "", want: "en", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			tag, ok := c.ParseTag(tt.value)
			assert.Equal(t, tt.ok, ok)
			base, _ := tag.Base()
			assert.Equal(t, tt.want, base.String())
		})
	}
}

func TestCatalog_MatchAcceptLanguage(t *testing.T) {
	c := Default()

	tests := []struct {
		header string
		want   string
	}{
		{header: "am-ET,am;q=0.9,en;q=0.5", want: "am"},
		{header: "en-US,en;q=0.9", want: "en"},
		{header: "", want: "en"},
		{header: ";;;", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			base, _ := c.MatchAcceptLanguage(tt.header).Base()
			assert.Equal(t, tt.want, base.String())
		})
	}
}

func TestNew_DefaultAddedToSupported(t *testing.T) {
	c, err := New("am", []string{"en"})
	require.NoError(t, err)
	require.Len(t, c.Supported(), 2)

	base, _ := c.DefaultTag().Base()
	assert.Equal(t, "am", base.String())
	assert.Contains(t, c.Text(c.DefaultTag(), MsgUserImageRequired), "ፎቶዎን")

	_, err = New("??", nil)
	assert.Error(t, err)
}
