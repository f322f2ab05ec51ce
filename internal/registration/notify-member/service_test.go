package notifymember

import (
	"context"
	stderrors "errors"
	"testing"

	"member-registration/internal/common/aws"
	"member-registration/internal/common/errors"
	"member-registration/internal/common/logger"
	"member-registration/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: awssdk.String("msg-1")}, nil
}

func member() models.PersonalInfo {
	return models.PersonalInfo{FullName: "Dawit Abraham", PhoneNumber: "0911 22 33 44"}
}

func newNotifier(t *testing.T, pub *fakePublisher, cfg *Config) *Notifier {
	t.Helper()
	return NewNotifier(ServiceDependencies{
		Logger: logger.NewTestLogger(t),
		Sender: aws.NewSNSClientWith(pub),
	}, cfg)
}

func TestNotify_SendsLocalizedSMS(t *testing.T) {
	tests := []struct {
		name     string
		locale   string
		contains string
	}{
		{name: "english", locale: "en", contains: "Registered Successfully! Thank you Dawit Abraham"},
		{name: "amharic", locale: "am", contains: "በተሳካ ሁኔታ ተመዝግበዋል! Dawit Abraham"},
		{name: "unsupported falls back", locale: "fr", contains: "Registered Successfully!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			n := newNotifier(t, pub, &Config{Enabled: true, SenderID: "GLC", CountryCode: "251", Locale: tt.locale})

			require.NoError(t, n.Notify(context.Background(), member()))
			require.Len(t, pub.inputs, 1)
			assert.Equal(t, "+251911223344", awssdk.ToString(pub.inputs[0].PhoneNumber))
			assert.Contains(t, awssdk.ToString(pub.inputs[0].Message), tt.contains)
			assert.Equal(t, "GLC", awssdk.ToString(pub.inputs[0].MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
		})
	}
}

func TestNotify_Disabled(t *testing.T) {
	pub := &fakePublisher{}
	n := newNotifier(t, pub, &Config{Enabled: false, CountryCode: "251"})
	require.NoError(t, n.Notify(context.Background(), member()))
	assert.Empty(t, pub.inputs)

	n = NewNotifier(ServiceDependencies{Logger: logger.NewNoOpLogger()}, &Config{Enabled: true})
	assert.NoError(t, n.Notify(context.Background(), member()))
}

func TestNotify_Failures(t *testing.T) {
	pub := &fakePublisher{err: stderrors.New("throttled")}
	n := newNotifier(t, pub, &Config{Enabled: true, CountryCode: "251", Locale: "en"})

	err := n.Notify(context.Background(), member())
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSendFailed))

	bad := member()
	bad.PhoneNumber = "call me maybe"
	err = n.Notify(context.Background(), bad)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNotificationSendFailed))
	assert.Len(t, pub.inputs, 1, "invalid numbers are never sent")
}

func TestE164(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0911223344", want: "+251911223344"},
		{in: "+251 911 223 344", want: "+251911223344"},
		{in: "00251911223344", want: "+251911223344"},
		{in: "251911223344", want: "+251911223344"},
		{in: "911-223-344", want: "+251911223344"},
		{in: "(091) 122.3344", want: "+251911223344"},
		{in: "12", wantErr: true},
		{in: "09112x3344", wantErr: true},
		{in: "+2519112233441234567", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := E164(tt.in, "251")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
