package notification_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

func TestKind_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     notification.Kind
		queue    string
		resource string
	}{
		{notification.KindEmail, "EmailNotifications", "/Emails"},
		{notification.KindSMS, "SMSNotifications", "/SMS"},
		{notification.KindAndroid, "AndroidNotifications", "/Android"},
		{notification.KindIOS, "iOSNotifications", "/iOS"},
		{notification.Kind("fax"), "", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.queue, tt.kind.QueueName())
			assert.Equal(t, tt.resource, tt.kind.Resource())
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ttl := notification.Duration(5 * 7 * 24 * time.Hour)

	tests := []struct {
		name    string
		n       notification.Notification
		wantErr error
	}{
		{"email with to", notification.Email{Base: notification.Base{Recipients: []string{"a@certipay.com"}}}, nil},
		{"email with only bcc", notification.Email{BCC: []string{"a@certipay.com"}}, nil},
		{"email without recipients", notification.Email{Subject: "hi"}, notification.ErrInvalidOperation},
		{"sms blank recipient", notification.SMS{Base: notification.Base{Recipients: []string{"  "}}}, notification.ErrInvalidOperation},
		{"sms", notification.SMS{Base: notification.Base{Recipients: []string{"+15555550100"}}}, nil},
		{"ios", notification.IOS{Base: notification.Base{Recipients: []string{"token"}}}, nil},
		{"android ttl too long", notification.Android{Base: notification.Base{Recipients: []string{"id"}}, TimeToLive: &ttl}, notification.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.n.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmail_JSON(t *testing.T) {
	t.Parallel()

	n := notification.Email{
		Base:        notification.Base{Content: "<p>hi</p>", Recipients: []string{"jsmith@certipay.com"}},
		Subject:     "Hello",
		Format:      notification.FormatPlainText,
		Attachments: []notification.Attachment{{Filename: "a.pdf", URI: "https://files/a.pdf"}},
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "PlainText", wire["EmailType"])
	assert.Equal(t, "Hello", wire["Subject"])
	assert.Equal(t, []any{"jsmith@certipay.com"}, wire["Recipients"])
	assert.Equal(t, "https://files/a.pdf", wire["Attachments"].([]any)[0].(map[string]any)["Uri"])

	var back notification.Email
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, n, back)
}

func TestEmailFormat_UnmarshalText(t *testing.T) {
	t.Parallel()

	var f notification.EmailFormat
	require.NoError(t, f.UnmarshalText([]byte("html")))
	assert.Equal(t, notification.FormatHTML, f)
	require.NoError(t, f.UnmarshalText([]byte("PlainText")))
	assert.Equal(t, notification.FormatPlainText, f)
	assert.ErrorIs(t, f.UnmarshalText([]byte("rtf")), notification.ErrInvalidArgument)
}

func TestAndroid_TimeToLiveJSON(t *testing.T) {
	t.Parallel()

	ttl := notification.Duration(90 * time.Minute)
	raw, err := json.Marshal(notification.Android{TimeToLive: &ttl})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"TimeToLive":"1h30m0s"`)

	var back notification.Android
	require.NoError(t, json.Unmarshal(raw, &back))
	require.NotNil(t, back.TimeToLive)
	assert.Equal(t, ttl, *back.TimeToLive)
}
