package notification

import (
	"fmt"
	"strings"
	"time"
)

// Kind identifies the delivery channel of a notification.
type Kind string

const (
	KindEmail   Kind = "email"
	KindSMS     Kind = "sms"
	KindAndroid Kind = "android"
	KindIOS     Kind = "ios"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindEmail, KindSMS, KindAndroid, KindIOS}

// QueueName returns the work queue a notification of this kind is enqueued on.
func (k Kind) QueueName() string {
	switch k {
	case KindEmail:
		return "EmailNotifications"
	case KindSMS:
		return "SMSNotifications"
	case KindAndroid:
		return "AndroidNotifications"
	case KindIOS:
		return "iOSNotifications"
	default:
		return ""
	}
}

// Resource returns the path of the remote notification service endpoint.
func (k Kind) Resource() string {
	switch k {
	case KindEmail:
		return "/Emails"
	case KindSMS:
		return "/SMS"
	case KindAndroid:
		return "/Android"
	case KindIOS:
		return "/iOS"
	default:
		return ""
	}
}

// Notification is implemented by every notification value type.
type Notification interface {
	Kind() Kind
	// Validate reports structural problems that make delivery impossible.
	Validate() error
}

// Base carries the fields shared by every notification.
type Base struct {
	// Content is the message body.
	Content string `json:"Content"`
	// Recipients are addresses, phone numbers or device ids depending on the kind.
	Recipients []string `json:"Recipients"`
}

func (b Base) validate() error {
	for _, r := range b.Recipients {
		if strings.TrimSpace(r) != "" {
			return nil
		}
	}
	return ErrInvalidOperation
}

// EmailFormat selects how the body of an email is rendered.
// The zero value is HTML.
type EmailFormat int

const (
	FormatHTML EmailFormat = iota
	FormatPlainText
)

func (f EmailFormat) String() string {
	if f == FormatPlainText {
		return "PlainText"
	}
	return "HTML"
}

// MarshalText implements encoding.TextMarshaler.
func (f EmailFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *EmailFormat) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "", "html":
		*f = FormatHTML
	case "plaintext", "plain", "text":
		*f = FormatPlainText
	default:
		return fmt.Errorf("%w: unknown email format %q", ErrInvalidArgument, string(b))
	}
	return nil
}

// Attachment references a file to attach to an email, either inline as base64
// Content or as a URI to download. Content takes precedence when both are set.
type Attachment struct {
	Filename string `json:"Filename,omitempty"`
	Content  string `json:"Content,omitempty"`
	URI      string `json:"Uri,omitempty"`
}

// Email is a notification delivered by email.
type Email struct {
	Base

	// FromAddress overrides the transport's default sender when set.
	FromAddress string `json:"FromAddress,omitempty"`
	FromName    string `json:"FromName,omitempty"`

	CC  []string `json:"CC,omitempty"`
	BCC []string `json:"BCC,omitempty"`

	Subject     string       `json:"Subject"`
	Attachments []Attachment `json:"Attachments,omitempty"`
	Format      EmailFormat  `json:"EmailType"`
}

func (Email) Kind() Kind { return KindEmail }

// Validate requires at least one recipient across To, CC and BCC.
func (e Email) Validate() error {
	all := Base{Recipients: append(append(append([]string{}, e.Recipients...), e.CC...), e.BCC...)}
	return all.validate()
}

// SMS is a text message; Recipients are phone numbers.
type SMS struct {
	Base
}

func (SMS) Kind() Kind { return KindSMS }

func (s SMS) Validate() error { return s.validate() }

// Duration is a time.Duration carried as a string such as "1h30m" on the wire.
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	*d = Duration(v)
	return nil
}

// Android is a push notification for Android devices.
type Android struct {
	Base

	Title string `json:"Title,omitempty"`
	// Image is the icon shown with the notification, remote or bundled.
	Image string `json:"Image,omitempty"`
	// TimeToLive bounds how long delivery is attempted, from 0 to 4 weeks.
	TimeToLive *Duration `json:"TimeToLive,omitempty"`
	// HighPriority should only be set for time-critical messages.
	HighPriority bool `json:"HighPriority"`
}

func (Android) Kind() Kind { return KindAndroid }

func (a Android) Validate() error {
	if a.TimeToLive != nil && (*a.TimeToLive < 0 || time.Duration(*a.TimeToLive) > 4*7*24*time.Hour) {
		return fmt.Errorf("%w: time to live must be between 0 and 4 weeks", ErrInvalidArgument)
	}
	return a.validate()
}

// IOS is a push notification for Apple devices.
type IOS struct {
	Base

	Title string `json:"Title,omitempty"`
	// Badge is the number displayed on the app icon.
	Badge string `json:"Badge,omitempty"`
	// ContentAvailable wakes the app in the background.
	ContentAvailable bool `json:"ContentAvailable"`
	// Sound is a file bundled with the app.
	Sound string `json:"Sound,omitempty"`
}

func (IOS) Kind() Kind { return KindIOS }

func (i IOS) Validate() error { return i.validate() }
