package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Result is the provider's answer for one message.
// A non-zero ErrorCode or a non-empty ErrorMessage means the send failed.
type Result struct {
	SID          string
	ErrorCode    int
	ErrorMessage string
	MoreInfo     string
}

// Failed reports whether the provider rejected the message.
func (r Result) Failed() bool {
	return r.ErrorCode != 0 || r.ErrorMessage != ""
}

// Transport sends a single text message.
type Transport interface {
	SendMessage(ctx context.Context, from, to, body string) (Result, error)
}

// TwilioConfig configures TwilioTransport.
type TwilioConfig struct {
	AccountSID string `env:"NOTIFY_TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"NOTIFY_TWILIO_AUTH_TOKEN"`
	From       string `env:"NOTIFY_TWILIO_FROM"`
}

// MessageCreator is the subset of the Twilio REST API used by TwilioTransport.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioTransport sends messages through the Twilio Messages API.
type TwilioTransport struct {
	api MessageCreator
}

// NewTwilioTransport builds a transport with the given account credentials.
func NewTwilioTransport(cfg TwilioConfig) (*TwilioTransport, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, fmt.Errorf("%w: twilio account sid and auth token are required", ErrInvalidConfig)
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioTransport{api: client.Api}, nil
}

// NewTwilioTransportWithAPI wraps a pre-configured API. Useful for testing.
func NewTwilioTransportWithAPI(api MessageCreator) *TwilioTransport {
	return &TwilioTransport{api: api}
}

// SendMessage creates the message. REST errors are reported in the Result;
// the returned error is reserved for failures with no provider answer.
// The Twilio client has no context support, so ctx is only checked up front.
func (t *TwilioTransport) SendMessage(ctx context.Context, from, to, body string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(body)

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			return Result{
				ErrorCode:    restErr.Code,
				ErrorMessage: restErr.Message,
				MoreInfo:     restErr.MoreInfo,
			}, nil
		}
		return Result{}, err
	}

	var res Result
	if msg.Sid != nil {
		res.SID = *msg.Sid
	}
	if msg.ErrorCode != nil {
		res.ErrorCode = *msg.ErrorCode
	}
	if msg.ErrorMessage != nil {
		res.ErrorMessage = *msg.ErrorMessage
	}
	return res, nil
}
