// Package notify sends guest SMS messages: the booking confirmation, the
// reminder before the visit and the satisfaction survey after it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a text message to an E.164 phone number.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender returns a TwilioSender authenticated with the account SID
// and auth token, sending from the given number.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

// Send creates one message. The Twilio client does not take a context, so
// cancellation is only observed before the request starts.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message to %s: %w", to, err)
	}
	if resp.Sid != nil {
		log.Printf("notifier: message sent to %s, SID: %s", to, *resp.Sid)
	}
	return nil
}

// LogSender only logs messages. It stands in for Twilio when SMS is
// disabled, e.g. in development.
type LogSender struct{}

// Send logs the message and never fails.
func (LogSender) Send(_ context.Context, to, body string) error {
	log.Printf("notifier: [sms disabled] to=%s body=%q", to, body)
	return nil
}

// ErrNoRecipient is returned when a message has no phone number.
var ErrNoRecipient = errors.New("no recipient phone number")
