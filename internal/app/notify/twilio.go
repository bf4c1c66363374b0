// internal/app/notify/twilio.go
package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender delivers SMS through the Twilio messages API.
//
// The Twilio client does not take a context; the per-call deadline is
// enforced by the caller's timeout wrapper around Dispatch.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

var _ SMSSender = (*TwilioSender)(nil)

func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: fromNumber}
}

func (s *TwilioSender) SendSMS(_ context.Context, msg SMS) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(s.from)
	params.SetBody(msg.Body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}
