// internal/app/notify/notify.go

// Package notify delivers invitation credentials to newly provisioned users
// over email and SMS. Channels are independent: a failure on one never
// prevents an attempt on the other, and callers get a tagged result per
// channel rather than a single collapsed error.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Channel names used in results and logs.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Email is one outbound email message.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// SMS is one outbound text message.
type SMS struct {
	To   string // E.164
	Body string
}

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg Email) error
}

// SMSSender sends a single text message.
type SMSSender interface {
	SendSMS(ctx context.Context, msg SMS) error
}

// ChannelResult reports one delivery attempt. Attempted is false when the
// recipient had no address for the channel; Err is nil on success.
type ChannelResult struct {
	Channel   string
	Attempted bool
	Err       error
}

// Invitation carries everything needed to notify one user of their new
// account. Email and Phone may each be empty, but not both.
type Invitation struct {
	Name     string
	Email    string
	Phone    string // E.164
	Username string
	Password string
}

// Dispatcher fans an invitation out to every channel the recipient has an
// address for.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
	log   *zap.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, log *zap.Logger) *Dispatcher {
	return &Dispatcher{email: email, sms: sms, log: log}
}

// Dispatch attempts delivery on each available channel and returns one
// result per channel, email first. Results always have length 2.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invitation) []ChannelResult {
	results := make([]ChannelResult, 0, 2)

	emailRes := ChannelResult{Channel: ChannelEmail}
	if inv.Email != "" && d.email != nil {
		emailRes.Attempted = true
		emailRes.Err = d.email.SendEmail(ctx, BuildInvitationEmail(inv))
		if emailRes.Err != nil {
			d.log.Warn("invitation email failed",
				zap.String("to", inv.Email),
				zap.Error(emailRes.Err))
		}
	}
	results = append(results, emailRes)

	smsRes := ChannelResult{Channel: ChannelSMS}
	if inv.Phone != "" && d.sms != nil {
		smsRes.Attempted = true
		smsRes.Err = d.sms.SendSMS(ctx, SMS{To: inv.Phone, Body: BuildInvitationSMS(inv)})
		if smsRes.Err != nil {
			d.log.Warn("invitation sms failed",
				zap.String("to", inv.Phone),
				zap.Error(smsRes.Err))
		}
	}
	results = append(results, smsRes)

	return results
}

// Delivered reports whether at least one attempted channel succeeded.
func Delivered(results []ChannelResult) bool {
	for _, r := range results {
		if r.Attempted && r.Err == nil {
			return true
		}
	}
	return false
}
