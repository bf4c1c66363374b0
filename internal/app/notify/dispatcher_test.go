package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeEmail struct {
	sent []Email
	err  error
}

func (f *fakeEmail) SendEmail(_ context.Context, msg Email) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fakeSMS struct {
	sent []SMS
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, msg SMS) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestDispatch_BothChannels(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	d := NewDispatcher(email, sms, zap.NewNop())

	inv := Invitation{
		Name:     "Jane Doe",
		Email:    "jane@x.edu",
		Phone:    "+17655551234",
		Username: "janedoe42",
		Password: "secret",
	}
	results := d.Dispatch(context.Background(), inv)

	if len(results) != 2 {
		t.Fatalf("results: got %d, want 2", len(results))
	}
	for _, r := range results {
		if !r.Attempted || r.Err != nil {
			t.Errorf("channel %s: attempted=%v err=%v", r.Channel, r.Attempted, r.Err)
		}
	}
	if len(email.sent) != 1 || email.sent[0].To != "jane@x.edu" {
		t.Errorf("email sent: %+v", email.sent)
	}
	if len(sms.sent) != 1 || sms.sent[0].To != "+17655551234" {
		t.Errorf("sms sent: %+v", sms.sent)
	}
	if !Delivered(results) {
		t.Error("Delivered should be true")
	}
}

func TestDispatch_EmailFailureStillAttemptsSMS(t *testing.T) {
	email := &fakeEmail{err: errors.New("boom")}
	sms := &fakeSMS{}
	d := NewDispatcher(email, sms, zap.NewNop())

	results := d.Dispatch(context.Background(), Invitation{
		Name: "Jane", Email: "jane@x.edu", Phone: "+15550001111",
		Username: "jane1", Password: "pw",
	})

	if results[0].Channel != ChannelEmail || results[0].Err == nil {
		t.Errorf("email result: %+v", results[0])
	}
	if results[1].Channel != ChannelSMS || !results[1].Attempted || results[1].Err != nil {
		t.Errorf("sms result: %+v", results[1])
	}
	if len(sms.sent) != 1 {
		t.Fatal("sms should still be attempted after email failure")
	}
	if !Delivered(results) {
		t.Error("one successful channel should count as delivered")
	}
}

func TestDispatch_MissingChannelsNotAttempted(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	d := NewDispatcher(email, sms, zap.NewNop())

	results := d.Dispatch(context.Background(), Invitation{
		Name: "Jane", Phone: "+15550001111", Username: "jane1", Password: "pw",
	})

	if results[0].Attempted {
		t.Error("email should not be attempted without an address")
	}
	if !results[1].Attempted {
		t.Error("sms should be attempted")
	}
}

func TestDispatch_AllFailed(t *testing.T) {
	email := &fakeEmail{err: errors.New("email down")}
	sms := &fakeSMS{err: errors.New("sms down")}
	d := NewDispatcher(email, sms, zap.NewNop())

	results := d.Dispatch(context.Background(), Invitation{
		Name: "Jane", Email: "jane@x.edu", Phone: "+15550001111",
		Username: "jane1", Password: "pw",
	})
	if Delivered(results) {
		t.Error("Delivered should be false when every channel failed")
	}
}

func TestInvitationTemplates(t *testing.T) {
	inv := Invitation{
		Name: "Jane Doe", Email: "jane@x.edu",
		Username: "janedoe42", Password: "pw12345!",
	}

	msg := BuildInvitationEmail(inv)
	if msg.To != "jane@x.edu" {
		t.Errorf("To: got %q", msg.To)
	}
	for _, body := range []string{msg.TextBody, msg.HTMLBody} {
		if !strings.Contains(body, "janedoe42") || !strings.Contains(body, "pw12345!") {
			t.Error("body should contain the credentials")
		}
	}

	sms := BuildInvitationSMS(inv)
	if !strings.Contains(sms, "janedoe42") || !strings.Contains(sms, "pw12345!") {
		t.Errorf("sms body missing credentials: %q", sms)
	}
}
