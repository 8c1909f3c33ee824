package notify

import (
	"context"
	"fmt"

	"github.com/iliyamo/table-reservation/internal/queue"
)

// Notifier renders guest messages and hands them to a Sender.
type Notifier struct {
	sender Sender
	tpl    Templates
}

// NewNotifier returns a Notifier. A nil sender falls back to LogSender.
func NewNotifier(sender Sender, tpl Templates) *Notifier {
	if sender == nil {
		sender = LogSender{}
	}
	return &Notifier{sender: sender, tpl: tpl}
}

// SendConfirmation sends the booking confirmation for a created
// reservation. Its signature matches queue.HandlerFunc.
func (n *Notifier) SendConfirmation(ctx context.Context, ev queue.ReservationCreatedEvent) error {
	b := BookingFromEvent(ev)
	return n.send(ctx, "confirmation", b, n.tpl.Confirmation(b))
}

// SendReminder sends the pre-visit reminder.
func (n *Notifier) SendReminder(ctx context.Context, b Booking) error {
	return n.send(ctx, "reminder", b, n.tpl.Reminder(b))
}

// SendSurvey sends the post-visit satisfaction survey.
func (n *Notifier) SendSurvey(ctx context.Context, b Booking) error {
	return n.send(ctx, "survey", b, n.tpl.Survey(b))
}

func (n *Notifier) send(ctx context.Context, kind string, b Booking, body string) error {
	if b.Phone == "" {
		return fmt.Errorf("%s for %s: %w", kind, b.Code, ErrNoRecipient)
	}
	if err := n.sender.Send(ctx, b.Phone, body); err != nil {
		return fmt.Errorf("%s for %s: %w", kind, b.Code, err)
	}
	return nil
}
