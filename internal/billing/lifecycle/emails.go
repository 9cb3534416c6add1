package lifecycle

import (
	"fmt"
	"time"

	maildomain "github.com/Huve14/Go-Moto-sub000/internal/mail/domain"
)

const (
	templatePaymentDue    = "payment_due"
	templatePaused        = "subscription_paused"
	templateFinalReminder = "final_reminder"
)

func paymentDueMessage(to, baseURL string, graceUntil time.Time) maildomain.Message {
	return maildomain.Message{
		To:      to,
		Subject: "Payment due — your listings stay live for 3 more days",
		Text: fmt.Sprintf(
			"Your subscription payment is due. You have until %s to pay before "+
				"your listings are hidden.\n\nPay now: %s/account/billing\n",
			graceUntil.Format("Jan 2, 2006"),
			baseURL,
		),
	}
}

func subscriptionPausedMessage(to, baseURL string) maildomain.Message {
	return maildomain.Message{
		To:      to,
		Subject: "Subscription paused — your listings are hidden",
		Text: fmt.Sprintf(
			"Your subscription grace period has ended and your listings are no "+
				"longer visible to buyers. Pay your outstanding balance to "+
				"restore them.\n\nPay now: %s/account/billing\n",
			baseURL,
		),
	}
}

func finalReminderMessage(to, baseURL string, graceUntil *time.Time) maildomain.Message {
	deadline := "tomorrow"
	if graceUntil != nil {
		deadline = graceUntil.Format("Jan 2, 2006")
	}
	return maildomain.Message{
		To:      to,
		Subject: "Final reminder — your listings will be paused tomorrow",
		Text: fmt.Sprintf(
			"This is your final reminder: your subscription payment is overdue "+
				"and your listings will be paused after %s.\n\nPay now: %s/account/billing\n",
			deadline,
			baseURL,
		),
	}
}
