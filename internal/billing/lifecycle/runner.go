// Package lifecycle advances seller subscriptions through the billing state
// machine once per scheduled run:
//
//	active   -> past_due  when the payment came due (3-day grace starts)
//	past_due -> paused    when the grace window lapsed (listings hidden)
//
// All other transitions belong to the external checkout/payment flows.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/config"
	"github.com/Huve14/Go-Moto-sub000/internal/events"
	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	maildomain "github.com/Huve14/Go-Moto-sub000/internal/mail/domain"
	"github.com/Huve14/Go-Moto-sub000/internal/observability/metrics"
	sellerdomain "github.com/Huve14/Go-Moto-sub000/internal/seller/domain"
	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	Config           config.Config
	SubscriptionRepo subscriptiondomain.Repository
	ListingRepo      listingdomain.Repository
	SellerRepo       sellerdomain.Repository
	Sender           maildomain.Sender
	Outbox           *events.Outbox
}

// Runner executes one billing lifecycle run. It is not safe against
// concurrent runs; the conditional status updates keep a double-processed row
// from transitioning twice, but scheduling must still avoid overlap.
type Runner struct {
	db               *gorm.DB
	log              *zap.Logger
	subscriptionRepo subscriptiondomain.Repository
	listingRepo      listingdomain.Repository
	sellerRepo       sellerdomain.Repository
	sender           maildomain.Sender
	outbox           *events.Outbox
	metrics          *metrics.BillingMetrics
	baseURL          string
}

func NewRunner(p Params) *Runner {
	return &Runner{
		db:               p.DB,
		log:              p.Log.Named("billing.lifecycle"),
		subscriptionRepo: p.SubscriptionRepo,
		listingRepo:      p.ListingRepo,
		sellerRepo:       p.SellerRepo,
		sender:           p.Sender,
		outbox:           p.Outbox,
		metrics: metrics.BillingWithConfig(metrics.Config{
			ServiceName: "motosub",
			Environment: p.Config.Environment,
		}),
		baseURL: p.Config.AppBaseURL,
	}
}

// Run executes the three passes in order against a single "now" captured by
// the caller. Soft failures are collected in the summary; a panic anywhere
// outside the per-subscription scopes surfaces as the returned error with
// whatever tally had accumulated.
func (r *Runner) Run(ctx context.Context, now time.Time) (summary Summary, err error) {
	now = now.UTC()
	summary = NewSummary()
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("billing run aborted: %v", rec)
			r.log.Error("billing run aborted", zap.Any("panic", rec))
			return
		}
		r.metrics.ObserveRun(time.Since(start))
	}()

	r.markPastDue(ctx, now, &summary)
	r.pauseOverdue(ctx, now, &summary)
	r.sendGraceReminders(ctx, now, &summary)

	r.log.Info("billing run completed",
		zap.Time("run_at", now),
		zap.Int("marked_past_due", summary.MarkedPastDue),
		zap.Int("paused", summary.Paused),
		zap.Int("reminders_sent", summary.RemindersSent),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

// markPastDue is pass 1: active subscriptions whose payment came due on or
// before the run date move to past_due and the 3-day grace window starts.
func (r *Runner) markPastDue(ctx context.Context, now time.Time, summary *Summary) {
	candidates, err := r.subscriptionRepo.FindDueActive(ctx, r.db, now)
	if err != nil {
		summary.addError(PhaseMarkPastDue, 0, KindQuery, err)
		r.metrics.AddRunError(string(PhaseMarkPastDue))
		return
	}

	for _, sub := range candidates {
		if sub.NextPaymentDue == nil {
			continue
		}
		graceUntil := sub.NextPaymentDue.Add(subscriptiondomain.GracePeriod)

		transitioned, err := r.subscriptionRepo.MarkPastDue(ctx, r.db, sub.ID, graceUntil, now)
		if err != nil {
			summary.addError(PhaseMarkPastDue, sub.ID, KindStatusUpdate, err)
			r.metrics.AddRunError(string(PhaseMarkPastDue))
			continue
		}
		if !transitioned {
			// Lost a race with a concurrent run or an external payment.
			continue
		}
		summary.MarkedPastDue++
		r.metrics.AddTransitions(string(subscriptiondomain.StatusPastDue), 1)
		r.publishEvent(ctx, sub, events.EventSubscriptionPastDue, events.TransitionPayload{
			FromStatus:     string(subscriptiondomain.StatusActive),
			ToStatus:       string(subscriptiondomain.StatusPastDue),
			NextPaymentDue: sub.NextPaymentDue.Format(time.RFC3339),
			GraceUntil:     graceUntil.Format(time.RFC3339),
		})

		email, ok := r.resolveEmail(ctx, PhaseMarkPastDue, sub.ID, sub.SellerID, summary)
		if !ok {
			continue
		}
		msg := paymentDueMessage(email, r.baseURL, graceUntil)
		if err := r.sender.Send(ctx, msg); err != nil {
			summary.addError(PhaseMarkPastDue, sub.ID, KindEmailSend, err)
			r.metrics.AddEmail(templatePaymentDue, "error")
			continue
		}
		summary.RemindersSent++
		r.metrics.AddEmail(templatePaymentDue, "sent")
	}
}

// pauseOverdue is pass 2: past_due subscriptions whose grace window ended are
// paused and the seller's published listings are hidden. The listing cascade
// and the notification are best-effort and never block the next subscription.
func (r *Runner) pauseOverdue(ctx context.Context, now time.Time, summary *Summary) {
	candidates, err := r.subscriptionRepo.FindGraceExpired(ctx, r.db, now)
	if err != nil {
		summary.addError(PhasePauseOverdue, 0, KindQuery, err)
		r.metrics.AddRunError(string(PhasePauseOverdue))
		return
	}

	for _, sub := range candidates {
		transitioned, err := r.subscriptionRepo.MarkPaused(ctx, r.db, sub.ID, now)
		if err != nil {
			summary.addError(PhasePauseOverdue, sub.ID, KindStatusUpdate, err)
			r.metrics.AddRunError(string(PhasePauseOverdue))
		} else if !transitioned {
			// An external payment reactivated the row after the query; the
			// seller is current again, leave their listings up.
			continue
		}
		if transitioned {
			summary.Paused++
			r.metrics.AddTransitions(string(subscriptiondomain.StatusPaused), 1)
		}

		// On a status-write error the listing cascade still runs: leaving
		// published listings behind an overdue subscription is the worse
		// outcome.
		pausedListings, err := r.listingRepo.PauseAllPublished(ctx, r.db, sub.SellerID, now)
		if err != nil {
			summary.addError(PhasePauseOverdue, sub.ID, KindListingPause, err)
			r.metrics.AddRunError(string(PhasePauseOverdue))
		}
		if pausedListings > 0 {
			r.publishEvent(ctx, sub, events.EventListingsPaused, events.TransitionPayload{
				FromStatus:     string(listingdomain.StatusPublished),
				ToStatus:       string(listingdomain.StatusPaused),
				ListingsPaused: pausedListings,
			})
		}

		if transitioned {
			r.publishEvent(ctx, sub, events.EventSubscriptionPaused, events.TransitionPayload{
				FromStatus:     string(subscriptiondomain.StatusPastDue),
				ToStatus:       string(subscriptiondomain.StatusPaused),
				ListingsPaused: pausedListings,
			})
		}

		email, ok := r.resolveEmail(ctx, PhasePauseOverdue, sub.ID, sub.SellerID, summary)
		if !ok {
			continue
		}
		msg := subscriptionPausedMessage(email, r.baseURL)
		if err := r.sender.Send(ctx, msg); err != nil {
			summary.addError(PhasePauseOverdue, sub.ID, KindEmailSend, err)
			r.metrics.AddEmail(templatePaused, "error")
			continue
		}
		r.metrics.AddEmail(templatePaused, "sent")
	}
}

// sendGraceReminders is pass 3: subscriptions overdue for exactly two days,
// still inside grace, get a final warning before tomorrow's pause.
func (r *Runner) sendGraceReminders(ctx context.Context, now time.Time, summary *Summary) {
	candidates, err := r.subscriptionRepo.FindGraceReminderDue(ctx, r.db, now)
	if err != nil {
		summary.addError(PhaseGraceReminder, 0, KindQuery, err)
		r.metrics.AddRunError(string(PhaseGraceReminder))
		return
	}

	for _, sub := range candidates {
		email, ok := r.resolveEmail(ctx, PhaseGraceReminder, sub.ID, sub.SellerID, summary)
		if !ok {
			continue
		}
		msg := finalReminderMessage(email, r.baseURL, sub.GraceUntil)
		if err := r.sender.Send(ctx, msg); err != nil {
			summary.addError(PhaseGraceReminder, sub.ID, KindEmailSend, err)
			r.metrics.AddEmail(templateFinalReminder, "error")
			continue
		}
		summary.RemindersSent++
		r.metrics.AddEmail(templateFinalReminder, "sent")
	}
}

func (r *Runner) resolveEmail(ctx context.Context, phase Phase, subID, sellerID snowflake.ID, summary *Summary) (string, bool) {
	seller, err := r.sellerRepo.FindByID(ctx, r.db, sellerID)
	if err != nil {
		summary.addError(phase, subID, KindEmailResolve, err)
		r.metrics.AddRunError(string(phase))
		return "", false
	}
	if seller == nil || seller.Email == "" {
		summary.addError(phase, subID, KindEmailResolve, sellerdomain.ErrSellerNotFound)
		r.metrics.AddRunError(string(phase))
		return "", false
	}
	return seller.Email, true
}

func (r *Runner) publishEvent(ctx context.Context, sub subscriptiondomain.Subscription, eventType string, payload events.TransitionPayload) {
	if r.outbox == nil {
		return
	}
	err := r.outbox.Publish(ctx, events.Event{
		SubscriptionID: sub.ID,
		SellerID:       sub.SellerID,
		Type:           eventType,
		Payload:        payload.ToMap(),
	})
	if err != nil {
		r.log.Warn("billing event publish failed",
			zap.Int64("subscription_id", int64(sub.ID)),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
