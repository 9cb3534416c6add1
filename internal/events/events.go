package events

// Billing event types recorded by the subscription lifecycle.
const (
	EventSubscriptionPastDue = "subscription.past_due"
	EventSubscriptionPaused  = "subscription.paused"
	EventListingsPaused      = "listings.paused"
)

// TransitionPayload captures the minimal data needed to audit a lifecycle
// transition.
type TransitionPayload struct {
	FromStatus     string `json:"from_status"`
	ToStatus       string `json:"to_status"`
	NextPaymentDue string `json:"next_payment_due,omitempty"`
	GraceUntil     string `json:"grace_until,omitempty"`
	ListingsPaused int64  `json:"listings_paused,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p TransitionPayload) ToMap() map[string]any {
	out := map[string]any{
		"from_status": p.FromStatus,
		"to_status":   p.ToStatus,
	}
	if p.NextPaymentDue != "" {
		out["next_payment_due"] = p.NextPaymentDue
	}
	if p.GraceUntil != "" {
		out["grace_until"] = p.GraceUntil
	}
	if p.ListingsPaused != 0 {
		out["listings_paused"] = p.ListingsPaused
	}
	return out
}
