package lifecycle

import (
	"encoding/json"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Phase identifies which pass of a run produced an error.
type Phase string

const (
	PhaseMarkPastDue   Phase = "mark_past_due"
	PhasePauseOverdue  Phase = "pause_overdue"
	PhaseGraceReminder Phase = "grace_reminder"
)

// ErrorKind classifies the soft errors collected during a run.
type ErrorKind string

const (
	KindQuery        ErrorKind = "query"
	KindStatusUpdate ErrorKind = "status_update"
	KindListingPause ErrorKind = "listing_pause"
	KindEmailResolve ErrorKind = "email_resolve"
	KindEmailSend    ErrorKind = "email_send"
)

// RunError is one collected failure. It renders as a plain string in the JSON
// result so the scheduler's response stays flat.
type RunError struct {
	Phase          Phase
	SubscriptionID snowflake.ID
	Kind           ErrorKind
	Detail         string
}

func (e RunError) String() string {
	if e.SubscriptionID == 0 {
		return fmt.Sprintf("%s: %s: %s", e.Phase, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: subscription %d: %s: %s", e.Phase, e.SubscriptionID, e.Kind, e.Detail)
}

func (e RunError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Summary is the tally returned by one lifecycle run.
type Summary struct {
	MarkedPastDue int        `json:"markedPastDue"`
	Paused        int        `json:"paused"`
	RemindersSent int        `json:"remindersSent"`
	Errors        []RunError `json:"errors"`
}

// NewSummary returns a Summary whose error list serializes as [] rather than
// null.
func NewSummary() Summary {
	return Summary{Errors: []RunError{}}
}

func (s *Summary) addError(phase Phase, id snowflake.ID, kind ErrorKind, err error) {
	detail := "unknown"
	if err != nil {
		detail = err.Error()
	}
	s.Errors = append(s.Errors, RunError{
		Phase:          phase,
		SubscriptionID: id,
		Kind:           kind,
		Detail:         detail,
	})
}
