package audit

import "time"

// Registration outcomes recorded in the trail.
const (
	OutcomeCommitted        = "committed"
	OutcomePermissionDenied = "permission_denied"
	OutcomeDuplicateAccount = "duplicate_account"
	OutcomeError            = "error"
)

// Event is emitted from domain logic to capture registration attempts. Keep
// it transport-agnostic so sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Caller    string    `json:"caller"`
	Action    string    `json:"action"`
	Name      string    `json:"name"`
	AccountID string    `json:"account_id"`
	Outcome   string    `json:"outcome"`
}
