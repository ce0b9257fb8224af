package match

import (
	"errors"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/eligibility"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNotPermitted   = errors.New("not permitted")
	ErrConflict       = errors.New("concurrent update conflict")
	ErrTryAgain       = errors.New("too many concurrent updates, try again")
	ErrInvalidRequest = errors.New("invalid request")
)

// Reason explains why a command was a no-op. No-ops are expected under
// concurrency and are not errors.
type Reason string

const (
	ReasonAlreadyTerminal       Reason = "already_terminal"
	ReasonStaleState            Reason = "stale_state"
	ReasonIllegalTransition     Reason = "illegal_transition"
	ReasonProposalNoLongerValid Reason = "proposal_no_longer_valid"
	ReasonProposalPending       Reason = "proposal_pending"
	ReasonAlreadyMerged         Reason = "already_merged"
	ReasonAlreadyApproved       Reason = "already_approved"
	ReasonEventNotRecruiting    Reason = "event_not_recruiting"
	ReasonTeamIncomplete        Reason = "team_incomplete"
	ReasonIneligible            Reason = "ineligible"
	ReasonDuplicateApplication  Reason = "duplicate_application"
	ReasonPartnerUnavailable    Reason = "partner_unavailable"
	ReasonStaleGeneration       Reason = "stale_generation"
	ReasonNothingToDo           Reason = "nothing_to_do"

	// ReasonFanOutIncomplete marks an applied command whose follow-up closing
	// of competing applications stopped early. Repeating the command resumes it.
	ReasonFanOutIncomplete Reason = "fanout_incomplete"
)

// Result is the outcome of an engine command.
type Result struct {
	Applied      bool                `json:"applied"`
	Reason       Reason              `json:"reason,omitempty"`
	Eligibility  *eligibility.Result `json:"eligibility,omitempty"`
	Event        *Event              `json:"event,omitempty"`
	Applications []Application       `json:"applications,omitempty"`
	// Closed counts records moved to closed by a fan-out.
	Closed int `json:"closed,omitempty"`
}

// NoOp builds a result for a command that changed nothing.
func NoOp(reason Reason) Result {
	return Result{Reason: reason}
}

// Done builds a result for an applied command.
func Done(ev *Event, apps ...Application) Result {
	return Result{Applied: true, Event: ev, Applications: apps}
}
