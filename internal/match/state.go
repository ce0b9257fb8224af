package match

import (
	"fmt"
)

// State is the typed view of an Application's status and the fields that are
// only meaningful in that status.
type State interface {
	Status() ApplicationStatus
}

// Proposal is a solo-lobby merge offer held on the acceptor's record.
type Proposal struct {
	FromApplicantID   string `json:"from_applicant_id"`
	FromApplicationID string `json:"from_application_id"`
}

// Pending waits for the host. PartnerID is set for an accepted invitation,
// TeamID for a team (merged or invited).
type Pending struct {
	TeamID    string
	PartnerID string
	InvitedBy string
}

// LookingForPartner sits in the solo lobby, optionally holding one proposal.
type LookingForPartner struct {
	Proposal *Proposal
}

// AwaitingPartner waits for the named partner. Declined means the partner said
// no and the applicant may re-invite someone else.
type AwaitingPartner struct {
	PartnerID string
	Declined  bool
}

// Approved holds the slot.
type Approved struct {
	Seats int
}

// Rejected was turned down by the host or failed eligibility at submission.
type Rejected struct {
	Reason string
}

// Closed lost the slot, was withdrawn, or its event was cancelled.
type Closed struct{}

func (Pending) Status() ApplicationStatus           { return StatusPending }
func (LookingForPartner) Status() ApplicationStatus { return StatusLookingForPartner }
func (AwaitingPartner) Status() ApplicationStatus   { return StatusPendingPartnerApproval }
func (Approved) Status() ApplicationStatus          { return StatusApproved }
func (Rejected) Status() ApplicationStatus          { return StatusRejected }
func (Closed) Status() ApplicationStatus            { return StatusClosed }

// ErrMalformed reports a stored record whose fields do not form a legal state.
type ErrMalformed struct {
	ApplicationID string
	Problem       string
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("application %s is malformed: %s", e.ApplicationID, e.Problem)
}

func (a *Application) malformed(problem string) error {
	return &ErrMalformed{ApplicationID: a.ID, Problem: problem}
}

func (a *Application) hasProposal() bool {
	return a.PendingProposalFrom != "" || a.PendingProposalFromApplicationID != ""
}

// State decodes the persisted fields. Illegal combinations, such as a proposal
// marker on a closed record, are reported as ErrMalformed.
func (a *Application) State() (State, error) {
	switch a.Status {
	case StatusPending:
		if a.hasProposal() {
			return nil, a.malformed("proposal marker on pending record")
		}
		if a.PartnerID != "" && a.PartnerStatus != PartnerAccepted {
			return nil, a.malformed("pending record with unaccepted partner")
		}
		return Pending{TeamID: a.TeamID, PartnerID: a.PartnerID, InvitedBy: a.InvitedBy}, nil

	case StatusLookingForPartner:
		if a.PartnerID != "" || a.TeamID != "" {
			return nil, a.malformed("lobby record with partner or team")
		}
		if a.PendingProposalFrom == "" && a.PendingProposalFromApplicationID == "" {
			return LookingForPartner{}, nil
		}
		if a.PendingProposalFrom == "" || a.PendingProposalFromApplicationID == "" {
			return nil, a.malformed("half-written proposal marker")
		}
		return LookingForPartner{Proposal: &Proposal{
			FromApplicantID:   a.PendingProposalFrom,
			FromApplicationID: a.PendingProposalFromApplicationID,
		}}, nil

	case StatusPendingPartnerApproval:
		if a.hasProposal() || a.TeamID != "" {
			return nil, a.malformed("invitation record with proposal or team")
		}
		if a.PartnerID == "" {
			return nil, a.malformed("invitation record without partner")
		}
		switch a.PartnerStatus {
		case PartnerPending:
			return AwaitingPartner{PartnerID: a.PartnerID}, nil
		case PartnerRejected:
			return AwaitingPartner{PartnerID: a.PartnerID, Declined: true}, nil
		}
		return nil, a.malformed("invitation record with partner status " + string(a.PartnerStatus))

	case StatusApproved, StatusRejected, StatusClosed:
		if a.hasProposal() {
			return nil, a.malformed("proposal marker on " + string(a.Status) + " record")
		}
		if a.PartnerID != "" && a.PartnerStatus != PartnerAccepted {
			return nil, a.malformed("open invitation on " + string(a.Status) + " record")
		}
		switch a.Status {
		case StatusApproved:
			return Approved{Seats: a.Seats}, nil
		case StatusRejected:
			return Rejected{Reason: a.RejectionReason}, nil
		}
		return Closed{}, nil
	}
	return nil, a.malformed("unknown status " + string(a.Status))
}

// Validate checks that the persisted fields form a legal state.
func (a *Application) Validate() error {
	_, err := a.State()
	return err
}

// setState writes s into the flat fields. TeamID is never cleared once set,
// and an accepted partner is kept for history.
func (a *Application) setState(s State) {
	a.Status = s.Status()
	a.PendingProposalFrom = ""
	a.PendingProposalFromApplicationID = ""

	switch v := s.(type) {
	case Pending:
		if a.TeamID == "" {
			a.TeamID = v.TeamID
		}
		if v.PartnerID != "" {
			a.PartnerID = v.PartnerID
			a.PartnerStatus = PartnerAccepted
		}
		if v.InvitedBy != "" {
			a.InvitedBy = v.InvitedBy
		}
	case LookingForPartner:
		if v.Proposal != nil {
			a.PendingProposalFrom = v.Proposal.FromApplicantID
			a.PendingProposalFromApplicationID = v.Proposal.FromApplicationID
		}
	case AwaitingPartner:
		a.PartnerID = v.PartnerID
		a.PartnerStatus = PartnerPending
		if v.Declined {
			a.PartnerStatus = PartnerRejected
		}
	case Approved:
		a.Seats = v.Seats
	case Rejected:
		a.RejectionReason = v.Reason
		a.clearOpenInvitation()
	case Closed:
		a.clearOpenInvitation()
	}
}

func (a *Application) clearOpenInvitation() {
	if a.PartnerStatus != PartnerAccepted {
		a.PartnerID = ""
		a.PartnerStatus = ""
	}
}
