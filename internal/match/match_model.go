package match

import (
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
)

type EventStatus string

const (
	EventRecruiting EventStatus = "recruiting"
	EventFull       EventStatus = "full"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
)

// Event is a hosted match or open meetup with a single open slot.
type Event struct {
	ID              string         `gorm:"type:varchar(36);primaryKey" json:"id" dynamodbav:"id"`
	ClubID          string         `gorm:"index" json:"club_id,omitempty" dynamodbav:"clubId,omitempty"`
	Title           string         `json:"title" dynamodbav:"title"`
	Description     string         `json:"description,omitempty" dynamodbav:"description,omitempty"`
	GameType        sport.GameType `gorm:"not null" json:"game_type" dynamodbav:"gameType"`
	HostID          string         `gorm:"type:varchar(36);index;not null" json:"host_id" dynamodbav:"hostId"`
	HostPartnerID   string         `gorm:"type:varchar(36)" json:"host_partner_id,omitempty" dynamodbav:"hostPartnerId,omitempty"`
	// RatingMin and RatingMax hold the singles window computed from the host's
	// rating when the event was created. They are not refreshed when the host's
	// rating later changes, so the window can go stale on long-lived events.
	RatingMin       int         `json:"rating_min,omitempty" dynamodbav:"ratingMin"`
	RatingMax       int         `json:"rating_max,omitempty" dynamodbav:"ratingMax"`
	MaxParticipants int         `json:"max_participants" dynamodbav:"maxParticipants"`
	Status          EventStatus `gorm:"index;not null" json:"status" dynamodbav:"status"`
	// Generation changes whenever the open slot is filled or vacated.
	Generation      int64     `gorm:"not null;default:1" json:"generation" dynamodbav:"generation"`
	Version         int64     `gorm:"not null;default:0" json:"version" dynamodbav:"version"`
	ScheduledAt     time.Time `json:"scheduled_at" dynamodbav:"scheduledAt"`
	DurationMinutes int       `json:"duration_minutes,omitempty" dynamodbav:"durationMinutes"`
	Location        string    `json:"location,omitempty" dynamodbav:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"createdAt"`
	UpdatedAt       time.Time `json:"updated_at" dynamodbav:"updatedAt"`
}

// Recruiting reports whether the open slot can still be filled.
func (e *Event) Recruiting() bool {
	return e.Status == EventRecruiting
}

// IsHostSide reports whether userID plays on the host's side.
func (e *Event) IsHostSide(userID string) bool {
	return userID != "" && (userID == e.HostID || userID == e.HostPartnerID)
}

// HostSeats is the number of seats the host side occupies.
func (e *Event) HostSeats() int {
	if e.GameType.IsDoubles() {
		return 2
	}
	return 1
}

type ApplicationStatus string

const (
	StatusPending                ApplicationStatus = "pending"
	StatusLookingForPartner      ApplicationStatus = "looking_for_partner"
	StatusPendingPartnerApproval ApplicationStatus = "pending_partner_approval"
	StatusApproved               ApplicationStatus = "approved"
	StatusRejected               ApplicationStatus = "rejected"
	StatusClosed                 ApplicationStatus = "closed"
)

// Open reports whether the status still competes for the event's slot.
func (s ApplicationStatus) Open() bool {
	return s == StatusPending || s == StatusLookingForPartner || s == StatusPendingPartnerApproval
}

// Terminal reports whether no further transition may start from s.
// Approved records are only ever closed by the engine itself.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusRejected || s == StatusClosed
}

type PartnerStatus string

const (
	PartnerPending  PartnerStatus = "pending"
	PartnerAccepted PartnerStatus = "accepted"
	PartnerRejected PartnerStatus = "rejected"
)

// Application is one candidate's bid for an Event's slot. The flat fields are
// the persisted shape; State() returns the typed view and SetState is the only
// writer of status-dependent fields.
type Application struct {
	ID            string            `gorm:"type:varchar(36);primaryKey" json:"id" dynamodbav:"id"`
	EventID       string            `gorm:"type:varchar(36);index;not null" json:"event_id" dynamodbav:"eventId"`
	ApplicantID   string            `gorm:"type:varchar(36);index;not null" json:"applicant_id" dynamodbav:"applicantId"`
	Status        ApplicationStatus `gorm:"index;not null" json:"status" dynamodbav:"status"`
	TeamID        string            `gorm:"type:varchar(36);index" json:"team_id,omitempty" dynamodbav:"teamId,omitempty"`
	PartnerID     string            `gorm:"type:varchar(36);index" json:"partner_id,omitempty" dynamodbav:"partnerId,omitempty"`
	PartnerStatus PartnerStatus     `json:"partner_status,omitempty" dynamodbav:"partnerStatus,omitempty"`

	PendingProposalFrom              string `json:"pending_proposal_from,omitempty" dynamodbav:"pendingProposalFrom,omitempty"`
	PendingProposalFromApplicationID string `json:"pending_proposal_from_application_id,omitempty" dynamodbav:"pendingProposalFromApplicationId,omitempty"`

	// InvitedBy names the team leader's applicant id once the record belongs to a team.
	InvitedBy       string `json:"invited_by,omitempty" dynamodbav:"invitedBy,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty" dynamodbav:"rejectionReason,omitempty"`
	// Seats is the number of seats this record claimed when it was approved.
	Seats     int       `json:"seats,omitempty" dynamodbav:"seats"`
	Version   int64     `gorm:"not null;default:0" json:"version" dynamodbav:"version"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updatedAt"`
}

// IsLeader reports whether this record leads its team.
func (a *Application) IsLeader() bool {
	return a.InvitedBy != "" && a.InvitedBy == a.ApplicantID
}

// Merged reports whether this record is half of a two-record team.
func (a *Application) Merged() bool {
	return a.TeamID != "" && a.PartnerID == ""
}

// Players returns the user ids this record puts on court.
func (a *Application) Players() []string {
	if a.PartnerID != "" && a.PartnerStatus == PartnerAccepted {
		return []string{a.ApplicantID, a.PartnerID}
	}
	return []string{a.ApplicantID}
}
