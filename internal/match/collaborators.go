package match

import (
	"context"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/user"
)

// Notice types handed to the notification feed.
const (
	NoticeNewApplication      = "new_application"
	NoticeInvitationReceived  = "invitation_received"
	NoticeInvitationAccepted  = "invitation_accepted"
	NoticeInvitationRejected  = "invitation_rejected"
	NoticeMergeProposed       = "merge_proposed"
	NoticeProposalRejected    = "proposal_rejected"
	NoticeProposalCancelled   = "proposal_cancelled"
	NoticeTeamFormed          = "team_formed"
	NoticeTeamApproved        = "team_approved"
	NoticeApplicationRejected = "application_rejected"
	NoticeApplicationClosed   = "application_closed"
	NoticeEventCancelled      = "event_cancelled"
	NoticeEventReopened       = "event_reopened"
)

// Notice is one outbound notification.
type Notice struct {
	RecipientID   string `json:"recipient_id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	EventID       string `json:"event_id,omitempty"`
	ApplicationID string `json:"application_id,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
}

// Notifier is a best-effort, fire-and-forget send. Implementations must not
// block on delivery and must swallow their own failures.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Change describes a committed mutation for live subscribers.
type Change struct {
	EventID        string    `json:"event_id"`
	Kind           string    `json:"kind"`
	ApplicationIDs []string  `json:"application_ids,omitempty"`
	EventStatus    string    `json:"event_status,omitempty"`
	Generation     int64     `json:"generation,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher pushes committed changes to subscribers, best-effort.
type Publisher interface {
	Publish(ctx context.Context, c Change)
}

// Directory resolves user details for display surfaces such as the calendar export.
type Directory interface {
	GetUsersByIDs(ctx context.Context, ids []string) ([]user.User, error)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Change) {}
