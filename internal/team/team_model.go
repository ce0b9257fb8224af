// team/model.go
package team

import (
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
)

// Source tells how a team came together.
type Source string

const (
	SourceInvitation Source = "invitation"
	SourceLobby      Source = "lobby"
)

// Member is one player of a team as shown to the host.
type Member struct {
	UserID        string `json:"user_id"`
	ApplicationID string `json:"application_id"`
	Rating        int    `json:"rating"`
	RatingKnown   bool   `json:"rating_known"`
	Leader        bool   `json:"leader"`
}

// View is the logical two-player team. A lobby team is stored as two
// application records and appears here once, under its leader.
type View struct {
	TeamID              string                  `json:"team_id"`
	EventID             string                  `json:"event_id"`
	Source              Source                  `json:"source"`
	LeaderID            string                  `json:"leader_id"`
	LeaderApplicationID string                  `json:"leader_application_id"`
	Members             []Member                `json:"members"`
	CombinedRating      int                     `json:"combined_rating"`
	Status              match.ApplicationStatus `json:"status"`
	// Ready is true once both players are committed and the host can decide.
	Ready bool `json:"ready"`
}

type RespondInvitationRequest struct {
	ApplicationID string
	ActorID       string
	Accept        bool
}

type ReinviteBody struct {
	PartnerID string `json:"partner_id" binding:"required"`
}

type ProposeBody struct {
	TargetApplicationID string `json:"target_application_id" binding:"required"`
}

type AnswerProposalBody struct {
	// ProposerApplicationID names the proposal being answered. Required to
	// accept; optional to reject.
	ProposerApplicationID string `json:"proposer_application_id"`
}
