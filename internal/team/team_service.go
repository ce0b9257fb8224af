package team

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/google/uuid"
)

// Service forms two-player teams for doubles events, either by a named
// invitation or by merging two solo applicants from the lobby.
type Service struct {
	engine *match.Service
	repo   match.Repository
}

func NewService(engine *match.Service) *Service {
	return &Service{engine: engine, repo: engine.Repo()}
}

// notLooking explains why app can no longer take part in a lobby exchange.
func notLooking(app *match.Application) match.Reason {
	switch {
	case app.Status.Terminal():
		return match.ReasonAlreadyTerminal
	case app.Status == match.StatusApproved:
		return match.ReasonAlreadyApproved
	case app.Merged():
		return match.ReasonAlreadyMerged
	}
	return match.ReasonStaleState
}

// otherCommitment reports whether userID already plays in an open or approved
// record of the event other than skipID.
func otherCommitment(apps []match.Application, userID, skipID string) bool {
	var rest []match.Application
	for _, a := range apps {
		if a.ID == skipID {
			continue
		}
		if a.ApplicantID == userID && (a.Status.Open() || a.Status == match.StatusApproved) {
			return true
		}
		rest = append(rest, a)
	}
	return match.BusyAsPartner(rest, userID)
}

// RespondInvitation records the invited partner's answer. Accepting turns the
// invitation into a two-player team waiting for the host; declining leaves the
// record with the applicant, who may invite someone else.
func (s *Service) RespondInvitation(ctx context.Context, req RespondInvitationRequest) (match.Result, error) {
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		app, err := s.repo.GetApplication(ctx, req.ApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if app.Status.Terminal() {
			return match.NoOp(match.ReasonAlreadyTerminal), nil
		}
		if app.PartnerID != req.ActorID {
			return match.Result{}, match.ErrNotPermitted
		}
		st, err := app.State()
		if err != nil {
			return match.Result{}, err
		}
		awaiting, ok := st.(match.AwaitingPartner)
		if !ok || awaiting.Declined {
			return match.NoOp(match.ReasonStaleState), nil
		}
		ev, err := s.repo.GetEvent(ctx, app.EventID)
		if err != nil {
			return match.Result{}, err
		}

		if !req.Accept {
			if _, _, err := match.Apply(app, match.RolePartner, match.StatusPendingPartnerApproval,
				match.AwaitingPartner{PartnerID: app.PartnerID, Declined: true}); err != nil {
				return match.Result{}, err
			}
			var b match.Batch
			b.UpdateApplication(app)
			if err := s.repo.Commit(ctx, b); err != nil {
				return match.Result{}, err
			}
			s.engine.Notify(ctx, match.Notice{
				RecipientID: app.ApplicantID, Type: match.NoticeInvitationRejected,
				Title: "Invitation declined", Message: "Your partner declined " + ev.Title + ". You can invite someone else.",
				EventID: ev.ID, ApplicationID: app.ID, ActorID: req.ActorID,
			})
			s.engine.Publish(ctx, ev, "invitation_rejected", *app)
			return match.Done(ev, *app), nil
		}

		if !ev.Recruiting() {
			return match.NoOp(match.ReasonEventNotRecruiting), nil
		}
		apps, err := s.repo.ListApplicationsByEvent(ctx, ev.ID)
		if err != nil {
			return match.Result{}, err
		}
		if otherCommitment(apps, req.ActorID, app.ID) {
			return match.NoOp(match.ReasonDuplicateApplication), nil
		}
		verdict, err := s.engine.Evaluate(ctx, ev, app.ApplicantID, app.PartnerID)
		if err != nil {
			return match.Result{}, err
		}
		if !verdict.Admissible {
			res := match.NoOp(match.ReasonIneligible)
			res.Eligibility = &verdict
			return res, nil
		}

		next := match.Pending{TeamID: uuid.NewString(), PartnerID: app.PartnerID, InvitedBy: app.ApplicantID}
		if _, _, err := match.Apply(app, match.RolePartner, match.StatusPendingPartnerApproval, next); err != nil {
			return match.Result{}, err
		}
		var b match.Batch
		b.UpdateApplication(app)
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		log.Printf("team %s formed by invitation on event %s", app.TeamID, ev.ID)

		s.engine.Notify(ctx,
			match.Notice{
				RecipientID: app.ApplicantID, Type: match.NoticeInvitationAccepted,
				Title: "Invitation accepted", Message: "Your partner accepted. Your team is waiting for the host of " + ev.Title,
				EventID: ev.ID, ApplicationID: app.ID, ActorID: req.ActorID,
			},
			match.Notice{
				RecipientID: ev.HostID, Type: match.NoticeNewApplication,
				Title: "New team application", Message: "A team applied to " + ev.Title,
				EventID: ev.ID, ApplicationID: app.ID, ActorID: app.ApplicantID,
			},
		)
		s.engine.Publish(ctx, ev, "invitation_accepted", *app)
		res := match.Done(ev, *app)
		res.Eligibility = &verdict
		return res, nil
	})
}

// Reinvite names a new partner on an application whose previous partner
// declined. The application keeps its identity.
func (s *Service) Reinvite(ctx context.Context, actorID, applicationID, partnerID string) (match.Result, error) {
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		app, err := s.repo.GetApplication(ctx, applicationID)
		if err != nil {
			return match.Result{}, err
		}
		if app.ApplicantID != actorID {
			return match.Result{}, match.ErrNotPermitted
		}
		if app.Status.Terminal() {
			return match.NoOp(match.ReasonAlreadyTerminal), nil
		}
		st, err := app.State()
		if err != nil {
			return match.Result{}, err
		}
		awaiting, ok := st.(match.AwaitingPartner)
		if !ok || !awaiting.Declined {
			return match.NoOp(match.ReasonStaleState), nil
		}
		ev, err := s.repo.GetEvent(ctx, app.EventID)
		if err != nil {
			return match.Result{}, err
		}
		if partnerID == "" || partnerID == actorID || ev.IsHostSide(partnerID) {
			return match.Result{}, fmt.Errorf("%w: invalid partner", match.ErrInvalidRequest)
		}
		if !ev.Recruiting() {
			return match.NoOp(match.ReasonEventNotRecruiting), nil
		}
		apps, err := s.repo.ListApplicationsByEvent(ctx, ev.ID)
		if err != nil {
			return match.Result{}, err
		}
		if otherCommitment(apps, partnerID, app.ID) {
			return match.NoOp(match.ReasonPartnerUnavailable), nil
		}
		verdict, err := s.engine.Evaluate(ctx, ev, actorID, partnerID)
		if err != nil {
			return match.Result{}, err
		}
		if !verdict.Admissible {
			res := match.NoOp(match.ReasonIneligible)
			res.Eligibility = &verdict
			return res, nil
		}

		if _, _, err := match.Apply(app, match.RoleApplicant, match.StatusPendingPartnerApproval,
			match.AwaitingPartner{PartnerID: partnerID}); err != nil {
			return match.Result{}, err
		}
		var b match.Batch
		b.UpdateApplication(app)
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		s.engine.Notify(ctx, match.Notice{
			RecipientID: partnerID, Type: match.NoticeInvitationReceived,
			Title: "Partner invitation", Message: "You have been invited to play " + ev.Title,
			EventID: ev.ID, ApplicationID: app.ID, ActorID: actorID,
		})
		s.engine.Publish(ctx, ev, "invitation_sent", *app)
		res := match.Done(ev, *app)
		res.Eligibility = &verdict
		return res, nil
	})
}

// Propose offers a merge from one lobby application to another. The target
// holds at most one proposal; while one is pending, further proposals are
// refused rather than replacing it.
func (s *Service) Propose(ctx context.Context, actorID, fromApplicationID, targetApplicationID string) (match.Result, error) {
	if fromApplicationID == targetApplicationID {
		return match.Result{}, fmt.Errorf("%w: cannot propose to yourself", match.ErrInvalidRequest)
	}
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		from, err := s.repo.GetApplication(ctx, fromApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if from.ApplicantID != actorID {
			return match.Result{}, match.ErrNotPermitted
		}
		target, err := s.repo.GetApplication(ctx, targetApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if target.EventID != from.EventID {
			return match.Result{}, fmt.Errorf("%w: applications belong to different events", match.ErrInvalidRequest)
		}
		if target.ApplicantID == from.ApplicantID {
			return match.Result{}, fmt.Errorf("%w: cannot team up with yourself", match.ErrInvalidRequest)
		}
		if from.Status != match.StatusLookingForPartner {
			return match.NoOp(notLooking(from)), nil
		}
		if target.Status != match.StatusLookingForPartner {
			return match.NoOp(notLooking(target)), nil
		}
		if target.PendingProposalFromApplicationID != "" {
			return match.NoOp(match.ReasonProposalPending), nil
		}
		ev, err := s.repo.GetEvent(ctx, from.EventID)
		if err != nil {
			return match.Result{}, err
		}
		if !ev.Recruiting() {
			return match.NoOp(match.ReasonEventNotRecruiting), nil
		}
		verdict, err := s.engine.Evaluate(ctx, ev, from.ApplicantID, target.ApplicantID)
		if err != nil {
			return match.Result{}, err
		}
		if !verdict.Admissible {
			res := match.NoOp(match.ReasonIneligible)
			res.Eligibility = &verdict
			return res, nil
		}

		marker := match.LookingForPartner{Proposal: &match.Proposal{FromApplicantID: from.ApplicantID, FromApplicationID: from.ID}}
		ok, reason, err := match.Apply(target, match.RoleEngine, match.StatusLookingForPartner, marker)
		if err != nil {
			return match.Result{}, err
		}
		if !ok {
			return match.NoOp(reason), nil
		}
		var b match.Batch
		b.UpdateApplication(target)
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		s.engine.Notify(ctx, match.Notice{
			RecipientID: target.ApplicantID, Type: match.NoticeMergeProposed,
			Title: "Team proposal", Message: "A player in the lobby wants to team up for " + ev.Title,
			EventID: ev.ID, ApplicationID: target.ID, ActorID: actorID,
		})
		s.engine.Publish(ctx, ev, "merge_proposed", *target)
		res := match.Done(ev, *target)
		res.Eligibility = &verdict
		return res, nil
	})
}

// AcceptProposal merges the proposer and the target into one team. Both
// records move to pending under a shared team id with the proposer as leader,
// and any other proposals pointing at either record are cleared.
func (s *Service) AcceptProposal(ctx context.Context, actorID, targetApplicationID, proposerApplicationID string) (match.Result, error) {
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		target, err := s.repo.GetApplication(ctx, targetApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if target.ApplicantID != actorID {
			return match.Result{}, match.ErrNotPermitted
		}
		proposer, err := s.repo.GetApplication(ctx, proposerApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if target.TeamID != "" && target.TeamID == proposer.TeamID {
			return match.NoOp(match.ReasonAlreadyMerged), nil
		}
		if target.Status != match.StatusLookingForPartner {
			return match.NoOp(notLooking(target)), nil
		}
		if target.PendingProposalFromApplicationID != proposer.ID {
			return match.NoOp(match.ReasonProposalNoLongerValid), nil
		}
		ev, err := s.repo.GetEvent(ctx, target.EventID)
		if err != nil {
			return match.Result{}, err
		}

		if proposer.Status != match.StatusLookingForPartner {
			// the proposer moved on; drop the dead marker
			if _, _, err := match.Apply(target, match.RoleEngine, match.StatusLookingForPartner, match.LookingForPartner{}); err != nil {
				return match.Result{}, err
			}
			var b match.Batch
			b.UpdateApplication(target)
			if err := s.repo.Commit(ctx, b); err != nil {
				return match.Result{}, err
			}
			s.engine.Publish(ctx, ev, "proposal_expired", *target)
			res := match.NoOp(match.ReasonProposalNoLongerValid)
			res.Applications = []match.Application{*target}
			return res, nil
		}
		if !ev.Recruiting() {
			return match.NoOp(match.ReasonEventNotRecruiting), nil
		}
		verdict, err := s.engine.Evaluate(ctx, ev, proposer.ApplicantID, target.ApplicantID)
		if err != nil {
			return match.Result{}, err
		}
		if !verdict.Admissible {
			res := match.NoOp(match.ReasonIneligible)
			res.Eligibility = &verdict
			return res, nil
		}

		apps, err := s.repo.ListApplicationsByEvent(ctx, ev.ID)
		if err != nil {
			return match.Result{}, err
		}

		// someone else's proposal to the proposer dies with the merge
		var orphaned []string
		if proposer.PendingProposalFrom != "" {
			orphaned = append(orphaned, proposer.PendingProposalFrom)
		}

		team := match.Pending{TeamID: uuid.NewString(), InvitedBy: proposer.ApplicantID}
		var b match.Batch
		for _, a := range []*match.Application{proposer, target} {
			if _, _, err := match.Apply(a, match.RoleEngine, match.StatusLookingForPartner, team); err != nil {
				return match.Result{}, err
			}
			b.UpdateApplication(a)
		}

		// proposals into the merged records, or out of them, are dead now
		var dropped []match.Application
		for i := range apps {
			other := &apps[i]
			if other.ID == proposer.ID || other.ID == target.ID || other.Status != match.StatusLookingForPartner {
				continue
			}
			from := other.PendingProposalFromApplicationID
			if from != proposer.ID && from != target.ID {
				continue
			}
			if _, _, err := match.Apply(other, match.RoleEngine, match.StatusLookingForPartner, match.LookingForPartner{}); err != nil {
				return match.Result{}, err
			}
			b.UpdateApplication(other)
			dropped = append(dropped, *other)
		}
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		log.Printf("team %s formed in the lobby of event %s (leader %s)", team.TeamID, ev.ID, proposer.ApplicantID)

		notices := []match.Notice{
			{
				RecipientID: proposer.ApplicantID, Type: match.NoticeTeamFormed,
				Title: "Team formed", Message: "Your proposal was accepted. Your team is waiting for the host of " + ev.Title,
				EventID: ev.ID, ApplicationID: proposer.ID, ActorID: actorID,
			},
			{
				RecipientID: ev.HostID, Type: match.NoticeNewApplication,
				Title: "New team application", Message: "A team formed in the lobby of " + ev.Title,
				EventID: ev.ID, ApplicationID: proposer.ID, ActorID: proposer.ApplicantID,
			},
		}
		for _, d := range dropped {
			notices = append(notices, match.Notice{
				RecipientID: d.ApplicantID, Type: match.NoticeProposalCancelled,
				Title: "Proposal withdrawn", Message: "A proposal you received for " + ev.Title + " is no longer available",
				EventID: ev.ID, ApplicationID: d.ID,
			})
		}
		for _, userID := range orphaned {
			notices = append(notices, match.Notice{
				RecipientID: userID, Type: match.NoticeProposalRejected,
				Title: "Proposal declined", Message: "The player you proposed to for " + ev.Title + " joined another team",
				EventID: ev.ID,
			})
		}
		s.engine.Notify(ctx, notices...)
		s.engine.Publish(ctx, ev, "team_formed", append([]match.Application{*proposer, *target}, dropped...)...)
		res := match.Done(ev, *proposer, *target)
		res.Eligibility = &verdict
		return res, nil
	})
}

// RejectProposal clears the pending proposal on the caller's lobby record.
// proposerApplicationID, when set, must still name the pending proposal.
func (s *Service) RejectProposal(ctx context.Context, actorID, targetApplicationID, proposerApplicationID string) (match.Result, error) {
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		target, err := s.repo.GetApplication(ctx, targetApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if target.ApplicantID != actorID {
			return match.Result{}, match.ErrNotPermitted
		}
		return s.clearProposal(ctx, target, proposerApplicationID, actorID, match.NoticeProposalRejected)
	})
}

// CancelProposal withdraws a proposal the caller made to targetApplicationID.
func (s *Service) CancelProposal(ctx context.Context, actorID, proposerApplicationID, targetApplicationID string) (match.Result, error) {
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		proposer, err := s.repo.GetApplication(ctx, proposerApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		if proposer.ApplicantID != actorID {
			return match.Result{}, match.ErrNotPermitted
		}
		target, err := s.repo.GetApplication(ctx, targetApplicationID)
		if err != nil {
			return match.Result{}, err
		}
		return s.clearProposal(ctx, target, proposer.ID, actorID, match.NoticeProposalCancelled)
	})
}

// clearProposal removes the marker on target. The party on the other side of
// the proposal is told with noticeType.
func (s *Service) clearProposal(ctx context.Context, target *match.Application, proposerApplicationID, actorID, noticeType string) (match.Result, error) {
	if target.Status != match.StatusLookingForPartner {
		return match.NoOp(notLooking(target)), nil
	}
	if target.PendingProposalFromApplicationID == "" {
		return match.NoOp(match.ReasonNothingToDo), nil
	}
	if proposerApplicationID != "" && target.PendingProposalFromApplicationID != proposerApplicationID {
		return match.NoOp(match.ReasonProposalNoLongerValid), nil
	}
	ev, err := s.repo.GetEvent(ctx, target.EventID)
	if err != nil {
		return match.Result{}, err
	}
	proposerUser := target.PendingProposalFrom
	if _, _, err := match.Apply(target, match.RoleEngine, match.StatusLookingForPartner, match.LookingForPartner{}); err != nil {
		return match.Result{}, err
	}
	var b match.Batch
	b.UpdateApplication(target)
	if err := s.repo.Commit(ctx, b); err != nil {
		return match.Result{}, err
	}

	recipient, message := proposerUser, "Your team proposal for "+ev.Title+" was declined"
	if noticeType == match.NoticeProposalCancelled {
		recipient, message = target.ApplicantID, "A team proposal for "+ev.Title+" was withdrawn"
	}
	s.engine.Notify(ctx, match.Notice{
		RecipientID: recipient, Type: noticeType,
		Title: "Team proposal", Message: message,
		EventID: ev.ID, ApplicationID: target.ID, ActorID: actorID,
	})
	s.engine.Publish(ctx, ev, noticeType, *target)
	return match.Done(ev, *target), nil
}

// Teams lists the event's two-player teams, pending or approved, once each.
func (s *Service) Teams(ctx context.Context, eventID string) ([]View, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	views := []View{}
	if !ev.GameType.IsDoubles() {
		return views, nil
	}
	apps, err := s.repo.ListApplicationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byTeam := map[string][]match.Application{}
	var order []string
	for _, a := range apps {
		if a.TeamID == "" || (a.Status != match.StatusPending && a.Status != match.StatusApproved) {
			continue
		}
		if _, seen := byTeam[a.TeamID]; !seen {
			order = append(order, a.TeamID)
		}
		byTeam[a.TeamID] = append(byTeam[a.TeamID], a)
	}

	for _, teamID := range order {
		records := byTeam[teamID]
		// leader first
		sort.SliceStable(records, func(i, j int) bool { return records[i].IsLeader() && !records[j].IsLeader() })
		lead := records[0]
		v := View{
			TeamID:              teamID,
			EventID:             eventID,
			Source:              SourceLobby,
			LeaderID:            lead.InvitedBy,
			LeaderApplicationID: lead.ID,
			Status:              lead.Status,
		}

		type seat struct{ userID, appID string }
		var seats []seat
		if lead.Merged() {
			for _, r := range records {
				seats = append(seats, seat{r.ApplicantID, r.ID})
			}
			v.Ready = len(records) == 2 && records[0].Status == records[1].Status
		} else {
			v.Source = SourceInvitation
			v.LeaderID = lead.ApplicantID
			seats = []seat{{lead.ApplicantID, lead.ID}, {lead.PartnerID, lead.ID}}
			v.Ready = lead.PartnerStatus == match.PartnerAccepted
		}

		for _, st := range seats {
			snap, err := s.engine.Snapshot(ctx, ev, st.userID)
			if err != nil {
				return nil, err
			}
			v.Members = append(v.Members, Member{
				UserID:        st.userID,
				ApplicationID: st.appID,
				Rating:        snap.DisplayOrFloor(),
				RatingKnown:   snap.Known,
				Leader:        st.userID == v.LeaderID,
			})
			v.CombinedRating += snap.DisplayOrFloor()
		}
		views = append(views, v)
	}
	return views, nil
}
