package team

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/eligibility"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/rating"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []match.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n match.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) sentTo(userID, kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notices {
		if n.RecipientID == userID && n.Type == kind {
			count++
		}
	}
	return count
}

func doubles(id string, display int) rating.Profile {
	return rating.Profile{
		UserID: id,
		Gender: "male",
		Elo:    map[sport.RatingKind]float64{sport.KindDoubles: 700 + 150*float64(display-1) + 10},
	}
}

type fixture struct {
	repo     *match.MemoryRepository
	notifier *recordingNotifier
	engine   *match.Service
	teams    *Service
	event    *match.Event
}

// newFixture opens a men's doubles event hosted by "host" and "hp", both
// rated 6, so pairs are admitted between 10 and 14 combined.
func newFixture(t *testing.T, players ...rating.Profile) *fixture {
	t.Helper()
	f := &fixture{repo: match.NewMemoryRepository(), notifier: &recordingNotifier{}}
	src := rating.NewStaticSource(append(players, doubles("host", 6), doubles("hp", 6))...)
	f.engine = match.NewService(f.repo, src, match.DefaultSettings(), match.WithNotifier(f.notifier))
	f.teams = NewService(f.engine)

	ev, err := f.engine.CreateEvent(context.Background(), match.CreateEventRequest{
		HostID:        "host",
		HostPartnerID: "hp",
		Title:         "Doubles night",
		GameType:      string(sport.DoublesMens),
		ScheduledAt:   time.Date(2026, 7, 2, 19, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	f.event = ev
	return f
}

func (f *fixture) submit(t *testing.T, applicant, partner string) *match.Application {
	t.Helper()
	res, err := f.engine.Submit(context.Background(), match.SubmitRequest{EventID: f.event.ID, ApplicantID: applicant, PartnerID: partner})
	require.NoError(t, err)
	require.True(t, res.Applied, "submit %s: %s", applicant, res.Reason)
	return &res.Applications[0]
}

func (f *fixture) get(t *testing.T, id string) *match.Application {
	t.Helper()
	app, err := f.repo.GetApplication(context.Background(), id)
	require.NoError(t, err)
	return app
}

func TestAcceptInvitationFormsTeam(t *testing.T) {
	f := newFixture(t, doubles("u1", 6), doubles("u2", 6))
	ctx := context.Background()
	app := f.submit(t, "u1", "u2")

	res, err := f.teams.RespondInvitation(ctx, RespondInvitationRequest{ApplicationID: app.ID, ActorID: "u2", Accept: true})
	require.NoError(t, err)
	require.True(t, res.Applied)

	stored := f.get(t, app.ID)
	assert.Equal(t, match.StatusPending, stored.Status)
	assert.Equal(t, match.PartnerAccepted, stored.PartnerStatus)
	assert.NotEmpty(t, stored.TeamID)
	assert.Equal(t, "u1", stored.InvitedBy)
	assert.False(t, stored.Merged())
	assert.ElementsMatch(t, []string{"u1", "u2"}, stored.Players())
	assert.Equal(t, 1, f.notifier.sentTo("u1", match.NoticeInvitationAccepted))
	assert.Equal(t, 1, f.notifier.sentTo("host", match.NoticeNewApplication))

	res, err = f.teams.RespondInvitation(ctx, RespondInvitationRequest{ApplicationID: app.ID, ActorID: "u2", Accept: true})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, match.ReasonStaleState, res.Reason)

	views, err := f.teams.Teams(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, SourceInvitation, views[0].Source)
	assert.Equal(t, "u1", views[0].LeaderID)
	assert.Equal(t, 12, views[0].CombinedRating)
	assert.True(t, views[0].Ready)
}

func TestOnlyTheInvitedPartnerMayRespond(t *testing.T) {
	f := newFixture(t, doubles("u1", 6), doubles("u2", 6))
	app := f.submit(t, "u1", "u2")

	_, err := f.teams.RespondInvitation(context.Background(), RespondInvitationRequest{ApplicationID: app.ID, ActorID: "u1", Accept: true})
	assert.ErrorIs(t, err, match.ErrNotPermitted)
	assert.Equal(t, match.StatusPendingPartnerApproval, f.get(t, app.ID).Status)
}

func TestRespondingToAWithdrawnInvitation(t *testing.T) {
	f := newFixture(t, doubles("u1", 6), doubles("u2", 6))
	ctx := context.Background()
	app := f.submit(t, "u1", "u2")

	_, err := f.engine.Withdraw(ctx, "u1", app.ID)
	require.NoError(t, err)

	res, err := f.teams.RespondInvitation(ctx, RespondInvitationRequest{ApplicationID: app.ID, ActorID: "u2", Accept: true})
	require.NoError(t, err)
	assert.Equal(t, match.ReasonAlreadyTerminal, res.Reason)
}

func TestDeclinedInvitationCanBeReissued(t *testing.T) {
	f := newFixture(t, doubles("u1", 6), doubles("u2", 6), doubles("u3", 5), doubles("u4", 1))
	ctx := context.Background()
	app := f.submit(t, "u1", "u2")

	res, err := f.teams.Reinvite(ctx, "u1", app.ID, "u3")
	require.NoError(t, err)
	assert.Equal(t, match.ReasonStaleState, res.Reason, "the first invitation is still open")

	res, err = f.teams.RespondInvitation(ctx, RespondInvitationRequest{ApplicationID: app.ID, ActorID: "u2"})
	require.NoError(t, err)
	require.True(t, res.Applied)
	declined := f.get(t, app.ID)
	assert.Equal(t, match.StatusPendingPartnerApproval, declined.Status)
	assert.Equal(t, match.PartnerRejected, declined.PartnerStatus)
	assert.Equal(t, 1, f.notifier.sentTo("u1", match.NoticeInvitationRejected))

	// 6 + 1 falls below the 10..14 pair window
	res, err = f.teams.Reinvite(ctx, "u1", app.ID, "u4")
	require.NoError(t, err)
	assert.Equal(t, match.ReasonIneligible, res.Reason)
	assert.Equal(t, eligibility.ReasonRatingTooLow, res.Eligibility.Reason)

	_, err = f.teams.Reinvite(ctx, "u2", app.ID, "u3")
	assert.ErrorIs(t, err, match.ErrNotPermitted)

	res, err = f.teams.Reinvite(ctx, "u1", app.ID, "u3")
	require.NoError(t, err)
	require.True(t, res.Applied)
	reissued := f.get(t, app.ID)
	assert.Equal(t, app.ID, reissued.ID)
	assert.Equal(t, "u3", reissued.PartnerID)
	assert.Equal(t, match.PartnerPending, reissued.PartnerStatus)
	assert.Equal(t, 1, f.notifier.sentTo("u3", match.NoticeInvitationReceived))

	res, err = f.teams.RespondInvitation(ctx, RespondInvitationRequest{ApplicationID: app.ID, ActorID: "u3", Accept: true})
	require.NoError(t, err)
	assert.True(t, res.Applied)
}

func TestAcceptProposalMergesBothRecords(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")

	res, err := f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, a.ID, f.get(t, b.ID).PendingProposalFromApplicationID)
	assert.Equal(t, 1, f.notifier.sentTo("b", match.NoticeMergeProposed))

	res, err = f.teams.AcceptProposal(ctx, "b", b.ID, a.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)

	ma, mb := f.get(t, a.ID), f.get(t, b.ID)
	for _, rec := range []*match.Application{ma, mb} {
		assert.Equal(t, match.StatusPending, rec.Status)
		assert.Equal(t, "a", rec.InvitedBy)
		assert.True(t, rec.Merged())
		assert.Empty(t, rec.PendingProposalFromApplicationID)
	}
	assert.Equal(t, ma.TeamID, mb.TeamID)
	assert.True(t, ma.IsLeader())
	assert.False(t, mb.IsLeader())
	assert.Equal(t, 1, f.notifier.sentTo("a", match.NoticeTeamFormed))

	// accepting again is a no-op
	res, err = f.teams.AcceptProposal(ctx, "b", b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, match.ReasonAlreadyMerged, res.Reason)

	views, err := f.teams.Teams(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, views, 1, "a merged team is listed once")
	assert.Equal(t, SourceLobby, views[0].Source)
	assert.Equal(t, "a", views[0].LeaderID)
	assert.Equal(t, a.ID, views[0].LeaderApplicationID)
	assert.Len(t, views[0].Members, 2)
	assert.True(t, views[0].Ready)

	lobby, err := f.engine.Lobby(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Empty(t, lobby)
}

func TestSecondProposerDoesNotOverwrite(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6), doubles("c", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")
	c := f.submit(t, "c", "")

	res, err := f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)

	res, err = f.teams.Propose(ctx, "c", c.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, match.ReasonProposalPending, res.Reason)
	assert.Equal(t, a.ID, f.get(t, b.ID).PendingProposalFromApplicationID)
}

func TestConcurrentProposalsLeaveOneMarker(t *testing.T) {
	names := []string{"p1", "p2", "p3", "p4", "p5"}
	profiles := []rating.Profile{doubles("target", 6)}
	for _, n := range names {
		profiles = append(profiles, doubles(n, 6))
	}
	f := newFixture(t, profiles...)
	target := f.submit(t, "target", "")
	apps := map[string]*match.Application{}
	for _, n := range names {
		apps[n] = f.submit(t, n, "")
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied []string
	)
	for _, n := range names {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			res, err := f.teams.Propose(context.Background(), n, apps[n].ID, target.ID)
			if !assert.NoError(t, err) {
				return
			}
			if res.Applied {
				mu.Lock()
				applied = append(applied, apps[n].ID)
				mu.Unlock()
			} else {
				assert.Equal(t, match.ReasonProposalPending, res.Reason)
			}
		}(n)
	}
	wg.Wait()

	require.Len(t, applied, 1)
	assert.Equal(t, applied[0], f.get(t, target.ID).PendingProposalFromApplicationID)
}

func TestStaleProposalLeavesAcceptorInLobby(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6), doubles("c", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")
	c := f.submit(t, "c", "")

	_, err := f.teams.Propose(ctx, "b", b.ID, a.ID)
	require.NoError(t, err)
	_, err = f.teams.Propose(ctx, "c", c.ID, b.ID)
	require.NoError(t, err)

	res, err := f.teams.AcceptProposal(ctx, "b", b.ID, c.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 1, f.notifier.sentTo("a", match.NoticeProposalCancelled))

	res, err = f.teams.AcceptProposal(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, match.ReasonProposalNoLongerValid, res.Reason)

	stored := f.get(t, a.ID)
	assert.Equal(t, match.StatusLookingForPartner, stored.Status)
	assert.Empty(t, stored.TeamID)
	assert.Empty(t, stored.PendingProposalFromApplicationID)
}

func TestAcceptClearsDeadMarker(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")
	_, err := f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)

	// the proposer's record leaves the lobby without the marker being cleaned up
	gone := f.get(t, a.ID)
	gone.Status = match.StatusClosed
	var batch match.Batch
	batch.UpdateApplication(gone)
	require.NoError(t, f.repo.Commit(ctx, batch))

	res, err := f.teams.AcceptProposal(ctx, "b", b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ReasonProposalNoLongerValid, res.Reason)
	stored := f.get(t, b.ID)
	assert.Equal(t, match.StatusLookingForPartner, stored.Status)
	assert.Empty(t, stored.PendingProposalFromApplicationID)
}

func TestOnlyTheAddressedApplicantMayAccept(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6), doubles("c", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")
	f.submit(t, "c", "")
	_, err := f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)

	_, err = f.teams.AcceptProposal(ctx, "c", b.ID, a.ID)
	assert.ErrorIs(t, err, match.ErrNotPermitted)

	_, err = f.teams.Propose(ctx, "c", a.ID, b.ID)
	assert.ErrorIs(t, err, match.ErrNotPermitted)
}

func TestRejectAndCancelProposal(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")

	_, err := f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	res, err := f.teams.RejectProposal(ctx, "b", b.ID, "")
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Empty(t, f.get(t, b.ID).PendingProposalFromApplicationID)
	assert.Equal(t, 1, f.notifier.sentTo("a", match.NoticeProposalRejected))

	_, err = f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	_, err = f.teams.CancelProposal(ctx, "b", a.ID, b.ID)
	assert.ErrorIs(t, err, match.ErrNotPermitted)

	res, err = f.teams.CancelProposal(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 1, f.notifier.sentTo("b", match.NoticeProposalCancelled))

	res, err = f.teams.CancelProposal(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ReasonNothingToDo, res.Reason)
}

func TestProposeChecksPairRating(t *testing.T) {
	f := newFixture(t, doubles("a", 5), doubles("b", 3))
	ctx := context.Background()
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")

	res, err := f.teams.Propose(ctx, "a", a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, match.ReasonIneligible, res.Reason)
	assert.Equal(t, eligibility.ReasonRatingTooLow, res.Eligibility.Reason)
	assert.Empty(t, f.get(t, b.ID).PendingProposalFromApplicationID)
}

func TestCannotProposeToYourself(t *testing.T) {
	f := newFixture(t, doubles("a", 6))
	ctx := context.Background()
	a := f.submit(t, "a", "")

	_, err := f.teams.Propose(ctx, "a", a.ID, a.ID)
	assert.ErrorIs(t, err, match.ErrInvalidRequest)

	// a second lobby record left over from an older write
	second := *a
	second.ID = "a-second"
	var b match.Batch
	b.CreateApplication(&second)
	require.NoError(t, f.repo.Commit(ctx, b))

	_, err = f.teams.Propose(ctx, "a", second.ID, a.ID)
	assert.ErrorIs(t, err, match.ErrInvalidRequest)
	assert.Empty(t, f.get(t, a.ID).PendingProposalFromApplicationID)
}
