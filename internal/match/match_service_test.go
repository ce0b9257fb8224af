package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/eligibility"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/rating"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) {
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

// eloFor returns an ELO that displays as d.
func eloFor(d int) float64 {
	return 700 + 150*float64(d-1) + 10
}

func player(id, gender string, kind sport.RatingKind, display int) rating.Profile {
	return rating.Profile{UserID: id, Gender: gender, Elo: map[sport.RatingKind]float64{kind: eloFor(display)}}
}

type fixture struct {
	repo     *MemoryRepository
	ratings  *rating.StaticSource
	notifier *recordingNotifier
	svc      *Service
}

func newFixture(profiles ...rating.Profile) *fixture {
	f := &fixture{
		repo:     NewMemoryRepository(),
		ratings:  rating.NewStaticSource(profiles...),
		notifier: &recordingNotifier{},
	}
	f.svc = NewService(f.repo, f.ratings, DefaultSettings(), WithNotifier(f.notifier))
	return f
}

func (f *fixture) event(t *testing.T, host, partner string, gt sport.GameType) *Event {
	t.Helper()
	ev, err := f.svc.CreateEvent(context.Background(), CreateEventRequest{
		HostID:        host,
		HostPartnerID: partner,
		Title:         "Evening match",
		GameType:      string(gt),
		ScheduledAt:   time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return ev
}

func TestCreateEventFreezesSinglesWindow(t *testing.T) {
	f := newFixture(player("host", "male", sport.KindSingles, 5))
	ev := f.event(t, "host", "", sport.SinglesMens)
	assert.Equal(t, 4, ev.RatingMin)
	assert.Equal(t, 6, ev.RatingMax)
	assert.Equal(t, 2, ev.MaxParticipants)
	assert.Equal(t, EventRecruiting, ev.Status)
	assert.Equal(t, int64(1), ev.Generation)

	// a later rating change does not move the stored window
	f.ratings.Put(player("host", "male", sport.KindSingles, 9))
	stored, err := f.svc.GetEvent(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.RatingMin)
	assert.Equal(t, 6, stored.RatingMax)
}

func TestCreateEventValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateEvent(ctx, CreateEventRequest{HostID: "h", Title: "x", GameType: "cricket"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.CreateEvent(ctx, CreateEventRequest{HostID: "h", Title: "x", GameType: "meetup", MaxParticipants: 1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.CreateEvent(ctx, CreateEventRequest{HostID: "h", HostPartnerID: "p", Title: "x", GameType: "singles_mens"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	ev, err := f.svc.CreateEvent(ctx, CreateEventRequest{HostID: "h", Title: "Social", GameType: "meetup", MaxParticipants: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, ev.MaxParticipants)
	assert.Zero(t, ev.RatingMin)
}

func TestSubmitSinglesGoesToHost(t *testing.T) {
	f := newFixture(
		player("host", "male", sport.KindSingles, 5),
		player("u1", "male", sport.KindSingles, 6),
	)
	ev := f.event(t, "host", "", sport.SinglesMens)

	res, err := f.svc.Submit(context.Background(), SubmitRequest{EventID: ev.ID, ApplicantID: "u1"})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, StatusPending, res.Applications[0].Status)
	assert.Equal(t, 1, f.notifier.sentTo("host", NoticeNewApplication))
}

func TestSubmitIneligibleIsStoredAsRejected(t *testing.T) {
	f := newFixture(
		player("host", "male", sport.KindSingles, 5),
		player("u1", "male", sport.KindSingles, 8),
		player("u2", "female", sport.KindSingles, 5),
	)
	ev := f.event(t, "host", "", sport.SinglesMens)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1"})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, ReasonIneligible, res.Reason)
	require.NotNil(t, res.Eligibility)
	assert.Equal(t, eligibility.ReasonRatingTooHigh, res.Eligibility.Reason)
	require.Len(t, res.Applications, 1)
	assert.Equal(t, StatusRejected, res.Applications[0].Status)
	assert.Equal(t, string(eligibility.ReasonRatingTooHigh), res.Applications[0].RejectionReason)

	res, err = f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, eligibility.ReasonGenderMismatch, res.Eligibility.Reason)
	assert.Zero(t, f.notifier.sentTo("host", NoticeNewApplication))
}

func TestSubmitUnknownRatingCountsAsLowest(t *testing.T) {
	f := newFixture(player("host", "male", sport.KindSingles, 3))
	ev := f.event(t, "host", "", sport.SinglesMens)

	// window is 2..4, so a player with no rating at all (treated as 1) is too low
	res, err := f.svc.Submit(context.Background(), SubmitRequest{EventID: ev.ID, ApplicantID: "stranger"})
	require.NoError(t, err)
	assert.Equal(t, ReasonIneligible, res.Reason)
	assert.Equal(t, eligibility.ReasonRatingTooLow, res.Eligibility.Reason)
}

func TestSubmitDoublesRoutes(t *testing.T) {
	f := newFixture(
		player("host", "male", sport.KindDoubles, 6),
		player("hp", "male", sport.KindDoubles, 6),
		player("u1", "male", sport.KindDoubles, 6),
		player("u2", "male", sport.KindDoubles, 6),
		player("u3", "male", sport.KindDoubles, 5),
	)
	ev := f.event(t, "host", "hp", sport.DoublesMens)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1", PartnerID: "u2"})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, StatusPendingPartnerApproval, res.Applications[0].Status)
	assert.Equal(t, PartnerPending, res.Applications[0].PartnerStatus)
	assert.Equal(t, 1, f.notifier.sentTo("u2", NoticeInvitationReceived))

	res, err = f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u3"})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, StatusLookingForPartner, res.Applications[0].Status)

	// u2 is already named in u1's invitation
	res, err = f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, ReasonDuplicateApplication, res.Reason)

	res, err = f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u3", PartnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, ReasonDuplicateApplication, res.Reason)
}

func TestSubmitRejectsBadRequests(t *testing.T) {
	f := newFixture(player("host", "male", sport.KindSingles, 5))
	ev := f.event(t, "host", "", sport.SinglesMens)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "host"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1", PartnerID: "u2"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.Submit(ctx, SubmitRequest{EventID: "missing", ApplicantID: "u1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitToClosedEventIsNoOp(t *testing.T) {
	f := newFixture(player("host", "male", sport.KindSingles, 5))
	ev := f.event(t, "host", "", sport.SinglesMens)
	ctx := context.Background()

	stored, err := f.repo.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	stored.Status = EventFull
	var b Batch
	b.UpdateEvent(stored)
	require.NoError(t, f.repo.Commit(ctx, b))

	res, err := f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1"})
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, ReasonEventNotRecruiting, res.Reason)
}

func TestResubmitAfterDeclineClosesOldInvitation(t *testing.T) {
	f := newFixture(
		player("host", "female", sport.KindMixed, 6),
		player("hp", "male", sport.KindMixed, 5),
		player("u1", "female", sport.KindMixed, 5),
		player("u2", "male", sport.KindMixed, 5),
		player("u3", "male", sport.KindMixed, 5),
	)
	ev := f.event(t, "host", "hp", sport.DoublesMixed)
	ctx := context.Background()

	res, err := f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1", PartnerID: "u2"})
	require.NoError(t, err)
	old := res.Applications[0]

	// partner declines
	stored, err := f.repo.GetApplication(ctx, old.ID)
	require.NoError(t, err)
	ok, _, err := Apply(stored, RolePartner, StatusPendingPartnerApproval, AwaitingPartner{PartnerID: "u2", Declined: true})
	require.NoError(t, err)
	require.True(t, ok)
	var b Batch
	b.UpdateApplication(stored)
	require.NoError(t, f.repo.Commit(ctx, b))

	res, err = f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1", PartnerID: "u3"})
	require.NoError(t, err)
	require.True(t, res.Applied, "reason %s", res.Reason)

	closed, err := f.repo.GetApplication(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, closed.Status)
	assert.Empty(t, closed.PartnerID)
}

func TestWithdrawMergedTeamClosesBothHalves(t *testing.T) {
	f := newFixture(player("host", "male", sport.KindDoubles, 6))
	ev := f.event(t, "host", "", sport.DoublesMens)
	ctx := context.Background()

	a := &Application{ID: "a", EventID: ev.ID, ApplicantID: "u1", Status: StatusPending, TeamID: "t1", InvitedBy: "u1"}
	b := &Application{ID: "b", EventID: ev.ID, ApplicantID: "u2", Status: StatusPending, TeamID: "t1", InvitedBy: "u1"}
	c := &Application{ID: "c", EventID: ev.ID, ApplicantID: "u3", Status: StatusLookingForPartner, PendingProposalFrom: "u1", PendingProposalFromApplicationID: "a"}
	var seed Batch
	seed.CreateApplication(a)
	seed.CreateApplication(b)
	seed.CreateApplication(c)
	require.NoError(t, f.repo.Commit(ctx, seed))

	_, err := f.svc.Withdraw(ctx, "u2", "a")
	assert.ErrorIs(t, err, ErrNotPermitted)

	res, err := f.svc.Withdraw(ctx, "u1", "a")
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Len(t, res.Applications, 2)

	for _, id := range []string{"a", "b"} {
		got, err := f.repo.GetApplication(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, StatusClosed, got.Status)
		assert.Equal(t, "t1", got.TeamID)
	}
	lobby, err := f.repo.GetApplication(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, StatusLookingForPartner, lobby.Status)
	assert.Empty(t, lobby.PendingProposalFromApplicationID, "dead marker is cleared")
	assert.Equal(t, 1, f.notifier.sentTo("u2", NoticeApplicationClosed))

	res, err = f.svc.Withdraw(ctx, "u1", "a")
	require.NoError(t, err)
	assert.Equal(t, ReasonAlreadyTerminal, res.Reason)
}

func TestLobbyListsSoloApplicants(t *testing.T) {
	f := newFixture(
		player("host", "male", sport.KindDoubles, 6),
		player("u1", "male", sport.KindDoubles, 4),
	)
	ev := f.event(t, "host", "", sport.DoublesMens)
	ctx := context.Background()
	_, err := f.svc.Submit(ctx, SubmitRequest{EventID: ev.ID, ApplicantID: "u1"})
	require.NoError(t, err)

	entries, err := f.svc.Lobby(ctx, ev.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].ApplicantID)
	assert.Equal(t, 4, entries[0].Rating)
	assert.True(t, entries[0].RatingKnown)
	assert.False(t, entries[0].HasPendingProposal)
}

type conflictingRepo struct {
	*MemoryRepository
	commits int
}

func (r *conflictingRepo) Commit(context.Context, Batch) error {
	r.commits++
	return ErrConflict
}

func TestRetryGivesUpWithTryAgain(t *testing.T) {
	repo := &conflictingRepo{MemoryRepository: NewMemoryRepository()}
	var seed Batch
	seed.CreateEvent(&Event{ID: "e1", HostID: "host", GameType: sport.Meetup, MaxParticipants: 4, Status: EventRecruiting})
	require.NoError(t, repo.MemoryRepository.Commit(context.Background(), seed))

	svc := NewService(repo, rating.NewStaticSource(), DefaultSettings())
	_, err := svc.Submit(context.Background(), SubmitRequest{EventID: "e1", ApplicantID: "u1"})
	assert.ErrorIs(t, err, ErrTryAgain)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 3, repo.commits)
}

func TestRetryStopsOnOtherErrors(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Retry(context.Background(), 3, func(context.Context) (Result, error) {
		calls++
		return Result{}, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

// heldSource parks rating lookups for one user until release is closed, so a
// test can line up several operations between their reads and their commits.
type heldSource struct {
	rating.Source
	userID  string
	arrived chan struct{}
	release chan struct{}
}

func holdRatings(src rating.Source, userID string, callers int) *heldSource {
	return &heldSource{Source: src, userID: userID, arrived: make(chan struct{}, callers), release: make(chan struct{})}
}

func (h *heldSource) GetProfile(ctx context.Context, userID string) (*rating.Profile, error) {
	if userID == h.userID {
		select {
		case h.arrived <- struct{}{}:
		default:
		}
		<-h.release
	}
	return h.Source.GetProfile(ctx, userID)
}

func (h *heldSource) wait(t *testing.T, callers int) {
	t.Helper()
	for i := 0; i < callers; i++ {
		select {
		case <-h.arrived:
		case <-time.After(2 * time.Second):
			t.Fatalf("only %d of %d callers reached the rating lookup", i, callers)
		}
	}
}

func TestConcurrentSubmitsKeepOneOpenApplication(t *testing.T) {
	cases := []struct {
		name        string
		gameType    sport.GameType
		kind        sport.RatingKind
		hostPartner string
		want        ApplicationStatus
	}{
		{"singles", sport.SinglesMens, sport.KindSingles, "", StatusPending},
		{"doubles solo", sport.DoublesMens, sport.KindDoubles, "hp", StatusLookingForPartner},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(
				player("host", "male", tc.kind, 5),
				player("hp", "male", tc.kind, 5),
				player("u1", "male", tc.kind, 5),
			)
			ev := f.event(t, "host", tc.hostPartner, tc.gameType)
			held := holdRatings(f.ratings, "u1", 2)
			svc := NewService(f.repo, held, DefaultSettings(), WithNotifier(f.notifier))

			var wg sync.WaitGroup
			results := make([]Result, 2)
			errs := make([]error, 2)
			for i := range results {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], errs[i] = svc.Submit(context.Background(), SubmitRequest{EventID: ev.ID, ApplicantID: "u1"})
				}(i)
			}
			// both submits have passed the duplicate check before either commits
			held.wait(t, 2)
			close(held.release)
			wg.Wait()

			applied := 0
			for i := range results {
				require.NoError(t, errs[i])
				if results[i].Applied {
					applied++
				} else {
					assert.Equal(t, ReasonDuplicateApplication, results[i].Reason)
				}
			}
			assert.Equal(t, 1, applied)

			apps, err := f.repo.ListApplicationsByEvent(context.Background(), ev.ID)
			require.NoError(t, err)
			require.Len(t, apps, 1)
			assert.Equal(t, tc.want, apps[0].Status)
		})
	}
}
