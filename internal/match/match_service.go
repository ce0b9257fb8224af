package match

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/eligibility"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/rating"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/google/uuid"
)

// Settings tunes the engine.
type Settings struct {
	RetryAttempts    int
	SinglesBand      int
	DoublesTolerance int
	// FanOutChunk caps the records closed per fan-out transaction.
	FanOutChunk int
}

func DefaultSettings() Settings {
	return Settings{RetryAttempts: 3, SinglesBand: 1, DoublesTolerance: eligibility.DefaultDoublesTolerance, FanOutChunk: 25}
}

// Service owns events and application submission. The team and approval
// services build on its helpers.
type Service struct {
	repo      Repository
	ratings   rating.Source
	notifier  Notifier
	publisher Publisher
	directory Directory
	settings  Settings
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

func WithDirectory(d Directory) Option { return func(s *Service) { s.directory = d } }

func NewService(repo Repository, ratings rating.Source, settings Settings, opts ...Option) *Service {
	def := DefaultSettings()
	if settings.RetryAttempts < 1 {
		settings.RetryAttempts = def.RetryAttempts
	}
	if settings.SinglesBand < 0 {
		settings.SinglesBand = def.SinglesBand
	}
	if settings.DoublesTolerance < 1 {
		settings.DoublesTolerance = def.DoublesTolerance
	}
	if settings.FanOutChunk < 1 {
		settings.FanOutChunk = def.FanOutChunk
	}
	s := &Service{
		repo:      repo,
		ratings:   ratings,
		notifier:  nopNotifier{},
		publisher: nopPublisher{},
		settings:  settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Repo() Repository { return s.repo }

func (s *Service) Settings() Settings { return s.settings }

func (s *Service) Directory() Directory { return s.directory }

// Retry runs op under the configured conflict retry budget.
func (s *Service) Retry(ctx context.Context, op func(ctx context.Context) (Result, error)) (Result, error) {
	return Retry(ctx, s.settings.RetryAttempts, op)
}

// Notify hands notices to the feed. Empty recipients are skipped.
func (s *Service) Notify(ctx context.Context, notices ...Notice) {
	for _, n := range notices {
		if n.RecipientID == "" {
			continue
		}
		s.notifier.Notify(ctx, n)
	}
}

// Publish announces a committed change.
func (s *Service) Publish(ctx context.Context, ev *Event, kind string, apps ...Application) {
	c := Change{EventID: ev.ID, Kind: kind, EventStatus: string(ev.Status), Generation: ev.Generation, At: time.Now().UTC()}
	for _, a := range apps {
		c.ApplicationIDs = append(c.ApplicationIDs, a.ID)
	}
	s.publisher.Publish(ctx, c)
}

// Evaluate runs eligibility for candidateIDs against ev with freshly read
// ratings. One id is a solo candidate, two a pair.
func (s *Service) Evaluate(ctx context.Context, ev *Event, candidateIDs ...string) (eligibility.Result, error) {
	kind, gated := ev.GameType.RatingKind()
	if !gated {
		return eligibility.Result{Admissible: true}, nil
	}
	in := eligibility.Input{
		GameType:  ev.GameType,
		Window:    eligibility.Window{Min: ev.RatingMin, Max: ev.RatingMax},
		Tolerance: s.settings.DoublesTolerance,
	}
	if ev.GameType.IsDoubles() {
		host, err := rating.Lookup(ctx, s.ratings, ev.HostID, kind)
		if err != nil {
			return eligibility.Result{}, err
		}
		var partner rating.Snapshot
		if ev.HostPartnerID != "" {
			if partner, err = rating.Lookup(ctx, s.ratings, ev.HostPartnerID, kind); err != nil {
				return eligibility.Result{}, err
			}
		}
		in.HostTeamRating = eligibility.HostTeamRating(host.DisplayOrFloor(), partner.Display, partner.Known)
	}
	for _, id := range candidateIDs {
		snap, err := rating.Lookup(ctx, s.ratings, id, kind)
		if err != nil {
			return eligibility.Result{}, err
		}
		in.Candidates = append(in.Candidates, eligibility.Candidate{Rating: snap.DisplayOrFloor(), Gender: snap.Gender})
	}
	return eligibility.Evaluate(in), nil
}

// Snapshot reads userID's current rating on ev's rating track.
func (s *Service) Snapshot(ctx context.Context, ev *Event, userID string) (rating.Snapshot, error) {
	kind, gated := ev.GameType.RatingKind()
	if !gated {
		return rating.Snapshot{UserID: userID}, nil
	}
	return rating.Lookup(ctx, s.ratings, userID, kind)
}

type CreateEventRequest struct {
	HostID          string
	HostPartnerID   string
	ClubID          string
	Title           string
	Description     string
	GameType        string
	MaxParticipants int
	ScheduledAt     time.Time
	DurationMinutes int
	Location        string
}

// CreateEvent opens a recruiting event. For singles the rating window is
// fixed here from the host's current rating.
func (s *Service) CreateEvent(ctx context.Context, req CreateEventRequest) (*Event, error) {
	gt, ok := sport.ParseGameType(req.GameType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown game type %q", ErrInvalidRequest, req.GameType)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}
	if req.HostPartnerID != "" && (!gt.IsDoubles() || req.HostPartnerID == req.HostID) {
		return nil, fmt.Errorf("%w: host partner is only valid for doubles and must differ from the host", ErrInvalidRequest)
	}

	ev := &Event{
		ID:              uuid.NewString(),
		ClubID:          req.ClubID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		GameType:        gt,
		HostID:          req.HostID,
		HostPartnerID:   req.HostPartnerID,
		Status:          EventRecruiting,
		Generation:      1,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
	}

	if gt.IsMeetup() {
		if req.MaxParticipants < 2 {
			return nil, fmt.Errorf("%w: a meetup needs room for at least 2 participants", ErrInvalidRequest)
		}
		ev.MaxParticipants = req.MaxParticipants
	} else {
		ev.MaxParticipants = gt.DefaultMaxParticipants()
	}

	if gt.IsSingles() {
		kind, _ := gt.RatingKind()
		host, err := rating.Lookup(ctx, s.ratings, req.HostID, kind)
		if err != nil {
			return nil, err
		}
		w := eligibility.SinglesWindow(host.DisplayOrFloor(), s.settings.SinglesBand)
		ev.RatingMin, ev.RatingMax = w.Min, w.Max
	}

	var b Batch
	b.CreateEvent(ev)
	if err := s.repo.Commit(ctx, b); err != nil {
		return nil, err
	}
	log.Printf("event %s created by %s (%s)", ev.ID, ev.HostID, ev.GameType)
	s.Publish(ctx, ev, "event_created")
	return ev, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context, f EventFilter) ([]Event, int64, error) {
	return s.repo.ListEvents(ctx, f)
}

func (s *Service) ListApplications(ctx context.Context, eventID string) ([]Application, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListApplicationsByEvent(ctx, eventID)
}

func (s *Service) ListMyApplications(ctx context.Context, applicantID string) ([]Application, error) {
	return s.repo.ListApplicationsByApplicant(ctx, applicantID)
}

// ActiveApplication returns userID's non-terminal, non-approved application
// for eventID, or nil.
func (s *Service) ActiveApplication(ctx context.Context, eventID, userID string) (*Application, error) {
	apps, err := s.repo.ListApplicationsByApplicant(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].EventID == eventID && (apps[i].Status.Open() || apps[i].Status == StatusApproved) {
			return &apps[i], nil
		}
	}
	return nil, nil
}

// BusyAsPartner reports whether userID already plays in someone else's open
// or approved application for eventID.
func BusyAsPartner(apps []Application, userID string) bool {
	for _, a := range apps {
		if a.PartnerID == userID && (a.Status.Open() || a.Status == StatusApproved) && a.PartnerStatus != PartnerRejected {
			return true
		}
	}
	return false
}

type SubmitRequest struct {
	EventID     string
	ApplicantID string
	// PartnerID invites a named partner; doubles only.
	PartnerID string
}

// Submit files a new application. Singles and meetups go straight to the
// host; doubles either invite a partner or join the solo lobby. An ineligible
// submission is stored as rejected with the reason.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Result, error) {
	return s.Retry(ctx, func(ctx context.Context) (Result, error) {
		ev, err := s.repo.GetEvent(ctx, req.EventID)
		if err != nil {
			return Result{}, err
		}
		if !ev.Recruiting() {
			return NoOp(ReasonEventNotRecruiting), nil
		}
		if ev.IsHostSide(req.ApplicantID) {
			return Result{}, fmt.Errorf("%w: the host side cannot apply to its own event", ErrInvalidRequest)
		}
		if req.PartnerID != "" {
			if !ev.GameType.IsDoubles() {
				return Result{}, fmt.Errorf("%w: partners are only valid for doubles", ErrInvalidRequest)
			}
			if req.PartnerID == req.ApplicantID || ev.IsHostSide(req.PartnerID) {
				return Result{}, fmt.Errorf("%w: invalid partner", ErrInvalidRequest)
			}
		}

		var b Batch
		existing, err := s.ActiveApplication(ctx, ev.ID, req.ApplicantID)
		if err != nil {
			return Result{}, err
		}
		if existing != nil {
			st, err := existing.State()
			if err != nil {
				return Result{}, err
			}
			declined, ok := st.(AwaitingPartner)
			if !ok || !declined.Declined {
				res := NoOp(ReasonDuplicateApplication)
				res.Applications = []Application{*existing}
				return res, nil
			}
			// the partner said no; retire the old record in the same commit
			if _, _, err := Apply(existing, RoleApplicant, StatusPendingPartnerApproval, Closed{}); err != nil {
				return Result{}, err
			}
			b.UpdateApplication(existing)
		}

		eventApps, err := s.repo.ListApplicationsByEvent(ctx, ev.ID)
		if err != nil {
			return Result{}, err
		}
		if BusyAsPartner(eventApps, req.ApplicantID) {
			return NoOp(ReasonDuplicateApplication), nil
		}
		if req.PartnerID != "" {
			other, err := s.ActiveApplication(ctx, ev.ID, req.PartnerID)
			if err != nil {
				return Result{}, err
			}
			if other != nil || BusyAsPartner(eventApps, req.PartnerID) {
				return NoOp(ReasonPartnerUnavailable), nil
			}
		}

		candidates := []string{req.ApplicantID}
		if req.PartnerID != "" {
			candidates = append(candidates, req.PartnerID)
		}
		verdict, err := s.Evaluate(ctx, ev, candidates...)
		if err != nil {
			return Result{}, err
		}

		app := &Application{ID: uuid.NewString(), EventID: ev.ID, ApplicantID: req.ApplicantID}
		role := RoleApplicant
		var next State
		switch {
		case !verdict.Admissible:
			role, next = RoleEngine, Rejected{Reason: string(verdict.Reason)}
		case ev.GameType.IsDoubles() && req.PartnerID != "":
			next = AwaitingPartner{PartnerID: req.PartnerID}
		case ev.GameType.IsDoubles():
			next = LookingForPartner{}
		default:
			next = Pending{}
		}
		ok, reason, err := Apply(app, role, created, next)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, fmt.Errorf("create application: %s", reason)
		}
		b.CreateApplication(app)
		// the event write serializes submits against each other and against
		// approvals, so the duplicate and recruiting checks above stay true
		b.UpdateEvent(ev)

		if err := s.repo.Commit(ctx, b); err != nil {
			return Result{}, err
		}

		s.Publish(ctx, ev, "application_submitted", *app)
		if !verdict.Admissible {
			res := NoOp(ReasonIneligible)
			res.Eligibility = &verdict
			res.Applications = []Application{*app}
			return res, nil
		}
		switch app.Status {
		case StatusPendingPartnerApproval:
			s.Notify(ctx, Notice{
				RecipientID: app.PartnerID, Type: NoticeInvitationReceived,
				Title: "Partner invitation", Message: "You have been invited to play " + ev.Title,
				EventID: ev.ID, ApplicationID: app.ID, ActorID: app.ApplicantID,
			})
		case StatusPending:
			s.Notify(ctx, Notice{
				RecipientID: ev.HostID, Type: NoticeNewApplication,
				Title: "New application", Message: "A player applied to " + ev.Title,
				EventID: ev.ID, ApplicationID: app.ID, ActorID: app.ApplicantID,
			})
		}
		res := Done(ev, *app)
		res.Eligibility = &verdict
		return res, nil
	})
}

// Withdraw lets an applicant drop an open application. Withdrawing one half
// of a merged team closes both records, and any proposal markers left on
// other records by this application are cleared.
func (s *Service) Withdraw(ctx context.Context, actorID, applicationID string) (Result, error) {
	return s.Retry(ctx, func(ctx context.Context) (Result, error) {
		app, err := s.repo.GetApplication(ctx, applicationID)
		if err != nil {
			return Result{}, err
		}
		if app.ApplicantID != actorID {
			return Result{}, ErrNotPermitted
		}
		if app.Status == StatusApproved {
			return NoOp(ReasonAlreadyApproved), nil
		}
		if app.Status.Terminal() {
			return NoOp(ReasonAlreadyTerminal), nil
		}
		ev, err := s.repo.GetEvent(ctx, app.EventID)
		if err != nil {
			return Result{}, err
		}
		all, err := s.repo.ListApplicationsByEvent(ctx, app.EventID)
		if err != nil {
			return Result{}, err
		}

		invitedPartner := ""
		if app.Status == StatusPendingPartnerApproval && app.PartnerStatus == PartnerPending {
			invitedPartner = app.PartnerID
		}

		var b Batch
		var closed []Application
		closeOne := func(a *Application, role Role) error {
			ok, _, err := Apply(a, role, a.Status, Closed{})
			if err != nil {
				return err
			}
			if ok {
				b.UpdateApplication(a)
				closed = append(closed, *a)
			}
			return nil
		}
		if err := closeOne(app, RoleApplicant); err != nil {
			return Result{}, err
		}
		var touched []Application
		for i := range all {
			other := &all[i]
			if other.ID == app.ID {
				continue
			}
			switch {
			case app.Merged() && other.TeamID == app.TeamID && other.Status.Open():
				if err := closeOne(other, RoleEngine); err != nil {
					return Result{}, err
				}
			case other.PendingProposalFromApplicationID == app.ID && other.Status == StatusLookingForPartner:
				if _, _, err := Apply(other, RoleEngine, StatusLookingForPartner, LookingForPartner{}); err != nil {
					return Result{}, err
				}
				b.UpdateApplication(other)
				touched = append(touched, *other)
			}
		}
		if err := s.repo.Commit(ctx, b); err != nil {
			return Result{}, err
		}

		s.Notify(ctx, Notice{
			RecipientID: invitedPartner, Type: NoticeApplicationClosed,
			Title: "Invitation withdrawn", Message: "An invitation to " + ev.Title + " was withdrawn",
			EventID: ev.ID, ApplicationID: app.ID, ActorID: actorID,
		})
		for _, c := range closed[1:] {
			s.Notify(ctx, Notice{
				RecipientID: c.ApplicantID, Type: NoticeApplicationClosed,
				Title: "Team withdrawn", Message: "Your partner withdrew from " + ev.Title,
				EventID: ev.ID, ApplicationID: c.ID, ActorID: actorID,
			})
		}
		s.Publish(ctx, ev, "application_withdrawn", append(closed, touched...)...)
		return Done(ev, closed...), nil
	})
}

// LobbyEntry is one solo applicant visible to the others.
type LobbyEntry struct {
	ApplicationID      string `json:"application_id"`
	ApplicantID        string `json:"applicant_id"`
	Rating             int    `json:"rating"`
	RatingKnown        bool   `json:"rating_known"`
	HasPendingProposal bool   `json:"has_pending_proposal"`
}

// Lobby lists the solo lobby for a doubles event with current ratings.
func (s *Service) Lobby(ctx context.Context, eventID string) ([]LobbyEntry, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.GameType.IsDoubles() {
		return []LobbyEntry{}, nil
	}
	kind, _ := ev.GameType.RatingKind()
	apps, err := s.repo.ListApplicationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := []LobbyEntry{}
	for _, a := range apps {
		if a.Status != StatusLookingForPartner {
			continue
		}
		snap, err := rating.Lookup(ctx, s.ratings, a.ApplicantID, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, LobbyEntry{
			ApplicationID:      a.ID,
			ApplicantID:        a.ApplicantID,
			Rating:             snap.DisplayOrFloor(),
			RatingKnown:        snap.Known,
			HasPendingProposal: a.PendingProposalFromApplicationID != "",
		})
	}
	return out, nil
}

// IsNotFound reports whether err is a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
