// Package approval fills and vacates an event's single open slot.
package approval

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
)

// Service is the host's side of an event: approve one opposing party, reject
// applications, cancel or reopen the event.
type Service struct {
	engine *match.Service
	repo   match.Repository
}

func NewService(engine *match.Service) *Service {
	return &Service{engine: engine, repo: engine.Repo()}
}

// Recruitment is the derived fill state of an event.
type Recruitment struct {
	EventID         string              `json:"event_id"`
	Status          match.EventStatus   `json:"status"`
	Generation      int64               `json:"generation"`
	MaxParticipants int                 `json:"max_participants"`
	Filled          int                 `json:"filled"`
	Complete        bool                `json:"complete"`
	Approved        []match.Application `json:"approved"`
	OpenCount       int                 `json:"open_count"`
}

// filled counts the seats taken by the host side and approved records.
func filled(ev *match.Event, apps []match.Application) int {
	n := ev.HostSeats()
	for _, a := range apps {
		if a.Status == match.StatusApproved {
			n += a.Seats
		}
	}
	return n
}

// closable reports whether the fan-out should close a. Open records always
// lose the slot; a cancelled event also releases approved ones.
func closable(ev *match.Event, a *match.Application) bool {
	if a.Status.Open() {
		return true
	}
	return ev.Status == match.EventCancelled && a.Status == match.StatusApproved
}

func (s *Service) hostEvent(ctx context.Context, hostID, eventID string) (*match.Event, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.HostID != hostID {
		return nil, match.ErrNotPermitted
	}
	return ev, nil
}

// Approve gives the event's open slot to one application, or to both records
// of a merged team. The winner and the event are written in one conditional
// commit that bumps the event generation; the losing applications are then
// closed by CloseCompetitors for that generation.
func (s *Service) Approve(ctx context.Context, hostID, applicationID string) (match.Result, error) {
	res, err := s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		app, err := s.repo.GetApplication(ctx, applicationID)
		if err != nil {
			return match.Result{}, err
		}
		ev, err := s.hostEvent(ctx, hostID, app.EventID)
		if err != nil {
			return match.Result{}, err
		}
		switch {
		case app.Status == match.StatusApproved:
			res := match.NoOp(match.ReasonAlreadyApproved)
			res.Event = ev
			return res, nil
		case app.Status.Terminal():
			return match.NoOp(match.ReasonAlreadyTerminal), nil
		case app.Status != match.StatusPending:
			return match.NoOp(match.ReasonTeamIncomplete), nil
		}
		if !ev.Recruiting() {
			return match.NoOp(match.ReasonEventNotRecruiting), nil
		}

		apps, err := s.repo.ListApplicationsByEvent(ctx, ev.ID)
		if err != nil {
			return match.Result{}, err
		}
		winners := []*match.Application{app}
		if app.Merged() {
			var mate *match.Application
			for i := range apps {
				if apps[i].ID != app.ID && apps[i].TeamID == app.TeamID {
					mate = &apps[i]
				}
			}
			if mate == nil || mate.Status != match.StatusPending {
				return match.NoOp(match.ReasonTeamIncomplete), nil
			}
			winners = append(winners, mate)
		}

		used := filled(ev, apps)
		remaining := ev.MaxParticipants - used
		need := 0
		for _, w := range winners {
			need += len(w.Players())
		}
		if ev.GameType.IsMeetup() {
			need = remaining
		}
		if need < 1 || need > remaining {
			return match.NoOp(match.ReasonEventNotRecruiting), nil
		}

		var b match.Batch
		var approved []match.Application
		for _, w := range winners {
			seats := len(w.Players())
			if ev.GameType.IsMeetup() {
				seats = remaining
			}
			if _, _, err := match.Apply(w, match.RoleHost, match.StatusPending, match.Approved{Seats: seats}); err != nil {
				return match.Result{}, err
			}
			b.UpdateApplication(w)
			approved = append(approved, *w)
		}
		ev.Generation++
		if used+need >= ev.MaxParticipants {
			ev.Status = match.EventFull
		}
		b.UpdateEvent(ev)
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		log.Printf("event %s: approved %s (generation %d, %d/%d seats)", ev.ID, applicationID, ev.Generation, used+need, ev.MaxParticipants)

		var notices []match.Notice
		for _, a := range approved {
			for _, player := range a.Players() {
				notices = append(notices, match.Notice{
					RecipientID: player, Type: match.NoticeTeamApproved,
					Title: "You're in", Message: "The host approved you for " + ev.Title,
					EventID: ev.ID, ApplicationID: a.ID, ActorID: hostID,
				})
			}
		}
		s.engine.Notify(ctx, notices...)
		s.engine.Publish(ctx, ev, "application_approved", approved...)
		return match.Done(ev, approved...), nil
	})
	if err != nil || res.Event == nil || res.Event.Recruiting() {
		return res, err
	}

	// the slot is taken; close the rest for this generation
	return s.finishFanOut(ctx, res), nil
}

// finishFanOut closes the competitors of an applied command. The command
// itself is already committed, so a failed fan-out is reported on the result
// rather than as an error.
func (s *Service) finishFanOut(ctx context.Context, res match.Result) match.Result {
	fan, err := s.CloseCompetitors(ctx, res.Event.ID, res.Event.Generation)
	res.Closed = fan.Closed
	if err != nil {
		log.Printf("event %s: closing competitors for generation %d stopped after %d: %v", res.Event.ID, res.Event.Generation, fan.Closed, err)
		res.Reason = match.ReasonFanOutIncomplete
	}
	return res
}

// CloseCompetitors closes every application that lost the event's slot in the
// given generation. It is safe to run any number of times: records already
// closed are skipped, and a generation that has since moved on aborts the run
// with stale_generation. Work is committed in chunks, each conditional on the
// event generation.
func (s *Service) CloseCompetitors(ctx context.Context, eventID string, generation int64) (match.Result, error) {
	chunk := s.engine.Settings().FanOutChunk
	total := 0
	for {
		res, err := s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
			ev, err := s.repo.GetEvent(ctx, eventID)
			if err != nil {
				return match.Result{}, err
			}
			if ev.Generation != generation {
				return match.NoOp(match.ReasonStaleGeneration), nil
			}
			if ev.Recruiting() {
				return match.NoOp(match.ReasonNothingToDo), nil
			}
			apps, err := s.repo.ListApplicationsByEvent(ctx, eventID)
			if err != nil {
				return match.Result{}, err
			}

			var b match.Batch
			var closed []match.Application
			for i := range apps {
				if len(closed) == chunk {
					break
				}
				a := &apps[i]
				if !closable(ev, a) {
					continue
				}
				if _, _, err := match.Apply(a, match.RoleEngine, a.Status, match.Closed{}); err != nil {
					return match.Result{}, fmt.Errorf("close application %s: %w", a.ID, err)
				}
				b.UpdateApplication(a)
				closed = append(closed, *a)
			}
			if len(closed) == 0 {
				return match.NoOp(match.ReasonNothingToDo), nil
			}
			// guards the chunk against a concurrent reopen or cancel
			b.UpdateEvent(ev)
			if err := s.repo.Commit(ctx, b); err != nil {
				return match.Result{}, err
			}

			s.notifyClosed(ctx, ev, closed)
			s.engine.Publish(ctx, ev, "applications_closed", closed...)
			res := match.Done(ev, closed...)
			res.Closed = len(closed)
			return res, nil
		})
		if err != nil {
			return match.Result{Closed: total}, err
		}
		if !res.Applied {
			if res.Reason == match.ReasonStaleGeneration {
				return match.Result{Reason: res.Reason, Closed: total}, nil
			}
			break
		}
		total += res.Closed
	}
	if total == 0 {
		return match.NoOp(match.ReasonNothingToDo), nil
	}
	log.Printf("event %s: closed %d applications for generation %d", eventID, total, generation)
	return match.Result{Applied: true, Closed: total}, nil
}

func (s *Service) notifyClosed(ctx context.Context, ev *match.Event, closed []match.Application) {
	kind, title, message := match.NoticeApplicationClosed, "Slot filled", "The host picked another player for "+ev.Title
	if ev.Status == match.EventCancelled {
		kind, title, message = match.NoticeEventCancelled, "Event cancelled", ev.Title+" was cancelled by the host"
	}
	var notices []match.Notice
	for _, a := range closed {
		for _, player := range a.Players() {
			notices = append(notices, match.Notice{
				RecipientID: player, Type: kind, Title: title, Message: message,
				EventID: ev.ID, ApplicationID: a.ID,
			})
		}
	}
	s.engine.Notify(ctx, notices...)
}

// Reject turns down a pending application, or both records of a merged team.
// The event keeps recruiting.
func (s *Service) Reject(ctx context.Context, hostID, applicationID, reason string) (match.Result, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "rejected_by_host"
	}
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		app, err := s.repo.GetApplication(ctx, applicationID)
		if err != nil {
			return match.Result{}, err
		}
		ev, err := s.hostEvent(ctx, hostID, app.EventID)
		if err != nil {
			return match.Result{}, err
		}
		switch {
		case app.Status == match.StatusApproved:
			return match.NoOp(match.ReasonAlreadyApproved), nil
		case app.Status.Terminal():
			return match.NoOp(match.ReasonAlreadyTerminal), nil
		case app.Status != match.StatusPending:
			return match.NoOp(match.ReasonStaleState), nil
		}

		targets := []*match.Application{app}
		if app.Merged() {
			apps, err := s.repo.ListApplicationsByEvent(ctx, ev.ID)
			if err != nil {
				return match.Result{}, err
			}
			for i := range apps {
				if apps[i].ID != app.ID && apps[i].TeamID == app.TeamID && apps[i].Status == match.StatusPending {
					targets = append(targets, &apps[i])
				}
			}
		}

		var b match.Batch
		var rejected []match.Application
		for _, t := range targets {
			if _, _, err := match.Apply(t, match.RoleHost, match.StatusPending, match.Rejected{Reason: reason}); err != nil {
				return match.Result{}, err
			}
			b.UpdateApplication(t)
			rejected = append(rejected, *t)
		}
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}

		var notices []match.Notice
		for _, r := range rejected {
			for _, player := range r.Players() {
				notices = append(notices, match.Notice{
					RecipientID: player, Type: match.NoticeApplicationRejected,
					Title: "Application declined", Message: "The host declined your application to " + ev.Title,
					EventID: ev.ID, ApplicationID: r.ID, ActorID: hostID,
				})
			}
		}
		s.engine.Notify(ctx, notices...)
		s.engine.Publish(ctx, ev, "application_rejected", rejected...)
		return match.Done(ev, rejected...), nil
	})
}

// CancelEvent ends the event and closes every open or approved application
// through the same fan-out as an approval.
func (s *Service) CancelEvent(ctx context.Context, hostID, eventID string) (match.Result, error) {
	res, err := s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		ev, err := s.hostEvent(ctx, hostID, eventID)
		if err != nil {
			return match.Result{}, err
		}
		switch ev.Status {
		case match.EventCancelled:
			res := match.NoOp(match.ReasonAlreadyTerminal)
			res.Event = ev
			return res, nil
		case match.EventCompleted:
			return match.NoOp(match.ReasonAlreadyTerminal), nil
		}
		ev.Status = match.EventCancelled
		ev.Generation++
		var b match.Batch
		b.UpdateEvent(ev)
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		log.Printf("event %s cancelled by host (generation %d)", ev.ID, ev.Generation)
		s.engine.Publish(ctx, ev, "event_cancelled")
		return match.Done(ev), nil
	})
	if err != nil || res.Event == nil || res.Event.Status != match.EventCancelled {
		return res, err
	}
	return s.finishFanOut(ctx, res), nil
}

// Reopen withdraws the current approval. Approved records are closed, the
// event goes back to recruiting, and the generation moves on so an unfinished
// fan-out for the old approval stops.
func (s *Service) Reopen(ctx context.Context, hostID, eventID string) (match.Result, error) {
	return s.engine.Retry(ctx, func(ctx context.Context) (match.Result, error) {
		ev, err := s.hostEvent(ctx, hostID, eventID)
		if err != nil {
			return match.Result{}, err
		}
		if ev.Status != match.EventFull {
			return match.NoOp(match.ReasonStaleState), nil
		}
		apps, err := s.repo.ListApplicationsByEvent(ctx, eventID)
		if err != nil {
			return match.Result{}, err
		}
		var b match.Batch
		var released []match.Application
		for i := range apps {
			a := &apps[i]
			if a.Status != match.StatusApproved {
				continue
			}
			if _, _, err := match.Apply(a, match.RoleHost, match.StatusApproved, match.Closed{}); err != nil {
				return match.Result{}, err
			}
			b.UpdateApplication(a)
			released = append(released, *a)
		}
		ev.Status = match.EventRecruiting
		ev.Generation++
		b.UpdateEvent(ev)
		if err := s.repo.Commit(ctx, b); err != nil {
			return match.Result{}, err
		}
		log.Printf("event %s reopened by host (generation %d)", ev.ID, ev.Generation)

		var notices []match.Notice
		for _, a := range released {
			for _, player := range a.Players() {
				notices = append(notices, match.Notice{
					RecipientID: player, Type: match.NoticeEventReopened,
					Title: "Approval withdrawn", Message: "The host reopened " + ev.Title,
					EventID: ev.ID, ApplicationID: a.ID, ActorID: hostID,
				})
			}
		}
		s.engine.Notify(ctx, notices...)
		s.engine.Publish(ctx, ev, "event_reopened", released...)
		return match.Done(ev, released...), nil
	})
}

// Recruitment reports the event's derived fill state.
func (s *Service) Recruitment(ctx context.Context, eventID string) (*Recruitment, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	apps, err := s.repo.ListApplicationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	r := &Recruitment{
		EventID:         ev.ID,
		Status:          ev.Status,
		Generation:      ev.Generation,
		MaxParticipants: ev.MaxParticipants,
		Filled:          filled(ev, apps),
		Approved:        []match.Application{},
	}
	for _, a := range apps {
		switch {
		case a.Status == match.StatusApproved:
			r.Approved = append(r.Approved, a)
		case a.Status.Open():
			r.OpenCount++
		}
	}
	r.Complete = ev.Status != match.EventRecruiting || r.Filled >= ev.MaxParticipants
	return r, nil
}
