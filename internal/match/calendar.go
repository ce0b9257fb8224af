package match

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const defaultMatchDuration = 90 * time.Minute

// Participant is one attendee line in the calendar export.
type Participant struct {
	UserID string
	Name   string
	Email  string
	Host   bool
}

// Calendar renders the event and its confirmed players as an iCalendar document.
func (s *Service) Calendar(ctx context.Context, eventID string) (string, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return "", err
	}
	apps, err := s.repo.ListApplicationsByEvent(ctx, eventID)
	if err != nil {
		return "", err
	}

	hostSide := map[string]bool{ev.HostID: true}
	ids := []string{ev.HostID}
	if ev.HostPartnerID != "" {
		hostSide[ev.HostPartnerID] = true
		ids = append(ids, ev.HostPartnerID)
	}
	for _, a := range apps {
		if a.Status == StatusApproved {
			ids = append(ids, a.Players()...)
		}
	}

	participants := make([]Participant, 0, len(ids))
	byID := map[string]Participant{}
	if s.directory != nil {
		users, err := s.directory.GetUsersByIDs(ctx, ids)
		if err != nil {
			return "", err
		}
		for _, u := range users {
			byID[u.ID] = Participant{UserID: u.ID, Name: u.Name, Email: u.Email}
		}
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			p = Participant{UserID: id}
		}
		p.Host = hostSide[id]
		participants = append(participants, p)
	}
	return BuildCalendar(ev, participants), nil
}

// BuildCalendar serializes one event. Cancelled events are exported with
// STATUS:CANCELLED so subscribed calendars drop them.
func BuildCalendar(ev *Event, participants []Participant) string {
	cal := ics.NewCalendar()
	cal.SetProductId("pickleball-engine v1.0")
	cal.SetMethod(ics.MethodPublish)
	cal.SetName(ev.Title)

	e := cal.AddEvent(fmt.Sprintf("event-%s@pickleball", ev.ID))
	e.SetSequence(int(ev.Generation))
	e.SetDtStampTime(ev.UpdatedAt)
	e.SetSummary(fmt.Sprintf("%s (%s)", ev.Title, ev.GameType))
	if ev.Description != "" {
		e.SetDescription(ev.Description)
	}
	duration := defaultMatchDuration
	if ev.DurationMinutes > 0 {
		duration = time.Duration(ev.DurationMinutes) * time.Minute
	}
	e.SetStartAt(ev.ScheduledAt)
	e.SetEndAt(ev.ScheduledAt.Add(duration))
	if ev.Location != "" {
		e.AddProperty(ics.ComponentPropertyLocation, ev.Location)
	}
	switch ev.Status {
	case EventCancelled:
		e.SetStatus(ics.ObjectStatusCancelled)
	case EventFull, EventCompleted:
		e.SetStatus(ics.ObjectStatusConfirmed)
	default:
		e.SetStatus(ics.ObjectStatusTentative)
	}

	for _, p := range participants {
		address := p.Email
		if address == "" {
			address = p.UserID + "@users.invalid"
		}
		params := []ics.PropertyParameter{ics.ParticipationStatusAccepted}
		if p.Name != "" {
			params = append(params, ics.WithCN(p.Name))
		}
		if p.Host {
			e.SetOrganizer(address, params[1:]...)
		}
		e.AddAttendee(address, params...)
	}

	a := e.AddAlarm()
	a.SetAction(ics.ActionDisplay)
	a.SetDescription(ev.Title)
	a.SetTrigger("-PT30M")

	return cal.Serialize()
}
