package match

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is a process-local Repository with the same conditional
// commit semantics as the database stores.
type MemoryRepository struct {
	mu           sync.RWMutex
	events       map[string]Event
	applications map[string]Application
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events:       make(map[string]Event),
		applications: make(map[string]Application),
	}
}

func (r *MemoryRepository) GetEvent(_ context.Context, id string) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &ev, nil
}

func (r *MemoryRepository) ListEvents(_ context.Context, f EventFilter) ([]Event, int64, error) {
	r.mu.RLock()
	var matched []Event
	for _, ev := range r.events {
		if f.HostID != "" && ev.HostID != f.HostID {
			continue
		}
		if f.ClubID != "" && ev.ClubID != f.ClubID {
			continue
		}
		if f.Status != "" && ev.Status != f.Status {
			continue
		}
		matched = append(matched, ev)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].ScheduledAt.Equal(matched[j].ScheduledAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].ScheduledAt.Before(matched[j].ScheduledAt)
	})
	total := int64(len(matched))
	offset, limit := f.Bounds()
	if offset >= len(matched) {
		return []Event{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *MemoryRepository) GetApplication(_ context.Context, id string) (*Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.applications[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &app, nil
}

func (r *MemoryRepository) ListApplicationsByEvent(_ context.Context, eventID string) ([]Application, error) {
	return r.filterApplications(func(a *Application) bool { return a.EventID == eventID }, false), nil
}

func (r *MemoryRepository) ListApplicationsByApplicant(_ context.Context, applicantID string) ([]Application, error) {
	return r.filterApplications(func(a *Application) bool { return a.ApplicantID == applicantID }, true), nil
}

func (r *MemoryRepository) filterApplications(keep func(*Application) bool, newestFirst bool) []Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Application{}
	for _, a := range r.applications {
		if keep(&a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *MemoryRepository) Commit(_ context.Context, b Batch) error {
	if err := b.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range b.Events {
		cur, exists := r.events[w.Event.ID]
		if w.Create && exists {
			return ErrConflict
		}
		if !w.Create && (!exists || cur.Version != w.ExpectedVersion) {
			return ErrConflict
		}
	}
	for _, w := range b.Applications {
		cur, exists := r.applications[w.Application.ID]
		if w.Create && exists {
			return ErrConflict
		}
		if !w.Create && (!exists || cur.Version != w.ExpectedVersion) {
			return ErrConflict
		}
	}

	for _, w := range b.Events {
		ev := w.Event
		if !w.Create {
			ev.CreatedAt = r.events[ev.ID].CreatedAt
		}
		r.events[ev.ID] = ev
	}
	for _, w := range b.Applications {
		app := w.Application
		if !w.Create {
			app.CreatedAt = r.applications[app.ID].CreatedAt
		}
		r.applications[app.ID] = app
	}
	return nil
}
