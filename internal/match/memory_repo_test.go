package match

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCommitIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	ev := &Event{ID: "e1", Status: EventRecruiting, Generation: 1}
	var create Batch
	create.CreateEvent(ev)
	require.NoError(t, repo.Commit(ctx, create))
	assert.Equal(t, int64(1), ev.Version)

	assert.ErrorIs(t, repo.Commit(ctx, create), ErrConflict, "creating the same id twice")

	first, err := repo.GetEvent(ctx, "e1")
	require.NoError(t, err)
	second, err := repo.GetEvent(ctx, "e1")
	require.NoError(t, err)

	first.Status = EventFull
	var b1 Batch
	b1.UpdateEvent(first)
	require.NoError(t, repo.Commit(ctx, b1))

	second.Status = EventCancelled
	var b2 Batch
	b2.UpdateEvent(second)
	assert.ErrorIs(t, repo.Commit(ctx, b2), ErrConflict)

	stored, err := repo.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, EventFull, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestMemoryCommitIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	var seed Batch
	seed.CreateEvent(&Event{ID: "e1", Status: EventRecruiting})
	seed.CreateApplication(&Application{ID: "a1", EventID: "e1", ApplicantID: "u1", Status: StatusPending})
	require.NoError(t, repo.Commit(ctx, seed))

	app, err := repo.GetApplication(ctx, "a1")
	require.NoError(t, err)
	stale := *app
	stale.Version = 0

	app.Status = StatusApproved
	ev, err := repo.GetEvent(ctx, "e1")
	require.NoError(t, err)
	ev.Status = EventFull

	var b Batch
	b.UpdateEvent(ev)
	b.UpdateApplication(&stale)
	assert.ErrorIs(t, repo.Commit(ctx, b), ErrConflict)

	stored, err := repo.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, EventRecruiting, stored.Status, "event write must not leak from a failed batch")
}

func TestMemoryReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	var seed Batch
	seed.CreateApplication(&Application{ID: "a1", EventID: "e1", ApplicantID: "u1", Status: StatusPending})
	require.NoError(t, repo.Commit(ctx, seed))

	app, err := repo.GetApplication(ctx, "a1")
	require.NoError(t, err)
	app.Status = StatusClosed

	again, err := repo.GetApplication(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, again.Status)

	_, err = repo.GetApplication(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListEventsFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

	var seed Batch
	for i, host := range []string{"h1", "h1", "h2", "h1"} {
		seed.CreateEvent(&Event{
			ID:          string(rune('a' + i)),
			HostID:      host,
			Status:      EventRecruiting,
			ScheduledAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	require.NoError(t, repo.Commit(ctx, seed))

	events, total, err := repo.ListEvents(ctx, EventFilter{HostID: "h1", PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "b", events[1].ID)

	events, _, err = repo.ListEvents(ctx, EventFilter{HostID: "h1", Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "d", events[0].ID)
}

func TestCommitRejectsMalformedApplications(t *testing.T) {
	ctx := context.Background()
	bad := func() Batch {
		var b Batch
		b.CreateEvent(&Event{ID: "e1", Status: EventRecruiting})
		b.CreateApplication(&Application{ID: "a1", EventID: "e1", ApplicantID: "u1", Status: ApplicationStatus("limbo")})
		return b
	}

	memory := NewMemoryRepository()
	var malformed *ErrMalformed
	require.ErrorAs(t, memory.Commit(ctx, bad()), &malformed)
	assert.Equal(t, "a1", malformed.ApplicationID)
	_, err := memory.GetEvent(ctx, "e1")
	assert.ErrorIs(t, err, ErrNotFound, "nothing from a rejected batch is written")

	// validation happens before the database is touched
	assert.ErrorAs(t, NewGormMatchRepository(nil).Commit(ctx, bad()), &malformed)
}
