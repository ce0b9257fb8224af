package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	HostID   string
	ClubID   string
	Status   EventStatus
	Page     int
	PageSize int
}

// Bounds returns the offset and limit for the filter's page.
func (f EventFilter) Bounds() (offset, limit int) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}

// Repository is the persistence contract. Reads return ErrNotFound for a
// missing record. Commit applies every write in a Batch or none of them.
type Repository interface {
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]Event, int64, error)
	GetApplication(ctx context.Context, id string) (*Application, error)
	ListApplicationsByEvent(ctx context.Context, eventID string) ([]Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	// Commit writes the batch atomically. Every update is conditional on the
	// stored version still equalling ExpectedVersion and every create on the
	// id being unused; any failed condition aborts the batch with ErrConflict.
	Commit(ctx context.Context, b Batch) error
}

type EventWrite struct {
	Event           Event
	ExpectedVersion int64
	Create          bool
}

type ApplicationWrite struct {
	Application     Application
	ExpectedVersion int64
	Create          bool
}

// Batch is a set of conditional writes committed as one transaction.
type Batch struct {
	Events       []EventWrite
	Applications []ApplicationWrite
}

func (b *Batch) Len() int {
	return len(b.Events) + len(b.Applications)
}

// Validate rejects a batch holding an application whose fields do not form a
// legal state. Stores call it before writing anything.
func (b *Batch) Validate() error {
	for i := range b.Applications {
		if err := b.Applications[i].Application.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) CreateEvent(e *Event) {
	now := time.Now().UTC()
	e.Version = 1
	e.CreatedAt, e.UpdatedAt = now, now
	b.Events = append(b.Events, EventWrite{Event: *e, Create: true})
}

// UpdateEvent records e conditional on its current version and bumps the
// version on the caller's copy.
func (b *Batch) UpdateEvent(e *Event) {
	expected := e.Version
	e.Version++
	e.UpdatedAt = time.Now().UTC()
	b.Events = append(b.Events, EventWrite{Event: *e, ExpectedVersion: expected})
}

func (b *Batch) CreateApplication(a *Application) {
	now := time.Now().UTC()
	a.Version = 1
	a.CreatedAt, a.UpdatedAt = now, now
	b.Applications = append(b.Applications, ApplicationWrite{Application: *a, Create: true})
}

func (b *Batch) UpdateApplication(a *Application) {
	expected := a.Version
	a.Version++
	a.UpdatedAt = time.Now().UTC()
	b.Applications = append(b.Applications, ApplicationWrite{Application: *a, ExpectedVersion: expected})
}

// GormMatchRepository implements Repository on postgres.
type GormMatchRepository struct {
	db *gorm.DB
}

func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

func (r *GormMatchRepository) GetEvent(ctx context.Context, id string) (*Event, error) {
	var ev Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

func (r *GormMatchRepository) ListEvents(ctx context.Context, f EventFilter) ([]Event, int64, error) {
	var events []Event
	var total int64

	query := r.db.WithContext(ctx).Model(&Event{})
	if f.HostID != "" {
		query = query.Where("host_id = ?", f.HostID)
	}
	if f.ClubID != "" {
		query = query.Where("club_id = ?", f.ClubID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := f.Bounds()
	if err := query.Order("scheduled_at asc").Offset(offset).Limit(limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *GormMatchRepository) GetApplication(ctx context.Context, id string) (*Application, error) {
	var app Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *GormMatchRepository) ListApplicationsByEvent(ctx context.Context, eventID string) ([]Application, error) {
	var apps []Application
	err := r.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at asc").Find(&apps).Error
	return apps, err
}

func (r *GormMatchRepository) ListApplicationsByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	var apps []Application
	err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).Order("created_at desc").Find(&apps).Error
	return apps, err
}

func (r *GormMatchRepository) Commit(ctx context.Context, b Batch) error {
	if err := b.Validate(); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range b.Events {
			if w.Create {
				if err := tx.Create(&w.Event).Error; err != nil {
					return err
				}
				continue
			}
			res := tx.Model(&Event{}).
				Where("id = ? AND version = ?", w.Event.ID, w.ExpectedVersion).
				Updates(eventColumns(&w.Event))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}
		for _, w := range b.Applications {
			if w.Create {
				if err := tx.Create(&w.Application).Error; err != nil {
					return err
				}
				continue
			}
			res := tx.Model(&Application{}).
				Where("id = ? AND version = ?", w.Application.ID, w.ExpectedVersion).
				Updates(applicationColumns(&w.Application))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}
		return nil
	})
	return classifyCommitError(err)
}

// Column maps are used instead of struct updates so that zero values, such as
// a cleared proposal marker, are written.
func eventColumns(e *Event) map[string]interface{} {
	return map[string]interface{}{
		"title":            e.Title,
		"description":      e.Description,
		"host_partner_id":  e.HostPartnerID,
		"max_participants": e.MaxParticipants,
		"status":           e.Status,
		"generation":       e.Generation,
		"version":          e.Version,
		"scheduled_at":     e.ScheduledAt,
		"duration_minutes": e.DurationMinutes,
		"location":         e.Location,
		"updated_at":       e.UpdatedAt,
	}
}

func applicationColumns(a *Application) map[string]interface{} {
	return map[string]interface{}{
		"status":                               a.Status,
		"team_id":                              a.TeamID,
		"partner_id":                           a.PartnerID,
		"partner_status":                       a.PartnerStatus,
		"pending_proposal_from":                a.PendingProposalFrom,
		"pending_proposal_from_application_id": a.PendingProposalFromApplicationID,
		"invited_by":                           a.InvitedBy,
		"rejection_reason":                     a.RejectionReason,
		"seats":                                a.Seats,
		"version":                              a.Version,
		"updated_at":                           a.UpdatedAt,
	}
}

// classifyCommitError maps postgres serialization, deadlock and unique
// violations onto ErrConflict.
func classifyCommitError(err error) error {
	if err == nil || errors.Is(err, ErrConflict) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "23505":
			return fmt.Errorf("%w: postgres %s", ErrConflict, pgErr.Code)
		}
	}
	return fmt.Errorf("commit batch: %w", err)
}
