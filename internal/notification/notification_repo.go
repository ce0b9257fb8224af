package notification

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientID string, q ListQuery) ([]Notification, int64, error)
	// MarkRead stamps ReadAt on the recipient's notification. Marking an
	// already read notification keeps the first timestamp.
	MarkRead(ctx context.Context, id, recipientID string) (*Notification, error)
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *gormNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, q ListQuery) ([]Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&Notification{}).Where("recipient_id = ?", recipientID)
	if q.UnreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Notification
	offset := (q.Page - 1) * q.PageSize
	if err := query.Order("created_at DESC").Offset(offset).Limit(q.PageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *gormNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) (*Notification, error) {
	var n Notification
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND recipient_id = ?", id, recipientID).First(&n).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if n.ReadAt != nil {
			return nil
		}
		now := time.Now().UTC()
		n.ReadAt = &now
		return tx.Model(&n).Update("read_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}
