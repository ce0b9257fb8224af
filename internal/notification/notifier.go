package notification

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"gorm.io/datatypes"
)

const defaultWriteTimeout = 5 * time.Second

// Notifier stores engine notices in the feed. Writes run in the background
// and failures are logged, never returned to the engine.
type Notifier struct {
	repo    NotificationRepository
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewNotifier(repo NotificationRepository) *Notifier {
	return &Notifier{repo: repo, timeout: defaultWriteTimeout}
}

func (n *Notifier) Notify(ctx context.Context, notice match.Notice) {
	if notice.RecipientID == "" {
		return
	}
	record := fromNotice(notice)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()
		if err := n.repo.Create(writeCtx, record); err != nil {
			log.Printf("notification %s for %s dropped: %v", record.Type, record.RecipientID, err)
		}
	}()
}

// Wait blocks until every write started so far has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func fromNotice(notice match.Notice) *Notification {
	record := &Notification{
		RecipientID:   notice.RecipientID,
		Type:          notice.Type,
		Title:         notice.Title,
		Message:       notice.Message,
		EventID:       notice.EventID,
		ApplicationID: notice.ApplicationID,
		ActorID:       notice.ActorID,
	}
	if raw, err := json.Marshal(notice); err == nil {
		record.Data = datatypes.JSON(raw)
	}
	return record
}
