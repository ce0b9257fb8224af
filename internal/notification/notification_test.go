package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	mw "github.com/goodseed1/Lightning-Pickleball-sub019/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu    sync.Mutex
	items []Notification
	fail  error
}

func (m *memoryRepo) Create(_ context.Context, n *Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().Add(time.Duration(len(m.items)) * time.Millisecond)
	m.items = append(m.items, *n)
	return nil
}

func (m *memoryRepo) ListByRecipient(_ context.Context, recipientID string, q ListQuery) ([]Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notification
	for _, n := range m.items {
		if n.RecipientID == recipientID && (!q.UnreadOnly || n.ReadAt == nil) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memoryRepo) MarkRead(_ context.Context, id, recipientID string) (*Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].RecipientID == recipientID {
			if m.items[i].ReadAt == nil {
				now := time.Now()
				m.items[i].ReadAt = &now
			}
			n := m.items[i]
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func TestNotifierStoresNotices(t *testing.T) {
	repo := &memoryRepo{}
	n := NewNotifier(repo)

	n.Notify(context.Background(), match.Notice{
		RecipientID: "u1", Type: match.NoticeTeamFormed, Title: "Team formed",
		EventID: "e1", ApplicationID: "a1", ActorID: "u2",
	})
	n.Notify(context.Background(), match.Notice{Type: match.NoticeTeamFormed})
	n.Wait()

	require.Len(t, repo.items, 1, "notices without a recipient are dropped")
	stored := repo.items[0]
	assert.Equal(t, "u1", stored.RecipientID)
	assert.Equal(t, match.NoticeTeamFormed, stored.Type)

	var data match.Notice
	require.NoError(t, json.Unmarshal(stored.Data, &data))
	assert.Equal(t, "u2", data.ActorID)
}

func TestNotifierSwallowsFailures(t *testing.T) {
	repo := &memoryRepo{fail: errors.New("db down")}
	n := NewNotifier(repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		n.Notify(ctx, match.Notice{RecipientID: "u1", Type: match.NoticeEventCancelled})
		n.Wait()
	})
	assert.Empty(t, repo.items)
}

func TestNotificationFeedOverHTTP(t *testing.T) {
	repo := &memoryRepo{}
	n := NewNotifier(repo)
	n.Notify(context.Background(), match.Notice{RecipientID: "u1", Type: match.NoticeInvitationReceived})
	n.Notify(context.Background(), match.Notice{RecipientID: "u1", Type: match.NoticeTeamApproved})
	n.Notify(context.Background(), match.Notice{RecipientID: "u2", Type: match.NoticeTeamApproved})
	n.Wait()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NotificationRoutes(r.Group("/api"), repo, func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(mw.AuthUserIDKey, id)
		}
		c.Next()
	})

	get := func(path, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-User-ID", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/api/users/me/notifications", "u1")
	require.Equal(t, http.StatusOK, w.Code)
	var feed struct {
		Data       []Notification `json:"data"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Data, 2)
	assert.Equal(t, int64(2), feed.Pagination.TotalItems)

	req := httptest.NewRequest(http.MethodPost, "/api/notifications/"+feed.Data[0].ID+"/read", nil)
	req.Header.Set("X-User-ID", "u2")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "another user's notification")

	req = httptest.NewRequest(http.MethodPost, "/api/notifications/"+feed.Data[0].ID+"/read", nil)
	req.Header.Set("X-User-ID", "u1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = get("/api/users/me/notifications?unread=true", "u1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	assert.Len(t, feed.Data, 1)

	w = get("/api/users/me/notifications?page_size=500", "u1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
