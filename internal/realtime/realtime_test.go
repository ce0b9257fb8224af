package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBrokerDeliversPerEvent(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()

	e1, cancel1, err := b.Subscribe(ctx, "e1")
	require.NoError(t, err)
	e2, cancel2, err := b.Subscribe(ctx, "e2")
	require.NoError(t, err)
	defer cancel2()

	b.Publish(ctx, match.Change{EventID: "e1", Kind: "team_formed"})

	select {
	case c := <-e1:
		assert.Equal(t, "team_formed", c.Kind)
	case <-time.After(time.Second):
		t.Fatal("subscriber of e1 got nothing")
	}
	select {
	case c := <-e2:
		t.Fatalf("subscriber of e2 got %v", c)
	default:
	}

	cancel1()
	cancel1()
	_, open := <-e1
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers("e1"))
	assert.Equal(t, 1, b.Subscribers("e2"))
}

func TestLocalBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewLocalBroker()
	ch, cancel, err := b.Subscribe(context.Background(), "e1")
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Publish(context.Background(), match.Change{EventID: "e1", Kind: "application_submitted"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, subscriberBuffer)
}

func (b *LocalBroker) drained(eventID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[eventID] {
		if len(ch) > 0 {
			return false
		}
	}
	return true
}

func TestStreamOverHTTP(t *testing.T) {
	repo := match.NewMemoryRepository()
	var seed match.Batch
	seed.CreateEvent(&match.Event{ID: "e1", HostID: "host", Status: match.EventRecruiting, Generation: 1})
	require.NoError(t, repo.Commit(context.Background(), seed))

	broker := NewLocalBroker()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	StreamRoutes(r.Group("/api"), broker, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/missing/stream", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events/e1/stream", nil).WithContext(ctx)
	w = httptest.NewRecorder()
	finished := make(chan struct{})
	go func() {
		r.ServeHTTP(w, req)
		close(finished)
	}()

	require.Eventually(t, func() bool { return broker.Subscribers("e1") == 1 }, time.Second, 5*time.Millisecond)
	broker.Publish(context.Background(), match.Change{EventID: "e1", Kind: "application_approved", Generation: 2})
	require.Eventually(t, func() bool { return broker.drained("e1") }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("stream did not end with the request")
	}
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event:ready")
	assert.Contains(t, body, "event:application_approved")
	assert.Contains(t, body, `"generation":2`)
	assert.Equal(t, 0, broker.Subscribers("e1"))
}
