package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	mw "github.com/goodseed1/Lightning-Pickleball-sub019/internal/middleware"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerIdentity stands in for the JWT middleware in handler tests.
func headerIdentity(c *gin.Context) {
	if id := c.GetHeader("X-User-ID"); id != "" {
		c.Set(mw.AuthUserIDKey, id)
	}
	c.Next()
}

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	MatchRoutes(r.Group("/api"), svc, headerIdentity)
	return r
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func do(t *testing.T, r http.Handler, method, path, user, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestCreateAndApplyOverHTTP(t *testing.T) {
	f := newFixture(
		player("host", "female", sport.KindSingles, 5),
		player("u1", "female", sport.KindSingles, 5),
	)
	r := newTestRouter(f.svc)

	w, env := do(t, r, http.MethodPost, "/api/events", "host",
		`{"title":"Saturday singles","game_type":"womens_singles","scheduled_at":"2026-06-06T09:00:00Z"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ev Event
	require.NoError(t, json.Unmarshal(env.Data, &ev))
	assert.Equal(t, sport.SinglesWomens, ev.GameType)
	assert.Equal(t, 4, ev.RatingMin)

	w, env = do(t, r, http.MethodPost, "/api/events/"+ev.ID+"/applications", "u1", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Applied)

	// second submission is a no-op, reported as 200 with a reason
	w, env = do(t, r, http.MethodPost, "/api/events/"+ev.ID+"/applications", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Applied)
	assert.Equal(t, ReasonDuplicateApplication, res.Reason)

	w, _ = do(t, r, http.MethodGet, "/api/events/"+ev.ID+"/calendar.ics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, w.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, w.Body.String(), "Saturday singles")
}

func TestHTTPErrorMapping(t *testing.T) {
	f := newFixture(player("host", "male", sport.KindSingles, 5))
	r := newTestRouter(f.svc)
	ev := f.event(t, "host", "", sport.SinglesMens)

	w, _ := do(t, r, http.MethodPost, "/api/events/"+ev.ID+"/applications", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/events/"+ev.ID+"/applications", "host", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/events/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/events", "host", `{"title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, http.StatusBadRequest, env.Code)
	assert.Contains(t, env.Errors, "GameType")
}

func TestSendEngineErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		code   int
		status string
	}{
		{fmt.Errorf("%w: bad partner", ErrInvalidRequest), http.StatusBadRequest, "error"},
		{ErrNotPermitted, http.StatusForbidden, "error"},
		{ErrNotFound, http.StatusNotFound, "error"},
		{fmt.Errorf("%w: %w", ErrTryAgain, ErrConflict), http.StatusConflict, "error"},
		{&ErrMalformed{ApplicationID: "a1", Problem: "approved without seats"}, http.StatusInternalServerError, "fail"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "fail"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SendEngineError(c, tc.err)

		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.Equal(t, tc.code, env.Code)
		assert.Equal(t, tc.status, env.Status)
		assert.NotEmpty(t, env.Message)
	}
}

func TestSendResultStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	send := func(res Result) (*httptest.ResponseRecorder, envelope) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		SendResult(c, http.StatusCreated, "Application approved", res)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		return w, env
	}

	w, env := send(Result{Applied: true})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Application approved", env.Message)

	w, env = send(NoOp(ReasonStaleState))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No change: stale_state", env.Message)

	w, env = send(Result{Applied: true, Reason: ReasonFanOutIncomplete})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, env.Message, "repeat the request")
	var res Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, ReasonFanOutIncomplete, res.Reason)
}

func TestListEventsPaginates(t *testing.T) {
	f := newFixture()
	r := newTestRouter(f.svc)
	for i := 0; i < 3; i++ {
		f.event(t, "host", "", sport.SinglesMens)
	}
	w, _ := do(t, r, http.MethodGet, "/api/events?host_id=host&page_size=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data       []Event `json:"data"`
		Pagination struct {
			TotalItems  int64 `json:"total_items"`
			HasNextPage bool  `json:"has_next_page"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, int64(3), body.Pagination.TotalItems)
	assert.True(t, body.Pagination.HasNextPage)
}
