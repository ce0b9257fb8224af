package team

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	mw "github.com/goodseed1/Lightning-Pickleball-sub019/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	identity := func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(mw.AuthUserIDKey, id)
		}
		c.Next()
	}
	api := r.Group("/api")
	match.MatchRoutes(api, f.engine, identity)
	TeamRoutes(api, f.teams, identity)
	return r
}

func call(r http.Handler, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func resultOf(t *testing.T, w *httptest.ResponseRecorder) match.Result {
	t.Helper()
	var env struct {
		Data match.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env.Data
}

func TestInvitationOverHTTP(t *testing.T) {
	f := newFixture(t, doubles("u1", 6), doubles("u2", 6))
	r := newTestRouter(f)
	app := f.submit(t, "u1", "u2")

	w := call(r, http.MethodPost, "/api/applications/"+app.ID+"/invitation/maybe", "u2", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/api/applications/"+app.ID+"/invitation/accept", "u1", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/api/applications/"+app.ID+"/invitation/accept", "u2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resultOf(t, w).Applied)

	w = call(r, http.MethodGet, "/api/events/"+f.event.ID+"/teams", "host", "")
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data []View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "u1", env.Data[0].LeaderID)
}

func TestLobbyOverHTTP(t *testing.T) {
	f := newFixture(t, doubles("a", 6), doubles("b", 6), doubles("c", 6))
	r := newTestRouter(f)
	a := f.submit(t, "a", "")
	b := f.submit(t, "b", "")
	c := f.submit(t, "c", "")

	w := call(r, http.MethodPost, "/api/applications/"+a.ID+"/proposals", "a", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/api/applications/"+a.ID+"/proposals", "a", `{"target_application_id":"`+b.ID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodPost, "/api/applications/"+c.ID+"/proposals", "c", `{"target_application_id":"`+b.ID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, match.ReasonProposalPending, resultOf(t, w).Reason)

	w = call(r, http.MethodPost, "/api/applications/"+b.ID+"/proposals/accept", "b", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/api/applications/"+b.ID+"/proposals/accept", "b", `{"proposer_application_id":"`+a.ID+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := resultOf(t, w)
	assert.True(t, res.Applied)
	require.Len(t, res.Applications, 2)
	assert.Equal(t, res.Applications[0].TeamID, res.Applications[1].TeamID)

	w = call(r, http.MethodDelete, "/api/applications/"+a.ID+"/proposals/"+b.ID, "a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, match.ReasonAlreadyMerged, resultOf(t, w).Reason)
}
