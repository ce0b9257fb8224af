package rating

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayForPrefersMatchingKind(t *testing.T) {
	p := &Profile{
		UserID:           "u1",
		Elo:              map[sport.RatingKind]float64{sport.KindSingles: 1300},
		SelfReportedBand: "expert",
	}

	got, ok := p.DisplayFor(sport.KindSingles)
	require.True(t, ok)
	assert.Equal(t, 5, got)

	// no doubles ELO: the band is used, never the singles ELO
	got, ok = p.DisplayFor(sport.KindDoubles)
	require.True(t, ok)
	assert.Equal(t, 9, got)
}

func TestDisplayForUnknown(t *testing.T) {
	p := &Profile{UserID: "u1"}
	_, ok := p.DisplayFor(sport.KindMixed)
	assert.False(t, ok)

	var nilProfile *Profile
	_, ok = nilProfile.DisplayFor(sport.KindMixed)
	assert.False(t, ok)
}

func TestLookupMissingProfileIsUnknown(t *testing.T) {
	src := NewStaticSource()
	snap, err := Lookup(context.Background(), src, "ghost", sport.KindSingles)
	require.NoError(t, err)
	assert.False(t, snap.Known)
	assert.Equal(t, MinDisplay, snap.DisplayOrFloor())
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/u1/ratings":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"user_id": "u1",
				"gender":  "female",
				"ratings": map[string]float64{"doubles": 1460},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)

	snap, err := Lookup(context.Background(), src, "u1", sport.KindDoubles)
	require.NoError(t, err)
	assert.True(t, snap.Known)
	assert.Equal(t, 6, snap.Display)
	assert.Equal(t, "female", snap.Gender)

	_, err = src.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}
