package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
)

var ErrProfileNotFound = errors.New("rating profile not found")

// Profile is the read-only rating data the engine needs about one player.
type Profile struct {
	UserID           string                       `json:"user_id"`
	Gender           string                       `json:"gender,omitempty"`
	Elo              map[sport.RatingKind]float64 `json:"ratings,omitempty"`
	SelfReportedBand string                       `json:"self_reported_level,omitempty"`
}

// DisplayFor returns the display rating for one rating kind. The kind's own ELO
// is always preferred; the self-reported band is used only when that ELO is
// missing. Another kind's ELO is never substituted.
func (p *Profile) DisplayFor(kind sport.RatingKind) (int, bool) {
	if p == nil {
		return 0, false
	}
	if elo, ok := p.Elo[kind]; ok {
		return EloToDisplay(elo), true
	}
	if p.SelfReportedBand != "" {
		return BandToDisplay(p.SelfReportedBand), true
	}
	return 0, false
}

// Source supplies rating profiles from the external profile store.
type Source interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}

// Snapshot is a player's rating and gender as read at one decision point.
type Snapshot struct {
	UserID  string
	Display int
	Known   bool
	Gender  string
}

// Lookup reads a fresh snapshot for userID on the given rating track.
// A missing profile yields an unknown snapshot rather than an error.
func Lookup(ctx context.Context, src Source, userID string, kind sport.RatingKind) (Snapshot, error) {
	snap := Snapshot{UserID: userID}
	p, err := src.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return snap, nil
		}
		return snap, fmt.Errorf("lookup rating for %s: %w", userID, err)
	}
	snap.Gender = p.Gender
	snap.Display, snap.Known = p.DisplayFor(kind)
	return snap, nil
}

// DisplayOrFloor treats an unrated player as the lowest display rating.
func (s Snapshot) DisplayOrFloor() int {
	if !s.Known {
		return MinDisplay
	}
	return s.Display
}
