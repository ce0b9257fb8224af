package rating

import (
	"context"

	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/user"
)

// UserSource reads profiles from the local users and user_ratings tables.
type UserSource struct {
	users user.UserRepository
}

func NewUserSource(users user.UserRepository) *UserSource {
	return &UserSource{users: users}
}

func (s *UserSource) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrProfileNotFound
	}
	ratings, err := s.users.GetRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		UserID:           u.ID,
		Gender:           u.Gender,
		SelfReportedBand: u.SelfReportedLevel,
		Elo:              make(map[sport.RatingKind]float64, len(ratings)),
	}
	for _, r := range ratings {
		p.Elo[sport.RatingKind(r.Kind)] = r.Elo
	}
	return p, nil
}
