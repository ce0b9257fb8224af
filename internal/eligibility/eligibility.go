// Package eligibility decides whether a candidate, or a prospective pair, may
// join an Event given ratings on the display scale and recorded gender.
package eligibility

import (
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/rating"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
)

type Reason string

const (
	ReasonRatingTooLow   Reason = "rating_too_low"
	ReasonRatingTooHigh  Reason = "rating_too_high"
	ReasonGenderMismatch Reason = "gender_mismatch"
)

// DefaultDoublesTolerance is the allowed distance between a pair's combined
// rating and the host team's combined rating.
const DefaultDoublesTolerance = 2

// Result is the evaluation outcome. Reason is empty when Admissible.
type Result struct {
	Admissible bool   `json:"admissible"`
	Reason     Reason `json:"reason,omitempty"`
}

func admit() Result { return Result{Admissible: true} }

func deny(r Reason) Result { return Result{Admissible: false, Reason: r} }

// Window is an inclusive display-rating range.
type Window struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (w Window) check(v int) Result {
	if v < w.Min {
		return deny(ReasonRatingTooLow)
	}
	if v > w.Max {
		return deny(ReasonRatingTooHigh)
	}
	return admit()
}

// SinglesWindow builds the stored singles window around the host rating.
func SinglesWindow(hostRating, band int) Window {
	lo, hi := hostRating-band, hostRating+band
	if lo < rating.MinDisplay {
		lo = rating.MinDisplay
	}
	if hi > rating.MaxDisplay {
		hi = rating.MaxDisplay
	}
	return Window{Min: lo, Max: hi}
}

// HostTeamRating is the combined host side rating for doubles. When the
// partner's rating is not known yet the host's solo rating is the ceiling.
func HostTeamRating(host int, partner int, partnerKnown bool) int {
	if !partnerKnown {
		return host
	}
	return host + partner
}

// Candidate is one player under evaluation.
type Candidate struct {
	Rating int
	Gender string
}

// Input carries everything one evaluation needs. Window is read for singles,
// HostTeamRating for doubles. Candidates holds one player, or two for a pair.
type Input struct {
	GameType       sport.GameType
	Window         Window
	HostTeamRating int
	Tolerance      int
	Candidates     []Candidate
}

// Evaluate applies the gender rule to every candidate, then the rating rule
// for the game type. Meetups are not gated.
func Evaluate(in Input) Result {
	if in.GameType.IsMeetup() {
		return admit()
	}
	for _, c := range in.Candidates {
		if r := CheckGender(in.GameType, c.Gender); !r.Admissible {
			return r
		}
	}
	if len(in.Candidates) == 0 {
		return admit()
	}

	switch {
	case in.GameType.IsSingles():
		return in.Window.check(in.Candidates[0].Rating)
	case in.GameType.IsDoubles():
		if len(in.Candidates) == 1 {
			return EvaluateSolo(in.HostTeamRating, in.Candidates[0].Rating)
		}
		tol := in.Tolerance
		if tol <= 0 {
			tol = DefaultDoublesTolerance
		}
		return EvaluatePair(in.HostTeamRating, in.Candidates[0].Rating+in.Candidates[1].Rating, tol)
	}
	return admit()
}

// CheckGender admits anyone for mixed and meetup games. Gendered games require
// a matching recorded gender; any value other than male/female is admitted.
func CheckGender(gt sport.GameType, gender string) Result {
	required, restricted := gt.RequiredGender()
	if !restricted {
		return admit()
	}
	if gender != sport.GenderMale && gender != sport.GenderFemale {
		return admit()
	}
	if gender != required {
		return deny(ReasonGenderMismatch)
	}
	return admit()
}

// EvaluateSolo is the doubles rule for a player without a partner: no lower
// bound, ceiling at the host team rating.
func EvaluateSolo(hostTeamRating, candidate int) Result {
	if candidate > hostTeamRating {
		return deny(ReasonRatingTooHigh)
	}
	return admit()
}

// EvaluatePair admits a pair whose combined rating is within tolerance of the host team.
func EvaluatePair(hostTeamRating, combined, tolerance int) Result {
	return Window{Min: hostTeamRating - tolerance, Max: hostTeamRating + tolerance}.check(combined)
}
