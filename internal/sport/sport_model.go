// sport/model.go
package sport

import "strings"

// GameType is the format an Event is played in.
type GameType string

const (
	SinglesMens   GameType = "singles_mens"
	SinglesWomens GameType = "singles_womens"
	DoublesMens   GameType = "doubles_mens"
	DoublesWomens GameType = "doubles_womens"
	DoublesMixed  GameType = "doubles_mixed"
	Meetup        GameType = "meetup"
)

// RatingKind selects which independently tracked rating applies to a game type.
type RatingKind string

const (
	KindSingles RatingKind = "singles"
	KindDoubles RatingKind = "doubles"
	KindMixed   RatingKind = "mixed"
)

// Gender values that restrict admission. Anything else is non-restrictive.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// AllGameTypes lists every supported game type in display order.
var AllGameTypes = []GameType{SinglesMens, SinglesWomens, DoublesMens, DoublesWomens, DoublesMixed, Meetup}

// ParseGameType accepts both "doubles_womens" and "womens_doubles" spellings.
func ParseGameType(s string) (GameType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	parts := strings.Split(s, "_")
	if len(parts) == 2 && (parts[1] == "singles" || parts[1] == "doubles") {
		s = parts[1] + "_" + parts[0]
	}
	for _, gt := range AllGameTypes {
		if string(gt) == s {
			return gt, true
		}
	}
	return "", false
}

func (g GameType) Valid() bool {
	_, ok := ParseGameType(string(g))
	return ok
}

func (g GameType) segments() []string {
	return strings.Split(string(g), "_")
}

func (g GameType) hasSegment(seg string) bool {
	for _, s := range g.segments() {
		if s == seg {
			return true
		}
	}
	return false
}

func (g GameType) IsSingles() bool { return g.hasSegment("singles") }
func (g GameType) IsDoubles() bool { return g.hasSegment("doubles") }
func (g GameType) IsMeetup() bool  { return g == Meetup }

// RequiredGender returns the gender a candidate must have recorded, if any.
// Segments are compared whole so "womens" never matches a "mens" check.
func (g GameType) RequiredGender() (string, bool) {
	switch {
	case g.hasSegment("womens"):
		return GenderFemale, true
	case g.hasSegment("mens"):
		return GenderMale, true
	}
	return "", false
}

// RatingKind returns the rating track used for eligibility. Meetups are ungated.
func (g GameType) RatingKind() (RatingKind, bool) {
	switch {
	case g == DoublesMixed:
		return KindMixed, true
	case g.IsDoubles():
		return KindDoubles, true
	case g.IsSingles():
		return KindSingles, true
	}
	return "", false
}

// SeatsPerSide is the number of players on the host side and on one approved opposing party.
func (g GameType) SeatsPerSide() int {
	if g.IsDoubles() {
		return 2
	}
	return 1
}

// DefaultMaxParticipants is the full roster size for a competitive game type.
// Meetups carry a host-chosen size instead.
func (g GameType) DefaultMaxParticipants() int {
	return 2 * g.SeatsPerSide()
}

// GameTypeInfo is the catalog entry served to clients.
type GameTypeInfo struct {
	Code            GameType   `json:"code"`
	RatingKind      RatingKind `json:"rating_kind,omitempty"`
	RequiredGender  string     `json:"required_gender,omitempty"`
	SeatsPerSide    int        `json:"seats_per_side"`
	MaxParticipants int        `json:"max_participants,omitempty"`
}

// Catalog describes every game type.
func Catalog() []GameTypeInfo {
	out := make([]GameTypeInfo, 0, len(AllGameTypes))
	for _, gt := range AllGameTypes {
		info := GameTypeInfo{Code: gt, SeatsPerSide: gt.SeatsPerSide()}
		if kind, ok := gt.RatingKind(); ok {
			info.RatingKind = kind
			info.MaxParticipants = gt.DefaultMaxParticipants()
		}
		if g, ok := gt.RequiredGender(); ok {
			info.RequiredGender = g
		}
		out = append(out, info)
	}
	return out
}
