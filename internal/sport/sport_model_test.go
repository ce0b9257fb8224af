package sport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGameTypeSpellings(t *testing.T) {
	gt, ok := ParseGameType("womens_doubles")
	assert.True(t, ok)
	assert.Equal(t, DoublesWomens, gt)

	gt, ok = ParseGameType("Doubles_Mixed")
	assert.True(t, ok)
	assert.Equal(t, DoublesMixed, gt)

	_, ok = ParseGameType("triples_mens")
	assert.False(t, ok)
}

func TestRequiredGenderUsesWholeSegments(t *testing.T) {
	g, ok := SinglesWomens.RequiredGender()
	assert.True(t, ok)
	assert.Equal(t, GenderFemale, g)

	g, ok = DoublesMens.RequiredGender()
	assert.True(t, ok)
	assert.Equal(t, GenderMale, g)

	_, ok = DoublesMixed.RequiredGender()
	assert.False(t, ok)
	_, ok = Meetup.RequiredGender()
	assert.False(t, ok)
}

func TestRatingKindAndSeats(t *testing.T) {
	k, _ := SinglesMens.RatingKind()
	assert.Equal(t, KindSingles, k)
	k, _ = DoublesWomens.RatingKind()
	assert.Equal(t, KindDoubles, k)
	k, _ = DoublesMixed.RatingKind()
	assert.Equal(t, KindMixed, k)
	_, ok := Meetup.RatingKind()
	assert.False(t, ok)

	assert.Equal(t, 2, SinglesWomens.DefaultMaxParticipants())
	assert.Equal(t, 4, DoublesMixed.DefaultMaxParticipants())
	assert.Len(t, Catalog(), len(AllGameTypes))
}
