package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoster_PlaceAndRelocate(t *testing.T) {
	r := NewRoster()
	r.Place(0, "Fizz")
	r.Place(1, "Fizz")
	r.Place(0, "Buzz")

	pos, ok := r.Position(0)
	assert.True(t, ok)
	assert.Equal(t, "Buzz", pos)
	assert.Equal(t, []int{1}, r.Occupants("Fizz"))
	assert.Equal(t, []int{0}, r.Occupants("Buzz"))
}

func TestRoster_CrowdedSorted(t *testing.T) {
	r := NewRoster()
	r.Place(0, "Zulu")
	r.Place(1, "Zulu")
	r.Place(2, "Alpha")
	r.Place(3, "Alpha")
	r.Place(4, "Mike")

	assert.Equal(t, []string{"Alpha", "Zulu"}, r.Crowded())
}

func TestRoster_RemoveClearsIndices(t *testing.T) {
	r := NewRoster()
	r.Place(0, "Fizz")
	r.Place(1, "Fizz")
	r.Remove(0)
	r.Remove(0) // second removal is a no-op

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []int{1}, r.Occupants("Fizz"))
	assert.Empty(t, r.Crowded())
	_, ok := r.Position(0)
	assert.False(t, ok)
}

func TestRoster_ActiveStableOrder(t *testing.T) {
	r := NewRoster()
	for id := 0; id < 5; id++ {
		r.Place(id, "Hub")
	}
	r.Remove(2)
	r.Place(1, "Spoke") // relocation must not reorder

	assert.Equal(t, []int{0, 1, 3, 4}, r.Active())
}
