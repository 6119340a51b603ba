package equiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertionAddEqualFunctional(t *testing.T) {
	a := EmptyAssertion().AddEqual(0, 3)
	require.True(t, a.Tracked(0, 3))
	assert.True(t, a.LiveLeft(0))
	assert.True(t, a.LiveRight(3))

	// re-pairing either end forgets the old partner
	b := a.AddEqual(0, 5)
	assert.False(t, b.Tracked(0, 3))
	assert.True(t, b.Tracked(0, 5))
	assert.True(t, b.LiveRight(3), "the orphaned right local still holds its value")

	c := a.AddEqual(7, 3)
	assert.False(t, c.Tracked(0, 3))
	assert.True(t, c.Tracked(7, 3))
}

func TestAssertionReadsOK(t *testing.T) {
	empty := EmptyAssertion()
	assert.True(t, empty.ReadsOK(0, 0), "two unset locals read equal")
	assert.True(t, empty.ReadsOK(1, 9))

	a := empty.AddEqual(0, 3)
	assert.True(t, a.ReadsOK(0, 3))
	assert.False(t, a.ReadsOK(0, 4), "a live local never matches an unset one")
	assert.False(t, a.ReadsOK(5, 3))
	assert.True(t, a.ReadsOK(5, 8), "locals untouched on both sides stay equal")
}

func TestAssertionUnsetBoth(t *testing.T) {
	a := EmptyAssertion().AddEqual(0, 3).UnsetBoth(0, 3)
	assert.False(t, a.Tracked(0, 3))
	assert.False(t, a.LiveLeft(0))
	assert.False(t, a.LiveRight(3))
	assert.True(t, a.ReadsOK(0, 3), "both unset again, so reads agree")
}

func TestAssertionDropVariants(t *testing.T) {
	base := EmptyAssertion().AddEqual(0, 3)

	// DropLeft forgets the pair and the liveness
	d := base.DropLeft(0)
	assert.False(t, d.TracksLeft(0))
	assert.False(t, d.LiveLeft(0))
	assert.True(t, d.LiveRight(3))

	// DropPairLeft forgets the pair but the local keeps holding a value
	p := base.DropPairLeft(0)
	assert.False(t, p.TracksLeft(0))
	assert.True(t, p.LiveLeft(0))
	assert.False(t, p.ReadsOK(0, 3))
}

func TestAssertionAddUnsetEqual(t *testing.T) {
	a := EmptyAssertion().AddUnsetEqual(2, 2)
	assert.False(t, a.Tracked(2, 2), "occupancy without a value correspondence")
	assert.True(t, a.LiveLeft(2))
	assert.True(t, a.LiveRight(2))
	assert.False(t, a.ReadsOK(2, 2))
}

func TestAssertionEntailsReflexive(t *testing.T) {
	samples := []Assertion{
		EmptyAssertion(),
		EmptyAssertion().AddEqual(0, 1),
		EmptyAssertion().AddEqual(0, 1).AddEqual(2, 2).AddUnsetEqual(5, 7),
		EmptyAssertion().AddEqual(3, 3).DropPairLeft(3),
	}
	for _, a := range samples {
		assert.True(t, a.Entails(a), "assertion %s should entail itself", a)
	}
}

func TestAssertionEntailsOrdering(t *testing.T) {
	stronger := EmptyAssertion().AddEqual(0, 1).AddEqual(2, 3)
	weaker := EmptyAssertion().AddEqual(0, 1)

	assert.True(t, stronger.Entails(weaker))
	// the weaker hypothesis leaves the extra locals unset, so it cannot
	// cover the stronger one
	assert.False(t, weaker.Entails(stronger))

	// a pair over locals dead in the candidate is vacuous
	deadPair := EmptyAssertion().AddEqual(8, 9)
	covering := EmptyAssertion().AddEqual(8, 9)
	assert.True(t, covering.Entails(deadPair))
	assert.False(t, EmptyAssertion().Entails(deadPair),
		"the empty hypothesis does not cover live locals")
}

func TestAssertionEntailsTransitive(t *testing.T) {
	a := EmptyAssertion().AddEqual(0, 1).AddEqual(2, 3)
	b := EmptyAssertion().AddEqual(0, 1).AddEqual(2, 3)
	c := EmptyAssertion().AddEqual(0, 1).AddEqual(2, 3)
	require.True(t, a.Entails(b))
	require.True(t, b.Entails(c))
	assert.True(t, a.Entails(c))
}

func TestAssertionImmutability(t *testing.T) {
	a := EmptyAssertion().AddEqual(0, 1)
	_ = a.AddEqual(0, 9)
	_ = a.UnsetBoth(0, 1)
	_ = a.DropLeft(0)
	assert.True(t, a.Tracked(0, 1), "operations must not mutate the receiver")
	assert.True(t, a.LiveLeft(0))
}
