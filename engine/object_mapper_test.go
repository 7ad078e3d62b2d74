package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sequences whose element types refer back to each other.
type (
	forestA []forestB
	forestB []forestA
	groveA  []groveB
	groveB  []groveA
)

func TestCollectionMatchOnMutuallyRecursiveElements(t *testing.T) {
	e := build(t, NewProfile("empty"))

	pair := PairOf[forestA, groveA]()
	assert.True(t, CollectionMapper{}.IsMatch(e, pair))
	assert.True(t, e.Supports(pair))
	assert.False(t, PointerMapper{}.IsMatch(e, pair))

	out, err := Map[forestA, groveA](NewMapper(e), forestA{forestB{forestA{}}})
	require.NoError(t, err)
	assert.Equal(t, groveA{groveB{groveA{}}}, out)
}

func TestAssertValidOnMutuallyRecursiveMember(t *testing.T) {
	type holder struct{ Trees forestA }

	type target struct{ Trees groveA }

	p := NewProfile("forest")
	CreateMap[holder, target](p)

	e := build(t, p)

	assert.NoError(t, e.AssertValid())
}

func TestPointerMatchOnMutuallyRecursiveElements(t *testing.T) {
	e := build(t, NewProfile("empty"))

	assert.True(t, PointerMapper{}.IsMatch(e, PairOf[*forestA, groveA]()))
	assert.True(t, e.Supports(PairOf[map[string]forestB, map[string]groveB]()))
}
