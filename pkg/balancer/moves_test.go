package balancer

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartSwap_Improves(t *testing.T) {
	groups := []Group{
		{ID: 1, Members: []Participant{{Name: "a", Score: 50}, {Name: "b", Score: 60}}},
		{ID: 2, Members: []Participant{{Name: "c", Score: 10}, {Name: "d", Score: 20}}},
	}
	recompute(groups)
	before := stdDev(groups)

	ok := smartSwap(groups, false, DefaultParams.SwapGap)
	require.True(t, ok, "expected an improving exchange")
	assert.Less(t, stdDev(groups), before)
	assert.True(t, validPartition(groups, 4))
}

func TestSmartSwap_NoImprovement(t *testing.T) {
	groups := []Group{
		{ID: 1, Members: []Participant{{Name: "a", Score: 10}, {Name: "b", Score: 20}}},
		{ID: 2, Members: []Participant{{Name: "c", Score: 10}, {Name: "d", Score: 20}}},
	}
	recompute(groups)

	assert.False(t, smartSwap(groups, false, DefaultParams.SwapGap), "balanced state should be a no-op")
}

func TestSmartSwap_PicksBestExchange(t *testing.T) {
	// Swapping 60<->40 equalizes the averages exactly; any other exchange is
	// worse. The move must apply only the best one.
	groups := []Group{
		{ID: 1, Members: []Participant{{Name: "a", Score: 60}, {Name: "b", Score: 60}}},
		{ID: 2, Members: []Participant{{Name: "c", Score: 40}, {Name: "d", Score: 40}}},
	}
	recompute(groups)

	require.True(t, smartSwap(groups, false, DefaultParams.SwapGap))
	assert.InDelta(t, 50.0, groups[0].Avg, 1e-9)
	assert.InDelta(t, 50.0, groups[1].Avg, 1e-9)
}

func TestSmartSwap_StarStatusMustMatch(t *testing.T) {
	groups := []Group{
		{ID: 1, Members: []Participant{{Name: "a*", Score: 100, Advantaged: true}}},
		{ID: 2, Members: []Participant{{Name: "b", Score: 0}}},
	}
	recompute(groups)

	assert.False(t, smartSwap(groups, true, DefaultParams.SwapGap), "mismatched star status must block the swap")
	assert.True(t, smartSwap(groups, false, DefaultParams.SwapGap), "same pair is legal without the constraint")
}

func TestRandomTransfer_PreservesSizeInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		groups := randomState(makeParticipants(7, 0), 3, false, rng)
		_, ok := randomTransfer(groups, false, rng)
		if !ok {
			continue
		}
		require.True(t, validPartition(groups, 7), "trial %d: invalid after transfer", trial)

		sizes := []int{len(groups[0].Members), len(groups[1].Members), len(groups[2].Members)}
		sort.Ints(sizes)
		assert.LessOrEqual(t, sizes[2]-sizes[0], 1, "trial %d: size spread %v", trial, sizes)
	}
}

func TestRandomTransfer_NoRemainderNeverLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	groups := randomState(makeParticipants(4, 0), 2, false, rng)

	for trial := 0; trial < 50; trial++ {
		_, ok := randomTransfer(groups, false, rng)
		assert.False(t, ok, "equal-size groups admit no transfer")
	}
}

func TestRandomTransfer_RevertRestoresState(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for trial := 0; trial < 50; trial++ {
		groups := randomState(makeParticipants(5, 0), 2, false, rng)
		before := cloneGroups(groups)

		tr, ok := randomTransfer(groups, false, rng)
		if !ok {
			continue
		}
		revertTransfer(groups, tr)

		assert.Equal(t, memberSet(before), memberSet(groups), "membership changed after revert")
		for i := range groups {
			assert.Len(t, groups[i].Members, len(before[i].Members))
			assert.InDelta(t, before[i].Sum, groups[i].Sum, 1e-9)
		}
	}
}

func TestRandomTransfer_BlocksStarStacking(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	for trial := 0; trial < 100; trial++ {
		groups := []Group{
			{ID: 1, Members: []Participant{{Name: "a*", Score: 10, Advantaged: true}, {Name: "b", Score: 20}}},
			{ID: 2, Members: []Participant{{Name: "c*", Score: 30, Advantaged: true}}},
		}
		recompute(groups)

		_, ok := randomTransfer(groups, true, rng)
		if !ok {
			continue
		}
		for i := range groups {
			assert.LessOrEqual(t, advantagedCount(&groups[i]), 1, "transfer stacked stars")
		}
	}
}

func memberSet(groups []Group) map[int]map[string]bool {
	set := map[int]map[string]bool{}
	for i := range groups {
		set[i] = map[string]bool{}
		for _, m := range groups[i].Members {
			set[i][m.Name] = true
		}
	}
	return set
}
