package balancer

import (
	"math/rand"
	"sort"
)

// Improvements below this are treated as floating-point noise.
const swapNoise = 1e-6

// How many groups from each end of the average ranking the swap inspects.
const swapExtremes = 3

// smartSwap looks for the best member exchange between the highest-average
// and lowest-average groups and applies it. Restricting the search to the
// extremes keeps the per-iteration cost low enough to run thousands of times
// per second while converging nearly as well as a full all-pairs scan.
// Returns false when no exchange improves the state.
func smartSwap(groups []Group, respectStars bool, gapMin float64) bool {
	n := len(groups)
	if n < 2 {
		return false
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return groups[order[a]].Avg > groups[order[b]].Avg })

	k := swapExtremes
	if k > n {
		k = n
	}
	high := order[:k]
	low := order[n-k:]

	bestGain := swapNoise
	bestHi, bestLo, bestI, bestJ := -1, -1, -1, -1

	for _, hi := range high {
		for _, lo := range low {
			if hi == lo {
				continue
			}
			gh, gl := &groups[hi], &groups[lo]
			if gh.Avg-gl.Avg < gapMin {
				continue
			}
			curSSE := gh.Avg*gh.Avg + gl.Avg*gl.Avg
			for i := range gh.Members {
				for j := range gl.Members {
					mh, ml := &gh.Members[i], &gl.Members[j]
					if mh.Score <= ml.Score {
						continue
					}
					if respectStars && mh.Advantaged != ml.Advantaged {
						continue
					}
					newHi := (gh.Sum - mh.Score + ml.Score) / float64(len(gh.Members))
					newLo := (gl.Sum - ml.Score + mh.Score) / float64(len(gl.Members))
					gain := curSSE - (newHi*newHi + newLo*newLo)
					if gain > bestGain {
						bestGain = gain
						bestHi, bestLo, bestI, bestJ = hi, lo, i, j
					}
				}
			}
		}
	}

	if bestHi < 0 {
		return false
	}

	groups[bestHi].Members[bestI], groups[bestLo].Members[bestJ] =
		groups[bestLo].Members[bestJ], groups[bestHi].Members[bestI]
	recomputeOne(&groups[bestHi])
	recomputeOne(&groups[bestLo])
	return true
}

// transfer records a transfer move so the caller can revert it exactly.
type transfer struct {
	src, dst int
}

// randomTransfer moves a random member between two random groups. The move is
// only legal from a group at the larger target size to one at the smaller
// target size, which preserves the size invariant with no extra bookkeeping.
// When respectStars is set, an advantaged member never moves into a group
// that already holds one. This is the escape mechanism from local optima the
// swap move cannot reach: it changes group populations, not just the pairing.
func randomTransfer(groups []Group, respectStars bool, rng *rand.Rand) (transfer, bool) {
	if len(groups) < 2 {
		return transfer{}, false
	}

	total := 0
	for i := range groups {
		total += len(groups[i].Members)
	}
	minSize := total / len(groups)
	maxSize := minSize + 1

	a := rng.Intn(len(groups))
	b := rng.Intn(len(groups) - 1)
	if b >= a {
		b++
	}

	var src, dst int
	switch {
	case len(groups[a].Members) == maxSize && len(groups[b].Members) == minSize:
		src, dst = a, b
	case len(groups[b].Members) == maxSize && len(groups[a].Members) == minSize:
		src, dst = b, a
	default:
		return transfer{}, false
	}

	idx := rng.Intn(len(groups[src].Members))
	m := groups[src].Members[idx]
	if respectStars && m.Advantaged && advantagedCount(&groups[dst]) > 0 {
		return transfer{}, false
	}

	groups[src].Members = append(groups[src].Members[:idx], groups[src].Members[idx+1:]...)
	groups[dst].Members = append(groups[dst].Members, m)
	recomputeOne(&groups[src])
	recomputeOne(&groups[dst])
	return transfer{src: src, dst: dst}, true
}

// revertTransfer undoes a transfer by moving the last member of the
// destination back to the source.
func revertTransfer(groups []Group, t transfer) {
	last := len(groups[t.dst].Members) - 1
	m := groups[t.dst].Members[last]
	groups[t.dst].Members = groups[t.dst].Members[:last]
	groups[t.src].Members = append(groups[t.src].Members, m)
	recomputeOne(&groups[t.src])
	recomputeOne(&groups[t.dst])
}
