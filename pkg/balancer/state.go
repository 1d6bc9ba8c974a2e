// Package balancer assigns scored participants to a fixed number of groups so
// that every group's average score stays close to the global average, using
// parallel time-bounded simulated annealing.
package balancer

import "math"

// Participant is one scored individual. Advantaged is decided once at load
// time and never recomputed by the engine.
type Participant struct {
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
	Advantaged bool    `json:"advantaged"`
}

// Group holds an ordered set of members plus cached statistics. Sum and Avg
// are always recomputed from Members, never updated incrementally.
type Group struct {
	ID      int           `json:"id"`
	Members []Participant `json:"members"`
	Sum     float64       `json:"sum"`
	Avg     float64       `json:"avg"`
}

// Returned by stdDev for states with no populated groups.
const unusableStdDev = 999999.0

// recompute refreshes Sum and Avg for every group from scratch. Summing floats
// can drift, but starting fresh every time keeps the cached fields honest
// across thousands of mutations.
func recompute(groups []Group) {
	for i := range groups {
		g := &groups[i]
		g.Sum = 0
		for _, m := range g.Members {
			g.Sum += m.Score
		}
		if len(g.Members) > 0 {
			g.Avg = g.Sum / float64(len(g.Members))
		} else {
			g.Avg = 0
		}
	}
}

func recomputeOne(g *Group) {
	g.Sum = 0
	for _, m := range g.Members {
		g.Sum += m.Score
	}
	if len(g.Members) > 0 {
		g.Avg = g.Sum / float64(len(g.Members))
	} else {
		g.Avg = 0
	}
}

// stdDev returns the population standard deviation of the per-group averages,
// computed from the members directly. Empty groups are skipped; a state with
// no populated groups at all yields a sentinel large value.
func stdDev(groups []Group) float64 {
	avgs := make([]float64, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		if len(g.Members) == 0 {
			continue
		}
		sum := 0.0
		for _, m := range g.Members {
			sum += m.Score
		}
		avgs = append(avgs, sum/float64(len(g.Members)))
	}
	if len(avgs) == 0 {
		return unusableStdDev
	}
	mean := 0.0
	for _, a := range avgs {
		mean += a
	}
	mean /= float64(len(avgs))
	variance := 0.0
	for _, a := range avgs {
		d := a - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(avgs)))
}

// cloneGroups returns an independent deep copy with fresh statistics.
func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i := range groups {
		members := make([]Participant, len(groups[i].Members))
		copy(members, groups[i].Members)
		out[i] = Group{ID: groups[i].ID, Members: members}
	}
	recompute(out)
	return out
}

func advantagedCount(g *Group) int {
	n := 0
	for _, m := range g.Members {
		if m.Advantaged {
			n++
		}
	}
	return n
}

// validPartition reports whether groups form a valid state for want
// participants: every participant placed exactly once and group sizes
// differing by at most one.
func validPartition(groups []Group, want int) bool {
	total := 0
	minSize, maxSize := -1, 0
	for i := range groups {
		n := len(groups[i].Members)
		total += n
		if minSize < 0 || n < minSize {
			minSize = n
		}
		if n > maxSize {
			maxSize = n
		}
	}
	if total != want {
		return false
	}
	return maxSize-minSize <= 1
}
