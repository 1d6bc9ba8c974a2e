package balancer

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// runAnneal drives one worker's search loop over its private state until the
// wall-clock budget elapses or ctx is cancelled. The returned best is at
// worst the seed; a worker never comes back empty-handed once initialized.
//
// Each iteration first tries the targeted-extremes swap. Only when no
// improving exchange exists does it fall back to a random transfer, accepting
// worsening transfers with Metropolis probability exp(-delta*k/T) so the
// search can climb out of local optima. The temperature cools geometrically
// and reheats once it drops below the floor, sustaining exploration for the
// whole budget instead of freezing.
func runAnneal(ctx context.Context, seed []Group, respectStars bool, budget time.Duration, p Params, rng *rand.Rand, own, cross *sharedBest) ([]Group, float64) {
	current := cloneGroups(seed)
	best := cloneGroups(seed)
	bestStd := stdDev(best)

	// A constrained solution is always a valid unconstrained one, so
	// constrained workers publish to both records.
	publish := func() {
		own.publish(best, bestStd)
		if cross != nil {
			cross.publish(best, bestStd)
		}
	}
	publish()

	deadline := time.Now().Add(budget)
	temp := p.TempMax

	for {
		select {
		case <-ctx.Done():
			return best, bestStd
		default:
		}
		if !time.Now().Before(deadline) {
			return best, bestStd
		}

		if smartSwap(current, respectStars, p.SwapGap) {
			if std := stdDev(current); std < bestStd {
				best = cloneGroups(current)
				bestStd = std
				publish()
			}
		} else if t, ok := randomTransfer(current, respectStars, rng); ok {
			std := stdDev(current)
			if std < bestStd {
				best = cloneGroups(current)
				bestStd = std
				publish()
			} else if delta := std - bestStd; rng.Float64() >= math.Exp(-delta*p.AcceptScale/temp) {
				revertTransfer(current, t)
			}
		}

		temp *= p.Alpha
		if temp < p.TempMin {
			temp = p.TempMax
		}
	}
}
