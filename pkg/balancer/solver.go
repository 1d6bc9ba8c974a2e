package balancer

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Params tunes the search. Zero fields fall back to DefaultParams. The
// annealing constants were tuned empirically; treat them as starting points,
// not requirements.
type Params struct {
	TempMax     float64 // starting and reheat temperature
	TempMin     float64 // floor below which the temperature reheats
	Alpha       float64 // geometric cooling factor per iteration
	AcceptScale float64 // Metropolis scaling constant k
	SwapGap     float64 // minimum average gap for a swap pair to be examined

	Workers int   // execution units; 0 means runtime.NumCPU()
	Seed    int64 // base rng seed; 0 means time-based

	ProgressInterval time.Duration
	OnProgress       func(Progress) // fire-and-forget; must not block
}

// DefaultParams carries the tuned constants.
var DefaultParams = Params{
	TempMax:          1000.0,
	TempMin:          0.001,
	Alpha:            0.9999,
	AcceptScale:      100.0,
	SwapGap:          0.01,
	ProgressInterval: 500 * time.Millisecond,
}

func (p Params) withDefaults() Params {
	if p.TempMax == 0 {
		p.TempMax = DefaultParams.TempMax
	}
	if p.TempMin == 0 {
		p.TempMin = DefaultParams.TempMin
	}
	if p.Alpha == 0 {
		p.Alpha = DefaultParams.Alpha
	}
	if p.AcceptScale == 0 {
		p.AcceptScale = DefaultParams.AcceptScale
	}
	if p.SwapGap == 0 {
		p.SwapGap = DefaultParams.SwapGap
	}
	if p.ProgressInterval == 0 {
		p.ProgressInterval = DefaultParams.ProgressInterval
	}
	return p
}

// Result is one variant's best grouping and its objective value.
type Result struct {
	Groups []Group
	StdDev float64
}

// Outcome holds the best grouping found for each problem variant.
type Outcome struct {
	Constrained   Result // star spread enforced
	Unconstrained Result
}

// Progress is a periodic snapshot emitted while the search runs. The best
// values are +Inf until the first publish.
type Progress struct {
	Elapsed           time.Duration
	BestConstrained   float64
	BestUnconstrained float64
}

// How long the coordinator waits for workers after cancellation before
// harvesting the shared bests directly. Workers poll every iteration, so this
// is generous.
const cancelGrace = time.Second

// Solve races parallel annealing workers against both problem variants for
// the given wall-clock budget and returns the best grouping found for each.
// Half the workers (rounded up) search with the star constraint, the rest
// without; each owns a private state and rng, sharing nothing but the two
// best records. Cancel ctx to stop early and keep the best found so far.
//
// An empty roster is not an error: it yields numGroups empty groups with a
// zero std dev for both variants.
func Solve(ctx context.Context, participants []Participant, numGroups int, budget time.Duration, params Params) (*Outcome, error) {
	if numGroups < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupCount, numGroups)
	}
	if len(participants) == 0 {
		empty := make([]Group, numGroups)
		for i := range empty {
			empty[i] = Group{ID: i + 1}
		}
		return &Outcome{
			Constrained:   Result{Groups: cloneGroups(empty)},
			Unconstrained: Result{Groups: cloneGroups(empty)},
		}, nil
	}
	if numGroups > len(participants) {
		return nil, fmt.Errorf("%w: %d groups for %d participants", ErrInvalidGroupCount, numGroups, len(participants))
	}

	p := params.withDefaults()

	workers := p.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	constrained := (workers + 1) / 2
	unconstrained := workers - constrained
	if unconstrained < 1 {
		unconstrained = 1
	}

	baseSeed := p.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	bestC := newSharedBest()
	bestU := newSharedBest()

	start := time.Now()
	monitorDone := make(chan struct{})
	if p.OnProgress != nil {
		go func() {
			ticker := time.NewTicker(p.ProgressInterval)
			defer ticker.Stop()
			for {
				select {
				case <-monitorDone:
					return
				case <-ticker.C:
					p.OnProgress(Progress{
						Elapsed:           time.Since(start),
						BestConstrained:   bestC.bestStd(),
						BestUnconstrained: bestU.bestStd(),
					})
				}
			}
		}()
	}

	run := func(id int, respectStars bool) error {
		rng := rand.New(rand.NewSource(baseSeed + int64(id)*7919))
		seed := randomState(participants, numGroups, respectStars, rng)
		if !validPartition(seed, len(participants)) {
			return fmt.Errorf("worker %d: invalid initial state", id)
		}
		var cross *sharedBest
		own := bestU
		if respectStars {
			own, cross = bestC, bestU
		}
		runAnneal(ctx, seed, respectStars, budget, p, rng, own, cross)
		return nil
	}

	pl := pool.New().WithErrors().WithMaxGoroutines(constrained + unconstrained)
	for i := 0; i < constrained; i++ {
		i := i
		pl.Go(func() error { return run(i, true) })
	}
	for i := 0; i < unconstrained; i++ {
		i := i
		pl.Go(func() error { return run(constrained+i, false) })
	}

	waitDone := make(chan error, 1)
	go func() { waitDone <- pl.Wait() }()

	var werr error
	select {
	case werr = <-waitDone:
	case <-ctx.Done():
		// Don't hang on stragglers: the shared records already reflect every
		// publish up to the cancellation point.
		select {
		case werr = <-waitDone:
		case <-time.After(cancelGrace):
			log.Printf("Cancellation grace period elapsed; harvesting best results")
		}
	}
	close(monitorDone)
	if werr != nil {
		log.Printf("Worker failures during search: %v", werr)
	}

	gc, sc := bestC.snapshot()
	gu, su := bestU.snapshot()
	if gc == nil && gu == nil {
		if werr != nil {
			return nil, fmt.Errorf("no worker produced a result: %w", werr)
		}
		return nil, fmt.Errorf("no worker produced a result")
	}

	// Champion promotion: the constrained search sometimes lands on a better
	// topology than the unconstrained one within the budget. A constrained
	// grouping is always valid without the constraint, so it takes the slot.
	if gc != nil && (gu == nil || sc < su) {
		gu = cloneGroups(gc)
		su = sc
	}

	out := &Outcome{
		Constrained:   Result{Groups: gc, StdDev: sc},
		Unconstrained: Result{Groups: gu, StdDev: su},
	}
	if gc == nil {
		out.Constrained.StdDev = math.Inf(1)
	}
	return out, nil
}
