package balancer

import (
	"math"
	"sync"
	"sync/atomic"
)

// sharedBest is the single record a variant's workers publish into. The hint
// holds the current best std dev as float bits so workers can reject obvious
// non-improvements without taking the lock.
type sharedBest struct {
	mu     sync.Mutex
	hint   atomic.Uint64
	std    float64
	groups []Group
}

func newSharedBest() *sharedBest {
	b := &sharedBest{std: math.Inf(1)}
	b.hint.Store(math.Float64bits(b.std))
	return b
}

// publish installs groups as the new best if std improves on the record. The
// unlocked hint read is only a fast path; another worker may have published
// between the hint check and the lock, so the decision is re-verified under
// the lock before writing.
func (b *sharedBest) publish(groups []Group, std float64) bool {
	if std >= math.Float64frombits(b.hint.Load()) {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if std >= b.std {
		return false
	}
	b.std = std
	b.groups = cloneGroups(groups)
	b.hint.Store(math.Float64bits(std))
	return true
}

// snapshot returns an independent copy of the record, or nil when nothing was
// ever published.
func (b *sharedBest) snapshot() ([]Group, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.groups == nil {
		return nil, b.std
	}
	return cloneGroups(b.groups), b.std
}

// bestStd is safe to call from the progress monitor while workers publish.
func (b *sharedBest) bestStd() float64 {
	return math.Float64frombits(b.hint.Load())
}
