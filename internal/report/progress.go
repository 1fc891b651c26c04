package report

import (
	"sync"
	"sync/atomic"

	"ozzus/domain-scout/internal/domain"
)

// Progress holds run counters. It is safe to read while results are being
// recorded.
type Progress struct {
	total         atomic.Int64
	completed     atomic.Int64
	available     atomic.Int64
	taken         atomic.Int64
	indeterminate atomic.Int64
	errors        atomic.Int64

	mu     sync.Mutex
	byKind map[domain.ErrorKind]int
}

func NewProgress(total int) *Progress {
	p := &Progress{byKind: make(map[domain.ErrorKind]int)}
	p.total.Store(int64(total))
	return p
}

// Record counts res and returns the new completed count and whether this is
// the first error of its kind.
func (p *Progress) Record(res domain.CheckResult) (completed int64, firstOfKind bool) {
	switch res.Status {
	case domain.StatusAvailable:
		p.available.Add(1)
	case domain.StatusTaken:
		p.taken.Add(1)
	case domain.StatusIndeterminate:
		p.indeterminate.Add(1)
	default:
		p.errors.Add(1)
		kind := res.ErrorKind()
		p.mu.Lock()
		p.byKind[kind]++
		firstOfKind = p.byKind[kind] == 1
		p.mu.Unlock()
	}
	return p.completed.Add(1), firstOfKind
}

func (p *Progress) Total() int64     { return p.total.Load() }
func (p *Progress) Completed() int64 { return p.completed.Load() }
func (p *Progress) Available() int64 { return p.available.Load() }

type Snapshot struct {
	Total         int64
	Completed     int64
	Available     int64
	Taken         int64
	Indeterminate int64
	Errors        int64
	ErrorsByKind  map[domain.ErrorKind]int
}

func (p *Progress) Snapshot() Snapshot {
	p.mu.Lock()
	byKind := make(map[domain.ErrorKind]int, len(p.byKind))
	for k, v := range p.byKind {
		byKind[k] = v
	}
	p.mu.Unlock()

	return Snapshot{
		Total:         p.total.Load(),
		Completed:     p.completed.Load(),
		Available:     p.available.Load(),
		Taken:         p.taken.Load(),
		Indeterminate: p.indeterminate.Load(),
		Errors:        p.errors.Load(),
		ErrorsByKind:  byKind,
	}
}
