package flowcanvas

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorhill/cronexpr"
)

const DefaultPruneSchedule = `0 * * * *`
const DefaultPruneKeep = 20

// Pruner caps the number of retained revisions per workflow by running
// Store.Prune on a cron schedule.
type Pruner struct {
	s        Store
	schedule *cronexpr.Expression
	keep     int

	doneCh    chan struct{}
	stoppedCh chan struct{}
	closed    atomic.Bool

	l *slog.Logger
}

type PrunerOption func(*Pruner)

func WithPruneSchedule(schedule *cronexpr.Expression) PrunerOption {
	return func(p *Pruner) {
		p.schedule = schedule
	}
}

func WithPruneKeep(keep int) PrunerOption {
	return func(p *Pruner) {
		p.keep = keep
	}
}

func NewPruner(s Store, l *slog.Logger, opts ...PrunerOption) (*Pruner, error) {
	schedule, err := cronexpr.Parse(DefaultPruneSchedule)
	if err != nil {
		return nil, fmt.Errorf("parse default schedule: %w", err)
	}

	p := &Pruner{
		s:        s,
		schedule: schedule,
		keep:     DefaultPruneKeep,

		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),

		l: l,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.keep < 1 {
		return nil, fmt.Errorf("keep must be >= 1; got %d", p.keep)
	}

	go p.run()

	return p, nil
}

func (p *Pruner) Shutdown(ctx context.Context) error {
	if p.closed.CompareAndSwap(false, true) {
		close(p.doneCh)
	}

	select {
	case <-p.stoppedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pruner) run() {
	defer close(p.stoppedCh)

	for {
		t := time.NewTimer(time.Until(p.schedule.Next(time.Now())))

		select {
		case <-p.doneCh:
			t.Stop()
			return
		case <-t.C:
			p.pruneOnce()
		}
	}
}

func (p *Pruner) pruneOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	dropped, err := p.s.Prune(ctx, p.keep)
	if err != nil {
		p.l.Error("prune revisions", "error", err)
		return
	}

	p.l.Info("prune revisions", "dropped", dropped, "keep", p.keep)
}
