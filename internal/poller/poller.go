// Package poller runs a fetch-and-replace loop at a fixed interval. Views
// that need approximate freshness (recent scans, dashboard lists) hang off
// one of these instead of a push channel.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Poller invokes fn immediately on Start and then once per interval until
// stopped. A failed run is logged at debug and retried at the next tick,
// with no backoff: background staleness is tolerated, background errors
// are invisible.
type Poller struct {
	interval time.Duration
	fn       func(ctx context.Context) error
	log      *logrus.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// New builds a poller around fn. fn must be safe to call repeatedly.
func New(interval time.Duration, fn func(ctx context.Context) error, log *logrus.Logger) *Poller {
	if log == nil {
		log = logrus.New()
	}
	return &Poller{interval: interval, fn: fn, log: log}
}

// Start launches the loop. Calling Start twice is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	go p.run(ctx)
}

// Stop cancels the loop and waits for the in-flight run to finish.
// Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.fn(ctx); err != nil {
		p.log.WithError(err).Debug("poll failed, retrying next tick")
	}
}
