package kiosk

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Machine interprets the transition function: it serializes events, runs
// ticker effects synchronously under the lock, and runs network effects on
// goroutines whose results come back in as events. The countdown can never
// tick after a stop begins because StopTicker is executed before the stop
// call is even scheduled.
type Machine struct {
	mu    sync.Mutex
	state State

	client Client
	log    *logrus.Logger

	ticker     *time.Ticker
	tickerDone chan struct{}

	// OnChange receives every state after it settles, for rendering.
	OnChange func(State)
}

// NewMachine builds an offline machine around the given client.
func NewMachine(client Client, log *logrus.Logger) *Machine {
	if log == nil {
		log = logrus.New()
	}
	return &Machine{
		state:  NewState(),
		client: client,
		log:    log,
	}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch feeds one event through the transition function and performs the
// resulting effects.
func (m *Machine) Dispatch(ctx context.Context, ev Event) {
	m.mu.Lock()
	next, effects := Transition(m.state, ev)
	m.state = next

	// ticker effects are synchronous so the ordering guarantee holds
	var network []Effect
	for _, eff := range effects {
		switch eff.(type) {
		case StartTicker:
			m.startTickerLocked(ctx)
		case StopTicker:
			m.stopTickerLocked()
		default:
			network = append(network, eff)
		}
	}
	onChange := m.OnChange
	snapshot := m.state
	m.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
	for _, eff := range network {
		go m.runEffect(ctx, eff)
	}
}

// Close stops the ticker. The machine must not be dispatched to afterwards.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopTickerLocked()
}

func (m *Machine) runEffect(ctx context.Context, eff Effect) {
	switch e := eff.(type) {
	case CheckStatus:
		res, err := m.client.Status(ctx, e.Tag)
		status := ""
		if res != nil {
			status = res.SessionStatus
		}
		m.Dispatch(ctx, StatusResolved{Tag: e.Tag, Status: status, Err: err})

	case StartStart:
		res, err := m.client.Start(ctx, e.Tag)
		m.Dispatch(ctx, StartResolved{Tag: e.Tag, Res: res, Err: err})

	case StopStop:
		res, err := m.client.Stop(ctx, e.Tag)
		if err != nil {
			m.log.WithError(err).Warn("stop call failed")
		}
		m.Dispatch(ctx, StopResolved{Res: res, Err: err})

	case CheckStaff:
		ok, err := m.client.CheckStaff(ctx, e.Tag)
		m.Dispatch(ctx, StaffResolved{OK: ok, Err: err})
	}
}

func (m *Machine) startTickerLocked(ctx context.Context) {
	if m.ticker != nil {
		return
	}
	m.ticker = time.NewTicker(time.Second)
	m.tickerDone = make(chan struct{})
	go func(tick <-chan time.Time, done <-chan struct{}) {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-tick:
				m.Dispatch(ctx, Tick{})
			}
		}
	}(m.ticker.C, m.tickerDone)
}

func (m *Machine) stopTickerLocked() {
	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	close(m.tickerDone)
	m.ticker = nil
	m.tickerDone = nil
}
