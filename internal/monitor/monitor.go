// Package monitor polls the record store and tracks its health as a three
// state machine: healthy, degraded, failed. Observers are notified only
// when the state actually changes (edge-triggered), never on every poll.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"
)

// State is the store's health classification.
type State string

const (
	StateHealthy  State = "healthy"
	StateDegraded State = "degraded"
	StateFailed   State = "failed"
)

// Change describes one state transition.
type Change struct {
	From   State     `json:"from"`
	To     State     `json:"to"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// Observer receives state transitions. Observers run synchronously on the
// polling goroutine and must not block.
type Observer func(Change)

// Prober is the lightweight read probe; the store's Ping satisfies it.
type Prober interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// Status is the monitor's on-demand snapshot. Uptime is the time elapsed
// since the last completed check.
type Status struct {
	State     State         `json:"status"`
	LastCheck time.Time     `json:"last_check"`
	Uptime    time.Duration `json:"uptime"`
}

// Monitor owns the polling loop. Recovery is a best-effort action invoked
// once per failed probe (a session refresh for the REST driver, a plain
// reconnect probe otherwise); its own failure is logged, never escalated.
type Monitor struct {
	probe    Prober
	recovery func(context.Context) error

	interval  time.Duration
	threshold time.Duration

	mu        sync.Mutex
	state     State
	lastCheck time.Time
	observers []Observer

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New builds a monitor with the optimistic healthy initial state.
func New(probe Prober, interval, threshold time.Duration, recovery func(context.Context) error) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if threshold <= 0 {
		threshold = 5 * time.Second
	}
	return &Monitor{
		probe:     probe,
		recovery:  recovery,
		interval:  interval,
		threshold: threshold,
		state:     StateHealthy,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Subscribe registers an observer for state changes. Must be called before
// Start.
func (m *Monitor) Subscribe(obs Observer) {
	m.mu.Lock()
	m.observers = append(m.observers, obs)
	m.mu.Unlock()
}

// Start launches the polling loop: one immediate check, then one per
// interval until Stop.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		defer close(m.doneCh)
		m.check(ctx)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.check(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels polling and waits for the loop to exit. The last known state
// stays frozen.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	<-m.doneCh
}

// Status returns the current snapshot.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Status{State: m.state, LastCheck: m.lastCheck}
	if !m.lastCheck.IsZero() {
		s.Uptime = time.Since(m.lastCheck)
	}
	return s
}

// check runs one probe and applies the transition rules. A probe error
// drives failed plus one recovery attempt; elapsed time above the threshold
// drives degraded; anything else drives healthy.
func (m *Monitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	elapsed, err := m.probe.Ping(probeCtx)
	cancel()

	switch {
	case err != nil:
		m.transition(StateFailed, err.Error())
		if m.recovery != nil {
			if rerr := m.recovery(ctx); rerr != nil {
				log.Printf("monitor: recovery attempt failed: %v", rerr)
			} else {
				log.Printf("monitor: recovery attempt succeeded")
			}
		}
	case elapsed > m.threshold:
		m.transition(StateDegraded, "slow response: "+elapsed.String())
	default:
		m.transition(StateHealthy, "response time: "+elapsed.String())
	}

	m.mu.Lock()
	m.lastCheck = time.Now()
	m.mu.Unlock()
}

func (m *Monitor) transition(to State, reason string) {
	m.mu.Lock()
	from := m.state
	if from == to {
		m.mu.Unlock()
		return
	}
	m.state = to
	observers := append([]Observer(nil), m.observers...)
	m.mu.Unlock()

	ch := Change{From: from, To: to, Reason: reason, At: time.Now().UTC()}
	log.Printf("monitor: connection status %s -> %s (%s)", from, to, reason)
	for _, obs := range observers {
		obs(ch)
	}
}
