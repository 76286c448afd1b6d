package client

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is the fixed cadence between status fetches while
// an item is processing.
const DefaultPollInterval = 2 * time.Second

// PollEvent is delivered to the poll handler after each fetch. Exactly
// one of Item, Gone or Err is meaningful: Gone when the record vanished
// (deleted mid-processing), Err when the fetch failed for any other
// reason. Both Gone and Err are terminal; no further events follow until
// the next Watch.
type PollEvent struct {
	Item *Item
	Gone bool
	Err  error
}

// FetchFunc fetches the current state of the watched resource.
type FetchFunc func(ctx context.Context) (ItemOutcome, error)

// Poller repeatedly fetches a resource at a fixed cadence until a
// caller-supplied predicate says the state is terminal. Ticks are
// strictly sequential: the next fetch is scheduled only after the
// previous one returned, so slow responses never pile up requests.
//
// The zero identifier disables polling entirely. A not-found answer is a
// normal terminal signal (the record was deleted), surfaced as Gone
// rather than an error. Any other fetch error stops polling with no
// retry.
type Poller struct {
	interval time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	suspended  bool
	watching   bool
	inFlight   bool

	fetch          FetchFunc
	shouldContinue func(*Item) bool
	handler        func(PollEvent)
}

// NewPoller creates a poller with the given cadence; interval <= 0 uses
// DefaultPollInterval.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{interval: interval}
}

// Watch starts polling for the given identifier. An id of 0 stops any
// current watch and issues no fetches. Starting a new watch supersedes
// the previous one: in-flight results from the old generation are
// discarded and its timer is cancelled.
//
// handler is invoked once per fetch outcome. shouldContinue is evaluated
// on each successfully fetched item; returning false ends the watch.
func (p *Poller) Watch(id uint, fetch FetchFunc, shouldContinue func(*Item) bool, handler func(PollEvent)) {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.clearTimerLocked()

	if id == 0 {
		p.watching = false
		p.mu.Unlock()
		return
	}

	p.watching = true
	p.suspended = false
	p.inFlight = true
	p.fetch = fetch
	p.shouldContinue = shouldContinue
	p.handler = handler
	p.mu.Unlock()

	go p.tick(gen)
}

// Stop cancels the current watch and any pending tick.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.watching = false
	p.clearTimerLocked()
}

// Suspend pauses polling without ending the watch, for use when the
// application is backgrounded. No fetches occur until Resume.
func (p *Poller) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.watching {
		return
	}
	p.suspended = true
	if p.timer != nil {
		if !p.timer.Stop() {
			// The timer already fired; its tick is pending and will
			// observe the suspended flag itself.
			p.inFlight = true
		}
		p.timer = nil
	}
}

// Resume continues a suspended watch with an immediate fetch. If a tick
// spawned before Suspend is still pending or its fetch still in flight,
// no new fetch is started: that tick reschedules on its own once
// suspended is cleared, keeping ticks strictly sequential.
func (p *Poller) Resume() {
	p.mu.Lock()
	if !p.watching || !p.suspended {
		p.mu.Unlock()
		return
	}
	p.suspended = false
	if p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	gen := p.generation
	p.mu.Unlock()

	go p.tick(gen)
}

// clearTimerLocked stops and forgets the pending timer. Must hold mu.
// Checked before every reschedule so two timers can never coexist.
func (p *Poller) clearTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Poller) tick(gen uint64) {
	p.mu.Lock()
	if gen != p.generation || p.suspended || !p.watching {
		if gen == p.generation {
			p.inFlight = false
		}
		p.mu.Unlock()
		return
	}
	fetch := p.fetch
	p.inFlight = true
	p.mu.Unlock()

	outcome, err := fetch(context.Background())

	p.mu.Lock()
	if gen == p.generation {
		p.inFlight = false
	}
	if gen != p.generation || !p.watching {
		// Superseded while the fetch was in flight; drop the result.
		p.mu.Unlock()
		return
	}

	handler := p.handler
	shouldContinue := p.shouldContinue

	switch {
	case err != nil:
		p.watching = false
		p.clearTimerLocked()
		p.mu.Unlock()
		handler(PollEvent{Err: err})
		return
	case outcome.Gone:
		p.watching = false
		p.clearTimerLocked()
		p.mu.Unlock()
		handler(PollEvent{Gone: true})
		return
	}

	stop := !shouldContinue(outcome.Item)
	if stop {
		p.watching = false
		p.clearTimerLocked()
	} else if !p.suspended {
		p.clearTimerLocked()
		p.timer = time.AfterFunc(p.interval, func() { p.tick(gen) })
	}
	p.mu.Unlock()

	handler(PollEvent{Item: outcome.Item})
}
