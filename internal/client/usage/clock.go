package usage

import (
	"sync"
	"time"
)

// Clock is the tracker's source of time and ticks.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type RealClock struct{}

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// StubClock is a manually driven Clock. Advance moves time forward and
// delivers one tick per elapsed interval to every live ticker, blocking
// until each tick is received.
type StubClock struct {
	lock    sync.Mutex
	now     time.Time
	tickers []*stubTicker
}

func NewStubClock(now time.Time) *StubClock {
	return &StubClock{now: now}
}

func (c *StubClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *StubClock) SetNow(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = now
}

func (c *StubClock) NewTicker(d time.Duration) Ticker {
	c.lock.Lock()
	defer c.lock.Unlock()
	t := &stubTicker{
		c:      make(chan time.Time),
		stop:   make(chan struct{}),
		period: d,
		next:   c.now.Add(d),
	}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *StubClock) Advance(d time.Duration) {
	c.lock.Lock()
	c.now = c.now.Add(d)
	now := c.now
	tickers := append([]*stubTicker(nil), c.tickers...)
	c.lock.Unlock()

	for _, t := range tickers {
		t.fire(now)
	}
}

// Tickers reports how many tickers have not been stopped.
func (c *StubClock) Tickers() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped() {
			n++
		}
	}
	return n
}

type stubTicker struct {
	c      chan time.Time
	stop   chan struct{}
	once   sync.Once
	period time.Duration

	mu   sync.Mutex
	next time.Time
}

func (t *stubTicker) C() <-chan time.Time { return t.c }

func (t *stubTicker) Stop() {
	t.once.Do(func() { close(t.stop) })
}

func (t *stubTicker) stopped() bool {
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}

func (t *stubTicker) fire(now time.Time) {
	for {
		t.mu.Lock()
		if t.period <= 0 || t.next.After(now) {
			t.mu.Unlock()
			return
		}
		at := t.next
		t.next = t.next.Add(t.period)
		t.mu.Unlock()

		select {
		case t.c <- at:
		case <-t.stop:
			return
		}
	}
}
