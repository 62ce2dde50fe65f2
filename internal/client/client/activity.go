package client

import "sync"

// Activity counts in-flight requests and drives the global "loading" flag.
// A nil *Activity is valid and tracks nothing.
type Activity struct {
	mu       sync.Mutex
	inflight int
	subs     []func(busy bool)
}

func NewActivity() *Activity { return &Activity{} }

// Begin marks a request as sent. The returned func marks it settled and is
// safe to call more than once.
func (a *Activity) Begin() (done func()) {
	if a == nil {
		return func() {}
	}
	a.add(1)
	var once sync.Once
	return func() { once.Do(func() { a.add(-1) }) }
}

func (a *Activity) add(delta int) {
	a.mu.Lock()
	before := a.inflight > 0
	a.inflight += delta
	after := a.inflight > 0
	var subs []func(bool)
	if before != after {
		subs = append(subs, a.subs...)
	}
	a.mu.Unlock()

	for _, fn := range subs {
		fn(after)
	}
}

func (a *Activity) Busy() bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inflight > 0
}

// Subscribe registers fn to be called when Busy flips.
func (a *Activity) Subscribe(fn func(busy bool)) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}
