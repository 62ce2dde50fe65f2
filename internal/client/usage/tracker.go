package usage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/common"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

const (
	DefaultTimeLimit     = 35 * time.Minute
	DefaultIdleThreshold = 30 * time.Minute
	DefaultTickInterval  = time.Second

	// ConfirmPhrase must be typed to leave the blocked state.
	ConfirmPhrase = "continue"
)

var ErrNotActive = errors.New("usage tracker is not active")

// Snapshot is a consistent view of the tracker state.
type Snapshot struct {
	UserID  string
	Elapsed time.Duration
	Limit   time.Duration
	Blocked bool
	Running bool
}

// Remaining is the time left before the block, never negative.
func (s Snapshot) Remaining() time.Duration {
	if s.Elapsed >= s.Limit {
		return 0
	}
	return s.Limit - s.Elapsed
}

type Option func(*Tracker)

func WithTimeLimit(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.limit = d
		}
	}
}

func WithIdleThreshold(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.idle = d
		}
	}
}

func WithTickInterval(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.interval = d
		}
	}
}

type Tracker struct {
	repo     kv.Repository
	clock    Clock
	log      logging.Logger
	limit    time.Duration
	idle     time.Duration
	interval time.Duration

	// lifecycle serializes Start and Stop.
	lifecycle sync.Mutex

	mu      sync.Mutex
	userID  string
	elapsed int64
	blocked bool
	active  bool
	onBlock []func(Snapshot)
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewTracker(repo kv.Repository, clock Clock, log logging.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		repo:     repo,
		clock:    clock,
		log:      log,
		limit:    DefaultTimeLimit,
		idle:     DefaultIdleThreshold,
		interval: DefaultTickInterval,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *Tracker) limitSeconds() int64 {
	return int64(t.limit / time.Second)
}

func (t *Tracker) readInt(ctx context.Context, key kv.Key) (int64, bool, error) {
	raw, err := t.repo.Get(ctx, key)
	if err != nil || raw == nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		t.log.Warn(ctx, "discarding corrupt usage value", "key", key.String(), "err", err)
		return 0, false, nil
	}
	return n, true, nil
}

func (t *Tracker) writeInt(ctx context.Context, key kv.Key, n int64) error {
	return t.repo.Set(ctx, key, []byte(strconv.FormatInt(n, 10)))
}

// persistLocked stores the counter and stamps the last-active time.
func (t *Tracker) persistLocked(ctx context.Context, now time.Time) error {
	if err := t.writeInt(ctx, kv.UserKey(t.userID, kv.KindUsageElapsed), t.elapsed); err != nil {
		return fmt.Errorf("persist elapsed: %w", err)
	}
	if err := t.writeInt(ctx, kv.UserKey(t.userID, kv.KindUsageLastActive), now.UnixMilli()); err != nil {
		return fmt.Errorf("persist last active: %w", err)
	}
	return nil
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		UserID:  t.userID,
		Elapsed: time.Duration(t.elapsed) * time.Second,
		Limit:   t.limit,
		Blocked: t.blocked,
		Running: t.cancel != nil,
	}
}

// Activate loads the counter of userID (the guest when empty) and makes it
// the target of Tick. A counter idle for longer than the idle threshold
// restarts at zero.
func (t *Tracker) Activate(ctx context.Context, userID string) error {
	if userID == "" {
		userID = common.GuestUserID
	}

	elapsed, _, err := t.readInt(ctx, kv.UserKey(userID, kv.KindUsageElapsed))
	if err != nil {
		return err
	}
	lastActive, seen, err := t.readInt(ctx, kv.UserKey(userID, kv.KindUsageLastActive))
	if err != nil {
		return err
	}

	now := t.clock.Now()
	if seen && now.Sub(time.UnixMilli(lastActive)) > t.idle {
		t.log.Debug(ctx, "usage session idle, restarting counter", "user_id", userID, "elapsed", elapsed)
		elapsed = 0
	}
	if elapsed < 0 {
		elapsed = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.userID = userID
	t.elapsed = elapsed
	t.blocked = elapsed >= t.limitSeconds()
	t.active = true
	return t.persistLocked(ctx, now)
}

// Tick adds one second to the active counter and persists it.
func (t *Tracker) Tick(ctx context.Context) error {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return ErrNotActive
	}
	t.elapsed++
	becameBlocked := !t.blocked && t.elapsed >= t.limitSeconds()
	if becameBlocked {
		t.blocked = true
	}
	err := t.persistLocked(ctx, t.clock.Now())
	snap := t.snapshotLocked()
	listeners := slices.Clone(t.onBlock)
	t.mu.Unlock()

	if becameBlocked {
		t.log.Info(ctx, "usage limit reached", "user_id", snap.UserID, "elapsed", snap.Elapsed.String())
		for _, fn := range listeners {
			fn(snap)
		}
	}
	return err
}

// Start activates userID and ticks once per interval until Stop, the next
// Start, or ctx cancellation. A running loop is stopped first.
func (t *Tracker) Start(ctx context.Context, userID string) error {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	t.stop()
	if err := t.Activate(ctx, userID); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	ticker := t.clock.NewTicker(t.interval)

	t.mu.Lock()
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				t.detach(done)
				return
			case <-ticker.C():
				if err := t.Tick(loopCtx); err != nil && loopCtx.Err() == nil {
					t.log.Error(loopCtx, "usage tick failed", "err", err)
				}
			}
		}
	}()
	return nil
}

// detach deactivates the tracker when the loop owning done exits on its
// own, e.g. because the Start context was cancelled. A loop that was
// already replaced by Stop or a newer Start leaves the state alone.
func (t *Tracker) detach(done chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != done {
		return
	}
	t.cancel, t.done = nil, nil
	t.active = false
}

// Stop cancels the tick loop, waits for it to exit and deactivates the
// tracker. Stop on an idle tracker is a no-op.
func (t *Tracker) Stop() {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()
	t.stop()
}

func (t *Tracker) stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	t.mu.Lock()
	t.cancel, t.done = nil, nil
	t.active = false
	t.mu.Unlock()
}

// ContinueAfterBlock clears the block and resets the counter to zero in one
// step.
func (t *Tracker) ContinueAfterBlock(ctx context.Context) error {
	t.mu.Lock()
	wasBlocked := t.blocked
	userID := t.userID
	t.mu.Unlock()

	if err := t.Reset(ctx); err != nil {
		return err
	}
	if wasBlocked {
		t.log.Info(ctx, "usage block lifted", "user_id", userID)
	}
	return nil
}

// Reset zeroes the counter, which also lifts a block.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return ErrNotActive
	}
	t.elapsed = 0
	t.blocked = false
	return t.persistLocked(ctx, t.clock.Now())
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) Blocked() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.blocked
}

// OnBlock registers fn to run once per transition into the blocked state.
func (t *Tracker) OnBlock(fn func(Snapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onBlock = append(t.onBlock, fn)
}

// Confirm reports whether input is the phrase that lifts a block.
func Confirm(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), ConfirmPhrase)
}

// FormatElapsed renders d as mm:ss; minutes are not capped at 59.
func FormatElapsed(d time.Duration) string {
	s := int64(d / time.Second)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// FormatSpent renders d as "2 hours and 5 minutes" for the block notice.
func FormatSpent(d time.Duration) string {
	s := int64(d / time.Second)
	hours, minutes := s/3600, (s%3600)/60
	out := fmt.Sprintf("%d %s", minutes, plural(minutes, "minute"))
	if hours > 0 {
		out = fmt.Sprintf("%d %s and %s", hours, plural(hours, "hour"), out)
	}
	return out
}

func plural(n int64, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
