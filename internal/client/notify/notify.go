// Package notify carries non-blocking user notices ("toasts") from the
// services to whatever front end is attached.
package notify

import (
	"context"
	"fmt"
	"sync"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

func (l Level) String() string {
	if l == LevelWarn {
		return "warn"
	}
	return "info"
}

type Notice struct {
	Level Level
	Text  string
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Text)
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notice)

func (f Func) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice.
var Discard Notifier = Func(func(context.Context, Notice) {})

func Info(ctx context.Context, to Notifier, format string, args ...any) {
	to.Notify(ctx, Notice{Level: LevelInfo, Text: fmt.Sprintf(format, args...)})
}

func Warn(ctx context.Context, to Notifier, format string, args ...any) {
	to.Notify(ctx, Notice{Level: LevelWarn, Text: fmt.Sprintf(format, args...)})
}

// Recorder keeps every notice; safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Warnings returns only LevelWarn notices.
func (r *Recorder) Warnings() []Notice {
	var out []Notice
	for _, n := range r.Notices() {
		if n.Level == LevelWarn {
			out = append(out, n)
		}
	}
	return out
}
