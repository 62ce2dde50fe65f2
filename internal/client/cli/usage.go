package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/wellsta/internal/client/usage"
)

func (a *App) Usage(ctx context.Context) error {
	s := a.tracker.Snapshot()
	fmt.Fprintf(a.out, "Time today: %s of %s (%s left)\n",
		usage.FormatElapsed(s.Elapsed), usage.FormatElapsed(s.Limit), usage.FormatElapsed(s.Remaining()))
	return nil
}

// Continue lifts the block and starts a fresh window.
func (a *App) Continue(ctx context.Context) error {
	if err := a.tracker.ContinueAfterBlock(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Welcome back. The timer starts over.")
	return nil
}
