package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/wellness"
)

const defaultBreaths = 3

// breatheArgs parses "[pattern] [cycles]".
func breatheArgs(args []string) (string, int, bool) {
	pattern, cycles := "box", defaultBreaths
	switch len(args) {
	case 0:
	case 1:
		pattern = args[0]
	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return "", 0, false
		}
		pattern, cycles = args[0], n
	default:
		return "", 0, false
	}
	return pattern, cycles, true
}

func (a *App) Mood(ctx context.Context) error {
	names := make([]string, 0, len(models.Moods()))
	for _, m := range models.Moods() {
		names = append(names, fmt.Sprintf("%s %s", m.Emoji(), m))
	}
	mood, err := getSimpleText(a.reader, "How are you feeling? "+strings.Join(names, ", "), a.out)
	if err != nil {
		return err
	}
	note, err := getSimpleText(a.reader, "Add a note (optional)", a.out)
	if err != nil {
		return err
	}

	e, err := a.moods.Log(ctx, mood, note)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %s %s\n", e.Mood.Emoji(), e.Mood)
	return nil
}

// EditMood replaces the mood and note of a check-in.
func (a *App) EditMood(ctx context.Context, id string) error {
	mood, err := getSimpleText(a.reader, "New mood", a.out)
	if err != nil {
		return err
	}
	note, err := getSimpleText(a.reader, "New note (optional)", a.out)
	if err != nil {
		return err
	}
	e, err := a.moods.Update(ctx, id, mood, note)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s %s\n", e.Mood.Emoji(), e.Mood)
	return nil
}

// Moods prints recent check-ins and the seven-day trend.
func (a *App) Moods(ctx context.Context) error {
	entries, err := a.moods.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No mood check-ins yet. Try 'mood'.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("[%s] %s  %s %s", e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Mood.Emoji(), e.Mood)
		if e.Note != "" {
			line += ": " + e.Note
		}
		fmt.Fprintln(a.out, line)
	}

	days, err := a.moods.WeeklyAverages(ctx, a.clock.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Last 7 days:")
	for _, d := range days {
		avg := "  -"
		if d.Count > 0 {
			avg = fmt.Sprintf("%.1f", d.Average)
		}
		fmt.Fprintf(a.out, "  %s %s %s\n", d.Day.Format("Mon 02"), avg, strings.Repeat("*", int(d.Average+0.5)))
	}
	return nil
}

func (a *App) Journal(ctx context.Context) error {
	_, prompt := wellness.RandomPrompt(nil, -1)
	content, err := getMultiline(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if _, err := a.journals.Save(ctx, prompt, content); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Journal entry saved")
	return nil
}

func (a *App) EditJournal(ctx context.Context, id string) error {
	content, err := getMultiline(a.reader, "New entry", a.out)
	if err != nil {
		return err
	}
	if _, err := a.journals.Update(ctx, id, content); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Journal entry updated")
	return nil
}

func (a *App) Journals(ctx context.Context) error {
	entries, err := a.journals.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No journal entries yet. Try 'journal'.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "[%s] %s  %s\n", e.ID, e.CreatedAt.Local().Format(time.DateTime), e.Prompt)
		fmt.Fprintf(a.out, "  %s\n", strings.ReplaceAll(e.Content, "\n", "\n  "))
	}
	return nil
}

// Breathe paces the given number of breaths, one tick per second, printing
// each phase as it starts.
func (a *App) Breathe(ctx context.Context, pattern string, cycles int) error {
	p, err := wellness.PatternByKey(pattern)
	if err != nil {
		return err
	}
	b := wellness.NewBreathing(p)

	fmt.Fprintf(a.out, "%s: %s\n", p.Name, p.Description)
	ticker := a.clock.NewTicker(time.Second)
	defer ticker.Stop()

	b.Start()
	fmt.Fprintf(a.out, "%s %d\n", b.Phase(), b.SecondsLeft())
	for b.Breaths() < cycles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			if b.Tick() && b.Breaths() < cycles {
				fmt.Fprintf(a.out, "%s %d\n", b.Phase(), b.SecondsLeft())
			}
		}
	}
	fmt.Fprintf(a.out, "Done: %d breaths\n", b.Breaths())
	return nil
}
