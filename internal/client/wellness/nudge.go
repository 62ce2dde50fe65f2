package wellness

import "time"

// DefaultBreakAfter is how long a session runs before a break is suggested.
const DefaultBreakAfter = 30 * time.Minute

// guideSeconds is the length of the guided breath shown with a nudge.
const guideSeconds = 30

// Nudge counts session seconds and raises a mindful-break suggestion once
// breakAfter has passed. While raised it runs a short guided breath that
// cycles inhale, hold and exhale every ten seconds.
type Nudge struct {
	breakAfter time.Duration
	elapsed    time.Duration
	shown      bool
	guideLeft  int
	guide      Phase
}

func NewNudge(breakAfter time.Duration) *Nudge {
	if breakAfter <= 0 {
		breakAfter = DefaultBreakAfter
	}
	return &Nudge{breakAfter: breakAfter, guideLeft: guideSeconds, guide: PhaseInhale}
}

// Tick adds one second and reports whether the nudge was raised by it.
func (n *Nudge) Tick() bool {
	if !n.shown {
		return n.Add(time.Second)
	}
	n.elapsed += time.Second
	if n.guideLeft > 0 {
		if n.guideLeft%10 == 0 {
			n.guide = nextGuide(n.guide)
		}
		n.guideLeft--
	}
	return false
}

// Add counts d of session time at once and reports whether the nudge was
// raised by it. The guided breath only advances on Tick.
func (n *Nudge) Add(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	n.elapsed += d
	if !n.shown && n.elapsed >= n.breakAfter {
		n.shown = true
		return true
	}
	return false
}

func nextGuide(p Phase) Phase {
	switch p {
	case PhaseInhale:
		return PhaseHold1
	case PhaseHold1:
		return PhaseExhale
	default:
		return PhaseInhale
	}
}

func (n *Nudge) Shown() bool            { return n.shown }
func (n *Nudge) Elapsed() time.Duration { return n.elapsed }

// Guide returns the current guided phase and the seconds left in the
// guided breath.
func (n *Nudge) Guide() (Phase, int) { return n.guide, n.guideLeft }

// Instruction is the text shown for the current guided phase.
func (n *Nudge) Instruction() string {
	switch n.guide {
	case PhaseInhale:
		return "Inhale slowly..."
	case PhaseExhale:
		return "Exhale gently..."
	default:
		return "Hold your breath..."
	}
}

// Dismiss hides the nudge and starts counting again from zero.
func (n *Nudge) Dismiss() {
	n.shown = false
	n.elapsed = 0
	n.guideLeft = guideSeconds
	n.guide = PhaseInhale
}
