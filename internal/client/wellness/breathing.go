package wellness

import (
	"fmt"
	"strings"
)

type Phase int

const (
	PhaseInhale Phase = iota
	PhaseHold1
	PhaseExhale
	PhaseHold2
)

func (p Phase) String() string {
	switch p {
	case PhaseInhale:
		return "Inhale"
	case PhaseExhale:
		return "Exhale"
	default:
		return "Hold"
	}
}

// Pattern gives the length of each phase in seconds.
type Pattern struct {
	Key         string
	Name        string
	Inhale      int
	Hold1       int
	Exhale      int
	Hold2       int
	Description string
}

func (p Pattern) length(ph Phase) int {
	var n int
	switch ph {
	case PhaseInhale:
		n = p.Inhale
	case PhaseHold1:
		n = p.Hold1
	case PhaseExhale:
		n = p.Exhale
	case PhaseHold2:
		n = p.Hold2
	}
	// a skipped phase still takes one tick
	return max(n, 1)
}

var Patterns = []Pattern{
	{Key: "box", Name: "Box Breathing", Inhale: 4, Hold1: 4, Exhale: 4, Hold2: 4,
		Description: "Equal parts inhale, hold, exhale, and hold. Great for stress reduction."},
	{Key: "relaxing", Name: "Relaxing Breath", Inhale: 4, Hold1: 7, Exhale: 8, Hold2: 0,
		Description: "Longer exhale helps activate the parasympathetic nervous system."},
	{Key: "energizing", Name: "Energizing Breath", Inhale: 6, Hold1: 0, Exhale: 2, Hold2: 0,
		Description: "Quick exhale helps increase energy and alertness."},
	{Key: "calm", Name: "Calming Breath", Inhale: 4, Hold1: 2, Exhale: 6, Hold2: 0,
		Description: "Longer exhale than inhale helps calm the mind and body."},
}

// PatternByKey looks a pattern up by key, case-insensitively.
func PatternByKey(key string) (Pattern, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range Patterns {
		if p.Key == key {
			return p, nil
		}
	}
	return Pattern{}, fmt.Errorf("unknown breathing pattern %q", key)
}

// Breathing paces one exercise. Each Tick is one second.
type Breathing struct {
	pattern Pattern
	active  bool
	phase   Phase
	left    int
	breaths int
}

func NewBreathing(p Pattern) *Breathing {
	b := &Breathing{pattern: p}
	b.Reset()
	return b
}

func (b *Breathing) Start() {
	b.active = true
	b.phase = PhaseInhale
	b.left = b.pattern.length(PhaseInhale)
}

func (b *Breathing) Stop() { b.active = false }

// Reset stops the exercise and clears the breath count.
func (b *Breathing) Reset() {
	b.active = false
	b.phase = PhaseInhale
	b.left = b.pattern.length(PhaseInhale)
	b.breaths = 0
}

// SetPattern switches pattern and stops the exercise. The breath count is
// kept.
func (b *Breathing) SetPattern(p Pattern) {
	b.pattern = p
	b.active = false
	b.phase = PhaseInhale
	b.left = p.length(PhaseInhale)
}

// Tick advances one second and reports whether the phase changed. A breath
// is complete when the second hold gives way to the next inhale.
func (b *Breathing) Tick() bool {
	if !b.active {
		return false
	}
	if b.left > 1 {
		b.left--
		return false
	}

	b.phase = (b.phase + 1) % 4
	if b.phase == PhaseInhale {
		b.breaths++
	}
	b.left = b.pattern.length(b.phase)
	return true
}

func (b *Breathing) Pattern() Pattern { return b.pattern }
func (b *Breathing) Active() bool     { return b.active }
func (b *Breathing) Phase() Phase     { return b.phase }
func (b *Breathing) SecondsLeft() int { return b.left }
func (b *Breathing) Breaths() int     { return b.breaths }

// CycleSeconds is the length of one full breath.
func (p Pattern) CycleSeconds() int {
	return p.length(PhaseInhale) + p.length(PhaseHold1) + p.length(PhaseExhale) + p.length(PhaseHold2)
}
