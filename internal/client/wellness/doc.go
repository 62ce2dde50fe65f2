// Package wellness holds the guided exercises of the client: journal
// prompts, paced breathing and the mindful-break nudge.
//
// Everything here is a plain state machine advanced by Tick. Callers own
// the clock, so the exercises run the same under a real ticker and in tests.
package wellness
