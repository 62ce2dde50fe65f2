// Package usage tracks per-user screen time and blocks further use once a
// daily limit is reached.
//
// A Tracker is active for one user at a time. Each tick adds a second to
// that user's counter and persists it with the tick time. When the counter
// reaches the time limit the tracker becomes blocked; only
// ContinueAfterBlock clears the block, and it starts a fresh window by
// resetting the counter. A counter whose last tick is older than the idle
// threshold is treated as an abandoned session and restarts at zero on
// activation.
//
// Time comes from a Clock so tests can drive ticks with StubClock.
package usage
