package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	blocked  bool

	calls   []string
	nudges  int
	failErr error
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.failErr
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isBlocked() bool  { return f.blocked }
func (f *fakeExec) checkNudge()      { f.nudges++ }
func (f *fakeExec) Continue(context.Context) error {
	f.blocked = false
	return f.record("continue")
}
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error                { return f.record("whoami") }
func (f *fakeExec) Post(context.Context) error                  { return f.record("post") }
func (f *fakeExec) Feed(context.Context) error                  { return f.record("feed") }
func (f *fakeExec) Like(_ context.Context, id string) error     { return f.record("like %s", id) }
func (f *fakeExec) Save(_ context.Context, id string) error     { return f.record("save %s", id) }
func (f *fakeExec) Saved(context.Context) error                 { return f.record("saved") }
func (f *fakeExec) Delete(_ context.Context, id string) error   { return f.record("delete %s", id) }
func (f *fakeExec) Edit(_ context.Context, id string) error     { return f.record("edit %s", id) }
func (f *fakeExec) Comment(_ context.Context, id string) error  { return f.record("comment %s", id) }
func (f *fakeExec) Comments(_ context.Context, id string) error { return f.record("comments %s", id) }
func (f *fakeExec) Users(context.Context) error                 { return f.record("users") }
func (f *fakeExec) Follow(_ context.Context, id string) error   { return f.record("follow %s", id) }
func (f *fakeExec) Unfollow(_ context.Context, id string) error { return f.record("unfollow %s", id) }
func (f *fakeExec) Mood(context.Context) error                  { return f.record("mood") }
func (f *fakeExec) Moods(context.Context) error                 { return f.record("moods") }
func (f *fakeExec) Journal(context.Context) error               { return f.record("journal") }
func (f *fakeExec) Journals(context.Context) error              { return f.record("journals") }
func (f *fakeExec) EditMood(_ context.Context, id string) error {
	return f.record("editmood %s", id)
}
func (f *fakeExec) EditJournal(_ context.Context, id string) error {
	return f.record("editjournal %s", id)
}
func (f *fakeExec) Usage(context.Context) error { return f.record("usage") }
func (f *fakeExec) Avatar(_ context.Context, p string, c bool) error {
	return f.record("avatar %s %t", p, c)
}
func (f *fakeExec) Breathe(_ context.Context, p string, n int) error {
	return f.record("breathe %s %d", p, n)
}

// capturePrintln records REPL output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func runLines(exec execIface, lines ...string) {
	r := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	runREPL(context.Background(), exec, func() string { return "status" }, r)
}

func TestRunREPL_Dispatch(t *testing.T) {
	capturePrintln(t)
	exec := &fakeExec{}

	runLines(exec,
		"help",
		"login",
		"whoami",
		"post",
		"feed",
		"like p1",
		"save p1",
		"saved",
		"edit p1",
		"comment p1",
		"comments p1",
		"delete p1",
		"users",
		"follow u2",
		"unfollow u2",
		"avatar me.png",
		"avatar c.png cover",
		"mood",
		"moods",
		"journal",
		"journals",
		"editmood m1",
		"editjournal j1",
		"breathe",
		"breathe calm 5",
		"usage",
		"logout",
		"register",
		"exit",
		"feed",
	)

	assert.Equal(t, []string{
		"login", "whoami", "post", "feed", "like p1", "save p1", "saved", "edit p1",
		"comment p1", "comments p1", "delete p1", "users", "follow u2", "unfollow u2",
		"avatar me.png false", "avatar c.png true", "mood", "moods", "journal", "journals",
		"editmood m1", "editjournal j1", "breathe box 3", "breathe calm 5", "usage", "logout", "register",
	}, exec.calls)
	assert.Equal(t, 29, exec.nudges)
}

func TestRunREPL_UsageMessages(t *testing.T) {
	out := capturePrintln(t)
	exec := &fakeExec{loggedIn: true}

	runLines(exec, "like", "follow a b", "avatar", "avatar a b", "breathe box x", "frobnicate", "quit")

	assert.Empty(t, exec.calls)
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Usage: like <id>")
	assert.Contains(t, joined, "Usage: follow <id>")
	assert.Contains(t, joined, "Usage: avatar <file> [cover]")
	assert.Contains(t, joined, "Usage: breathe")
	assert.Contains(t, joined, "Unknown command: frobnicate")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_BlockedRefusesEverythingButContinue(t *testing.T) {
	out := capturePrintln(t)
	exec := &fakeExec{loggedIn: true, blocked: true}

	runLines(exec, "feed", "exit", "  CONTINUE ", "feed", "exit")

	assert.Equal(t, []string{"continue", "feed"}, exec.calls)
	refused := 0
	for _, l := range *out {
		if strings.HasPrefix(l, "Time limit reached") {
			refused++
		}
	}
	assert.Equal(t, 2, refused)
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := capturePrintln(t)

	runLines(&fakeExec{}, "help")
	runLines(&fakeExec{loggedIn: true}, "help")

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, helpGuest)
	assert.Contains(t, joined, helpUser)
}

func TestRunREPL_ErrorsArePrinted(t *testing.T) {
	out := capturePrintln(t)
	exec := &fakeExec{failErr: fmt.Errorf("boom")}

	runLines(exec, "feed", "usage")

	assert.Equal(t, []string{"feed", "usage"}, exec.calls)
	assert.Contains(t, strings.Join(*out, "\n"), "error: boom")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrintln(t)
	exec := &fakeExec{}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("feed")))

	assert.Equal(t, []string{"feed"}, exec.calls)
}

func TestBreatheArgs(t *testing.T) {
	tests := []struct {
		args    []string
		pattern string
		cycles  int
		ok      bool
	}{
		{nil, "box", defaultBreaths, true},
		{[]string{"calm"}, "calm", defaultBreaths, true},
		{[]string{"calm", "2"}, "calm", 2, true},
		{[]string{"calm", "0"}, "", 0, false},
		{[]string{"calm", "x"}, "", 0, false},
		{[]string{"a", "1", "2"}, "", 0, false},
	}
	for _, tt := range tests {
		pattern, cycles, ok := breatheArgs(tt.args)
		assert.Equal(t, tt.ok, ok, tt.args)
		assert.Equal(t, tt.pattern, pattern, tt.args)
		assert.Equal(t, tt.cycles, cycles, tt.args)
	}
}
