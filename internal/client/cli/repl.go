package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/wellsta/internal/client/usage"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isBlocked() bool
	checkNudge()
	Continue(ctx context.Context) error

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	Post(ctx context.Context) error
	Feed(ctx context.Context) error
	Like(ctx context.Context, id string) error
	Save(ctx context.Context, id string) error
	Saved(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Comment(ctx context.Context, id string) error
	Comments(ctx context.Context, id string) error

	Users(ctx context.Context) error
	Follow(ctx context.Context, id string) error
	Unfollow(ctx context.Context, id string) error
	Avatar(ctx context.Context, path string, cover bool) error

	Mood(ctx context.Context) error
	Moods(ctx context.Context) error
	EditMood(ctx context.Context, id string) error
	Journal(ctx context.Context) error
	Journals(ctx context.Context) error
	EditJournal(ctx context.Context, id string) error
	Breathe(ctx context.Context, pattern string, cycles int) error
	Usage(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, post, feed, mood, moods, editmood <id>, journal, journals, " +
		"editjournal <id>, breathe, usage, exit"
	helpUser = "Available commands: whoami, post, feed, like <id>, save <id>, saved, delete <id>, edit <id>, " +
		"comment <id>, comments <id>, users, follow <id>, unfollow <id>, avatar <file> [cover], " +
		"mood, moods, editmood <id>, journal, journals, editjournal <id>, " +
		"breathe [box|relaxing|energizing|calm] [cycles], usage, logout, exit"
)

// idCommands take exactly one id argument.
var idCommands = map[string]func(execIface, context.Context, string) error{
	"like":     execIface.Like,
	"save":     execIface.Save,
	"delete":   execIface.Delete,
	"edit":     execIface.Edit,
	"comment":  execIface.Comment,
	"comments": execIface.Comments,
	"follow":   execIface.Follow,
	"unfollow": execIface.Unfollow,

	"editmood":    execIface.EditMood,
	"editjournal": execIface.EditJournal,
}

// runREPL starts a simple read–eval–print loop for the WellSta CLI.
//
// It reads a line from r, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// While the usage tracker is blocked, every line except the confirmation
// phrase is refused, including exit. EOF still ends the loop.
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("wellsta %s > ", statusFn()))
		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		if a.isBlocked() {
			if usage.Confirm(line) {
				report(a.Continue(ctx))
			} else {
				printlnFn(fmt.Sprintf("Time limit reached. Type '%s' to keep going.", usage.ConfirmPhrase))
			}
			continue
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		a.checkNudge()

		if fn, ok := idCommands[cmd]; ok {
			if len(args) != 1 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			report(fn(a, ctx, args[0]))
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "whoami":
			report(a.WhoAmI(ctx))

		case "post":
			report(a.Post(ctx))
		case "feed":
			report(a.Feed(ctx))
		case "saved":
			report(a.Saved(ctx))

		case "users":
			report(a.Users(ctx))
		case "avatar":
			if len(args) == 0 || len(args) > 2 || (len(args) == 2 && args[1] != "cover") {
				printlnFn("Usage: avatar <file> [cover]")
				continue
			}
			report(a.Avatar(ctx, args[0], len(args) == 2))

		case "mood":
			report(a.Mood(ctx))
		case "moods":
			report(a.Moods(ctx))
		case "journal":
			report(a.Journal(ctx))
		case "journals":
			report(a.Journals(ctx))
		case "breathe":
			pattern, cycles, ok := breatheArgs(args)
			if !ok {
				printlnFn("Usage: breathe [box|relaxing|energizing|calm] [cycles]")
				continue
			}
			report(a.Breathe(ctx, pattern, cycles))
		case "usage":
			report(a.Usage(ctx))

		case "continue":
			printlnFn("Nothing to continue.")

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("error:", err)
	}
}
