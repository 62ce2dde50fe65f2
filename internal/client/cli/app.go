package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/client"
	"github.com/dmitrijs2005/wellsta/internal/client/config"
	"github.com/dmitrijs2005/wellsta/internal/client/media"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/notify"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/client/services"
	"github.com/dmitrijs2005/wellsta/internal/client/usage"
	"github.com/dmitrijs2005/wellsta/internal/client/wellness"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// lockedWriter serializes output from the REPL and from background
// goroutines (sync notices, the usage tracker).
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	client   client.Client
	activity *client.Activity
	syncer   *services.Syncer

	session  services.SessionService
	posts    services.PostService
	comments services.CommentService
	images   services.ProfileImageService
	friends  services.FriendService
	moods    services.MoodService
	journals services.JournalService

	clock    usage.Clock
	tracker  *usage.Tracker
	nudge    *wellness.Nudge
	lastSeen time.Time

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires every service for the REPL.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	store, err := newMediaStore(ctx, cfg.S3)
	if err != nil {
		db.Close()
		return nil, err
	}

	activity := client.NewActivity()
	hc := client.NewHTTPClient(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithActivity(activity),
		client.WithMediaStore(store),
	)

	a := newApp(cfg, log, kv.NewSQLiteRepository(db), hc, usage.NewRealClock(), os.Stdin, os.Stdout)
	a.db = db
	a.activity = activity
	hc.SetTokenSource(a.session)
	return a, nil
}

func newMediaStore(ctx context.Context, cfg media.S3Config) (media.Store, error) {
	if !cfg.Enabled() {
		return media.NewInlineStore(), nil
	}
	presigner, err := media.NewPresigner(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 presigner: %w", err)
	}
	return media.NewS3Store(cfg.Bucket, presigner, http.DefaultClient), nil
}

// newApp builds the service graph over repo and c.
func newApp(cfg *config.Config, log logging.Logger, repo kv.Repository, c client.Client, clock usage.Clock, in io.Reader, out io.Writer) *App {
	w := &lockedWriter{w: out}
	notes := notify.Func(func(_ context.Context, n notify.Notice) {
		fmt.Fprintln(w, n)
	})

	syncer := services.NewSyncer(log, notes)
	session := services.NewSessionService(c, repo, log)

	a := &App{
		config:   cfg,
		log:      log,
		client:   c,
		syncer:   syncer,
		session:  session,
		posts:    services.NewPostService(c, repo, session, syncer, notes, log),
		comments: services.NewCommentService(repo, session, log),
		images:   services.NewProfileImageService(c, repo, session, syncer, log, cfg.ImageBaseURL),
		friends:  services.NewFriendService(c, session, syncer, notes, log),
		moods:    services.NewMoodService(repo, session, log, cfg.ScopeWellnessPerUser),
		journals: services.NewJournalService(repo, session, log, cfg.ScopeWellnessPerUser),
		clock:    clock,
		tracker: usage.NewTracker(repo, clock, log,
			usage.WithTimeLimit(cfg.TimeLimit),
			usage.WithIdleThreshold(cfg.IdleThreshold),
			usage.WithTickInterval(cfg.TickInterval),
		),
		nudge:    wellness.NewNudge(wellness.DefaultBreakAfter),
		lastSeen: clock.Now(),
		reader:   bufio.NewReader(in),
		out:      w,
	}

	a.tracker.OnBlock(func(s usage.Snapshot) {
		fmt.Fprintf(a.out, "\nYou've been scrolling for %s. Take a break, or type '%s' to keep going.\n",
			usage.FormatSpent(s.Elapsed), usage.ConfirmPhrase)
	})
	session.OnUserChange(a.onUserChange)
	return a
}

// onUserChange moves the usage tracker to the new user, or to the guest
// slot after logout. Start stops the previous loop first.
func (a *App) onUserChange(ctx context.Context, u *models.User) {
	id := ""
	if u != nil {
		id = u.ID
	}
	if err := a.tracker.Start(ctx, id); err != nil {
		a.log.Error(ctx, "start usage tracker", "user_id", id, "err", err)
	}
}

// Start restores the stored session and starts tracking usage.
func (a *App) Start(ctx context.Context) error {
	if err := a.session.Restore(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

// Run restores the session and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	if err := a.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Welcome to WellSta (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// Close waits for pending syncs, stops the tracker and closes the database.
func (a *App) Close() {
	a.syncer.Flush()
	a.tracker.Stop()
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Current() != nil
}

func (a *App) isBlocked() bool {
	return a.tracker.Blocked()
}

// getStatus renders the prompt prefix, e.g. "(ann offline 12:03)".
func (a *App) getStatus() string {
	s := "guest"
	if u := a.session.Current(); u != nil {
		s = u.Username
		if s == "" {
			s = u.Email
		}
		if a.session.IsLocal() {
			s += " offline"
		}
	}
	if a.activity.Busy() {
		s += " syncing"
	}
	s += " " + usage.FormatElapsed(a.tracker.Snapshot().Elapsed)
	return fmt.Sprintf("(%s)", s)
}

// checkNudge feeds the wall time since the last command into the nudge
// and prints it when it comes due.
func (a *App) checkNudge() {
	now := a.clock.Now()
	d := now.Sub(a.lastSeen)
	a.lastSeen = now
	if a.nudge.Add(d) {
		fmt.Fprintf(a.out, "Mindful break: you've been here for %d minutes. Try 'breathe box'.\n",
			int(a.nudge.Elapsed().Minutes()))
		a.nudge.Dismiss()
	}
}
