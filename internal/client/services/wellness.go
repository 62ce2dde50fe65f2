package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/wellsta/internal/client/localstore"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/client/repositories/kv"
	"github.com/dmitrijs2005/wellsta/internal/logging"
)

// wellnessKey scopes mood and journal lists per user, or to the whole
// device when perUser is off.
func wellnessKey(session SessionService, kind kv.Kind, perUser bool) kv.Key {
	if !perUser {
		return kv.DeviceKey(kind)
	}
	return kv.UserKey(session.CurrentID(), kind)
}

type MoodService interface {
	Log(ctx context.Context, mood, note string) (*models.MoodEntry, error)
	Entries(ctx context.Context) ([]models.MoodEntry, error)
	Update(ctx context.Context, id, mood, note string) (*models.MoodEntry, error)
	Delete(ctx context.Context, id string) error
	WeeklyAverages(ctx context.Context, now time.Time) ([]DayAverage, error)
}

// DayAverage is the mean mood score of one calendar day; Count is zero on
// days without check-ins.
type DayAverage struct {
	Day     time.Time
	Average float64
	Count   int
}

type moodService struct {
	repo    kv.Repository
	session SessionService
	log     logging.Logger
	perUser bool
	now     func() time.Time
}

func NewMoodService(repo kv.Repository, session SessionService, log logging.Logger, perUser bool) MoodService {
	return &moodService{repo: repo, session: session, log: log, perUser: perUser, now: time.Now}
}

func (s *moodService) entries() *localstore.Collection[models.MoodEntry, *models.MoodEntry] {
	return localstore.NewCollection[models.MoodEntry](s.repo, wellnessKey(s.session, kv.KindMoodEntries, s.perUser), "mood-", s.log)
}

func (s *moodService) Log(ctx context.Context, mood, note string) (*models.MoodEntry, error) {
	m, ok := models.ParseMood(mood)
	if !ok {
		return nil, ErrMissingMood
	}
	e, err := s.entries().Create(ctx, models.MoodEntry{
		Mood:      m,
		Note:      strings.TrimSpace(note),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *moodService) Entries(ctx context.Context) ([]models.MoodEntry, error) {
	return s.entries().List(ctx)
}

// Update replaces the mood and note of an entry; its timestamp is kept.
func (s *moodService) Update(ctx context.Context, id, mood, note string) (*models.MoodEntry, error) {
	m, ok := models.ParseMood(mood)
	if !ok {
		return nil, ErrMissingMood
	}
	e, err := s.entries().Update(ctx, id, func(e *models.MoodEntry) error {
		e.Mood = m
		e.Note = strings.TrimSpace(note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *moodService) Delete(ctx context.Context, id string) error {
	_, err := s.entries().Delete(ctx, id)
	return err
}

// WeeklyAverages buckets the last seven days ending on now's day, oldest
// first, in now's location.
func (s *moodService) WeeklyAverages(ctx context.Context, now time.Time) ([]DayAverage, error) {
	list, err := s.entries().List(ctx)
	if err != nil {
		return nil, err
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	days := make([]DayAverage, 7)
	sums := make([]int, 7)
	for i := range days {
		days[i].Day = today.AddDate(0, 0, i-6)
	}

	for _, e := range list {
		t := e.CreatedAt.In(loc)
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		for i := range days {
			if days[i].Day.Equal(d) && e.Mood.Score() > 0 {
				days[i].Count++
				sums[i] += e.Mood.Score()
			}
		}
	}
	for i := range days {
		if days[i].Count > 0 {
			days[i].Average = float64(sums[i]) / float64(days[i].Count)
		}
	}
	return days, nil
}

type JournalService interface {
	Save(ctx context.Context, prompt, content string) (*models.JournalEntry, error)
	Entries(ctx context.Context) ([]models.JournalEntry, error)
	Update(ctx context.Context, id, content string) (*models.JournalEntry, error)
	Delete(ctx context.Context, id string) error
}

type journalService struct {
	repo    kv.Repository
	session SessionService
	log     logging.Logger
	perUser bool
	now     func() time.Time
}

func NewJournalService(repo kv.Repository, session SessionService, log logging.Logger, perUser bool) JournalService {
	return &journalService{repo: repo, session: session, log: log, perUser: perUser, now: time.Now}
}

func (s *journalService) entries() *localstore.Collection[models.JournalEntry, *models.JournalEntry] {
	return localstore.NewCollection[models.JournalEntry](s.repo, wellnessKey(s.session, kv.KindJournalEntries, s.perUser), "journal-", s.log)
}

func (s *journalService) Save(ctx context.Context, prompt, content string) (*models.JournalEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyJournal
	}
	e, err := s.entries().Create(ctx, models.JournalEntry{
		Prompt:    prompt,
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *journalService) Entries(ctx context.Context) ([]models.JournalEntry, error) {
	return s.entries().List(ctx)
}

func (s *journalService) Update(ctx context.Context, id, content string) (*models.JournalEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyJournal
	}
	e, err := s.entries().Update(ctx, id, func(e *models.JournalEntry) error {
		e.Content = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *journalService) Delete(ctx context.Context, id string) error {
	_, err := s.entries().Delete(ctx, id)
	return err
}
