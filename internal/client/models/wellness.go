package models

import (
	"strings"
	"time"
)

// Mood is one of the five check-in options.
type Mood string

const (
	MoodSad     Mood = "sad"
	MoodWorried Mood = "worried"
	MoodNeutral Mood = "neutral"
	MoodGood    Mood = "good"
	MoodHappy   Mood = "happy"
)

var moodScores = map[Mood]int{
	MoodSad:     1,
	MoodWorried: 2,
	MoodNeutral: 3,
	MoodGood:    4,
	MoodHappy:   5,
}

var moodEmoji = map[Mood]string{
	MoodSad:     "😢",
	MoodWorried: "😟",
	MoodNeutral: "😐",
	MoodGood:    "🙂",
	MoodHappy:   "😄",
}

// ParseMood accepts a label case-insensitively.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	_, ok := moodScores[m]
	return m, ok
}

// Score returns 1 (sad) to 5 (happy), 0 for unknown moods.
func (m Mood) Score() int {
	return moodScores[m]
}

func (m Mood) Emoji() string {
	return moodEmoji[m]
}

// Moods lists the options from lowest to highest score.
func Moods() []Mood {
	return []Mood{MoodSad, MoodWorried, MoodNeutral, MoodGood, MoodHappy}
}

type MoodEntry struct {
	ID        string    `json:"id"`
	Mood      Mood      `json:"mood"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"timestamp"`
}

func (e *MoodEntry) GetID() string   { return e.ID }
func (e *MoodEntry) SetID(id string) { e.ID = id }

type JournalEntry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"date"`
}

func (e *JournalEntry) GetID() string   { return e.ID }
func (e *JournalEntry) SetID(id string) { e.ID = id }
