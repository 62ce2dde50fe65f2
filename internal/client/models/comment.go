package models

import "time"

// Comment belongs to exactly one post and is never edited.
type Comment struct {
	ID        string    `json:"_id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Comment) GetID() string   { return c.ID }
func (c *Comment) SetID(id string) { c.ID = id }
