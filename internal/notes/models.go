package notes

import "time"

// Note is a private text note addressed by a globally unique slug.
// Owner is fixed at creation; the slug may change on edit.
type Note struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// NoteRequest is the create/edit payload. A blank Slug means "derive from
// the title" on create and "keep the current slug" on edit.
type NoteRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Slug  string `json:"slug"`
}
