package news

import "time"

// Post is a press release or news article. PublishedAt is set the first time
// a post transitions to published and kept on subsequent edits.
type Post struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Slug        string     `bson:"slug" json:"slug"`
	Title       string     `bson:"title" json:"title"`
	Excerpt     string     `bson:"excerpt" json:"excerpt"`
	Body        string     `bson:"body" json:"body"`
	IsPublished bool       `bson:"is_published" json:"is_published"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title" validate:"required"`
	Excerpt     string `json:"excerpt" validate:"required"`
	Body        string `json:"body" validate:"required"`
	IsPublished *bool  `json:"is_published"`
}
