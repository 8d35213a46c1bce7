package projects

import "time"

// Project is a portfolio holding presented on the public site. Unpublished
// projects are only visible through the back-office.
type Project struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Title       string    `bson:"title" json:"title"`
	Sector      string    `bson:"sector" json:"sector"`
	Summary     string    `bson:"summary" json:"summary"`
	Description string    `bson:"description" json:"description"`
	Highlights  []string  `bson:"highlights,omitempty" json:"highlights,omitempty"`
	IsPublished bool      `bson:"is_published" json:"is_published"`
	SortOrder   int       `bson:"sort_order" json:"sort_order"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title" validate:"required"`
	Sector      string   `json:"sector" validate:"required"`
	Summary     string   `json:"summary" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Highlights  []string `json:"highlights" validate:"omitempty,dive,required"`
	IsPublished *bool    `json:"is_published"`
	SortOrder   *int     `json:"sort_order" validate:"omitempty,gte=0"`
}

type PublicListFilter struct {
	Sector string
}

type AdminListFilter struct {
	Sector string
}
