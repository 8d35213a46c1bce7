package team

import "time"

type Member struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Title     string    `bson:"title" json:"title"`
	Bio       string    `bson:"bio,omitempty" json:"bio,omitempty"`
	PhotoURL  string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	IsVisible bool      `bson:"is_visible" json:"is_visible"`
	SortOrder int       `bson:"sort_order" json:"sort_order"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type UpsertRequest struct {
	Name      string `json:"name" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Bio       string `json:"bio"`
	PhotoURL  string `json:"photo_url" validate:"omitempty,url"`
	IsVisible *bool  `json:"is_visible"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}
