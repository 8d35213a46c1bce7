package models

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Username     string    `bson:"username" json:"username"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AvailabilityWindow is a recurring weekly interval during which
// consultation slots are offered. Multiple windows may exist for the same
// day and are not guaranteed non-overlapping.
type AvailabilityWindow struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	DayOfWeek int       `bson:"dayOfWeek" json:"dayOfWeek"`
	StartTime string    `bson:"startTime" json:"startTime"`
	EndTime   string    `bson:"endTime" json:"endTime"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Booking reserves a half-hour consultation slot on a specific date.
// Cancelled bookings stay in the collection; only non-cancelled ones
// occupy a slot.
type Booking struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Date      string    `bson:"date" json:"date"`
	Time      string    `bson:"time" json:"time"`
	EndTime   string    `bson:"endTime" json:"endTime"`
	Status    string    `bson:"status" json:"status"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	Topic     string    `bson:"topic,omitempty" json:"topic,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Document struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Category    string    `bson:"category" json:"category"`
	StorageKey  string    `bson:"storageKey" json:"storageKey"`
	ContentType string    `bson:"contentType" json:"contentType"`
	SizeBytes   int64     `bson:"sizeBytes" json:"sizeBytes"`
	IsPublic    bool      `bson:"isPublic" json:"isPublic"`
	UploadedBy  string    `bson:"uploadedBy,omitempty" json:"uploadedBy,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SiteSection toggles visibility of a front-end section (projects, team,
// news, documents, consultation form) without a redeploy.
type SiteSection struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Key       string    `bson:"key" json:"key"`
	Label     string    `bson:"label" json:"label"`
	IsVisible bool      `bson:"isVisible" json:"isVisible"`
	SortOrder int       `bson:"sortOrder" json:"sortOrder"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type EmailTemplate struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Subject   string    `bson:"subject" json:"subject"`
	HTMLBody  string    `bson:"htmlBody" json:"htmlBody"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
