package leads

import "time"

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusClosed    = "closed"

	SourceWebsite  = "website"
	SourceReferral = "referral"
	SourceManual   = "manual"
)

var validStatuses = map[string]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusClosed:    {},
}

var validSources = map[string]struct{}{
	SourceWebsite:  {},
	SourceReferral: {},
	SourceManual:   {},
}

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidSource(value string) bool {
	_, ok := validSources[value]
	return ok
}

// Lead is an investor or partnership inquiry submitted through the site
// contact form or entered manually by staff.
type Lead struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Organization string    `bson:"organization,omitempty" json:"organization,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string    `bson:"phone" json:"phone"`
	Subject      string    `bson:"subject" json:"subject"`
	Message      string    `bson:"message" json:"message"`
	Status       string    `bson:"status" json:"status"`
	Source       string    `bson:"source" json:"source"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

type CreateRequest struct {
	Name         string `json:"name" validate:"required"`
	Organization string `json:"organization"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"required,phone"`
	Subject      string `json:"subject" validate:"required"`
	Message      string `json:"message" validate:"required"`
	Source       string `json:"source" validate:"omitempty,oneof=website referral manual"`
}

type AdminStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified closed"`
}

type ListFilter struct {
	Status string
	Source string
}
