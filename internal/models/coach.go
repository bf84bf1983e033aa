package models

import (
	"time"

	"github.com/google/uuid"
)

type Coach struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ExperienceYears int       `json:"experience_years"`
	Description     string    `json:"description"`
	ProfileImageURL *string   `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CoachSummary is the paged public listing row: coach id plus the owning
// user's display name.
type CoachSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
