package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseBooking struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CourseID    uuid.UUID  `json:"course_id"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
}

// BookedCourse is an active booking joined with its course for the
// user's reservation list. CoachName is resolved in a second batched
// lookup keyed by the course owner's user id.
type BookedCourse struct {
	CourseID    uuid.UUID `json:"course_id"`
	CoachUserID uuid.UUID `json:"-"`
	CoachName   string    `json:"coach_name"`
	Name        string    `json:"name"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	MeetingURL  string    `json:"meeting_url"`
}
