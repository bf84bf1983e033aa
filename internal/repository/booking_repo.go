package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type CourseBookingRepository struct {
	db DBTX
}

func NewCourseBookingRepository(db DBTX) *CourseBookingRepository {
	return &CourseBookingRepository{db: db}
}

// FindActive returns the user's uncancelled booking for the course, or
// pgx.ErrNoRows when there is none.
func (r *CourseBookingRepository) FindActive(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseBooking, error) {
	query := `
		SELECT id, user_id, course_id, created_at, cancelled_at
		FROM course_bookings
		WHERE user_id = $1 AND course_id = $2 AND cancelled_at IS NULL
	`
	var booking models.CourseBooking
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CourseID,
		&booking.CreatedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *CourseBookingRepository) CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM course_bookings
		WHERE user_id = $1 AND cancelled_at IS NULL
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CourseBookingRepository) CountActiveByCourse(ctx context.Context, courseID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM course_bookings
		WHERE course_id = $1 AND cancelled_at IS NULL
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, courseID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CourseBookingRepository) Create(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseBooking, error) {
	query := `
		INSERT INTO course_bookings (user_id, course_id)
		VALUES ($1, $2)
		RETURNING id, user_id, course_id, created_at, cancelled_at
	`
	var booking models.CourseBooking
	err := r.db.QueryRow(ctx, query, userID, courseID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CourseID,
		&booking.CreatedAt,
		&booking.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Cancel stamps cancelled_at on the user's active booking. The condition
// in the WHERE clause makes a second cancel a no-op; the affected count
// tells the caller which case it hit.
func (r *CourseBookingRepository) Cancel(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	query := `
		UPDATE course_bookings
		SET cancelled_at = NOW()
		WHERE user_id = $1 AND course_id = $2 AND cancelled_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, userID, courseID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListActiveByUser returns the user's active bookings joined with their
// courses. Coach names are left for the caller to resolve in one batch.
func (r *CourseBookingRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.BookedCourse, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.start_at, c.end_at, c.meeting_url
		FROM course_bookings b
		JOIN courses c ON c.id = b.course_id
		WHERE b.user_id = $1 AND b.cancelled_at IS NULL
		ORDER BY c.start_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make([]models.BookedCourse, 0)
	for rows.Next() {
		var course models.BookedCourse
		if err := rows.Scan(
			&course.CourseID,
			&course.CoachUserID,
			&course.Name,
			&course.StartAt,
			&course.EndAt,
			&course.MeetingURL,
		); err != nil {
			return nil, err
		}
		booked = append(booked, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}

// CountInRange counts active bookings across the given courses created
// inside [from, to).
func (r *CourseBookingRepository) CountInRange(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM course_bookings
		WHERE course_id = ANY($1) AND cancelled_at IS NULL
			AND created_at >= $2 AND created_at < $3
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, courseIDs, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountDistinctUsersInRange counts how many different users hold active
// bookings across the given courses inside [from, to).
func (r *CourseBookingRepository) CountDistinctUsersInRange(ctx context.Context, courseIDs []uuid.UUID, from, to time.Time) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM course_bookings
		WHERE course_id = ANY($1) AND cancelled_at IS NULL
			AND created_at >= $2 AND created_at < $3
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, courseIDs, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
