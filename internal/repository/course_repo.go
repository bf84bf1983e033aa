package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type CreateCourseInput struct {
	UserID          uuid.UUID
	SkillID         uuid.UUID
	Name            string
	Description     string
	StartAt         time.Time
	EndAt           time.Time
	MaxParticipants int
	MeetingURL      string
}

type UpdateCourseInput struct {
	SkillID         uuid.UUID
	Name            string
	Description     string
	StartAt         time.Time
	EndAt           time.Time
	MaxParticipants int
	MeetingURL      string
}

type CourseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	query := `
		INSERT INTO courses (user_id, skill_id, name, description, start_at, end_at, max_participants, meeting_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, skill_id, name, description, start_at, end_at, max_participants, meeting_url, created_at, updated_at
	`
	var course models.Course
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.SkillID,
		input.Name,
		input.Description,
		input.StartAt,
		input.EndAt,
		input.MaxParticipants,
		input.MeetingURL,
	).Scan(
		&course.ID,
		&course.UserID,
		&course.SkillID,
		&course.Name,
		&course.Description,
		&course.StartAt,
		&course.EndAt,
		&course.MaxParticipants,
		&course.MeetingURL,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	query := `
		SELECT id, user_id, skill_id, name, description, start_at, end_at, max_participants, meeting_url, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.UserID,
		&course.SkillID,
		&course.Name,
		&course.Description,
		&course.StartAt,
		&course.EndAt,
		&course.MaxParticipants,
		&course.MeetingURL,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) Update(ctx context.Context, id uuid.UUID, input UpdateCourseInput) (int64, error) {
	query := `
		UPDATE courses
		SET skill_id = $2, name = $3, description = $4, start_at = $5, end_at = $6,
			max_participants = $7, meeting_url = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(
		ctx,
		query,
		id,
		input.SkillID,
		input.Name,
		input.Description,
		input.StartAt,
		input.EndAt,
		input.MaxParticipants,
		input.MeetingURL,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListAll returns the public catalogue with coach and skill names joined in.
func (r *CourseRepository) ListAll(ctx context.Context) ([]models.CourseListing, error) {
	query := `
		SELECT c.id, u.name, s.name, c.name, c.description, c.start_at, c.end_at, c.max_participants
		FROM courses c
		JOIN users u ON u.id = c.user_id
		JOIN skills s ON s.id = c.skill_id
		ORDER BY c.start_at ASC, c.id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]models.CourseListing, 0)
	for rows.Next() {
		var listing models.CourseListing
		if err := rows.Scan(
			&listing.ID,
			&listing.CoachName,
			&listing.SkillName,
			&listing.Name,
			&listing.Description,
			&listing.StartAt,
			&listing.EndAt,
			&listing.MaxParticipants,
		); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

// ListByCoachUserID returns the catalogue rows for one coach's courses.
func (r *CourseRepository) ListByCoachUserID(ctx context.Context, userID uuid.UUID) ([]models.CourseListing, error) {
	query := `
		SELECT c.id, u.name, s.name, c.name, c.description, c.start_at, c.end_at, c.max_participants
		FROM courses c
		JOIN users u ON u.id = c.user_id
		JOIN skills s ON s.id = c.skill_id
		WHERE c.user_id = $1
		ORDER BY c.start_at ASC, c.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := make([]models.CourseListing, 0)
	for rows.Next() {
		var listing models.CourseListing
		if err := rows.Scan(
			&listing.ID,
			&listing.CoachName,
			&listing.SkillName,
			&listing.Name,
			&listing.Description,
			&listing.StartAt,
			&listing.EndAt,
			&listing.MaxParticipants,
		); err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *CourseRepository) ListIDsByCoachUserID(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM courses
		WHERE user_id = $1
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListOverviewByCoachUserID returns a coach's own courses together with the
// active participant count, aggregated in one grouped query.
func (r *CourseRepository) ListOverviewByCoachUserID(ctx context.Context, userID uuid.UUID) ([]models.CoachCourseOverview, error) {
	query := `
		SELECT c.id, c.name, c.start_at, c.end_at, c.max_participants,
			COUNT(b.id) FILTER (WHERE b.cancelled_at IS NULL)
		FROM courses c
		LEFT JOIN course_bookings b ON b.course_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.start_at ASC, c.id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overviews := make([]models.CoachCourseOverview, 0)
	for rows.Next() {
		var overview models.CoachCourseOverview
		if err := rows.Scan(
			&overview.ID,
			&overview.Name,
			&overview.StartAt,
			&overview.EndAt,
			&overview.MaxParticipants,
			&overview.Participants,
		); err != nil {
			return nil, err
		}
		overviews = append(overviews, overview)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return overviews, nil
}

func (r *CourseRepository) GetDetail(ctx context.Context, id uuid.UUID) (*models.CourseDetail, error) {
	query := `
		SELECT c.id, s.name, c.name, c.description, c.start_at, c.end_at, c.max_participants
		FROM courses c
		JOIN skills s ON s.id = c.skill_id
		WHERE c.id = $1
	`
	var detail models.CourseDetail
	err := r.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.SkillName,
		&detail.Name,
		&detail.Description,
		&detail.StartAt,
		&detail.EndAt,
		&detail.MaxParticipants,
	)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}
