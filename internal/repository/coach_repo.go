package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type CreateCoachInput struct {
	UserID          uuid.UUID
	ExperienceYears int
	Description     string
	ProfileImageURL *string
}

type UpdateCoachProfileInput struct {
	ExperienceYears int
	Description     string
	ProfileImageURL *string
}

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	query := `
		INSERT INTO coaches (user_id, experience_years, description, profile_image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, experience_years, description, profile_image_url, created_at, updated_at
	`
	var coach models.Coach
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.ExperienceYears,
		input.Description,
		input.ProfileImageURL,
	).Scan(
		&coach.ID,
		&coach.UserID,
		&coach.ExperienceYears,
		&coach.Description,
		&coach.ProfileImageURL,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Coach, error) {
	query := `
		SELECT id, user_id, experience_years, description, profile_image_url, created_at, updated_at
		FROM coaches
		WHERE id = $1
	`
	var coach models.Coach
	err := r.db.QueryRow(ctx, query, id).Scan(
		&coach.ID,
		&coach.UserID,
		&coach.ExperienceYears,
		&coach.Description,
		&coach.ProfileImageURL,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func (r *CoachRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Coach, error) {
	query := `
		SELECT id, user_id, experience_years, description, profile_image_url, created_at, updated_at
		FROM coaches
		WHERE user_id = $1
	`
	var coach models.Coach
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&coach.ID,
		&coach.UserID,
		&coach.ExperienceYears,
		&coach.Description,
		&coach.ProfileImageURL,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

// List returns the public coach listing newest first.
func (r *CoachRepository) List(ctx context.Context, limit, offset int) ([]models.CoachSummary, error) {
	query := `
		SELECT c.id, u.name
		FROM coaches c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.CoachSummary, 0)
	for rows.Next() {
		var summary models.CoachSummary
		if err := rows.Scan(&summary.ID, &summary.Name); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *CoachRepository) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateCoachProfileInput) (int64, error) {
	query := `
		UPDATE coaches
		SET experience_years = $2, description = $3, profile_image_url = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, input.ExperienceYears, input.Description, input.ProfileImageURL)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReplaceSkills swaps the coach's skill links for the given set. Callers
// run it inside a transaction so the delete and insert land together.
func (r *CoachRepository) ReplaceSkills(ctx context.Context, coachID uuid.UUID, skillIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM coach_link_skill WHERE coach_id = $1`, coachID); err != nil {
		return err
	}
	for _, skillID := range skillIDs {
		if _, err := r.db.Exec(
			ctx,
			`INSERT INTO coach_link_skill (coach_id, skill_id) VALUES ($1, $2)`,
			coachID,
			skillID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *CoachRepository) GetSkillIDs(ctx context.Context, coachID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT skill_id
		FROM coach_link_skill
		WHERE coach_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skillIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var skillID uuid.UUID
		if err := rows.Scan(&skillID); err != nil {
			return nil, err
		}
		skillIDs = append(skillIDs, skillID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skillIDs, nil
}
