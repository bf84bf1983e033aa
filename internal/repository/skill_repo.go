package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type SkillRepository struct {
	db DBTX
}

func NewSkillRepository(db DBTX) *SkillRepository {
	return &SkillRepository{db: db}
}

func (r *SkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	query := `
		SELECT id, name, created_at
		FROM skills
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]models.Skill, 0)
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.CreatedAt); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *SkillRepository) GetByName(ctx context.Context, name string) (*models.Skill, error) {
	query := `
		SELECT id, name, created_at
		FROM skills
		WHERE name = $1
	`
	var skill models.Skill
	err := r.db.QueryRow(ctx, query, name).Scan(&skill.ID, &skill.Name, &skill.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) Create(ctx context.Context, name string) (*models.Skill, error) {
	query := `
		INSERT INTO skills (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`
	var skill models.Skill
	err := r.db.QueryRow(ctx, query, name).Scan(&skill.ID, &skill.Name, &skill.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
