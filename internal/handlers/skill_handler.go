package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/pkg/utils"
)

type skillStore interface {
	List(ctx context.Context) ([]models.Skill, error)
	GetByName(ctx context.Context, name string) (*models.Skill, error)
	Create(ctx context.Context, name string) (*models.Skill, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type SkillHandler struct {
	skills skillStore
}

func NewSkillHandler(skills skillStore) *SkillHandler {
	return &SkillHandler{skills: skills}
}

type createSkillRequest struct {
	Name *string `json:"name"`
}

func (h *SkillHandler) List(c *fiber.Ctx) error {
	skills, err := h.skills.List(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, skills)
}

func (h *SkillHandler) Create(c *fiber.Ctx) error {
	var req createSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if utils.IsUndefined(req.Name) || utils.IsNotValidString(req.Name) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	if _, err := h.skills.GetByName(c.Context(), *req.Name); err == nil {
		return failJSON(c, fiber.StatusConflict, "資料重複")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return serverError(c, err)
	}

	skill, err := h.skills.Create(c.Context(), *req.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return failJSON(c, fiber.StatusConflict, "資料重複")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, skill)
}

func (h *SkillHandler) Delete(c *fiber.Ctx) error {
	skillID := c.Params("skillId")
	if utils.IsNotValidUUID(skillID) {
		return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
	}

	affected, err := h.skills.Delete(c.Context(), uuid.MustParse(skillID))
	if err != nil {
		return serverError(c, err)
	}
	if affected == 0 {
		return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}
