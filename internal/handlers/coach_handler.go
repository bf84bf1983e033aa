package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type coachReader interface {
	List(ctx context.Context, limit, offset int) ([]models.CoachSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Coach, error)
}

type coachUserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type coachCourseReader interface {
	ListByCoachUserID(ctx context.Context, userID uuid.UUID) ([]models.CourseListing, error)
}

// CoachHandler serves the public coach directory.
type CoachHandler struct {
	coaches coachReader
	users   coachUserReader
	courses coachCourseReader
}

func NewCoachHandler(coaches coachReader, users coachUserReader, courses coachCourseReader) *CoachHandler {
	return &CoachHandler{coaches: coaches, users: users, courses: courses}
}

func (h *CoachHandler) List(c *fiber.Ctx) error {
	per, perErr := strconv.Atoi(c.Query("per"))
	page, pageErr := strconv.Atoi(c.Query("page"))
	if perErr != nil || pageErr != nil || per <= 0 || page <= 0 {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	coaches, err := h.coaches.List(c.Context(), per, (page-1)*per)
	if err != nil {
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, coaches)
}

func (h *CoachHandler) GetDetail(c *fiber.Ctx) error {
	coachID, err := uuid.Parse(c.Params("coachId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	coach, err := h.coaches.GetByID(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "找不到該教練")
		}
		return serverError(c, err)
	}

	user, err := h.users.GetByID(c.Context(), coach.UserID)
	if err != nil {
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"user": fiber.Map{
			"name": user.Name,
			"role": user.Role,
		},
		"coach": coach,
	})
}

// GetCourses lists a coach's courses for the public catalogue.
func (h *CoachHandler) GetCourses(c *fiber.Ctx) error {
	coachID, err := uuid.Parse(c.Params("coachId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	coach, err := h.coaches.GetByID(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "找不到該教練")
		}
		return serverError(c, err)
	}

	listings, err := h.courses.ListByCoachUserID(c.Context(), coach.UserID)
	if err != nil {
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, listings)
}
