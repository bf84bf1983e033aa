package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/middleware"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/services"
	"github.com/ArvinYang1925/fitness-booking-backend/pkg/utils"
)

type coachAdminService interface {
	PromoteToCoach(ctx context.Context, userID uuid.UUID, input services.PromoteCoachInput) (*models.User, *models.Coach, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input services.UpdateCoachProfileInput) (*services.CoachProfile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*services.CoachProfile, error)
	Revenue(ctx context.Context, userID uuid.UUID, monthName string) (*services.RevenueSummary, error)
}

type adminUserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type adminCoachReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Coach, error)
}

type adminCourseStore interface {
	Create(ctx context.Context, input repository.CreateCourseInput) (*models.Course, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, id uuid.UUID, input repository.UpdateCourseInput) (int64, error)
	ListOverviewByCoachUserID(ctx context.Context, userID uuid.UUID) ([]models.CoachCourseOverview, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*models.CourseDetail, error)
}

// AdminHandler covers coach self-service: promotion, course authoring,
// profile upkeep and the revenue summary.
type AdminHandler struct {
	coachService coachAdminService
	users        adminUserReader
	coaches      adminCoachReader
	courses      adminCourseStore
}

func NewAdminHandler(
	coachService coachAdminService,
	users adminUserReader,
	coaches adminCoachReader,
	courses adminCourseStore,
) *AdminHandler {
	return &AdminHandler{
		coachService: coachService,
		users:        users,
		coaches:      coaches,
		courses:      courses,
	}
}

type promoteCoachRequest struct {
	ExperienceYears *int    `json:"experience_years"`
	Description     *string `json:"description"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type courseRequest struct {
	UserID          *string `json:"user_id"`
	SkillID         *string `json:"skill_id"`
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	StartAt         *string `json:"start_at"`
	EndAt           *string `json:"end_at"`
	MaxParticipants *int    `json:"max_participants"`
	MeetingURL      *string `json:"meeting_url"`
}

type updateCoachProfileRequest struct {
	ExperienceYears *int     `json:"experience_years"`
	Description     *string  `json:"description"`
	ProfileImageURL *string  `json:"profile_image_url"`
	SkillIDs        []string `json:"skill_ids"`
}

func (h *AdminHandler) PromoteCoach(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	var req promoteCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if utils.IsUndefined(req.ExperienceYears) || utils.IsNotValidInteger(req.ExperienceYears) ||
		utils.IsUndefined(req.Description) || utils.IsNotValidString(req.Description) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if req.ProfileImageURL != nil &&
		(utils.IsNotValidString(req.ProfileImageURL) || !strings.HasPrefix(*req.ProfileImageURL, "https")) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	user, coach, err := h.coachService.PromoteToCoach(c.Context(), userID, services.PromoteCoachInput{
		ExperienceYears: *req.ExperienceYears,
		Description:     *req.Description,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return failJSON(c, fiber.StatusBadRequest, "使用者不存在")
		case errors.Is(err, services.ErrAlreadyCoach):
			return failJSON(c, fiber.StatusConflict, "使用者已經是教練")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusCreated, fiber.Map{
		"user": fiber.Map{
			"name": user.Name,
			"role": user.Role,
		},
		"coach": coach,
	})
}

func (h *AdminHandler) CreateCourse(c *fiber.Ctx) error {
	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if utils.IsUndefined(req.UserID) || utils.IsNotValidString(req.UserID) ||
		utils.IsNotValidUUID(strings.TrimSpace(stringValue(req.UserID))) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if message := validateCourseFields(req); message != "" {
		return failJSON(c, fiber.StatusBadRequest, message)
	}

	userID := uuid.MustParse(*req.UserID)
	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "使用者不存在")
		}
		return serverError(c, err)
	}
	if user.Role != models.RoleCoach {
		return failJSON(c, fiber.StatusBadRequest, "使用者尚未成為教練")
	}

	startAt, endAt, err := parseCourseRange(*req.StartAt, *req.EndAt)
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	course, err := h.courses.Create(c.Context(), repository.CreateCourseInput{
		UserID:          userID,
		SkillID:         uuid.MustParse(*req.SkillID),
		Name:            *req.Name,
		Description:     *req.Description,
		StartAt:         startAt,
		EndAt:           endAt,
		MaxParticipants: *req.MaxParticipants,
		MeetingURL:      *req.MeetingURL,
	})
	if err != nil {
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusCreated, fiber.Map{
		"course": course,
	})
}

func (h *AdminHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	var req courseRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if message := validateCourseFields(req); message != "" {
		return failJSON(c, fiber.StatusBadRequest, message)
	}

	if _, err := h.courses.GetByID(c.Context(), courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "課程不存在")
		}
		return serverError(c, err)
	}

	startAt, endAt, err := parseCourseRange(*req.StartAt, *req.EndAt)
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	affected, err := h.courses.Update(c.Context(), courseID, repository.UpdateCourseInput{
		SkillID:         uuid.MustParse(*req.SkillID),
		Name:            *req.Name,
		Description:     *req.Description,
		StartAt:         startAt,
		EndAt:           endAt,
		MaxParticipants: *req.MaxParticipants,
		MeetingURL:      *req.MeetingURL,
	})
	if err != nil {
		return serverError(c, err)
	}
	if affected == 0 {
		return failJSON(c, fiber.StatusBadRequest, "更新課程失敗")
	}

	course, err := h.courses.GetByID(c.Context(), courseID)
	if err != nil {
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"course": course,
	})
}

func (h *AdminHandler) GetOwnCourses(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	overviews, err := h.courses.ListOverviewByCoachUserID(c.Context(), user.ID)
	if err != nil {
		return serverError(c, err)
	}

	now := time.Now()
	courses := make([]fiber.Map, 0, len(overviews))
	for _, overview := range overviews {
		courses = append(courses, fiber.Map{
			"id":               overview.ID,
			"name":             overview.Name,
			"status":           courseStatus(overview.StartAt, overview.EndAt, now),
			"start_at":         overview.StartAt,
			"end_at":           overview.EndAt,
			"max_participants": overview.MaxParticipants,
			"participants":     overview.Participants,
		})
	}
	return successJSON(c, fiber.StatusOK, courses)
}

func (h *AdminHandler) GetOwnCourseDetail(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	if _, err := h.coaches.GetByUserID(c.Context(), user.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "找不到教練")
		}
		return serverError(c, err)
	}

	detail, err := h.courses.GetDetail(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "課程不存在")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, detail)
}

func (h *AdminHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	profile, err := h.coachService.GetProfile(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, services.ErrCoachNotFound) {
			return failJSON(c, fiber.StatusBadRequest, "找不到教練")
		}
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, profile)
}

func (h *AdminHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req updateCoachProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if utils.IsUndefined(req.ExperienceYears) || utils.IsNotValidInteger(req.ExperienceYears) ||
		utils.IsUndefined(req.Description) || utils.IsNotValidString(req.Description) ||
		utils.IsUndefined(req.ProfileImageURL) || utils.IsNotValidString(req.ProfileImageURL) ||
		!strings.HasPrefix(stringValue(req.ProfileImageURL), "https") ||
		len(req.SkillIDs) == 0 {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	skillIDs := make([]uuid.UUID, 0, len(req.SkillIDs))
	for _, raw := range req.SkillIDs {
		if utils.IsNotValidUUID(raw) {
			return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
		}
		skillIDs = append(skillIDs, uuid.MustParse(raw))
	}

	profile, err := h.coachService.UpdateProfile(c.Context(), user.ID, services.UpdateCoachProfileInput{
		ExperienceYears: *req.ExperienceYears,
		Description:     *req.Description,
		ProfileImageURL: req.ProfileImageURL,
		SkillIDs:        skillIDs,
	})
	if err != nil {
		if errors.Is(err, services.ErrCoachNotFound) {
			return failJSON(c, fiber.StatusBadRequest, "找不到教練")
		}
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, profile)
}

func (h *AdminHandler) GetRevenue(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	summary, err := h.coachService.Revenue(c.Context(), user.ID, c.Query("month"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"total": summary,
	})
}

// validateCourseFields checks the fields shared by course create and
// update; user_id is validated by the create path separately.
func validateCourseFields(req courseRequest) string {
	if utils.IsUndefined(req.SkillID) || utils.IsNotValidString(req.SkillID) ||
		utils.IsNotValidUUID(strings.TrimSpace(stringValue(req.SkillID))) ||
		utils.IsUndefined(req.Name) || utils.IsNotValidString(req.Name) ||
		utils.IsUndefined(req.Description) || utils.IsNotValidString(req.Description) ||
		utils.IsUndefined(req.StartAt) || utils.IsNotValidString(req.StartAt) ||
		utils.IsUndefined(req.EndAt) || utils.IsNotValidString(req.EndAt) ||
		utils.IsUndefined(req.MaxParticipants) || utils.IsNotValidInteger(req.MaxParticipants) ||
		utils.IsUndefined(req.MeetingURL) || utils.IsNotValidString(req.MeetingURL) ||
		!strings.HasPrefix(stringValue(req.MeetingURL), "https") {
		return "欄位未填寫正確"
	}
	return ""
}

func parseCourseRange(startAt, endAt string) (time.Time, time.Time, error) {
	start, err := parseCourseTime(startAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseCourseTime(endAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseCourseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
