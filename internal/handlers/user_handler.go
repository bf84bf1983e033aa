package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/middleware"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/pkg/utils"
)

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error)
	GetNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type purchaseReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PurchaseRecord, error)
	SumPurchasedCredits(ctx context.Context, userID uuid.UUID) (int64, error)
}

type bookingReader interface {
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.BookedCourse, error)
	CountActiveByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type UserHandler struct {
	users        userStore
	purchases    purchaseReader
	bookings     bookingReader
	jwtSecret    string
	jwtExpiresIn time.Duration
}

func NewUserHandler(
	users userStore,
	purchases purchaseReader,
	bookings bookingReader,
	jwtSecret string,
	jwtExpiresIn time.Duration,
) *UserHandler {
	return &UserHandler{
		users:        users,
		purchases:    purchases,
		bookings:     bookings,
		jwtSecret:    jwtSecret,
		jwtExpiresIn: jwtExpiresIn,
	}
}

type signupRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type loginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type updateProfileRequest struct {
	Name *string `json:"name"`
}

type updatePasswordRequest struct {
	Password           *string `json:"password"`
	NewPassword        *string `json:"new_password"`
	ConfirmNewPassword *string `json:"confirm_new_password"`
}

func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	if utils.IsUndefined(req.Name) || utils.IsNotValidString(req.Name) ||
		utils.IsUndefined(req.Email) || utils.IsNotValidString(req.Email) ||
		utils.IsUndefined(req.Password) || utils.IsNotValidString(req.Password) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if !utils.IsValidPassword(*req.Password) {
		return failJSON(c, fiber.StatusBadRequest,
			"密碼不符合規則，需要包含英文數字大小寫，最短8個字，最長16個字")
	}

	if _, err := h.users.GetByEmail(c.Context(), *req.Email); err == nil {
		return failJSON(c, fiber.StatusConflict, "Email 已被使用")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return serverError(c, err)
	}

	hashed, err := utils.HashPassword(*req.Password)
	if err != nil {
		return serverError(c, err)
	}

	user := &models.User{
		Name:         *req.Name,
		Email:        *req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	if err := h.users.Create(c.Context(), user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return failJSON(c, fiber.StatusConflict, "Email 已被使用")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusCreated, fiber.Map{
		"user": fiber.Map{
			"id":   user.ID,
			"name": user.Name,
		},
	})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	if utils.IsUndefined(req.Email) || utils.IsNotValidString(req.Email) ||
		utils.IsUndefined(req.Password) || utils.IsNotValidString(req.Password) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if !utils.IsValidPassword(*req.Password) {
		return failJSON(c, fiber.StatusBadRequest,
			"密碼不符合規則，需要包含英文數字大小寫，最短8個字，最長16個字")
	}

	// One message for both failure modes so callers cannot probe which
	// emails are registered.
	user, err := h.users.GetByEmail(c.Context(), *req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "使用者不存在或密碼輸入錯誤")
		}
		return serverError(c, err)
	}
	if !utils.CheckPassword(*req.Password, user.PasswordHash) {
		return failJSON(c, fiber.StatusBadRequest, "使用者不存在或密碼輸入錯誤")
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role, h.jwtSecret, h.jwtExpiresIn)
	if err != nil {
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusCreated, fiber.Map{
		"token": token,
		"user": fiber.Map{
			"name": user.Name,
		},
	})
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return successJSON(c, fiber.StatusOK, fiber.Map{
		"user": fiber.Map{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if utils.IsUndefined(req.Name) || utils.IsNotValidString(req.Name) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if user.Name == *req.Name {
		return failJSON(c, fiber.StatusBadRequest, "使用者名稱未變更")
	}

	affected, err := h.users.UpdateName(c.Context(), user.ID, *req.Name)
	if err != nil {
		return serverError(c, err)
	}
	if affected == 0 {
		return failJSON(c, fiber.StatusBadRequest, "更新使用者資料失敗")
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"user": fiber.Map{
			"name": *req.Name,
		},
	})
}

func (h *UserHandler) UpdatePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	if utils.IsUndefined(req.Password) || utils.IsNotValidString(req.Password) ||
		utils.IsUndefined(req.NewPassword) || utils.IsNotValidString(req.NewPassword) ||
		utils.IsUndefined(req.ConfirmNewPassword) || utils.IsNotValidString(req.ConfirmNewPassword) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if !utils.IsValidPassword(*req.Password) || !utils.IsValidPassword(*req.NewPassword) ||
		!utils.IsValidPassword(*req.ConfirmNewPassword) {
		return failJSON(c, fiber.StatusBadRequest,
			"密碼不符合規則，需要包含英文數字大小寫，最短8個字，最長16個字")
	}
	if *req.NewPassword == *req.Password {
		return failJSON(c, fiber.StatusBadRequest, "新密碼不能與舊密碼相同")
	}
	if *req.NewPassword != *req.ConfirmNewPassword {
		return failJSON(c, fiber.StatusBadRequest, "新密碼與驗證新密碼不一致")
	}
	if !utils.CheckPassword(*req.Password, user.PasswordHash) {
		return failJSON(c, fiber.StatusBadRequest, "密碼輸入錯誤")
	}

	hashed, err := utils.HashPassword(*req.NewPassword)
	if err != nil {
		return serverError(c, err)
	}

	affected, err := h.users.UpdatePasswordHash(c.Context(), user.ID, hashed)
	if err != nil {
		return serverError(c, err)
	}
	if affected == 0 {
		return failJSON(c, fiber.StatusBadRequest, "更新密碼失敗")
	}

	return successJSON(c, fiber.StatusOK, nil)
}

func (h *UserHandler) GetCreditPurchases(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	records, err := h.purchases.ListByUser(c.Context(), user.ID)
	if err != nil {
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, records)
}

// GetCourseBookings lists the user's active bookings. Coach names are
// resolved in a single batched lookup over the distinct coach user ids.
func (h *UserHandler) GetCourseBookings(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	purchased, err := h.purchases.SumPurchasedCredits(c.Context(), user.ID)
	if err != nil {
		return serverError(c, err)
	}
	used, err := h.bookings.CountActiveByUser(c.Context(), user.ID)
	if err != nil {
		return serverError(c, err)
	}

	booked, err := h.bookings.ListActiveByUser(c.Context(), user.ID)
	if err != nil {
		return serverError(c, err)
	}

	seen := make(map[uuid.UUID]struct{}, len(booked))
	coachUserIDs := make([]uuid.UUID, 0, len(booked))
	for _, course := range booked {
		if _, ok := seen[course.CoachUserID]; ok {
			continue
		}
		seen[course.CoachUserID] = struct{}{}
		coachUserIDs = append(coachUserIDs, course.CoachUserID)
	}
	coachNames, err := h.users.GetNamesByIDs(c.Context(), coachUserIDs)
	if err != nil {
		return serverError(c, err)
	}

	now := time.Now()
	courses := make([]fiber.Map, 0, len(booked))
	for _, course := range booked {
		courses = append(courses, fiber.Map{
			"course_id":   course.CourseID,
			"name":        course.Name,
			"coach_name":  coachNames[course.CoachUserID],
			"status":      courseStatus(course.StartAt, course.EndAt, now),
			"start_at":    course.StartAt,
			"end_at":      course.EndAt,
			"meeting_url": course.MeetingURL,
		})
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"credit_remain":  purchased - used,
		"credit_usage":   used,
		"course_booking": courses,
	})
}
