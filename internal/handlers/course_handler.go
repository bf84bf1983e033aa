package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/middleware"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/services"
)

type courseCatalogue interface {
	ListAll(ctx context.Context) ([]models.CourseListing, error)
}

type bookingService interface {
	BookCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.CourseBooking, error)
	CancelBooking(ctx context.Context, userID, courseID uuid.UUID) error
}

type CourseHandler struct {
	courses  courseCatalogue
	bookings bookingService
}

func NewCourseHandler(courses courseCatalogue, bookings bookingService) *CourseHandler {
	return &CourseHandler{courses: courses, bookings: bookings}
}

func (h *CourseHandler) List(c *fiber.Ctx) error {
	listings, err := h.courses.ListAll(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, listings)
}

func (h *CourseHandler) Book(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
	}

	if _, err := h.bookings.BookCourse(c.Context(), user.ID, courseID); err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
		case errors.Is(err, services.ErrAlreadyBooked):
			return failJSON(c, fiber.StatusBadRequest, "已經報名過此課程")
		case errors.Is(err, services.ErrNoRemainingCredits):
			return failJSON(c, fiber.StatusBadRequest, "已無可使用堂數")
		case errors.Is(err, services.ErrCourseFull):
			return failJSON(c, fiber.StatusBadRequest, "已達最大參加人數，無法參加")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusCreated, nil)
}

func (h *CourseHandler) Cancel(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	courseID, err := uuid.Parse(c.Params("courseId"))
	if err != nil {
		return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
	}

	if err := h.bookings.CancelBooking(c.Context(), user.ID, courseID); err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
		case errors.Is(err, services.ErrCancelFailed):
			return failJSON(c, fiber.StatusBadRequest, "取消失敗")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, nil)
}
