package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/pkg/utils"
)

const userLocalKey = "user"

type userGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthRequired resolves the bearer token to a user row and attaches it to
// the request context. Token problems and unknown users both answer 401.
func AuthRequired(secret string, userRepo userGetter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "failed",
				"message": "你尚未登入！",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "failed",
				"message": "你尚未登入！",
			})
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			message := "無效的 token"
			if errors.Is(err, utils.ErrTokenExpired) {
				message = "Token 已過期"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "failed",
				"message": message,
			})
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "failed",
				"message": "無效的 token",
			})
		}

		user, err := userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "failed",
				"message": "無效的 token",
			})
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// CoachRequired must run after AuthRequired.
func CoachRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleCoach {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "failed",
				"message": "使用者尚未成為教練",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
