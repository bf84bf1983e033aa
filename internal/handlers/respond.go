package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// Every endpoint answers the same envelope: {"status":"success","data":...}
// or {"status":"failed","message":"..."}.

func successJSON(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func failJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "failed",
		"message": message,
	})
}

func serverError(c *fiber.Ctx, err error) error {
	log.Printf("unexpected error: %v", err)
	return failJSON(c, fiber.StatusInternalServerError, "伺服器錯誤")
}
