package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/middleware"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
	"github.com/ArvinYang1925/fitness-booking-backend/pkg/utils"
)

type creditPackageStore interface {
	List(ctx context.Context) ([]models.CreditPackage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CreditPackage, error)
	GetByName(ctx context.Context, name string) (*models.CreditPackage, error)
	Create(ctx context.Context, name string, creditAmount, price int) (*models.CreditPackage, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type purchaseWriter interface {
	Create(ctx context.Context, input repository.CreatePurchaseInput) (*models.CreditPurchase, error)
}

type CreditPackageHandler struct {
	packages  creditPackageStore
	purchases purchaseWriter
}

func NewCreditPackageHandler(packages creditPackageStore, purchases purchaseWriter) *CreditPackageHandler {
	return &CreditPackageHandler{packages: packages, purchases: purchases}
}

type createCreditPackageRequest struct {
	Name         *string `json:"name"`
	CreditAmount *int    `json:"credit_amount"`
	Price        *int    `json:"price"`
}

func (h *CreditPackageHandler) List(c *fiber.Ctx) error {
	packages, err := h.packages.List(c.Context())
	if err != nil {
		return serverError(c, err)
	}
	return successJSON(c, fiber.StatusOK, packages)
}

func (h *CreditPackageHandler) Create(c *fiber.Ctx) error {
	var req createCreditPackageRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}
	if utils.IsUndefined(req.Name) || utils.IsNotValidString(req.Name) ||
		utils.IsUndefined(req.CreditAmount) || utils.IsNotValidInteger(req.CreditAmount) ||
		utils.IsUndefined(req.Price) || utils.IsNotValidInteger(req.Price) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	if _, err := h.packages.GetByName(c.Context(), *req.Name); err == nil {
		return failJSON(c, fiber.StatusConflict, "資料重複")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return serverError(c, err)
	}

	pkg, err := h.packages.Create(c.Context(), *req.Name, *req.CreditAmount, *req.Price)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return failJSON(c, fiber.StatusConflict, "資料重複")
		}
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, pkg)
}

func (h *CreditPackageHandler) Delete(c *fiber.Ctx) error {
	creditPackageID := c.Params("creditPackageId")
	if utils.IsNotValidUUID(creditPackageID) {
		return failJSON(c, fiber.StatusBadRequest, "欄位未填寫正確")
	}

	affected, err := h.packages.Delete(c.Context(), uuid.MustParse(creditPackageID))
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

// Purchase snapshots the package's current credits and price into an
// immutable purchase row for the authenticated user.
func (h *CreditPackageHandler) Purchase(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	creditPackageID := c.Params("creditPackageId")
	if utils.IsNotValidUUID(creditPackageID) {
		return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
	}

	pkg, err := h.packages.GetByID(c.Context(), uuid.MustParse(creditPackageID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return failJSON(c, fiber.StatusBadRequest, "ID錯誤")
		}
		return serverError(c, err)
	}

	if _, err := h.purchases.Create(c.Context(), repository.CreatePurchaseInput{
		UserID:           user.ID,
		CreditPackageID:  pkg.ID,
		PurchasedCredits: pkg.CreditAmount,
		PricePaid:        pkg.Price,
	}); err != nil {
		return serverError(c, err)
	}

	return successJSON(c, fiber.StatusOK, nil)
}
