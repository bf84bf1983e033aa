package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
	"github.com/ArvinYang1925/fitness-booking-backend/internal/repository"
)

type stubCreditPackageStore struct {
	packages       []models.CreditPackage
	byID           *models.CreditPackage
	byName         *models.CreditPackage
	deleteAffected int64
}

func (s *stubCreditPackageStore) List(context.Context) ([]models.CreditPackage, error) {
	return s.packages, nil
}

func (s *stubCreditPackageStore) GetByID(_ context.Context, id uuid.UUID) (*models.CreditPackage, error) {
	if s.byID != nil && s.byID.ID == id {
		return s.byID, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubCreditPackageStore) GetByName(_ context.Context, name string) (*models.CreditPackage, error) {
	if s.byName != nil && s.byName.Name == name {
		return s.byName, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubCreditPackageStore) Create(_ context.Context, name string, creditAmount, price int) (*models.CreditPackage, error) {
	return &models.CreditPackage{ID: uuid.New(), Name: name, CreditAmount: creditAmount, Price: price}, nil
}

func (s *stubCreditPackageStore) Delete(context.Context, uuid.UUID) (int64, error) {
	return s.deleteAffected, nil
}

type stubPurchaseWriter struct {
	created *repository.CreatePurchaseInput
}

func (s *stubPurchaseWriter) Create(_ context.Context, input repository.CreatePurchaseInput) (*models.CreditPurchase, error) {
	s.created = &input
	return &models.CreditPurchase{ID: uuid.New(), UserID: input.UserID}, nil
}

func newCreditPackageApp(handler *CreditPackageHandler, user *models.User) *fiber.App {
	app := fiber.New()
	app.Get("/api/credit-package", handler.List)
	app.Post("/api/credit-package", handler.Create)
	app.Use(injectUser(user))
	app.Post("/api/credit-package/:creditPackageId", handler.Purchase)
	app.Delete("/api/credit-package/:creditPackageId", handler.Delete)
	return app
}

func TestCreateCreditPackageValidatesFields(t *testing.T) {
	handler := NewCreditPackageHandler(&stubCreditPackageStore{}, &stubPurchaseWriter{})
	app := newCreditPackageApp(handler, nil)

	for _, body := range []fiber.Map{
		{"credit_amount": 7, "price": 1400},
		{"name": "7 堂組合包方案", "credit_amount": -1, "price": 1400},
		{"name": "7 堂組合包方案", "credit_amount": 7},
	} {
		status, resp := doJSON(t, app, http.MethodPost, "/api/credit-package", body)
		if status != fiber.StatusBadRequest {
			t.Fatalf("body %v: expected 400, got %d", body, status)
		}
		if resp.Message != "欄位未填寫正確" {
			t.Fatalf("body %v: unexpected message %q", body, resp.Message)
		}
	}
}

func TestCreateCreditPackageRejectsDuplicateName(t *testing.T) {
	store := &stubCreditPackageStore{byName: &models.CreditPackage{ID: uuid.New(), Name: "7 堂組合包方案"}}
	handler := NewCreditPackageHandler(store, &stubPurchaseWriter{})
	app := newCreditPackageApp(handler, nil)

	status, resp := doJSON(t, app, http.MethodPost, "/api/credit-package", fiber.Map{
		"name": "7 堂組合包方案", "credit_amount": 7, "price": 1400,
	})
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if resp.Message != "資料重複" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCreateCreditPackageSucceeds(t *testing.T) {
	handler := NewCreditPackageHandler(&stubCreditPackageStore{}, &stubPurchaseWriter{})
	app := newCreditPackageApp(handler, nil)

	status, resp := doJSON(t, app, http.MethodPost, "/api/credit-package", fiber.Map{
		"name": "14 堂組合包方案", "credit_amount": 14, "price": 2520,
	})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.Status != "success" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
}

func TestDeleteCreditPackageValidatesID(t *testing.T) {
	handler := NewCreditPackageHandler(&stubCreditPackageStore{deleteAffected: 1}, &stubPurchaseWriter{})
	app := newCreditPackageApp(handler, nil)

	status, resp := doJSON(t, app, http.MethodDelete, "/api/credit-package/not-a-uuid", nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "欄位未填寫正確" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestDeleteCreditPackageReportsMissingRow(t *testing.T) {
	handler := NewCreditPackageHandler(&stubCreditPackageStore{deleteAffected: 0}, &stubPurchaseWriter{})
	app := newCreditPackageApp(handler, nil)

	status, resp := doJSON(t, app, http.MethodDelete, "/api/credit-package/"+uuid.NewString(), nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "ID錯誤" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestPurchaseRejectsUnknownPackage(t *testing.T) {
	handler := NewCreditPackageHandler(&stubCreditPackageStore{}, &stubPurchaseWriter{})
	app := newCreditPackageApp(handler, &models.User{ID: uuid.New()})

	status, resp := doJSON(t, app, http.MethodPost, "/api/credit-package/"+uuid.NewString(), nil)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if resp.Message != "ID錯誤" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestPurchaseSnapshotsPackagePricing(t *testing.T) {
	pkg := &models.CreditPackage{ID: uuid.New(), Name: "7 堂組合包方案", CreditAmount: 7, Price: 1400}
	writer := &stubPurchaseWriter{}
	handler := NewCreditPackageHandler(&stubCreditPackageStore{byID: pkg}, writer)
	user := &models.User{ID: uuid.New()}
	app := newCreditPackageApp(handler, user)

	status, resp := doJSON(t, app, http.MethodPost, "/api/credit-package/"+pkg.ID.String(), nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.Status != "success" {
		t.Fatalf("unexpected status %q", resp.Status)
	}
	if writer.created == nil {
		t.Fatalf("expected a purchase row")
	}
	if writer.created.UserID != user.ID || writer.created.CreditPackageID != pkg.ID {
		t.Fatalf("unexpected purchase input %+v", writer.created)
	}
	if writer.created.PurchasedCredits != 7 || writer.created.PricePaid != 1400 {
		t.Fatalf("expected pricing snapshot, got %+v", writer.created)
	}
}
