package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type CreatePurchaseInput struct {
	UserID           uuid.UUID
	CreditPackageID  uuid.UUID
	PurchasedCredits int
	PricePaid        int
}

type CreditPurchaseRepository struct {
	db DBTX
}

func NewCreditPurchaseRepository(db DBTX) *CreditPurchaseRepository {
	return &CreditPurchaseRepository{db: db}
}

func (r *CreditPurchaseRepository) Create(ctx context.Context, input CreatePurchaseInput) (*models.CreditPurchase, error) {
	query := `
		INSERT INTO credit_purchases (user_id, credit_package_id, purchased_credits, price_paid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, credit_package_id, purchased_credits, price_paid, purchase_at
	`
	var purchase models.CreditPurchase
	err := r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.CreditPackageID,
		input.PurchasedCredits,
		input.PricePaid,
	).Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.CreditPackageID,
		&purchase.PurchasedCredits,
		&purchase.PricePaid,
		&purchase.PurchaseAt,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *CreditPurchaseRepository) SumPurchasedCredits(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(purchased_credits), 0)
		FROM credit_purchases
		WHERE user_id = $1
	`
	var total int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *CreditPurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PurchaseRecord, error) {
	query := `
		SELECT cp.purchased_credits, cp.price_paid, pkg.name, cp.purchase_at
		FROM credit_purchases cp
		JOIN credit_packages pkg ON pkg.id = cp.credit_package_id
		WHERE cp.user_id = $1
		ORDER BY cp.purchase_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.PurchaseRecord, 0)
	for rows.Next() {
		var record models.PurchaseRecord
		if err := rows.Scan(&record.PurchasedCredits, &record.PricePaid, &record.Name, &record.PurchaseAt); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
