package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ArvinYang1925/fitness-booking-backend/internal/models"
)

type CreditPackageRepository struct {
	db DBTX
}

func NewCreditPackageRepository(db DBTX) *CreditPackageRepository {
	return &CreditPackageRepository{db: db}
}

func (r *CreditPackageRepository) List(ctx context.Context) ([]models.CreditPackage, error) {
	query := `
		SELECT id, name, credit_amount, price, created_at
		FROM credit_packages
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]models.CreditPackage, 0)
	for rows.Next() {
		var pkg models.CreditPackage
		if err := rows.Scan(&pkg.ID, &pkg.Name, &pkg.CreditAmount, &pkg.Price, &pkg.CreatedAt); err != nil {
			return nil, err
		}
		packages = append(packages, pkg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *CreditPackageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CreditPackage, error) {
	query := `
		SELECT id, name, credit_amount, price, created_at
		FROM credit_packages
		WHERE id = $1
	`
	var pkg models.CreditPackage
	err := r.db.QueryRow(ctx, query, id).Scan(&pkg.ID, &pkg.Name, &pkg.CreditAmount, &pkg.Price, &pkg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *CreditPackageRepository) GetByName(ctx context.Context, name string) (*models.CreditPackage, error) {
	query := `
		SELECT id, name, credit_amount, price, created_at
		FROM credit_packages
		WHERE name = $1
	`
	var pkg models.CreditPackage
	err := r.db.QueryRow(ctx, query, name).Scan(&pkg.ID, &pkg.Name, &pkg.CreditAmount, &pkg.Price, &pkg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *CreditPackageRepository) Create(ctx context.Context, name string, creditAmount, price int) (*models.CreditPackage, error) {
	query := `
		INSERT INTO credit_packages (name, credit_amount, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, credit_amount, price, created_at
	`
	var pkg models.CreditPackage
	err := r.db.QueryRow(ctx, query, name, creditAmount, price).
		Scan(&pkg.ID, &pkg.Name, &pkg.CreditAmount, &pkg.Price, &pkg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *CreditPackageRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM credit_packages WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SumPricing totals every package's price and credit amount. The revenue
// figure is derived from this single global average, not from each
// purchase's own package.
func (r *CreditPackageRepository) SumPricing(ctx context.Context) (totalPrice, totalCredits int64, err error) {
	query := `
		SELECT COALESCE(SUM(price), 0), COALESCE(SUM(credit_amount), 0)
		FROM credit_packages
	`
	err = r.db.QueryRow(ctx, query).Scan(&totalPrice, &totalCredits)
	return totalPrice, totalCredits, err
}
