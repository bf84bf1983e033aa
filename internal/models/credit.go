package models

import (
	"time"

	"github.com/google/uuid"
)

type CreditPackage struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	CreditAmount int       `json:"credit_amount"`
	Price        int       `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreditPurchase is an immutable snapshot of a package at purchase time.
type CreditPurchase struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	CreditPackageID  uuid.UUID `json:"credit_package_id"`
	PurchasedCredits int       `json:"purchased_credits"`
	PricePaid        int       `json:"price_paid"`
	PurchaseAt       time.Time `json:"purchase_at"`
}

// PurchaseRecord is a purchase joined with its package name for display.
type PurchaseRecord struct {
	PurchasedCredits int       `json:"purchased_credits"`
	PricePaid        int       `json:"price_paid"`
	Name             string    `json:"name"`
	PurchaseAt       time.Time `json:"purchase_at"`
}
