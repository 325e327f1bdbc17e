package repository

import (
	"context"
	"fmt"

	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
)

// PaymentRepository answers whether a period's report has been paid for.
type PaymentRepository interface {
	IsPaid(ctx context.Context, companyID, periodID uuid.UUID) (bool, error)
}

type paymentRepository struct {
	db *database.Database
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *database.Database) PaymentRepository {
	return &paymentRepository{db: db}
}

// IsPaid reports whether the period has at least one succeeded payment.
// A period of another company is never paid.
func (r *paymentRepository) IsPaid(ctx context.Context, companyID, periodID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM report_payments p
			JOIN reporting_periods rp ON rp.id = p.reporting_period_id
			WHERE p.reporting_period_id = $1 AND rp.company_id = $2 AND p.status = $3
		)`

	var paid bool
	err := r.db.Pool.QueryRow(ctx, query, periodID, companyID, string(models.PaymentSucceeded)).Scan(&paid)
	if err != nil {
		return false, fmt.Errorf("failed to check payment for period %s: %w", periodID, err)
	}
	return paid, nil
}
