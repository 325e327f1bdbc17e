package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aurixon/api/internal/database"
	"github.com/aurixon/api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CompanyRepository defines read access to tenants.
type CompanyRepository interface {
	// FindByID returns nil, nil if the company does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type companyRepository struct {
	db *database.Database
}

// NewCompanyRepository creates a new instance of CompanyRepository.
func NewCompanyRepository(db *database.Database) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, country, industry, created_at FROM companies WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Country, &c.Industry, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query company %s: %w", id, err)
	}
	return &c, nil
}
