package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/marketplace-api/internal/model"
)

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

// GetByID fetches a category by id. ErrCategoryNotFound is returned when
// no row matches.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	var cat model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, description FROM categories WHERE id=? LIMIT 1",
		id).Scan(&cat.ID, &cat.Name, &cat.Description)
	if err == sql.ErrNoRows {
		return model.Category{}, ErrCategoryNotFound
	}
	return cat, err
}
