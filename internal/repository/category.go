package repository

import (
	"context"
	"fmt"

	"github.com/spendwise/spendwise/internal/model"
)

// ListCategories returns the category reference data ordered by id.
// Categories are seeded by migration and never mutated by the application.
func (r *Repository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}
