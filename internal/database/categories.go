package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category. When no color is supplied, the next
// palette color is assigned by the user's current category count.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.Color == "" {
		count, err := r.CountByUserID(ctx, category.UserID)
		if err != nil {
			return err
		}
		category.Color = models.ColorForIndex(count)
	}

	query := `
		INSERT INTO categories (id, user_id, name, description, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Description,
		category.Color,
		now,
		now,
	).Scan(&category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}

	query := `
		SELECT id, user_id, name, description, color, created_at, updated_at
		FROM categories
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Description,
		&category.Color,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// GetByUserID retrieves all categories for a user in creation order
func (r *CategoryRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.Description,
			&category.Color,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetByName retrieves a user's category by exact name
func (r *CategoryRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	category := &models.Category{}

	query := `
		SELECT id, user_id, name, description, color, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND name = $2
	`

	err := r.db.QueryRowContext(ctx, query, userID, name).Scan(
		&category.ID,
		&category.UserID,
		&category.Name,
		&category.Description,
		&category.Color,
		&category.CreatedAt,
		&category.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// CountByUserID counts a user's categories
func (r *CategoryRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM categories WHERE user_id = $1`

	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return count, nil
}

// Update updates an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, color = $4, updated_at = $5
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.Color,
		now,
	).Scan(&category.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("category not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return nil
}

// Delete deletes a category. Activities keep existing with their
// category reference cleared by the schema's ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("category not found")
	}

	return nil
}
