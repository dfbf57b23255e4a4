package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// ScheduleTemplateRepository handles saved schedule-text templates
type ScheduleTemplateRepository struct {
	db *DB
}

// NewScheduleTemplateRepository creates a new schedule template repository
func NewScheduleTemplateRepository(db *DB) *ScheduleTemplateRepository {
	return &ScheduleTemplateRepository{db: db}
}

// Create saves a new template
func (r *ScheduleTemplateRepository) Create(ctx context.Context, template *models.ScheduleTemplate) error {
	query := `
		INSERT INTO schedule_templates (id, user_id, name, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		template.ID,
		template.UserID,
		template.Name,
		template.Text,
		now,
		now,
	).Scan(&template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create schedule template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *ScheduleTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduleTemplate, error) {
	template := &models.ScheduleTemplate{}

	query := `
		SELECT id, user_id, name, text, created_at, updated_at
		FROM schedule_templates
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID,
		&template.UserID,
		&template.Name,
		&template.Text,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule template not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule template: %w", err)
	}

	return template, nil
}

// GetByUserID retrieves a user's templates, newest first
func (r *ScheduleTemplateRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ScheduleTemplate, error) {
	query := `
		SELECT id, user_id, name, text, created_at, updated_at
		FROM schedule_templates
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.ScheduleTemplate
	for rows.Next() {
		template := &models.ScheduleTemplate{}
		err := rows.Scan(
			&template.ID,
			&template.UserID,
			&template.Name,
			&template.Text,
			&template.CreatedAt,
			&template.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule template: %w", err)
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule templates: %w", err)
	}

	return templates, nil
}

// Update updates a template's name and text
func (r *ScheduleTemplateRepository) Update(ctx context.Context, template *models.ScheduleTemplate) error {
	query := `
		UPDATE schedule_templates
		SET name = $2, text = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		template.ID,
		template.Name,
		template.Text,
		now,
	).Scan(&template.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("schedule template not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update schedule template: %w", err)
	}

	return nil
}

// Delete deletes a template by ID
func (r *ScheduleTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM schedule_templates WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("schedule template not found")
	}

	return nil
}
