package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// ActivityRepository handles activity database operations
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, user_id, category_id, type, title, description, status, priority,
	due_date, completed_at, notes, cadence, resources, studio, time_of_day, time_spent,
	created_at, updated_at`

// Create creates a new activity
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (id, user_id, category_id, type, title, description, status, priority,
			due_date, completed_at, notes, cadence, resources, studio, time_of_day, time_spent,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	resourcesJSON, err := marshalResources(activity.Resources)
	if err != nil {
		return err
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.CategoryID,
		activity.Type,
		activity.Title,
		activity.Description,
		activity.Status,
		activity.Priority,
		activity.DueDate,
		activity.CompletedAt,
		activity.Notes,
		activity.Cadence,
		resourcesJSON,
		activity.Studio,
		activity.TimeOfDay,
		activity.TimeSpent,
		now,
		now,
	).Scan(&activity.CreatedAt, &activity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// GetByID retrieves an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE id = $1`, activityColumns)

	activity, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	return activity, nil
}

// GetByUserID retrieves a user's activities, optionally filtered by type,
// status, and category
func (r *ActivityRepository) GetByUserID(ctx context.Context, userID uuid.UUID, activityType *models.ActivityType, status *models.ActivityStatus, categoryID *uuid.UUID) ([]*models.Activity, error) {
	query := fmt.Sprintf(`SELECT %s FROM activities WHERE user_id = $1`, activityColumns)
	args := []any{userID}
	argIndex := 2

	if activityType != nil {
		query += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, string(*activityType))
		argIndex++
	}

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(*status))
		argIndex++
	}

	if categoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIndex)
		args = append(args, *categoryID)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// Update updates an existing activity
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	query := `
		UPDATE activities
		SET category_id = $2, type = $3, title = $4, description = $5, status = $6, priority = $7,
			due_date = $8, completed_at = $9, notes = $10, cadence = $11, resources = $12,
			studio = $13, time_of_day = $14, time_spent = $15, updated_at = $16
		WHERE id = $1
		RETURNING updated_at
	`

	resourcesJSON, err := marshalResources(activity.Resources)
	if err != nil {
		return err
	}

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		activity.ID,
		activity.CategoryID,
		activity.Type,
		activity.Title,
		activity.Description,
		activity.Status,
		activity.Priority,
		activity.DueDate,
		activity.CompletedAt,
		activity.Notes,
		activity.Cadence,
		resourcesJSON,
		activity.Studio,
		activity.TimeOfDay,
		activity.TimeSpent,
		now,
	).Scan(&activity.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("activity not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	return nil
}

// Delete deletes an activity by ID
func (r *ActivityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM activities WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("activity not found")
	}

	return nil
}

// DeleteByCategoryID deletes all activities in a category and returns the
// number removed. Used by the cascade path of category deletion.
func (r *ActivityRepository) DeleteByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	query := `DELETE FROM activities WHERE category_id = $1`

	result, err := r.db.ExecContext(ctx, query, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete activities by category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetRecurringCompleted returns a user's completed activities whose cadence
// schedules another instance. The worker advances these.
func (r *ActivityRepository) GetRecurringCompleted(ctx context.Context, userID uuid.UUID) ([]*models.Activity, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activities
		WHERE user_id = $1 AND status = 'completed' AND cadence IN ('daily', 'weekly', 'monthly')
		ORDER BY created_at ASC
	`, activityColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring activities: %w", err)
	}

	return activities, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	activity := &models.Activity{}
	var (
		categoryID    *uuid.UUID
		priority      sql.NullString
		dueDate       sql.NullTime
		completedAt   sql.NullTime
		resourcesJSON []byte
	)

	err := row.Scan(
		&activity.ID,
		&activity.UserID,
		&categoryID,
		&activity.Type,
		&activity.Title,
		&activity.Description,
		&activity.Status,
		&priority,
		&dueDate,
		&completedAt,
		&activity.Notes,
		&activity.Cadence,
		&resourcesJSON,
		&activity.Studio,
		&activity.TimeOfDay,
		&activity.TimeSpent,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	activity.CategoryID = categoryID
	if priority.Valid {
		p := models.Priority(priority.String)
		activity.Priority = &p
	}
	if dueDate.Valid {
		activity.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		activity.CompletedAt = &completedAt.Time
	}

	if err := json.Unmarshal(resourcesJSON, &activity.Resources); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resources: %w", err)
	}

	return activity, nil
}

func marshalResources(resources []models.Resource) ([]byte, error) {
	if resources == nil {
		resources = []models.Resource{}
	}
	data, err := json.Marshal(resources)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resources: %w", err)
	}
	return data, nil
}
