package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/models"
)

// ActivityRepositoryInterface defines the interface for activity repository operations
// This interface enables better testability by allowing mock implementations
type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, activityType *models.ActivityType, status *models.ActivityStatus, categoryID *uuid.UUID) ([]*models.Activity, error)
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error)
	GetRecurringCompleted(ctx context.Context, userID uuid.UUID) ([]*models.Activity, error)
}

// CategoryRepositoryInterface defines the interface for category repository operations
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScheduleTemplateRepositoryInterface defines the interface for schedule template operations
type ScheduleTemplateRepositoryInterface interface {
	Create(ctx context.Context, template *models.ScheduleTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduleTemplate, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ScheduleTemplate, error)
	Update(ctx context.Context, template *models.ScheduleTemplate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error
	GetActiveSince(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

// Ensure concrete types implement the interfaces
var (
	_ ActivityRepositoryInterface         = (*ActivityRepository)(nil)
	_ CategoryRepositoryInterface         = (*CategoryRepository)(nil)
	_ ScheduleTemplateRepositoryInterface = (*ScheduleTemplateRepository)(nil)
	_ UserRepositoryInterface             = (*UserRepository)(nil)
)
