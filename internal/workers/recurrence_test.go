package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/queue"
	"github.com/enablementhq/tracker-api/internal/schedule"
)

// mockActivityRepo is a mock implementation of ActivityRepositoryInterface
type mockActivityRepo struct {
	getByIDFunc               func(ctx context.Context, id uuid.UUID) (*models.Activity, error)
	createFunc                func(ctx context.Context, activity *models.Activity) error
	updateFunc                func(ctx context.Context, activity *models.Activity) error
	getRecurringCompletedFunc func(ctx context.Context, userID uuid.UUID) ([]*models.Activity, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, activity)
	}
	return nil
}

func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, errors.New("not found")
}

func (m *mockActivityRepo) GetByUserID(ctx context.Context, userID uuid.UUID, activityType *models.ActivityType, status *models.ActivityStatus, categoryID *uuid.UUID) ([]*models.Activity, error) {
	return nil, nil
}

func (m *mockActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, activity)
	}
	return nil
}

func (m *mockActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockActivityRepo) DeleteByCategoryID(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return 0, nil
}

func (m *mockActivityRepo) GetRecurringCompleted(ctx context.Context, userID uuid.UUID) ([]*models.Activity, error) {
	if m.getRecurringCompletedFunc != nil {
		return m.getRecurringCompletedFunc(ctx, userID)
	}
	return nil, nil
}

var _ database.ActivityRepositoryInterface = (*mockActivityRepo)(nil)

// mockUserRepo is a mock implementation of UserRepositoryInterface
type mockUserRepo struct {
	getActiveSinceFunc func(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetByProviderID(ctx context.Context, providerID string) (*models.User, error) {
	return nil, errors.New("not found")
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (m *mockUserRepo) TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

func (m *mockUserRepo) GetActiveSince(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	if m.getActiveSinceFunc != nil {
		return m.getActiveSinceFunc(ctx, cutoff)
	}
	return nil, nil
}

var _ database.UserRepositoryInterface = (*mockUserRepo)(nil)

func completedWeeklyActivity(userID uuid.UUID) *models.Activity {
	due := time.Now().Add(-48 * time.Hour)
	completed := time.Now().Add(-1 * time.Hour)
	prio := models.PriorityImportant
	return &models.Activity{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        models.ActivityTypeRegular,
		Title:       "Weekly review",
		Status:      models.ActivityStatusCompleted,
		Priority:    &prio,
		DueDate:     &due,
		Cadence:     models.CadenceWeekly,
		CompletedAt: &completed,
	}
}

func TestProcessAdvanceJob_CreatesSuccessor(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	activity := completedWeeklyActivity(userID)

	var created *models.Activity
	var updated *models.Activity
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
			if id != activity.ID {
				return nil, errors.New("not found")
			}
			return activity, nil
		},
		createFunc: func(ctx context.Context, a *models.Activity) error {
			created = a
			return nil
		},
		updateFunc: func(ctx context.Context, a *models.Activity) error {
			updated = a
			return nil
		},
	}

	advancer := NewRecurrenceAdvancer(activityRepo, &mockUserRepo{}, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceAdvance, userID, &activity.ID)
	if err := advancer.ProcessAdvanceJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessAdvanceJob failed: %v", err)
	}

	if created == nil {
		t.Fatal("Expected a successor activity to be created")
	}
	if created.ID == activity.ID {
		t.Error("Successor must get a new ID")
	}
	if created.Status != models.ActivityStatusNotStarted {
		t.Errorf("Expected successor status %s, got %s", models.ActivityStatusNotStarted, created.Status)
	}
	if created.Cadence != models.CadenceWeekly {
		t.Errorf("Expected successor cadence %s, got %s", models.CadenceWeekly, created.Cadence)
	}
	if created.Title != activity.Title {
		t.Errorf("Expected successor title %q, got %q", activity.Title, created.Title)
	}
	if created.Priority == nil || *created.Priority != models.PriorityImportant {
		t.Error("Expected successor to carry the priority over")
	}
	if created.DueDate == nil {
		t.Fatal("Expected successor to have a due date")
	}
	if !created.DueDate.After(time.Now()) {
		t.Errorf("Expected successor due date in the future, got %v", created.DueDate)
	}

	if updated == nil {
		t.Fatal("Expected completed activity to be updated")
	}
	if updated.Cadence != models.CadenceOneTime {
		t.Errorf("Expected retired activity cadence %s, got %s", models.CadenceOneTime, updated.Cadence)
	}
	if updated.Status != models.ActivityStatusCompleted {
		t.Errorf("Retired activity must stay completed, got %s", updated.Status)
	}
}

func TestProcessAdvanceJob_RequiresActivityID(t *testing.T) {
	t.Parallel()

	advancer := NewRecurrenceAdvancer(&mockActivityRepo{}, &mockUserRepo{}, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceAdvance, uuid.New(), nil)
	if err := advancer.ProcessAdvanceJob(context.Background(), job); err == nil {
		t.Error("Expected error for job without activity_id")
	}
}

func TestProcessAdvanceJob_WrongUser(t *testing.T) {
	t.Parallel()

	activity := completedWeeklyActivity(uuid.New())

	created := false
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
			return activity, nil
		},
		createFunc: func(ctx context.Context, a *models.Activity) error {
			created = true
			return nil
		},
	}

	advancer := NewRecurrenceAdvancer(activityRepo, &mockUserRepo{}, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceAdvance, uuid.New(), &activity.ID)
	if err := advancer.ProcessAdvanceJob(context.Background(), job); err == nil {
		t.Error("Expected error when activity belongs to a different user")
	}
	if created {
		t.Error("No successor should be created for a mismatched user")
	}
}

func TestProcessAdvanceJob_SkipsUncompletedActivity(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	activity := completedWeeklyActivity(userID)
	activity.Status = models.ActivityStatusInProgress
	activity.CompletedAt = nil

	created := false
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
			return activity, nil
		},
		createFunc: func(ctx context.Context, a *models.Activity) error {
			created = true
			return nil
		},
	}

	advancer := NewRecurrenceAdvancer(activityRepo, &mockUserRepo{}, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceAdvance, userID, &activity.ID)
	if err := advancer.ProcessAdvanceJob(context.Background(), job); err != nil {
		t.Fatalf("Expected nil error for uncompleted activity, got %v", err)
	}
	if created {
		t.Error("No successor should be created for an uncompleted activity")
	}
}

func TestProcessAdvanceJob_SkipsOneTimeActivity(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	activity := completedWeeklyActivity(userID)
	activity.Cadence = models.CadenceOneTime

	created := false
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
			return activity, nil
		},
		createFunc: func(ctx context.Context, a *models.Activity) error {
			created = true
			return nil
		},
	}

	advancer := NewRecurrenceAdvancer(activityRepo, &mockUserRepo{}, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceAdvance, userID, &activity.ID)
	if err := advancer.ProcessAdvanceJob(context.Background(), job); err != nil {
		t.Fatalf("Expected nil error for one-time activity, got %v", err)
	}
	if created {
		t.Error("One-time activities must never be advanced")
	}
}

func TestProcessSweepJob_AdvancesActiveUsers(t *testing.T) {
	t.Parallel()

	userA := uuid.New()
	userB := uuid.New()

	userRepo := &mockUserRepo{
		getActiveSinceFunc: func(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
			if time.Until(cutoff) > 0 {
				t.Errorf("Sweep cutoff should be in the past, got %v", cutoff)
			}
			return []uuid.UUID{userA, userB}, nil
		},
	}

	createdPerUser := map[uuid.UUID]int{}
	activityRepo := &mockActivityRepo{
		getRecurringCompletedFunc: func(ctx context.Context, userID uuid.UUID) ([]*models.Activity, error) {
			switch userID {
			case userA:
				return []*models.Activity{completedWeeklyActivity(userA), completedWeeklyActivity(userA)}, nil
			case userB:
				return []*models.Activity{completedWeeklyActivity(userB)}, nil
			}
			return nil, nil
		},
		createFunc: func(ctx context.Context, a *models.Activity) error {
			createdPerUser[a.UserID]++
			return nil
		},
	}

	advancer := NewRecurrenceAdvancer(activityRepo, userRepo, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceSweep, uuid.Nil, nil)
	if err := advancer.ProcessSweepJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessSweepJob failed: %v", err)
	}

	if createdPerUser[userA] != 2 {
		t.Errorf("Expected 2 successors for first user, got %d", createdPerUser[userA])
	}
	if createdPerUser[userB] != 1 {
		t.Errorf("Expected 1 successor for second user, got %d", createdPerUser[userB])
	}
}

func TestProcessSweepJob_UserListFailure(t *testing.T) {
	t.Parallel()

	userRepo := &mockUserRepo{
		getActiveSinceFunc: func(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
			return nil, errors.New("connection refused")
		},
	}

	advancer := NewRecurrenceAdvancer(&mockActivityRepo{}, userRepo, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceSweep, uuid.Nil, nil)
	if err := advancer.ProcessSweepJob(context.Background(), job); err == nil {
		t.Error("Expected error when the active user query fails")
	}
}

func TestAdvance_NextDueDateMatchesSchedule(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	activity := completedWeeklyActivity(userID)

	want, ok := schedule.NextDueDate(activity.DueDate, activity.Cadence, time.Now())
	if !ok {
		t.Fatal("Expected weekly cadence to produce a next due date")
	}

	var created *models.Activity
	activityRepo := &mockActivityRepo{
		getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
			return activity, nil
		},
		createFunc: func(ctx context.Context, a *models.Activity) error {
			created = a
			return nil
		},
	}

	advancer := NewRecurrenceAdvancer(activityRepo, &mockUserRepo{}, 72*time.Hour)

	job := queue.NewJob(queue.JobTypeRecurrenceAdvance, userID, &activity.ID)
	if err := advancer.ProcessAdvanceJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessAdvanceJob failed: %v", err)
	}

	if created == nil || created.DueDate == nil {
		t.Fatal("Expected successor with a due date")
	}
	if !created.DueDate.Equal(want) {
		t.Errorf("Expected successor due %v, got %v", want, created.DueDate)
	}
}
