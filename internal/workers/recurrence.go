package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/queue"
	"github.com/enablementhq/tracker-api/internal/schedule"
)

// RecurrenceAdvancer processes recurrence jobs: it turns a completed
// recurring activity into its next instance.
type RecurrenceAdvancer struct {
	activityRepo database.ActivityRepositoryInterface
	userRepo     database.UserRepositoryInterface
	sweepWindow  time.Duration
}

// NewRecurrenceAdvancer creates a new recurrence advancer
func NewRecurrenceAdvancer(
	activityRepo database.ActivityRepositoryInterface,
	userRepo database.UserRepositoryInterface,
	sweepWindow time.Duration,
) *RecurrenceAdvancer {
	return &RecurrenceAdvancer{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		sweepWindow:  sweepWindow,
	}
}

// ProcessAdvanceJob advances one completed recurring activity.
//
// The completed record is kept as history: its cadence is flipped to
// one-time and a successor activity carries the recurrence forward. The
// flip also makes the job idempotent, since the sweep query only picks up
// completed activities whose cadence still recurs.
func (a *RecurrenceAdvancer) ProcessAdvanceJob(ctx context.Context, job *queue.Job) error {
	if job.ActivityID == nil {
		return fmt.Errorf("activity_id is required for recurrence advance job")
	}

	activity, err := a.activityRepo.GetByID(ctx, *job.ActivityID)
	if err != nil {
		return fmt.Errorf("failed to get activity: %w", err)
	}

	if activity.UserID != job.UserID {
		return fmt.Errorf("activity does not belong to user")
	}

	if activity.Status != models.ActivityStatusCompleted || !activity.Recurs() {
		// Already advanced, or un-completed since the job was enqueued
		log.Printf("Activity %s needs no advancement (status=%s, cadence=%s)", activity.ID, activity.Status, activity.Cadence)
		return nil
	}

	if _, err := a.advance(ctx, activity); err != nil {
		return err
	}
	return nil
}

// ProcessSweepJob advances every completed recurring activity of users who
// were active inside the sweep window. It backstops advance jobs lost to
// broker or enqueue failures.
func (a *RecurrenceAdvancer) ProcessSweepJob(ctx context.Context, job *queue.Job) error {
	cutoff := time.Now().Add(-a.sweepWindow)
	userIDs, err := a.userRepo.GetActiveSince(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	advanced := 0
	for _, userID := range userIDs {
		activities, err := a.activityRepo.GetRecurringCompleted(ctx, userID)
		if err != nil {
			log.Printf("Sweep: failed to load recurring activities for user %s: %v", userID, err)
			continue
		}
		for _, activity := range activities {
			if _, err := a.advance(ctx, activity); err != nil {
				log.Printf("Sweep: failed to advance activity %s: %v", activity.ID, err)
				continue
			}
			advanced++
		}
	}

	log.Printf("Sweep complete: %d users scanned, %d activities advanced", len(userIDs), advanced)
	return nil
}

// advance creates the successor activity and retires the completed one
func (a *RecurrenceAdvancer) advance(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	next, ok := schedule.NextDueDate(activity.DueDate, activity.Cadence, time.Now())
	if !ok {
		return nil, fmt.Errorf("cadence %s does not schedule a next instance", activity.Cadence)
	}

	successor := &models.Activity{
		ID:          uuid.New(),
		UserID:      activity.UserID,
		CategoryID:  activity.CategoryID,
		Type:        activity.Type,
		Title:       activity.Title,
		Description: activity.Description,
		Status:      models.ActivityStatusNotStarted,
		Priority:    activity.Priority,
		DueDate:     &next,
		Notes:       activity.Notes,
		Cadence:     activity.Cadence,
		Resources:   activity.Resources,
		Studio:      activity.Studio,
		TimeOfDay:   activity.TimeOfDay,
	}

	if err := a.activityRepo.Create(ctx, successor); err != nil {
		return nil, fmt.Errorf("failed to create next instance: %w", err)
	}

	activity.Cadence = models.CadenceOneTime
	if err := a.activityRepo.Update(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to retire completed instance: %w", err)
	}

	log.Printf("Advanced activity %s -> %s (due %s)", activity.ID, successor.ID, next.Format(time.RFC3339))
	return successor, nil
}

// ProcessJob processes a job based on its type
func (a *RecurrenceAdvancer) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	// Check if job should be processed now (respect NotBefore)
	if !job.ShouldProcess() {
		log.Printf("Job %s not ready yet (NotBefore: %v), skipping", job.ID, job.NotBefore)
		if ackErr := msg.Ack(); ackErr != nil {
			log.Printf("Failed to ack job for later processing: %v", ackErr)
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeRecurrenceAdvance:
		if err := a.ProcessAdvanceJob(ctx, job); err != nil {
			return a.handleJobError(msg, job, err, "recurrence advance")
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeRecurrenceSweep:
		if err := a.ProcessSweepJob(ctx, job); err != nil {
			// The next scheduled sweep covers anything this one missed
			if nackErr := msg.Nack(false); nackErr != nil {
				log.Printf("Failed to nack sweep job: %v", nackErr)
			}
			return fmt.Errorf("sweep failed: %w", err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack sweep job: %w", ackErr)
		}
		return nil

	default:
		if nackErr := msg.Nack(false); nackErr != nil { // Unknown job type, send to DLQ
			log.Printf("Failed to nack unknown job type: %v", nackErr)
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError applies the standard retry logic
func (a *RecurrenceAdvancer) handleJobError(msg *queue.Message, job *queue.Job, err error, jobType string) error {
	if job.CanRetry() {
		job.IncrementRetry()
		log.Printf("%s job %s failed (attempt %d/%d): %v, will retry", jobType, job.ID, job.RetryCount, job.MaxRetries, err)
		if nackErr := msg.Nack(true); nackErr != nil {
			log.Printf("Failed to nack job: %v", nackErr)
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	// Max retries exceeded, send to DLQ
	log.Printf("%s job %s failed after %d retries: %v, sending to DLQ", jobType, job.ID, job.MaxRetries, err)
	if nackErr := msg.Nack(false); nackErr != nil {
		log.Printf("Failed to nack job to DLQ: %v", nackErr)
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
