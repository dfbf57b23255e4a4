package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/queue"
	"github.com/enablementhq/tracker-api/internal/request"
	"github.com/enablementhq/tracker-api/internal/schedule"
	"github.com/enablementhq/tracker-api/internal/validation"
)

const (
	// MaxTitleLength is the maximum length for activity titles
	MaxTitleLength = 500
	// MaxNotesLength is the maximum length for activity notes
	MaxNotesLength = 10000
	// MaxResources is the maximum number of resources per activity
	MaxResources = 50
)

// ActivityHandler handles activity-related requests
type ActivityHandler struct {
	activityRepo *database.ActivityRepository
	categoryRepo *database.CategoryRepository
	jobQueue     queue.JobQueue
	logger       *zap.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityRepo *database.ActivityRepository, categoryRepo *database.CategoryRepository, jobQueue queue.JobQueue, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityRepo: activityRepo,
		categoryRepo: categoryRepo,
		jobQueue:     jobQueue,
		logger:       logger,
	}
}

// RegisterRoutes registers activity routes on the given router.
// The router should already have the /activities prefix.
func (h *ActivityHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListActivities).Methods("GET")
	r.HandleFunc("", h.CreateActivity).Methods("POST")
	r.HandleFunc("/{id}", h.GetActivity).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateActivity).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteActivity).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteActivity).Methods("POST")
	r.HandleFunc("/{id}/instantiate", h.InstantiateLookup).Methods("POST")
}

// CreateActivityRequest represents a create activity request
type CreateActivityRequest struct {
	Title       string             `json:"title" validate:"required,min=1,max=500"`
	Description string             `json:"description" validate:"max=2000"`
	CategoryID  *uuid.UUID         `json:"category_id,omitempty"`
	Priority    *models.Priority   `json:"priority,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Notes       string             `json:"notes" validate:"max=10000"`
	Cadence     models.Cadence     `json:"cadence,omitempty"`
	Resources   []models.Resource  `json:"resources,omitempty" validate:"max=50,dive"`
	TimeSpent   int                `json:"time_spent" validate:"min=0"`
}

// UpdateActivityRequest represents an update activity request
type UpdateActivityRequest struct {
	Title       *string                `json:"title,omitempty"`
	Description *string                `json:"description,omitempty"`
	CategoryID  *uuid.UUID             `json:"category_id,omitempty"`
	Status      *models.ActivityStatus `json:"status,omitempty"`
	Priority    *models.Priority       `json:"priority,omitempty"`
	DueDate     *time.Time             `json:"due_date,omitempty"`
	Notes       *string                `json:"notes,omitempty"`
	Cadence     *models.Cadence        `json:"cadence,omitempty"`
	Resources   *[]models.Resource     `json:"resources,omitempty"`
	TimeSpent   *int                   `json:"time_spent,omitempty"`
}

// ListActivities lists activities for the authenticated user.
// Optional filters: type, status, category_id.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var activityType *models.ActivityType
	if at := r.URL.Query().Get("type"); at != "" {
		if err := validation.ValidateActivityType(at); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		atEnum := models.ActivityType(at)
		activityType = &atEnum
	}

	var status *models.ActivityStatus
	if s := r.URL.Query().Get("status"); s != "" {
		if err := validation.ValidateActivityStatus(s); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		sEnum := models.ActivityStatus(s)
		status = &sEnum
	}

	var categoryID *uuid.UUID
	if c := r.URL.Query().Get("category_id"); c != "" {
		parsed, err := uuid.Parse(c)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category_id")
			return
		}
		categoryID = &parsed
	}

	activities, err := h.activityRepo.GetByUserID(r.Context(), user.ID, activityType, status, categoryID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}

	if activities == nil {
		activities = []*models.Activity{}
	}

	respondJSON(w, http.StatusOK, activities)
}

// CreateActivity creates a new activity
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	req.Description = validation.SanitizeText(req.Description)
	req.Notes = validation.SanitizeText(req.Notes)

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	if req.Priority != nil {
		if err := validation.ValidatePriority(string(*req.Priority)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
	}

	cadence := req.Cadence
	if cadence == "" {
		cadence = models.CadenceOneTime
	}
	if err := validation.ValidateCadence(string(cadence)); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()

	if req.CategoryID != nil {
		if !h.categoryBelongsToUser(ctx, *req.CategoryID, user.ID) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unknown category")
			return
		}
	}

	activity := &models.Activity{
		ID:          uuid.New(),
		UserID:      user.ID,
		CategoryID:  req.CategoryID,
		Type:        models.ActivityTypeRegular,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ActivityStatusNotStarted,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Notes:       req.Notes,
		Cadence:     cadence,
		Resources:   req.Resources,
		TimeSpent:   req.TimeSpent,
	}

	if err := h.activityRepo.Create(ctx, activity); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create activity")
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// GetActivity retrieves an activity by ID
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	activity, ok := h.ownedActivity(w, r, user.ID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// UpdateActivity updates an existing activity
func (h *ActivityHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	activity, ok := h.ownedActivity(w, r, user.ID)
	if !ok {
		return
	}

	var req UpdateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	ctx := r.Context()

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxTitleLength))
			return
		}
		activity.Title = sanitized
	}
	if req.Description != nil {
		activity.Description = validation.SanitizeText(*req.Description)
	}
	if req.CategoryID != nil {
		if !h.categoryBelongsToUser(ctx, *req.CategoryID, user.ID) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unknown category")
			return
		}
		activity.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		if err := validation.ValidateActivityStatus(string(*req.Status)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		// Completion stamps completed_at; leaving the completed state clears it
		if *req.Status == models.ActivityStatusCompleted && activity.Status != models.ActivityStatusCompleted {
			now := time.Now()
			activity.CompletedAt = &now
		}
		if *req.Status != models.ActivityStatusCompleted {
			activity.CompletedAt = nil
		}
		activity.Status = *req.Status
	}
	if req.Priority != nil {
		if err := validation.ValidatePriority(string(*req.Priority)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		activity.Priority = req.Priority
	}
	if req.DueDate != nil {
		activity.DueDate = req.DueDate
	}
	if req.Notes != nil {
		sanitized := validation.SanitizeText(*req.Notes)
		if len(sanitized) > MaxNotesLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Notes exceed maximum length of %d characters", MaxNotesLength))
			return
		}
		activity.Notes = sanitized
	}
	if req.Cadence != nil {
		if err := validation.ValidateCadence(string(*req.Cadence)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		activity.Cadence = *req.Cadence
	}
	if req.Resources != nil {
		if len(*req.Resources) > MaxResources {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("At most %d resources are allowed", MaxResources))
			return
		}
		activity.Resources = *req.Resources
	}
	if req.TimeSpent != nil {
		if *req.TimeSpent < 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "time_spent cannot be negative")
			return
		}
		activity.TimeSpent = *req.TimeSpent
	}

	if err := h.activityRepo.Update(ctx, activity); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update activity")
		return
	}

	respondJSON(w, http.StatusOK, activity)
}

// DeleteActivity deletes an activity
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	activity, ok := h.ownedActivity(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.activityRepo.Delete(r.Context(), activity.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete activity")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteActivity marks an activity as completed. Completing a recurring
// activity enqueues a job so the worker creates the next instance.
func (h *ActivityHandler) CompleteActivity(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	activity, ok := h.ownedActivity(w, r, user.ID)
	if !ok {
		return
	}

	ctx := r.Context()

	now := time.Now()
	activity.Status = models.ActivityStatusCompleted
	activity.CompletedAt = &now

	if err := h.activityRepo.Update(ctx, activity); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to complete activity")
		return
	}

	if activity.Recurs() {
		job := queue.NewJob(queue.JobTypeRecurrenceAdvance, user.ID, &activity.ID)
		if err := h.jobQueue.Enqueue(ctx, job); err != nil {
			// The sweep picks up anything missed here, so completion still succeeds
			h.logger.Error("failed_to_enqueue_recurrence_job",
				zap.Error(err),
				zap.String("activity_id", activity.ID.String()),
			)
		}
	}

	respondJSON(w, http.StatusOK, activity)
}

// InstantiateLookup creates a real activity from a lookup-schedule template,
// due at the template's next weekly occurrence.
func (h *ActivityHandler) InstantiateLookup(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	template, ok := h.ownedActivity(w, r, user.ID)
	if !ok {
		return
	}

	if !template.IsLookup() {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Activity is not a lookup-schedule template")
		return
	}

	day, timeStr, ok := parseLookupDescription(template.Description)
	if !ok {
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Template description does not contain a day and time")
		return
	}

	due, ok := schedule.NextOccurrence(day, timeStr, time.Now())
	if !ok {
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", "Could not resolve the next occurrence from the template")
		return
	}

	instance := &models.Activity{
		ID:          uuid.New(),
		UserID:      user.ID,
		CategoryID:  template.CategoryID,
		Type:        models.ActivityTypeRegular,
		Title:       template.Title,
		Description: template.Description,
		Status:      models.ActivityStatusNotStarted,
		DueDate:     &due,
		Cadence:     models.CadenceOneTime,
	}

	if err := h.activityRepo.Create(r.Context(), instance); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create activity")
		return
	}

	respondJSON(w, http.StatusCreated, instance)
}

// parseLookupDescription splits a "MONDAY at 05:05 AM" template description
// into its day and time parts.
func parseLookupDescription(description string) (day, timeStr string, ok bool) {
	parts := strings.SplitN(description, " at ", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	day = strings.TrimSpace(parts[0])
	timeStr = strings.TrimSpace(parts[1])
	if day == "" || timeStr == "" {
		return "", "", false
	}
	return day, timeStr, true
}

// ownedActivity loads the {id} path activity and verifies ownership,
// writing the error response itself when the check fails.
func (h *ActivityHandler) ownedActivity(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Activity, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid activity ID")
		return nil, false
	}

	activity, err := h.activityRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Activity not found")
		return nil, false
	}

	if activity.UserID != userID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Activity does not belong to user")
		return nil, false
	}

	return activity, true
}

func (h *ActivityHandler) categoryBelongsToUser(ctx context.Context, categoryID, userID uuid.UUID) bool {
	category, err := h.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return false
	}
	return category.UserID == userID
}
