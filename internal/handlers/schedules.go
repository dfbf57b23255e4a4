package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/enablementhq/tracker-api/internal/cache"
	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/request"
	"github.com/enablementhq/tracker-api/internal/schedule"
	"github.com/enablementhq/tracker-api/internal/validation"
)

// ClassesCategoryName is the category lookup templates are filed under.
// It is created on first import if the user doesn't have it yet.
const ClassesCategoryName = "Classes"

// MaxScheduleTextLength caps pasted schedule blobs
const MaxScheduleTextLength = 50000

// ScheduleHandler handles schedule-text parsing, imports, and saved templates
type ScheduleHandler struct {
	activityRepo  *database.ActivityRepository
	categoryRepo  *database.CategoryRepository
	templateRepo  *database.ScheduleTemplateRepository
	categoryCache *cache.CategoryCache
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(activityRepo *database.ActivityRepository, categoryRepo *database.CategoryRepository, templateRepo *database.ScheduleTemplateRepository, categoryCache *cache.CategoryCache) *ScheduleHandler {
	return &ScheduleHandler{
		activityRepo:  activityRepo,
		categoryRepo:  categoryRepo,
		templateRepo:  templateRepo,
		categoryCache: categoryCache,
	}
}

// RegisterRoutes registers schedule routes on the given router.
// The router should already have the /schedules prefix.
func (h *ScheduleHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/parse", h.ParseSchedule).Methods("POST")
	r.HandleFunc("/import", h.ImportSchedule).Methods("POST")
	r.HandleFunc("/templates", h.ListTemplates).Methods("GET")
	r.HandleFunc("/templates", h.CreateTemplate).Methods("POST")
	r.HandleFunc("/templates/{id}", h.GetTemplate).Methods("GET")
	r.HandleFunc("/templates/{id}", h.UpdateTemplate).Methods("PATCH")
	r.HandleFunc("/templates/{id}", h.DeleteTemplate).Methods("DELETE")
}

// ParseScheduleRequest represents a schedule-text parse preview request
type ParseScheduleRequest struct {
	Text   string `json:"text" validate:"required,min=1,max=50000"`
	Strict bool   `json:"strict"`
}

// ParseScheduleResponse is the parse preview payload
type ParseScheduleResponse struct {
	Schedule schedule.Table `json:"schedule"`
	Skipped  []string       `json:"skipped_lines,omitempty"`
}

// ClassSelection identifies one class in a parsed table by day and index
type ClassSelection struct {
	Day   string `json:"day" validate:"required"`
	Index int    `json:"index" validate:"min=0"`
}

// ImportScheduleRequest selects classes to import as lookup templates.
// Either Text or TemplateID supplies the schedule source.
type ImportScheduleRequest struct {
	Text       string           `json:"text,omitempty"`
	TemplateID *uuid.UUID       `json:"template_id,omitempty"`
	Selections []ClassSelection `json:"selections" validate:"required,min=1,dive"`
}

// ImportScheduleResponse lists the lookup templates created by an import
type ImportScheduleResponse struct {
	Imported []*models.Activity `json:"imported"`
}

// TemplateRequest represents a create/update saved-template request
type TemplateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Text string `json:"text" validate:"required,min=1,max=50000"`
}

// ParseSchedule previews a pasted schedule blob without writing anything
func (h *ScheduleHandler) ParseSchedule(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ParseScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

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

	if req.Strict {
		table, skipped, err := schedule.ParseTextStrict(req.Text)
		if err != nil {
			respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, ParseScheduleResponse{Schedule: table, Skipped: skipped})
		return
	}

	table, err := schedule.ParseText(req.Text)
	if err != nil {
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, ParseScheduleResponse{Schedule: table})
}

// ImportSchedule creates lookup-schedule templates from selected classes
func (h *ScheduleHandler) ImportSchedule(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req ImportScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

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

	ctx := r.Context()

	text := req.Text
	if text == "" {
		if req.TemplateID == nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Either text or template_id is required")
			return
		}
		template, err := h.templateRepo.GetByID(ctx, *req.TemplateID)
		if err != nil {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Schedule template not found")
			return
		}
		if template.UserID != user.ID {
			respondJSONError(w, http.StatusForbidden, "Forbidden", "Schedule template does not belong to user")
			return
		}
		text = template.Text
	}
	if len(text) > MaxScheduleTextLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Schedule text exceeds maximum length of %d characters", MaxScheduleTextLength))
		return
	}

	table, err := schedule.ParseText(text)
	if err != nil {
		respondJSONError(w, http.StatusUnprocessableEntity, "Unprocessable Entity", err.Error())
		return
	}

	classesCategory, err := h.ensureClassesCategory(ctx, user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to prepare Classes category")
		return
	}

	var imported []*models.Activity
	for _, sel := range req.Selections {
		day := strings.ToUpper(strings.TrimSpace(sel.Day))
		entries, ok := table[day]
		if !ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("No classes parsed for day %s", day))
			return
		}
		if sel.Index < 0 || sel.Index >= len(entries) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Index %d out of range for day %s", sel.Index, day))
			return
		}
		entry := entries[sel.Index]

		lookup := &models.Activity{
			ID:          uuid.New(),
			UserID:      user.ID,
			CategoryID:  &classesCategory.ID,
			Type:        models.ActivityTypeLookup,
			Title:       entry.ClassName,
			Description: fmt.Sprintf("%s at %s", day, entry.Time),
			Status:      models.ActivityStatusNotStarted,
			Cadence:     models.CadenceWeekly,
			Studio:      entry.Location,
			TimeOfDay:   entry.Time,
		}
		if err := h.activityRepo.Create(ctx, lookup); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create lookup template")
			return
		}
		imported = append(imported, lookup)
	}

	respondJSON(w, http.StatusCreated, ImportScheduleResponse{Imported: imported})
}

// ListTemplates lists the user's saved schedule templates
func (h *ScheduleHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	templates, err := h.templateRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve schedule templates")
		return
	}

	if templates == nil {
		templates = []*models.ScheduleTemplate{}
	}

	respondJSON(w, http.StatusOK, templates)
}

// CreateTemplate saves a raw schedule-text blob for later re-import
func (h *ScheduleHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	req, ok := h.decodeTemplateRequest(w, r)
	if !ok {
		return
	}

	template := &models.ScheduleTemplate{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   req.Name,
		Text:   req.Text,
	}

	if err := h.templateRepo.Create(r.Context(), template); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save schedule template")
		return
	}

	respondJSON(w, http.StatusCreated, template)
}

// GetTemplate retrieves a saved schedule template by ID
func (h *ScheduleHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	template, ok := h.ownedTemplate(w, r, user.ID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// UpdateTemplate updates a saved schedule template
func (h *ScheduleHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	template, ok := h.ownedTemplate(w, r, user.ID)
	if !ok {
		return
	}

	req, reqOK := h.decodeTemplateRequest(w, r)
	if !reqOK {
		return
	}

	template.Name = req.Name
	template.Text = req.Text

	if err := h.templateRepo.Update(r.Context(), template); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update schedule template")
		return
	}

	respondJSON(w, http.StatusOK, template)
}

// DeleteTemplate deletes a saved schedule template
func (h *ScheduleHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	template, ok := h.ownedTemplate(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.templateRepo.Delete(r.Context(), template.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete schedule template")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) decodeTemplateRequest(w http.ResponseWriter, r *http.Request) (TemplateRequest, bool) {
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return req, false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return req, false
	}

	req.Name = validation.SanitizeText(req.Name)

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return req, false
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return req, false
	}

	return req, true
}

func (h *ScheduleHandler) ownedTemplate(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.ScheduleTemplate, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid template ID")
		return nil, false
	}

	template, err := h.templateRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Schedule template not found")
		return nil, false
	}

	if template.UserID != userID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Schedule template does not belong to user")
		return nil, false
	}

	return template, true
}

// ensureClassesCategory returns the user's Classes category, creating it on
// first import.
func (h *ScheduleHandler) ensureClassesCategory(ctx context.Context, userID uuid.UUID) (*models.Category, error) {
	category, err := h.categoryRepo.GetByName(ctx, userID, ClassesCategoryName)
	if err == nil && category != nil {
		return category, nil
	}

	category = &models.Category{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        ClassesCategoryName,
		Description: "Imported class schedules",
	}
	if err := h.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	h.categoryCache.Invalidate(userID)
	return category, nil
}
