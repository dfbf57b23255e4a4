package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/enablementhq/tracker-api/internal/cache"
	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/parser"
	"github.com/enablementhq/tracker-api/internal/request"
	"github.com/enablementhq/tracker-api/internal/validation"
)

// CommandHandler handles the command-bar parse/create endpoint
type CommandHandler struct {
	activityRepo  *database.ActivityRepository
	categoryRepo  *database.CategoryRepository
	categoryCache *cache.CategoryCache
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(activityRepo *database.ActivityRepository, categoryRepo *database.CategoryRepository, categoryCache *cache.CategoryCache) *CommandHandler {
	return &CommandHandler{
		activityRepo:  activityRepo,
		categoryRepo:  categoryRepo,
		categoryCache: categoryCache,
	}
}

// RegisterRoutes registers the command route on the given router
func (h *CommandHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.RunCommand).Methods("POST")
}

// CommandRequest represents a command-bar submission
type CommandRequest struct {
	Input string `json:"input" validate:"required,min=1,max=500"`
}

// ParsedBreakdown is the client-facing view of what the parser extracted
type ParsedBreakdown struct {
	Title           string           `json:"title"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	NewCategoryName string           `json:"new_category_name,omitempty"`
	Priority        *models.Priority `json:"priority,omitempty"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	DueDateMillis   int64            `json:"due_date_millis,omitempty"`
}

// CommandResponse carries the parse breakdown plus the created record
type CommandResponse struct {
	Parsed          ParsedBreakdown  `json:"parsed"`
	Activity        *models.Activity `json:"activity"`
	CreatedCategory *models.Category `json:"created_category,omitempty"`
}

// RunCommand parses one command-bar line, auto-creates the referenced
// category when it doesn't exist yet, and creates the activity.
func (h *CommandHandler) RunCommand(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	req.Input = validation.SanitizeText(req.Input)

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

	refs, ok := h.categoryCache.Get(user.ID)
	if !ok {
		categories, err := h.categoryRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
			return
		}
		refs = make([]parser.CategoryRef, 0, len(categories))
		for _, c := range categories {
			refs = append(refs, parser.CategoryRef{ID: c.ID, Name: c.Name})
		}
		h.categoryCache.Set(user.ID, refs)
	}

	parsed := parser.Parse(req.Input, refs, time.Now())

	if parsed.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Command has no title after extracting tokens")
		return
	}

	var createdCategory *models.Category
	categoryID := parsed.CategoryID
	if categoryID == nil && parsed.NewCategoryName != "" {
		category := &models.Category{
			ID:     uuid.New(),
			UserID: user.ID,
			Name:   parsed.NewCategoryName,
		}
		if err := h.categoryRepo.Create(ctx, category); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create category")
			return
		}
		h.categoryCache.Invalidate(user.ID)
		createdCategory = category
		categoryID = &category.ID
	}

	activity := &models.Activity{
		ID:         uuid.New(),
		UserID:     user.ID,
		CategoryID: categoryID,
		Type:       models.ActivityTypeRegular,
		Title:      parsed.Title,
		Status:     models.ActivityStatusNotStarted,
		Priority:   parsed.Priority,
		DueDate:    parsed.DueDate,
		Cadence:    models.CadenceOneTime,
	}

	if err := h.activityRepo.Create(ctx, activity); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create activity")
		return
	}

	response := CommandResponse{
		Parsed: ParsedBreakdown{
			Title:           parsed.Title,
			CategoryID:      parsed.CategoryID,
			NewCategoryName: parsed.NewCategoryName,
			Priority:        parsed.Priority,
			DueDate:         parsed.DueDate,
			DueDateMillis:   parsed.DueDateMillis(),
		},
		Activity:        activity,
		CreatedCategory: createdCategory,
	}

	respondJSON(w, http.StatusCreated, response)
}
