package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/enablementhq/tracker-api/internal/cache"
	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/request"
	"github.com/enablementhq/tracker-api/internal/validation"
)

const (
	// MaxCategoryNameLength is the maximum length for category names
	MaxCategoryNameLength = 255
	// MaxDescriptionLength is the maximum length for description fields
	MaxDescriptionLength = 2000
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryRepo  *database.CategoryRepository
	activityRepo  *database.ActivityRepository
	categoryCache *cache.CategoryCache
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryRepo *database.CategoryRepository, activityRepo *database.ActivityRepository, categoryCache *cache.CategoryCache) *CategoryHandler {
	return &CategoryHandler{
		categoryRepo:  categoryRepo,
		activityRepo:  activityRepo,
		categoryCache: categoryCache,
	}
}

// RegisterRoutes registers category routes on the given router.
// The router should already have the /categories prefix.
func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCategories).Methods("GET")
	r.HandleFunc("", h.CreateCategory).Methods("POST")
	r.HandleFunc("/{id}", h.GetCategory).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateCategory).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteCategory).Methods("DELETE")
}

// CreateCategoryRequest represents a create category request
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateCategoryRequest represents an update category request
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// ListCategories lists categories for the authenticated user
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	categories, err := h.categoryRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}

	if categories == nil {
		categories = []*models.Category{}
	}

	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	req.Description = validation.SanitizeText(req.Description)

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

	// Category names are unique per user
	if existing, err := h.categoryRepo.GetByName(ctx, user.ID, req.Name); err == nil && existing != nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "A category with that name already exists")
		return
	}

	category := &models.Category{
		ID:          uuid.New(),
		UserID:      user.ID,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}

	if err := h.categoryRepo.Create(ctx, category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create category")
		return
	}

	h.categoryCache.Invalidate(user.ID)
	respondJSON(w, http.StatusCreated, category)
}

// GetCategory retrieves a category by ID
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	category, ok := h.ownedCategory(w, r, user.ID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// UpdateCategory updates an existing category
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	category, ok := h.ownedCategory(w, r, user.ID)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxCategoryNameLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Name exceeds maximum length of %d characters", MaxCategoryNameLength))
			return
		}
		category.Name = sanitized
	}
	if req.Description != nil {
		sanitized := validation.SanitizeText(*req.Description)
		if len(sanitized) > MaxDescriptionLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Description exceeds maximum length of %d characters", MaxDescriptionLength))
			return
		}
		category.Description = sanitized
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update category")
		return
	}

	h.categoryCache.Invalidate(user.ID)
	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category. With ?cascade=true the category's
// activities are deleted too; otherwise they are detached and kept.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	category, ok := h.ownedCategory(w, r, user.ID)
	if !ok {
		return
	}

	ctx := r.Context()

	if r.URL.Query().Get("cascade") == "true" {
		if _, err := h.activityRepo.DeleteByCategoryID(ctx, category.ID); err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete category activities")
			return
		}
	}

	if err := h.categoryRepo.Delete(ctx, category.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete category")
		return
	}

	h.categoryCache.Invalidate(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedCategory loads the {id} path category and verifies ownership,
// writing the error response itself when the check fails.
func (h *CategoryHandler) ownedCategory(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Category, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return nil, false
	}

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
		return nil, false
	}

	if category.UserID != userID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Category does not belong to user")
		return nil, false
	}

	return category, true
}
