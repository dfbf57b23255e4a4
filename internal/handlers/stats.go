package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/enablementhq/tracker-api/internal/database"
	"github.com/enablementhq/tracker-api/internal/models"
	"github.com/enablementhq/tracker-api/internal/request"
	"github.com/enablementhq/tracker-api/internal/stats"
)

// StatsHandler serves activity statistics
type StatsHandler struct {
	activityRepo *database.ActivityRepository
	categoryRepo *database.CategoryRepository
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(activityRepo *database.ActivityRepository, categoryRepo *database.CategoryRepository) *StatsHandler {
	return &StatsHandler{
		activityRepo: activityRepo,
		categoryRepo: categoryRepo,
	}
}

// RegisterRoutes registers stats routes on the given router.
// The router should already have the /stats prefix.
func (h *StatsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetStats).Methods("GET")
	r.HandleFunc("/categories", h.GetStatsByCategory).Methods("GET")
}

// GetStats returns the user's overall activity summary
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	activities, err := h.regularActivities(r)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}

	summary := stats.Summarize(activities, time.Now())
	respondJSON(w, http.StatusOK, summary)
}

// GetStatsByCategory returns per-category rollups
func (h *StatsHandler) GetStatsByCategory(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	activities, err := h.regularActivities(r)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve activities")
		return
	}

	categoryPtrs, err := h.categoryRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}
	categories := make([]models.Category, 0, len(categoryPtrs))
	for _, c := range categoryPtrs {
		categories = append(categories, *c)
	}

	summaries := stats.SummarizeByCategory(activities, categories)
	respondJSON(w, http.StatusOK, summaries)
}

// regularActivities loads the user's non-lookup activities as values.
// Lookup templates are placeholders, not work, so they stay out of stats.
func (h *StatsHandler) regularActivities(r *http.Request) ([]models.Activity, error) {
	user := request.UserFromContext(r)
	regular := models.ActivityTypeRegular

	ptrs, err := h.activityRepo.GetByUserID(r.Context(), user.ID, &regular, nil, nil)
	if err != nil {
		return nil, err
	}

	activities := make([]models.Activity, 0, len(ptrs))
	for _, a := range ptrs {
		activities = append(activities, *a)
	}
	return activities, nil
}
