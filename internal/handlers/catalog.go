package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/enablementhq/tracker-api/internal/catalog"
)

// CatalogHandler serves the built-in class catalog
type CatalogHandler struct{}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// RegisterRoutes registers catalog routes on the given router.
// The router should already have the /catalog prefix.
func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetCatalog).Methods("GET")
}

// GetCatalog returns the embedded class catalog. Optional filter:
// ?difficulty=beginner|intermediate|advanced.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := catalog.Load()
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load class catalog")
		return
	}

	if difficulty := r.URL.Query().Get("difficulty"); difficulty != "" {
		respondJSON(w, http.StatusOK, map[string]any{
			"difficulty": difficulty,
			"classes":    c.ByDifficulty(difficulty),
		})
		return
	}

	respondJSON(w, http.StatusOK, c)
}
