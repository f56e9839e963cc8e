package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch serves GET /api/foods/search?q=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.foods.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleBarcode serves GET /api/foods/barcode/{code}. A miss is a 404 that
// still carries the per-source statuses.
func (s *Server) handleBarcode(w http.ResponseWriter, r *http.Request) {
	result, err := s.foods.SearchByBarcode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if len(result.Foods) == 0 {
		status = http.StatusNotFound
	}
	writeJSON(w, status, result)
}

// handlePersist serves POST /api/foods.
func (s *Server) handlePersist(w http.ResponseWriter, r *http.Request) {
	var food domain.Food
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&food); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid food: " + err.Error()})
		return
	}
	food.LocalID = nil
	food.Sanitize()

	stored, err := s.foods.PersistFood(r.Context(), food)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response: %v", err)
	}
}
