package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"sweetshop/internal/domain"
	"sweetshop/internal/service"
	"sweetshop/pkg/errors"
	"sweetshop/pkg/logger"
)

// SweetHandler handles the inventory endpoints.
type SweetHandler struct {
	sweets *service.SweetService
	log    *logger.Logger
}

// NewSweetHandler creates a new sweet handler
func NewSweetHandler(sweets *service.SweetService, log *logger.Logger) *SweetHandler {
	return &SweetHandler{
		sweets: sweets,
		log:    log,
	}
}

// List handles GET /api/sweets
func (h *SweetHandler) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.sweets.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to fetch sweets")
		writeError(w, errors.NewInternalError("Failed to fetch sweets", err), h.log)
		return
	}

	if sweets == nil {
		sweets = []domain.Sweet{}
	}
	writeJSON(w, http.StatusOK, sweets, h.log)
}

// Create handles POST /api/sweets
func (h *SweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}

	if err := h.validateCreateRequest(&req); err != nil {
		writeError(w, errors.NewValidationError(err.Error(), nil), h.log)
		return
	}

	sweet := &domain.Sweet{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    *req.Price,
		Quantity: *req.Quantity,
	}

	if err := h.sweets.Create(r.Context(), sweet); err != nil {
		h.log.WithError(err).Error("Failed to create sweet")
		writeError(w, errors.NewInternalError("Failed to create sweet", err), h.log)
		return
	}

	writeJSON(w, http.StatusCreated, sweet, h.log)
}

// Update handles PUT /api/sweets/{id}
func (h *SweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, errors.NewValidationError("ID is required", nil), h.log)
		return
	}

	var req domain.UpdateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewValidationError("Invalid request body", nil), h.log)
		return
	}

	if err := h.validateUpdateRequest(&req); err != nil {
		writeError(w, errors.NewValidationError(err.Error(), nil), h.log)
		return
	}

	sweet, err := h.sweets.Update(r.Context(), id, &req)
	if err != nil {
		h.log.WithError(err).Error("Failed to update sweet")
		writeError(w, errors.NewInternalError("Failed to update sweet", err), h.log)
		return
	}
	if sweet == nil {
		writeError(w, errors.NewNotFoundError("Sweet not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, sweet, h.log)
}

// Delete handles DELETE /api/sweets/{id}. Admin only via route middleware.
func (h *SweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, errors.NewValidationError("ID is required", nil), h.log)
		return
	}

	deleted, err := h.sweets.Delete(r.Context(), id)
	if err != nil {
		h.log.WithError(err).Error("Failed to delete sweet")
		writeError(w, errors.NewInternalError("Failed to delete sweet", err), h.log)
		return
	}
	if !deleted {
		writeError(w, errors.NewNotFoundError("Sweet not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Sweet deleted successfully"}, h.log)
}

// Search handles GET /api/sweets/search
func (h *SweetHandler) Search(w http.ResponseWriter, r *http.Request) {
	query, appErr := parseSearchQuery(r)
	if appErr != nil {
		writeError(w, appErr, h.log)
		return
	}

	sweets, err := h.sweets.Search(r.Context(), query)
	if err != nil {
		h.log.WithError(err).Error("Failed to search sweets")
		writeError(w, errors.NewInternalError("Failed to search sweets", err), h.log)
		return
	}

	if sweets == nil {
		sweets = []domain.Sweet{}
	}
	writeJSON(w, http.StatusOK, sweets, h.log)
}

// Purchase handles POST /api/sweets/{id}/purchase
func (h *SweetHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, quantity, appErr := h.parseQuantityRequest(r)
	if appErr != nil {
		writeError(w, appErr, h.log)
		return
	}

	existing, err := h.sweets.GetByID(r.Context(), id)
	if err != nil {
		h.log.WithError(err).Error("Failed to process purchase")
		writeError(w, errors.NewInternalError("Failed to process purchase", err), h.log)
		return
	}
	if existing == nil {
		writeError(w, errors.NewNotFoundError("Sweet not found"), h.log)
		return
	}

	sweet, err := h.sweets.Purchase(r.Context(), id, quantity)
	if err != nil {
		h.log.WithError(err).Error("Failed to process purchase")
		writeError(w, errors.NewInternalError("Failed to process purchase", err), h.log)
		return
	}
	if sweet == nil {
		writeError(w, errors.NewValidationError("Insufficient quantity available", nil), h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Purchase successful",
		"sweet":   sweet,
	}, h.log)
}

// Restock handles POST /api/sweets/{id}/restock. Admin only via route
// middleware.
func (h *SweetHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, quantity, appErr := h.parseQuantityRequest(r)
	if appErr != nil {
		writeError(w, appErr, h.log)
		return
	}

	sweet, err := h.sweets.Restock(r.Context(), id, quantity)
	if err != nil {
		h.log.WithError(err).Error("Failed to process restock")
		writeError(w, errors.NewInternalError("Failed to process restock", err), h.log)
		return
	}
	if sweet == nil {
		writeError(w, errors.NewNotFoundError("Sweet not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Restock successful",
		"sweet":   sweet,
	}, h.log)
}

func (h *SweetHandler) validateCreateRequest(req *domain.CreateSweetRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("Name is required and must be a non-empty string")
	}
	if strings.TrimSpace(req.Category) == "" {
		return fmt.Errorf("Category is required and must be a non-empty string")
	}
	if req.Price == nil || *req.Price < 0 {
		return fmt.Errorf("Price is required and must be a non-negative number")
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return fmt.Errorf("Quantity is required and must be a non-negative number")
	}
	return nil
}

func (h *SweetHandler) validateUpdateRequest(req *domain.UpdateSweetRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("Name must be a non-empty string")
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return fmt.Errorf("Category must be a non-empty string")
	}
	if req.Price != nil && *req.Price < 0 {
		return fmt.Errorf("Price must be a non-negative number")
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return fmt.Errorf("Quantity must be a non-negative number")
	}
	if !req.HasFields() {
		return fmt.Errorf("No fields provided to update")
	}
	return nil
}

func (h *SweetHandler) parseQuantityRequest(r *http.Request) (string, int, *errors.AppError) {
	id := chi.URLParam(r, "id")
	if id == "" {
		return "", 0, errors.NewValidationError("ID is required", nil)
	}

	var req domain.QuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", 0, errors.NewValidationError("Invalid request body", nil)
	}
	if req.Quantity <= 0 {
		return "", 0, errors.NewValidationError("Quantity must be greater than 0", nil)
	}

	return id, req.Quantity, nil
}

func parseSearchQuery(r *http.Request) (*domain.SweetSearchQuery, *errors.AppError) {
	params := r.URL.Query()
	query := &domain.SweetSearchQuery{
		Name:     params.Get("name"),
		Category: params.Get("category"),
	}

	if raw := params.Get("minPrice"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 {
			return nil, errors.NewValidationError("minPrice must be a valid non-negative number", nil)
		}
		query.MinPrice = &min
	}

	if raw := params.Get("maxPrice"); raw != "" {
		max, err := strconv.Atoi(raw)
		if err != nil || max < 0 {
			return nil, errors.NewValidationError("maxPrice must be a valid non-negative number", nil)
		}
		query.MaxPrice = &max
	}

	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		return nil, errors.NewValidationError("minPrice cannot be greater than maxPrice", nil)
	}

	return query, nil
}
