package location

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/pkg/response"
	"github.com/tripline/tripline-api/internal/pkg/validator"
)

// Handler handles location HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates location handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /locations (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	l, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		if err == ErrDuplicateName {
			response.Conflict(w, "Location with this name already exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, ToResponse(l))
}

// List handles GET /locations (admin)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0

	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	country := r.URL.Query().Get("country")
	activeOnly := r.URL.Query().Get("active") == "true"

	locations, total, err := h.svc.List(r.Context(), country, activeOnly, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*LocationResponse, len(locations))
	for i, l := range locations {
		items[i] = ToResponse(l)
	}

	response.OK(w, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

// GetByID handles GET /locations/{id} (admin)
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid location ID")
		return
	}

	l, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if err == ErrLocationNotFound {
			response.NotFound(w, "Location not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToResponse(l))
}

// Update handles PATCH /locations/{id} (admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid location ID")
		return
	}

	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	l, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrLocationNotFound:
			response.NotFound(w, "Location not found")
		case ErrDuplicateName:
			response.Conflict(w, "Location with this name already exists")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToResponse(l))
}

// Delete handles DELETE /locations/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid location ID")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch err {
		case ErrLocationNotFound:
			response.NotFound(w, "Location not found")
		case ErrLocationInUse:
			response.Conflict(w, "Location is referenced by catalog services")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
