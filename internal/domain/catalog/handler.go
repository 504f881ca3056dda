package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/pkg/response"
	"github.com/tripline/tripline-api/internal/pkg/storage"
	"github.com/tripline/tripline-api/internal/pkg/validator"
)

// maxUploadBytes caps the multipart photo body
const maxUploadBytes = 10 << 20

// Handler handles catalog HTTP requests
type Handler struct {
	svc *CatalogService
}

// NewHandler creates catalog handler
func NewHandler(svc *CatalogService) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /services (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	svc, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrVendorNotFound:
			response.BadRequest(w, "Vendor does not exist")
		case ErrInvalidType:
			response.BadRequest(w, "Invalid service type")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ToResponse(svc, nil))
}

// List handles GET /services (admin)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := ListFilter{Limit: 50}

	q := r.URL.Query()
	if l := q.Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			f.Limit = v
		}
	}
	if o := q.Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			f.Offset = v
		}
	}
	if t := q.Get("type"); t != "" {
		st := ServiceType(t)
		f.Type = &st
	}
	if v := q.Get("vendor_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.VendorID = &id
		}
	}
	if l := q.Get("location_id"); l != "" {
		if id, err := uuid.Parse(l); err == nil {
			f.LocationID = &id
		}
	}
	f.ActiveOnly = q.Get("active") == "true"

	services, total, err := h.svc.List(r.Context(), f)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*ServiceResponse, len(services))
	for i, s := range services {
		items[i] = ToResponse(s, nil)
	}

	response.OK(w, map[string]interface{}{
		"items": items,
		"total": total,
	})
}

// GetByID handles GET /services/{id} (admin)
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	svc, photos, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		if err == ErrServiceNotFound {
			response.NotFound(w, "Service not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, ToResponse(svc, photos))
}

// Update handles PATCH /services/{id} (admin)
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	svc, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrServiceNotFound:
			response.NotFound(w, "Service not found")
		case ErrInvalidType:
			response.BadRequest(w, "Invalid service type")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ToResponse(svc, nil))
}

// Delete handles DELETE /services/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		switch err {
		case ErrServiceNotFound:
			response.NotFound(w, "Service not found")
		case ErrServiceQuoted:
			response.Conflict(w, "Service is referenced by quote items")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// UploadPhoto handles POST /services/{id}/photos (admin, multipart)
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart body or file too large")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	p, err := h.svc.UploadPhoto(r.Context(), id, header.Filename, file)
	if err != nil {
		switch err {
		case ErrServiceNotFound:
			response.NotFound(w, "Service not found")
		case storage.ErrInvalidMimeType:
			response.BadRequest(w, "File type not allowed")
		case storage.ErrFileTooLarge:
			response.BadRequest(w, "File exceeds maximum size")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, PhotoResponse{
		ID:       p.ID,
		URL:      p.URL,
		ThumbURL: p.ThumbURL,
		Width:    p.Width,
		Height:   p.Height,
	})
}

// DeletePhoto handles DELETE /services/{id}/photos/{photoID} (admin)
func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid service ID")
		return
	}
	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	if err := h.svc.DeletePhoto(r.Context(), id, photoID); err != nil {
		switch err {
		case ErrServiceNotFound:
			response.NotFound(w, "Service not found")
		case ErrPhotoNotFound:
			response.NotFound(w, "Photo not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
