package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripline/tripline-api/internal/domain/booking"
	"github.com/tripline/tripline-api/internal/pkg/response"
	"github.com/tripline/tripline-api/internal/pkg/validator"
)

// Handler handles package-builder HTTP requests
type Handler struct {
	svc *Service
	pdf *PDFRenderer
}

// NewHandler creates quote handler
func NewHandler(svc *Service, pdf *PDFRenderer) *Handler {
	return &Handler{svc: svc, pdf: pdf}
}

// GetDraft handles GET /bookings/{id}/package
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	items, breakdown, validation, err := h.svc.Review(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, draftResponse(bookingID, items, breakdown, validation))
}

// AddItem handles POST /bookings/{id}/package/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := h.svc.AddItem(r.Context(), bookingID, req.ToItem())
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.Created(w, ToItemResponse(item))
}

// UpdateItem handles PATCH /bookings/{id}/package/items/{itemID}
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.UpdateItem(r.Context(), bookingID, itemID, req.ToPatch()); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "updated"})
}

// RemoveItem handles DELETE /bookings/{id}/package/items/{itemID}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	if err := h.svc.RemoveItem(r.Context(), bookingID, itemID); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "removed"})
}

// Discard handles DELETE /bookings/{id}/package
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Discard(r.Context(), bookingID); err != nil {
		h.writeError(w, err)
		return
	}

	response.NoContent(w)
}

// Send handles POST /bookings/{id}/package/send
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	q, validation, err := h.svc.SendQuote(r.Context(), bookingID)
	if err != nil {
		if err == ErrValidationFailed {
			response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "DRAFT_INVALID",
				"Draft has validation errors", validationDetails(validation))
			return
		}
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"quote":    ToQuoteResponse(q, 0),
		"warnings": validation.Warnings,
	})
}

// NotifyVendor handles POST /bookings/{id}/package/items/{itemID}/notify-vendor
func (h *Handler) NotifyVendor(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req NotifyVendorRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.svc.NotifyVendor(r.Context(), bookingID, itemID, req.Note); err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "notified"})
}

// GetQuote handles GET /bookings/{id}/quote, returning the latest
// sent quote
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	q, items, err := h.svc.LatestQuote(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, ToQuoteResponse(q, len(items)))
}

// DownloadPDF handles GET /bookings/{id}/quote/pdf
func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	q, items, err := h.svc.LatestQuote(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	data, err := h.pdf.Render(q, items)
	if err != nil {
		response.InternalError(w)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="quote-%s-%s.pdf"`, bookingID, time.Now().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch err {
	case booking.ErrBookingNotFound:
		response.NotFound(w, "Booking not found")
	case ErrQuoteNotFound:
		response.NotFound(w, "No quote has been sent for this booking")
	case ErrItemNotFound:
		response.NotFound(w, "Draft item not found")
	case ErrEmptyDraft:
		response.BadRequest(w, "Cannot send a quote with no items")
	case ErrBookingClosed:
		response.Conflict(w, "Booking is already closed")
	case ErrInvalidItemType:
		response.BadRequest(w, "Invalid item type")
	case ErrItemNotPersisted:
		response.BadRequest(w, "Save the item as a catalog service before notifying the vendor")
	case ErrNotifyInFlight:
		response.Conflict(w, "A vendor notification for this item is already in progress")
	default:
		response.InternalError(w)
	}
}

func draftResponse(bookingID uuid.UUID, items []PackageItem, breakdown Breakdown, validation ValidationResult) *DraftResponse {
	resp := &DraftResponse{
		BookingID:  bookingID,
		Items:      make([]ItemResponse, len(items)),
		Breakdown:  breakdown,
		Validation: validation,
	}
	for i := range items {
		resp.Items[i] = ToItemResponse(&items[i])
	}
	return resp
}

func validationDetails(v ValidationResult) map[string]string {
	details := make(map[string]string, len(v.Errors))
	for i, msg := range v.Errors {
		details[fmt.Sprintf("error_%d", i)] = msg
	}
	return details
}
