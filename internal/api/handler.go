// Package api содержит HTTP обработчики админки: тонкий CRUD поверх
// сервиса бронирования.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Azemoten/sauna-booking-bot/internal/model"
	"github.com/Azemoten/sauna-booking-bot/internal/repository"
	"github.com/Azemoten/sauna-booking-bot/internal/service"
)

type Handler struct {
	svc    *service.BookingService
	logger *zap.Logger
}

func NewHandler(svc *service.BookingService, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ListBookings обрабатывает GET /api/bookings
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}

	writeJSON(w, http.StatusOK, bookings)
}

type slotResponse struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	AvailableCabins int       `json:"available_cabins"`
	IsFull          bool      `json:"is_full"`
}

// ListSlots обрабатывает GET /api/slots/{date} — слоты даты с доступностью
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	date, err := h.svc.Calendar().ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.svc.SlotsForDate(r.Context(), date)
	if err != nil {
		h.logger.Error("Failed to build slots", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build slots")
		return
	}

	out := make([]slotResponse, 0, len(slots))
	for _, sa := range slots {
		out = append(out, slotResponse{
			StartTime:       sa.Slot.StartTime,
			EndTime:         sa.Slot.EndTime,
			AvailableCabins: sa.Free,
			IsFull:          sa.Free == 0,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

type createBookingRequest struct {
	Phone       string    `json:"phone"`
	CabinNumber int       `json:"cabin_number"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	People      int       `json:"people"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	TotalPrice  *int      `json:"total_price"`
}

// CreateBooking обрабатывает POST /api/bookings.
// Валидация та же, что у мастера: прошлое время, длительность слота и
// конфликт по кабинке отклоняются.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.Phone == "" || req.CabinNumber == 0 || req.StartTime.IsZero() || req.EndTime.IsZero() || req.People == 0 {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	booking, err := h.svc.Create(r.Context(), service.CreateParams{
		Phone:       req.Phone,
		CabinNumber: req.CabinNumber,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		People:      req.People,
		Adults:      req.Adults,
		Children:    req.Children,
		TotalPrice:  req.TotalPrice,
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, booking)
	case errors.Is(err, service.ErrCabinBusy):
		writeError(w, http.StatusConflict, "cabin already booked for this time")
	case errors.Is(err, service.ErrPastStart):
		writeError(w, http.StatusBadRequest, "booking time cannot be in the past")
	case errors.Is(err, service.ErrInvalidCabin),
		errors.Is(err, service.ErrInvalidPeople),
		errors.Is(err, service.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Failed to create booking", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create booking")
	}
}

type updateStatusRequest struct {
	Status model.BookingStatus `json:"status"`
}

// UpdateStatus обрабатывает PATCH /api/bookings/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if !req.Status.IsValid() {
		writeError(w, http.StatusBadRequest, `invalid status, must be "pending" or "paid"`)
		return
	}

	booking, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, booking)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	default:
		h.logger.Error("Failed to update booking status", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update booking status")
	}
}

// DeleteBooking обрабатывает DELETE /api/bookings/{id}?phone=...
// Удаление проходит только при совпадении владельца.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone number required")
		return
	}

	err := h.svc.Remove(r.Context(), chi.URLParam(r, "id"), phone)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	default:
		h.logger.Error("Failed to delete booking", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete booking")
	}
}

// GetConfig обрабатывает GET /api/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := h.svc.Config()
	writeJSON(w, http.StatusOK, cfg)
}
