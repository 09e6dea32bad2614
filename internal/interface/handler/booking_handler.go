package handler

import (
	"errors"
	"net/http"

	"chalet-booking-service/internal/usecase"
	"chalet-booking-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the public booking surface
type BookingHandler struct {
	lifecycle *usecase.BookingLifecycle
	logger    logger.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(lifecycle *usecase.BookingLifecycle, logger logger.Logger) *BookingHandler {
	return &BookingHandler{
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	type request struct {
		Date            string  `json:"date"`
		CustomerName    string  `json:"customerName"`
		CustomerPhone   string  `json:"customerPhone"`
		NationalID      string  `json:"nationalId"`
		DepositAmount   float64 `json:"depositAmount"`
		NotificationKey string  `json:"notificationKey"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}

	booking, err := h.lifecycle.Create(c.Request.Context(), usecase.CreateInput{
		Date:            req.Date,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		NationalID:      req.NationalID,
		DepositAmount:   req.DepositAmount,
		NotificationKey: req.NotificationKey,
	})
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusCreated, "Booking request received", gin.H{
		"bookingId": booking.BookingID,
		"date":      booking.Date,
		"status":    booking.Status,
	})
}

// Availability handles GET /api/v1/bookings/availability?date=
func (h *BookingHandler) Availability(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, errors.New("date query parameter is required"))
		return
	}

	available, err := h.lifecycle.Availability(c.Request.Context(), date)
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusOK, "Availability", gin.H{
		"date":      date,
		"available": available,
	})
}

// Calendar handles GET /api/v1/calendar — booked dates with no identity fields
func (h *BookingHandler) Calendar(c *gin.Context) {
	entries, err := h.lifecycle.Calendar(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusOK, "Calendar", entries)
}

// Lookup handles GET /api/v1/bookings/lookup — customer self-service search
func (h *BookingHandler) Lookup(c *gin.Context) {
	nationalID := c.Query("national_id")
	search := c.Query("q")
	if nationalID == "" && search == "" {
		RespondError(c, http.StatusBadRequest, errors.New("national_id or q query parameter is required"))
		return
	}

	bookings, err := h.lifecycle.Lookup(c.Request.Context(), nationalID, search)
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusOK, "Bookings found", bookings)
}
