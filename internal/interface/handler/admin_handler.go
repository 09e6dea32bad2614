package handler

import (
	"errors"
	"net/http"

	"chalet-booking-service/internal/domain/entity"
	"chalet-booking-service/internal/usecase"
	"chalet-booking-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the dashboard surface
type AdminHandler struct {
	lifecycle *usecase.BookingLifecycle
	auth      *usecase.AdminAuth
	logger    logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(lifecycle *usecase.BookingLifecycle, auth *usecase.AdminAuth, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		lifecycle: lifecycle,
		auth:      auth,
		logger:    logger,
	}
}

// Login handles POST /api/v1/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, err)
		return
	}

	RespondJSON(c, http.StatusOK, "Logged in", gin.H{"token": token})
}

// List handles GET /api/v1/admin/bookings. Elapsed bookings are swept first,
// mirroring the original dashboard's on-load expiry pass.
func (h *AdminHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if _, err := h.lifecycle.SweepExpired(ctx); err != nil {
		h.logger.Error("Sweep before listing failed", "error", err)
	}

	bookings, err := h.lifecycle.ListActive(ctx, usecase.ListFilter{
		Status:   c.Query("status"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
		Ordered:  true,
	})
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusOK, "Bookings", bookings)
}

// UpdateStatus handles PATCH /api/v1/admin/bookings/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	type request struct {
		Status      string  `json:"status" binding:"required"`
		TotalAmount float64 `json:"totalAmount"`
	}

	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}

	bookingID := c.Param("id")

	switch req.Status {
	case entity.StatusConfirmed:
		result, err := h.lifecycle.Confirm(c.Request.Context(), bookingID, req.TotalAmount)
		if err != nil {
			RespondError(c, statusForError(err), err)
			return
		}
		data := gin.H{
			"bookingId":        result.Booking.BookingID,
			"status":           result.Booking.Status,
			"notificationSent": result.NotificationSent,
		}
		if result.NotificationWarning != "" {
			data["notificationWarning"] = result.NotificationWarning
		}
		RespondJSON(c, http.StatusOK, "Booking confirmed", data)

	case entity.StatusCancelled:
		if err := h.lifecycle.Cancel(c.Request.Context(), bookingID); err != nil {
			RespondError(c, statusForError(err), err)
			return
		}
		RespondJSON(c, http.StatusOK, "Booking cancelled", gin.H{"bookingId": bookingID})

	default:
		RespondError(c, http.StatusBadRequest, errors.New("status must be confirmed or cancelled"))
	}
}

// Sweep handles POST /api/v1/admin/sweep
func (h *AdminHandler) Sweep(c *gin.Context) {
	removed, err := h.lifecycle.SweepExpired(c.Request.Context())
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusOK, "Sweep complete", gin.H{"removed": removed})
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.lifecycle.Stats(c.Request.Context())
	if err != nil {
		RespondError(c, statusForError(err), err)
		return
	}

	RespondJSON(c, http.StatusOK, "Stats", stats)
}
