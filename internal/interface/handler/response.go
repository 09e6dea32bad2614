package handler

import (
	"errors"
	"net/http"

	"chalet-booking-service/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the uniform envelope for every API reply
type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes a success envelope
func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes a failure envelope
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// statusForError maps the domain error taxonomy to HTTP status codes
func statusForError(err error) int {
	var validationErr *entity.ValidationError
	var amountErr *entity.AmountError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &amountErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrDateConflict), errors.Is(err, entity.ErrDuplicateCustomer):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
