package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellmeing/internal/assistant"
	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/inputtype"
	"github.com/julianstephens/wellmeing/internal/logger"
	"github.com/julianstephens/wellmeing/internal/models"
	"github.com/julianstephens/wellmeing/internal/tracker"
)

func RespondError(c *gin.Context, msg string, code int) {
	c.JSON(code, gin.H{"error": msg})
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondFailure maps a tracker or validation error onto a status code.
func RespondFailure(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		RespondError(c, "internal error", code)
		return
	}
	RespondError(c, err.Error(), code)
}

func statusFor(err error) int {
	var (
		fieldErr  *models.FieldError
		configErr *inputtype.ConfigError
		valueErr  *inputtype.ValueError
		decodeErr *codec.DecodeError
	)
	switch {
	case errors.Is(err, tracker.ErrHabitNotFound),
		errors.Is(err, tracker.ErrSubmissionNotFound),
		errors.Is(err, tracker.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrHabitExists),
		errors.Is(err, tracker.ErrSubmissionExists):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrDailyLimit),
		errors.Is(err, tracker.ErrReportCooldown),
		errors.Is(err, tracker.ErrTokenLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, tracker.ErrTooManyHabits),
		errors.Is(err, inputtype.ErrNotAggregatable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, assistant.ErrNoChoicesReturned),
		errors.Is(err, assistant.ErrBadReply):
		return http.StatusBadGateway
	case errors.Is(err, assistant.ErrEmptySpeech),
		errors.As(err, &fieldErr),
		errors.As(err, &configErr),
		errors.As(err, &valueErr),
		errors.As(err, &decodeErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
