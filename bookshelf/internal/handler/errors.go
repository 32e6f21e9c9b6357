package handler

import (
	"net/http"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/Astemirdum/bookshelf-service/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusNotFound:            "Not found",
	http.StatusMethodNotAllowed:    "Method not allowed",
	http.StatusUnprocessableEntity: "Unprocessable entity",
	http.StatusTooManyRequests:     "Too many requests",
	http.StatusInternalServerError: "Internal server error",
	http.StatusServiceUnavailable:  "Service unavailable",
}

func statusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return http.StatusText(code)
}

// httpError maps domain errors onto HTTP statuses. The cause stays in Internal.
func httpError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrBadRequest), errors.Is(err, pagination.ErrInvalidPage):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrUnprocessable):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrUnavailable):
		code = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(code, statusMessage(code)).SetInternal(err)
}

// ErrorHandler renders every failure as the error envelope.
func (h *Handler) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he := httpError(err)

	fields := []zap.Field{
		zap.Int("status", he.Code),
		zap.String("method", c.Request().Method),
		zap.String("uri", c.Request().RequestURI),
		zap.Error(err),
	}
	if he.Code >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Debug("request rejected", fields...)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, model.ErrorResponse{
			Success: false,
			Error:   he.Code,
			Message: statusMessage(he.Code),
		})
	}
	if err != nil {
		h.log.Error("write error response", zap.Error(err))
	}
}
