package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/errs"
	"github.com/anonto42/nano-social/backend/internal/logging"
	"github.com/labstack/echo/v4"
)

var codeStatus = map[string]int{
	errs.EINVALID:      http.StatusBadRequest,
	errs.EINVALIDOP:    http.StatusBadRequest,
	errs.EUNAUTHORIZED: http.StatusUnauthorized,
	errs.EFORBIDDEN:    http.StatusForbidden,
	errs.ENOTFOUND:     http.StatusNotFound,
	errs.ECONFLICT:     http.StatusConflict,
}

// ErrorHandler renders handler errors. Application errors map to a status
// by code; field errors render as {"field": "message"} and everything else
// as {"detail": "message"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		logging.Error().Err(err).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logging.Error().Err(err).Msg("failed to write error response")
	}
}

func errorResponse(err error) (int, echo.Map) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, echo.Map{"detail": msg}
		}
		return he.Code, echo.Map{"detail": http.StatusText(he.Code)}
	}

	code := errs.ErrorCode(err)
	status, ok := codeStatus[code]
	if !ok {
		return http.StatusInternalServerError, echo.Map{"detail": errs.ErrorMessage(err)}
	}
	if field := errs.ErrorField(err); field != "" {
		return status, echo.Map{field: errs.ErrorMessage(err)}
	}
	return status, echo.Map{"detail": errs.ErrorMessage(err)}
}
