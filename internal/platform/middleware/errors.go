package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/practice/internal/platform/query"
)

// ErrorResponse is the JSON body of every error the API returns. Kind,
// Field, Operator and Value are set only for rejected filters.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Field     string `json:"field,omitempty"`
	Operator  string `json:"operator,omitempty"`
	Value     string `json:"value,omitempty"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorHandler renders errors as ErrorResponse. A *query.CompileError is a
// 400 naming the offending field; anything that is not an *echo.HTTPError
// is hidden behind a 500. Server errors are logged.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorBody(err)
		if status >= 500 {
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}
		body.RequestID, _ = c.Get("request_id").(string)

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}

func errorBody(err error) (int, ErrorResponse) {
	var ce *query.CompileError
	if errors.As(err, &ce) {
		return http.StatusBadRequest, ErrorResponse{
			Error:    "invalid_query",
			Kind:     string(ce.Kind),
			Field:    ce.Field,
			Operator: ce.Operator.String(),
			Value:    ce.Value,
			Message:  ce.Error(),
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, ErrorResponse{Error: statusSlug(he.Code), Message: msg}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:   statusSlug(http.StatusInternalServerError),
		Message: "internal server error",
	}
}

// statusSlug turns a status code into a snake_case token, "not_found" for
// 404.
func statusSlug(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
