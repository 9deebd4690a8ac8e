package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-listings/internal/ingest"
	"github.com/iliyamo/movie-listings/internal/tmsapi"
)

// writeError maps the ingestion error taxonomy onto HTTP responses.  Keys in
// extra are added to the response body.
func writeError(c echo.Context, err error, extra echo.Map) error {
	status, body := errorBody(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).
			Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
	}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(status, body)
}

func errorBody(err error) (int, echo.Map) {
	var upErr *tmsapi.UpstreamError
	switch {
	case errors.Is(err, ingest.ErrInvalidCategory):
		return http.StatusBadRequest, echo.Map{"error": "invalid_category", "message": err.Error()}
	case errors.Is(err, ingest.ErrMissingParameters):
		return http.StatusBadRequest, echo.Map{"error": "missing_parameters", "message": err.Error()}
	case errors.Is(err, ingest.ErrIngestionRunning):
		return http.StatusConflict, echo.Map{"error": "ingestion_running", "message": err.Error()}
	case errors.Is(err, ingest.ErrMalformedPayload):
		return http.StatusBadGateway, echo.Map{"error": "malformed_payload", "message": err.Error()}
	case errors.As(err, &upErr):
		body := upErr.Body
		if raw, ok := body.([]byte); ok {
			body = string(raw)
		}
		return http.StatusBadGateway, echo.Map{
			"error":           "upstream_error",
			"upstream_status": upErr.StatusCode,
			"upstream_body":   body,
		}
	}
	return http.StatusInternalServerError, echo.Map{"error": "internal_error"}
}
