package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-listings/internal/ingest"
	"github.com/iliyamo/movie-listings/internal/model"
	"github.com/iliyamo/movie-listings/internal/queue"
)

// Ingester runs one ingestion.
type Ingester interface {
	Ingest(ctx context.Context, category model.Category, p ingest.Params) (ingest.Result, error)
}

// EventPublisher announces completed runs.  Publication failures never
// change the response.
type EventPublisher interface {
	PublishIngestionCompleted(ctx context.Context, ev queue.IngestionCompletedEvent) error
}

// CachePurger discards cached report responses.
type CachePurger interface {
	Purge(ctx context.Context) error
}

// IngestionHandler triggers ingestion runs.  Events and Cache may be nil.
type IngestionHandler struct {
	Ingester Ingester
	Events   EventPublisher
	Cache    CachePurger
}

type ingestionReq struct {
	Category string `json:"category"`
	ingest.Params
}

// Create runs an ingestion for the category and parameters in the JSON
// body and answers 201 with the run summary.
func (h *IngestionHandler) Create(c echo.Context) error {
	var req ingestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	category := model.Category(strings.TrimSpace(req.Category))

	ctx := c.Request().Context()
	res, err := h.Ingester.Ingest(ctx, category, req.Params)
	if res.Persisted > 0 && h.Cache != nil {
		if perr := h.Cache.Purge(ctx); perr != nil {
			zerolog.Ctx(ctx).Warn().Err(perr).Str("run_id", res.RunID).Msg("purge report cache")
		}
	}
	if err != nil {
		var extra echo.Map
		if res.RunID != "" {
			extra = echo.Map{"run_id": res.RunID, "persisted": res.Persisted, "skipped": res.Skipped}
		}
		return writeError(c, err, extra)
	}

	if h.Events != nil {
		ev := queue.IngestionCompletedEvent{
			RunID:       res.RunID,
			Category:    string(res.Category),
			Params:      eventParams(category, req.Params),
			Received:    res.Received,
			Persisted:   res.Persisted,
			Skipped:     res.Skipped,
			CompletedAt: time.Now().UTC().Format(time.RFC3339),
		}
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		_ = h.Events.PublishIngestionCompleted(pubCtx, ev)
		cancel()
	}
	return c.JSON(http.StatusCreated, res)
}

func eventParams(category model.Category, p ingest.Params) map[string]string {
	if category == model.CategoryShowings {
		return map[string]string{"zip": p.Zip, "startDate": p.StartDate}
	}
	return map[string]string{"lineupId": p.LineupID, "startDateTime": p.StartDateTime}
}
