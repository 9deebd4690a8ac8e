package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-listings/internal/model"
)

// Ranker produces the genre ranking.
type Ranker interface {
	RankTopGenres(ctx context.Context) ([]model.RankedRecord, error)
}

type ReportHandler struct {
	Ranker Ranker
}

// TopGenres returns the top ranked records as {"items": [...]}.
func (h *ReportHandler) TopGenres(c echo.Context) error {
	items, err := h.Ranker.RankTopGenres(c.Request().Context())
	if err != nil {
		return writeError(c, err, nil)
	}
	if items == nil {
		items = []model.RankedRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
