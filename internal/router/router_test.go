package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-listings/internal/handler"
	"github.com/iliyamo/movie-listings/internal/ingest"
	"github.com/iliyamo/movie-listings/internal/model"
	"github.com/iliyamo/movie-listings/internal/utils"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type stubIngester struct{ calls int }

func (s *stubIngester) Ingest(ctx context.Context, c model.Category, p ingest.Params) (ingest.Result, error) {
	s.calls++
	return ingest.Result{RunID: "r", Category: c}, nil
}

type stubRanker struct{}

func (stubRanker) RankTopGenres(context.Context) ([]model.RankedRecord, error) { return nil, nil }

func TestRegister(t *testing.T) {
	e := echo.New()
	ing := &stubIngester{}
	Register(e, Handlers{
		Health:     &handler.HealthHandler{DB: okPinger{}},
		Ingestions: &handler.IngestionHandler{Ingester: ing},
		Reports:    &handler.ReportHandler{Ranker: stubRanker{}},
	}, "secret", nil)

	do := func(method, target, token, body string) int {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do(http.MethodGet, "/healthz", "", ""))
	require.Equal(t, http.StatusOK, do(http.MethodGet, "/v1/reports/top-genres", "", ""))

	body := `{"category":"TV-AIRINGS","lineup_id":"L","start_date_time":"T"}`
	require.Equal(t, http.StatusUnauthorized, do(http.MethodPost, "/v1/ingestions", "", body))
	require.Zero(t, ing.calls)

	tok, err := utils.NewAccessToken("secret", "cron", utils.RoleOperator, time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, do(http.MethodPost, "/v1/ingestions", tok.Token, body))
	require.Equal(t, 1, ing.calls)
}

// listingStore backs both the ingester and the ranker so a run is visible
// to the next report.
type listingStore struct {
	mu   sync.Mutex
	rows []model.RankedRecord
}

func (s *listingStore) Ingest(ctx context.Context, c model.Category, p ingest.Params) (ingest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, model.RankedRecord{Category: c, Title: "Heat", Genres: "Action", NumMovies: 1})
	return ingest.Result{RunID: "r1", Category: c, Received: 1, Persisted: 1}, nil
}

func (s *listingStore) RankTopGenres(context.Context) ([]model.RankedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.RankedRecord(nil), s.rows...), nil
}

func TestReportReflectsIngestionDespiteCache(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_PREFIX", "cache")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := &listingStore{}
	e := echo.New()
	Register(e, Handlers{
		Health:     &handler.HealthHandler{DB: okPinger{}},
		Ingestions: &handler.IngestionHandler{Ingester: store},
		Reports:    &handler.ReportHandler{Ranker: store},
	}, "secret", rdb)

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reports/top-genres", nil))
		return rec
	}

	first := get()
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))
	require.JSONEq(t, `{"items":[]}`, first.Body.String())
	require.Equal(t, "HIT", get().Header().Get("X-Cache"))

	tok, err := utils.NewAccessToken("secret", "cron", utils.RoleOperator, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/ingestions",
		strings.NewReader(`{"category":"THEATRE-SHOWINGS","zip":"78701","start_date":"2026-10-15"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	after := get()
	require.Equal(t, "MISS", after.Header().Get("X-Cache"))
	var body struct {
		Items []model.RankedRecord `json:"items"`
	}
	require.NoError(t, json.Unmarshal(after.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	require.Equal(t, "Heat", body.Items[0].Title)
}
