package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-listings/internal/model"
	"github.com/iliyamo/movie-listings/internal/tmsapi"
)

type fakeFetcher struct {
	payloads []json.RawMessage
	err      error
	calls    int
	started  chan struct{}
	block    chan struct{}
}

func (f *fakeFetcher) Showings(ctx context.Context, zip, startDate string) ([]json.RawMessage, error) {
	f.calls++
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	return f.payloads, f.err
}

func (f *fakeFetcher) Airings(ctx context.Context, lineupID, startDateTime string) ([]json.RawMessage, error) {
	f.calls++
	return f.payloads, f.err
}

type fakeTheatres struct {
	rows []model.TheatreRecord
	err  error
}

func (s *fakeTheatres) Insert(ctx context.Context, r *model.TheatreRecord) error {
	if s.err != nil {
		return s.err
	}
	r.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *r)
	return nil
}

type fakeAirings struct{ rows []model.AiringRecord }

func (s *fakeAirings) Insert(ctx context.Context, r *model.AiringRecord) error {
	r.ID = uint64(len(s.rows) + 1)
	s.rows = append(s.rows, *r)
	return nil
}

func raws(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

var showingsParams = Params{Zip: "78701", StartDate: "2026-10-15"}

func TestIngestValidatesBeforeFetching(t *testing.T) {
	f := &fakeFetcher{}
	svc := NewService(zerolog.Nop(), f, &fakeTheatres{}, &fakeAirings{}, Options{})

	_, err := svc.Ingest(context.Background(), "MOVIES", showingsParams)
	require.True(t, errors.Is(err, ErrInvalidCategory))

	_, err = svc.Ingest(context.Background(), model.CategoryShowings, Params{Zip: "78701"})
	require.True(t, errors.Is(err, ErrMissingParameters))
	require.Zero(t, f.calls)
}

func TestIngestShowingsPersistsInOrder(t *testing.T) {
	f := &fakeFetcher{payloads: raws(
		`{"title":"Heat","genres":["Action"],"showtimes":[{"theatre":{"id":"T1"}}]}`,
		`{"title":"Clue","genres":["Comedy"],"showtimes":[{"theatre":{"id":"T2"}},{"theatre":{"id":"T2"}}]}`,
	)}
	theatres := &fakeTheatres{}
	svc := NewService(zerolog.Nop(), f, theatres, &fakeAirings{}, Options{})

	res, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	require.NoError(t, err)
	require.Equal(t, 2, res.Received)
	require.Equal(t, 2, res.Persisted)
	require.NotEmpty(t, res.RunID)
	require.Equal(t, 1, f.calls)
	require.Len(t, theatres.rows, 2)
	require.Equal(t, "Heat", theatres.rows[0].Title)
	require.Equal(t, "T2", theatres.rows[1].Theatre)
}

func TestIngestAirings(t *testing.T) {
	f := &fakeFetcher{payloads: raws(`{"program":{"title":"Alien","genres":["Horror"]},"station":{"channel":"702"}}`)}
	airings := &fakeAirings{}
	svc := NewService(zerolog.Nop(), f, &fakeTheatres{}, airings, Options{})

	res, err := svc.Ingest(context.Background(), model.CategoryAirings, Params{LineupID: "L", StartDateTime: "T"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Persisted)
	require.Equal(t, "702", airings.rows[0].Channel)
}

func TestIngestEmptyResponse(t *testing.T) {
	svc := NewService(zerolog.Nop(), &fakeFetcher{payloads: raws()}, &fakeTheatres{}, &fakeAirings{}, Options{})

	res, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	require.NoError(t, err)
	require.Zero(t, res.Persisted)
}

func TestIngestMalformedAbortsKeepingEarlierRows(t *testing.T) {
	f := &fakeFetcher{payloads: raws(
		`{"title":"Heat","showtimes":[]}`,
		`{"title":"Broken"}`,
		`{"title":"Clue","showtimes":[]}`,
	)}
	theatres := &fakeTheatres{}
	svc := NewService(zerolog.Nop(), f, theatres, &fakeAirings{}, Options{})

	res, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	var mErr *MalformedPayloadError
	require.True(t, errors.As(err, &mErr))
	require.Equal(t, 1, mErr.Index)
	require.Equal(t, "showtimes", mErr.Field)
	require.Equal(t, 1, res.Persisted)
	require.Len(t, theatres.rows, 1, "rows committed before the failure stay committed")
}

func TestIngestSkipMalformed(t *testing.T) {
	f := &fakeFetcher{payloads: raws(
		`{"title":"Heat","showtimes":[]}`,
		`{"title":"Broken"}`,
		`{"title":"Clue","showtimes":[]}`,
	)}
	theatres := &fakeTheatres{}
	svc := NewService(zerolog.Nop(), f, theatres, &fakeAirings{}, Options{SkipMalformed: true})

	res, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	require.NoError(t, err)
	require.Equal(t, 2, res.Persisted)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, "Clue", theatres.rows[1].Title)
}

func TestIngestStoreErrorAborts(t *testing.T) {
	f := &fakeFetcher{payloads: raws(`{"title":"Heat","showtimes":[]}`)}
	svc := NewService(zerolog.Nop(), f, &fakeTheatres{err: errors.New("deadlock")}, &fakeAirings{}, Options{SkipMalformed: true})

	_, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	require.ErrorContains(t, err, "deadlock")
	require.False(t, errors.Is(err, ErrMalformedPayload))
}

func TestIngestUpstreamErrorPersistsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"bad zip"}`))
	}))
	defer srv.Close()

	client := tmsapi.NewClient(zerolog.Nop(), srv.URL, "key", time.Second, nil)
	theatres := &fakeTheatres{}
	svc := NewService(zerolog.Nop(), client, theatres, &fakeAirings{}, Options{})

	res, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	var upErr *tmsapi.UpstreamError
	require.True(t, errors.As(err, &upErr))
	require.Equal(t, http.StatusNotFound, upErr.StatusCode)
	require.Equal(t, map[string]any{"error": "bad zip"}, upErr.Body)
	require.Zero(t, res.Persisted)
	require.Empty(t, theatres.rows)
}

func TestIngestNonListBodyIsMalformed(t *testing.T) {
	f := &fakeFetcher{err: tmsapi.ErrUnexpectedBody}
	svc := NewService(zerolog.Nop(), f, &fakeTheatres{}, &fakeAirings{}, Options{})

	_, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	var mErr *MalformedPayloadError
	require.True(t, errors.As(err, &mErr))
	require.Equal(t, -1, mErr.Index)
}

func TestIngestRejectsConcurrentRun(t *testing.T) {
	f := &fakeFetcher{payloads: raws(), started: make(chan struct{}), block: make(chan struct{})}
	svc := NewService(zerolog.Nop(), f, &fakeTheatres{}, &fakeAirings{}, Options{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
		done <- err
	}()

	<-f.started

	_, err := svc.Ingest(context.Background(), model.CategoryShowings, showingsParams)
	require.ErrorIs(t, err, ErrIngestionRunning)

	close(f.block)
	require.NoError(t, <-done)
}
