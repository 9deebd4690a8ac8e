// Package ingest pulls listing payloads from the upstream API, normalizes
// them into records and persists them one at a time.
package ingest

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-listings/internal/model"
	"github.com/iliyamo/movie-listings/internal/tmsapi"
)

// Fetcher performs the single upstream request of an ingestion run.
type Fetcher interface {
	Showings(ctx context.Context, zip, startDate string) ([]json.RawMessage, error)
	Airings(ctx context.Context, lineupID, startDateTime string) ([]json.RawMessage, error)
}

// TheatreInserter persists one theatre record and commits it.
type TheatreInserter interface {
	Insert(ctx context.Context, r *model.TheatreRecord) error
}

// AiringInserter persists one airing record and commits it.
type AiringInserter interface {
	Insert(ctx context.Context, r *model.AiringRecord) error
}

// Options tunes the service.  SkipMalformed switches a mapping failure
// from aborting the run to logging and skipping that payload.
type Options struct {
	SkipMalformed bool
}

// Result summarises one ingestion run.  Persisted counts committed rows,
// which stay committed even when the run later fails.
type Result struct {
	RunID     string         `json:"run_id"`
	Category  model.Category `json:"category"`
	Received  int            `json:"received"`
	Persisted int            `json:"persisted"`
	Skipped   int            `json:"skipped"`
}

type Service struct {
	log      zerolog.Logger
	fetch    Fetcher
	theatres TheatreInserter
	airings  AiringInserter
	opts     Options

	mu sync.Mutex // one run at a time
}

func NewService(log zerolog.Logger, fetch Fetcher, theatres TheatreInserter, airings AiringInserter, opts Options) *Service {
	return &Service{
		log:      log.With().Str("module", "ingest").Logger(),
		fetch:    fetch,
		theatres: theatres,
		airings:  airings,
		opts:     opts,
	}
}

// Ingest validates the request, performs one upstream fetch and persists
// every mapped payload in list order.  Validation errors are returned
// before any I/O.  Upstream errors are returned as *tmsapi.UpstreamError.
// A payload that cannot be mapped aborts the run with
// *MalformedPayloadError unless Options.SkipMalformed is set.
func (s *Service) Ingest(ctx context.Context, category model.Category, p Params) (Result, error) {
	res := Result{Category: category}
	if err := Validate(category, p); err != nil {
		return res, err
	}
	if !s.mu.TryLock() {
		return res, ErrIngestionRunning
	}
	defer s.mu.Unlock()

	res.RunID = uuid.NewString()
	log := s.log.With().Str("run_id", res.RunID).Str("category", string(category)).Logger()

	var (
		payloads []json.RawMessage
		err      error
	)
	switch category {
	case model.CategoryShowings:
		payloads, err = s.fetch.Showings(ctx, p.Zip, p.StartDate)
	case model.CategoryAirings:
		payloads, err = s.fetch.Airings(ctx, p.LineupID, p.StartDateTime)
	}
	if err != nil {
		if errors.Is(err, tmsapi.ErrUnexpectedBody) {
			return res, &MalformedPayloadError{Index: -1, Field: "response", Err: err}
		}
		return res, err
	}
	res.Received = len(payloads)

	for i, raw := range payloads {
		err := s.persist(ctx, category, raw)
		var mErr *MalformedPayloadError
		if errors.As(err, &mErr) {
			mErr.Index = i
			if s.opts.SkipMalformed {
				log.Warn().Err(mErr).Int("index", i).Msg("skipping malformed payload")
				res.Skipped++
				continue
			}
			return res, mErr
		}
		if err != nil {
			return res, errors.Wrapf(err, "persist payload %d", i)
		}
		res.Persisted++
	}

	log.Info().Int("received", res.Received).Int("persisted", res.Persisted).Int("skipped", res.Skipped).Msg("ingestion finished")
	return res, nil
}

func (s *Service) persist(ctx context.Context, category model.Category, raw json.RawMessage) error {
	if category == model.CategoryShowings {
		rec, err := MapShowing(raw)
		if err != nil {
			return err
		}
		return s.theatres.Insert(ctx, &rec)
	}
	rec, err := MapAiring(raw)
	if err != nil {
		return err
	}
	return s.airings.Insert(ctx, &rec)
}
