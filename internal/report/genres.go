// Package report builds the genre ranking over both record tables.
package report

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/iliyamo/movie-listings/internal/model"
)

// TopN is the number of rows the ranking returns.
const TopN = 5

// TheatreLister loads every persisted theatre record.
type TheatreLister interface {
	ListAll(ctx context.Context) ([]model.TheatreRecord, error)
}

// AiringLister loads every persisted airing record.
type AiringLister interface {
	ListAll(ctx context.Context) ([]model.AiringRecord, error)
}

// Aggregator ranks records by the size of their genre group.  It only
// reads from the store.
type Aggregator struct {
	theatres TheatreLister
	airings  AiringLister
}

func NewAggregator(theatres TheatreLister, airings AiringLister) *Aggregator {
	return &Aggregator{theatres: theatres, airings: airings}
}

// RankTopGenres groups each table by its literal genres string, tags every
// row with its group size, merges theatre rows ahead of airing rows and
// sorts by group size descending.  Ties keep merge order.  Rows repeating
// an earlier title are dropped and at most TopN rows are returned.
func (a *Aggregator) RankTopGenres(ctx context.Context) ([]model.RankedRecord, error) {
	theatres, err := a.theatres.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load theatre records")
	}
	airings, err := a.airings.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load airing records")
	}

	merged := make([]model.RankedRecord, 0, len(theatres)+len(airings))
	for _, r := range theatres {
		merged = append(merged, model.RankedRecord{
			Category: model.CategoryShowings, ID: r.ID, Title: r.Title, ReleaseYear: r.ReleaseYear,
			Genres: r.Genres, Description: r.Description, Theatre: r.Theatre,
		})
	}
	countGroups(merged)
	split := len(merged)
	for _, r := range airings {
		merged = append(merged, model.RankedRecord{
			Category: model.CategoryAirings, ID: r.ID, Title: r.Title, ReleaseYear: r.ReleaseYear,
			Genres: r.Genres, Description: r.Description, Channel: r.Channel,
		})
	}
	countGroups(merged[split:])

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].NumMovies > merged[j].NumMovies })

	seen := make(map[string]struct{}, len(merged))
	out := make([]model.RankedRecord, 0, TopN)
	for _, r := range merged {
		if _, dup := seen[r.Title]; dup {
			continue
		}
		seen[r.Title] = struct{}{}
		out = append(out, r)
		if len(out) == TopN {
			break
		}
	}
	return out, nil
}

// countGroups sets NumMovies on every row to the number of rows in rows
// sharing its exact genres string.
func countGroups(rows []model.RankedRecord) {
	sizes := make(map[string]int)
	for _, r := range rows {
		sizes[r.Genres]++
	}
	for i := range rows {
		rows[i].NumMovies = sizes[rows[i].Genres]
	}
}
