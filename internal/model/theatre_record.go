package model

import "fmt"

// TheatreRecord represents a movie playing in one or more theatres.
// It corresponds to a row in the `theatre_movies` table.
//
// Fields:
//
//	ID          primary key assigned by the store on insert.
//	Title       movie title, never empty once persisted.
//	ReleaseYear release year when the upstream payload carries one.
//	Genres      genre names joined with ", " (may be empty).
//	Description long description, else short description, else empty.
//	Theatre     unique theatre ids joined with ", " in first-seen order.
type TheatreRecord struct {
	ID          uint64 // theatre_movies.id
	Title       string // theatre_movies.title
	ReleaseYear *int   // theatre_movies.release_year
	Genres      string // theatre_movies.genres
	Description string // theatre_movies.description
	Theatre     string // theatre_movies.theatre
}

func (r TheatreRecord) String() string {
	return fmt.Sprintf("<TheatreRecord(title=%q, releaseYear=%q, genres=%q, theatre=%q)>",
		r.Title, formatYear(r.ReleaseYear), r.Genres, r.Theatre)
}

func formatYear(y *int) string {
	if y == nil {
		return "none"
	}
	return fmt.Sprint(*y)
}
