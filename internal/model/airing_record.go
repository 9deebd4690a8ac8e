package model

import "fmt"

// AiringRecord represents a movie airing on a TV channel.  It
// corresponds to a row in the `tv_movies` table.  Title, ReleaseYear,
// Genres and Description come from the payload's nested program object.
type AiringRecord struct {
	ID          uint64 // tv_movies.id
	Title       string // tv_movies.title
	ReleaseYear *int   // tv_movies.release_year
	Genres      string // tv_movies.genres
	Description string // tv_movies.description
	Channel     string // tv_movies.channel
}

func (r AiringRecord) String() string {
	return fmt.Sprintf("<AiringRecord(title=%q, releaseYear=%q, genres=%q, channel=%q)>",
		r.Title, formatYear(r.ReleaseYear), r.Genres, r.Channel)
}
