package model

// RankedRecord is one row of the genre ranking report.  Rows from both
// tables share this shape; Theatre is empty for airings and Channel is
// empty for showings.  NumMovies is the size of the record's genre group
// within its own table.
type RankedRecord struct {
	Category    Category `json:"category"`
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	ReleaseYear *int     `json:"release_year"`
	Genres      string   `json:"genres"`
	Description string   `json:"description"`
	Theatre     string   `json:"theatre,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	NumMovies   int      `json:"num_movies"`
}
