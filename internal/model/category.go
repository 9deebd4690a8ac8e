package model

// Category selects which upstream listing feed is ingested.  It decides
// the required request parameters, the upstream endpoint and the shape
// of the persisted record.
type Category string

const (
	// CategoryShowings covers movies playing in local theatres for a zip code.
	CategoryShowings Category = "THEATRE-SHOWINGS"
	// CategoryAirings covers movies airing on TV for a lineup.
	CategoryAirings Category = "TV-AIRINGS"
)

func (c Category) String() string { return string(c) }
