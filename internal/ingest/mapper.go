package ingest

import (
	"encoding/json"
	"strings"

	"github.com/iliyamo/movie-listings/internal/model"
	"github.com/iliyamo/movie-listings/internal/utils"
)

// Upstream payload shapes.  Pointers distinguish an absent field from an
// empty one.

type programPayload struct {
	Title            *string  `json:"title"`
	ReleaseYear      *int     `json:"releaseYear"`
	Genres           []string `json:"genres"`
	LongDescription  *string  `json:"longDescription"`
	ShortDescription *string  `json:"shortDescription"`
}

type showtimePayload struct {
	Theatre *struct {
		ID *string `json:"id"`
	} `json:"theatre"`
}

type showingPayload struct {
	programPayload
	Showtimes *[]showtimePayload `json:"showtimes"`
}

type airingPayload struct {
	Program *programPayload `json:"program"`
	Station *struct {
		Channel *string `json:"channel"`
	} `json:"station"`
}

// MapShowing turns one showings payload into a TheatreRecord.  It fails
// with *MalformedPayloadError when the title, the showtimes list or a
// showtime's theatre id is missing.
func MapShowing(raw json.RawMessage) (model.TheatreRecord, error) {
	var p showingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.TheatreRecord{}, malformed("payload", err)
	}
	title, err := requireTitle(p.Title, "title")
	if err != nil {
		return model.TheatreRecord{}, err
	}
	if p.Showtimes == nil {
		return model.TheatreRecord{}, malformed("showtimes", nil)
	}
	ids := make([]string, 0, len(*p.Showtimes))
	for _, st := range *p.Showtimes {
		if st.Theatre == nil || st.Theatre.ID == nil {
			return model.TheatreRecord{}, malformed("showtimes.theatre.id", nil)
		}
		ids = append(ids, *st.Theatre.ID)
	}
	return model.TheatreRecord{
		Title:       title,
		ReleaseYear: p.ReleaseYear,
		Genres:      joinList(p.Genres),
		Description: description(p.LongDescription, p.ShortDescription),
		Theatre:     joinList(utils.Unique(ids)),
	}, nil
}

// MapAiring turns one airings payload into an AiringRecord.  The program
// object, its title and station.channel are required.
func MapAiring(raw json.RawMessage) (model.AiringRecord, error) {
	var p airingPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.AiringRecord{}, malformed("payload", err)
	}
	if p.Program == nil {
		return model.AiringRecord{}, malformed("program", nil)
	}
	title, err := requireTitle(p.Program.Title, "program.title")
	if err != nil {
		return model.AiringRecord{}, err
	}
	if p.Station == nil || p.Station.Channel == nil {
		return model.AiringRecord{}, malformed("station.channel", nil)
	}
	return model.AiringRecord{
		Title:       title,
		ReleaseYear: p.Program.ReleaseYear,
		Genres:      joinList(p.Program.Genres),
		Description: description(p.Program.LongDescription, p.Program.ShortDescription),
		Channel:     *p.Station.Channel,
	}, nil
}

func requireTitle(title *string, field string) (string, error) {
	if title == nil || strings.TrimSpace(*title) == "" {
		return "", malformed(field, nil)
	}
	return *title, nil
}

// description prefers the long form, then the short form, then "".
func description(long, short *string) string {
	switch {
	case long != nil:
		return *long
	case short != nil:
		return *short
	}
	return ""
}

func joinList(items []string) string { return strings.Join(items, ", ") }

func malformed(field string, err error) *MalformedPayloadError {
	return &MalformedPayloadError{Index: -1, Field: field, Err: err}
}
