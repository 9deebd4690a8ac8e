package ingest

import (
	"strings"

	"github.com/iliyamo/movie-listings/internal/model"
)

// Params carries the category-specific request parameters.  Showings use
// Zip and StartDate; airings use LineupID and StartDateTime.
type Params struct {
	Zip           string `json:"zip"`
	StartDate     string `json:"start_date"`
	LineupID      string `json:"lineup_id"`
	StartDateTime string `json:"start_date_time"`
}

type param struct{ name, value string }

// Validate checks category and params before any request is built.  It
// returns *InvalidCategoryError or *MissingParametersError.
func Validate(category model.Category, p Params) error {
	var required []param
	switch category {
	case model.CategoryShowings:
		required = []param{{"zip", p.Zip}, {"startDate", p.StartDate}}
	case model.CategoryAirings:
		required = []param{{"lineupId", p.LineupID}, {"startDateTime", p.StartDateTime}}
	default:
		return &InvalidCategoryError{Category: string(category)}
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return &MissingParametersError{Category: category, Missing: missing}
	}
	return nil
}
