package ingest

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/movie-listings/internal/model"
)

// Sentinels for errors.Is.  Each typed error below matches exactly one.
var (
	ErrInvalidCategory   = errors.New("invalid category")
	ErrMissingParameters = errors.New("missing parameters")
	ErrMalformedPayload  = errors.New("malformed payload")
	// ErrIngestionRunning is returned when another ingestion holds the service.
	ErrIngestionRunning = errors.New("ingestion already running")
)

// InvalidCategoryError names a category outside model.Categories.
type InvalidCategoryError struct {
	Category string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("%q should be either %q or %q", e.Category, model.CategoryShowings, model.CategoryAirings)
}

func (e *InvalidCategoryError) Is(target error) bool { return target == ErrInvalidCategory }

// MissingParametersError lists the parameters a category needs but did not get.
type MissingParametersError struct {
	Category model.Category
	Missing  []string
}

func (e *MissingParametersError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Category, strings.Join(e.Missing, " and "))
}

func (e *MissingParametersError) Is(target error) bool { return target == ErrMissingParameters }

// MalformedPayloadError reports a payload that lacks a field the mapper
// needs.  Index is the payload's position in the upstream list, or -1 when
// the response as a whole could not be read as a list.
type MalformedPayloadError struct {
	Index int
	Field string
	Err   error
}

func (e *MalformedPayloadError) Error() string {
	msg := fmt.Sprintf("malformed payload at index %d: %s", e.Index, e.Field)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

func (e *MalformedPayloadError) Unwrap() error { return e.Err }
