package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPage is the page returned when the client omits the page parameter.
	DefaultPage = 1
	// DefaultPerPage defines the fallback number of items per page.
	DefaultPerPage = 50
	// MaxPerPage caps the supported per_page value to prevent unbounded upstream queries.
	MaxPerPage = 100
)

// Params bundles the page-number pagination values extracted from a request.
type Params struct {
	Page    int
	PerPage int
}

// Options control defaults applied while parsing.
type Options struct {
	DefaultPerPage int
	MaxPerPage     int
}

var (
	ErrInvalidPage    = errors.New("pagination: invalid page")
	ErrInvalidPerPage = errors.New("pagination: invalid per_page")
)

// FromRequest parses the supported query parameters from the supplied request.
func FromRequest(r *http.Request, opts Options) (Params, error) {
	if r == nil {
		return Params{}, errors.New("pagination: nil request")
	}
	return Parse(r.URL.Query(), opts)
}

// Parse consumes the provided query values and returns the normalised Params representation.
func Parse(values url.Values, opts Options) (Params, error) {
	if values == nil {
		values = url.Values{}
	}

	page, err := parsePositiveInt(values.Get("page"), DefaultPage, ErrInvalidPage)
	if err != nil {
		return Params{}, err
	}

	maxPerPage := opts.MaxPerPage
	if maxPerPage <= 0 {
		maxPerPage = MaxPerPage
	}
	defaultPerPage := opts.DefaultPerPage
	if defaultPerPage <= 0 {
		defaultPerPage = DefaultPerPage
	}
	if defaultPerPage > maxPerPage {
		defaultPerPage = maxPerPage
	}

	perPage, err := parsePositiveInt(values.Get("per_page"), defaultPerPage, ErrInvalidPerPage)
	if err != nil {
		return Params{}, err
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Params{Page: page, PerPage: perPage}, nil
}

func parsePositiveInt(raw string, fallback int, sentinel error) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: must be an integer", sentinel)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", sentinel)
	}
	return value, nil
}
