// Package paginate parses page/limit query parameters and builds the
// pagination envelope returned by list endpoints.
package paginate

import (
	"math"
	"net/url"
	"strconv"
)

const (
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
	// MaxPage caps the page number so the skip offset stays in range.
	MaxPage = math.MaxInt32
)

// Params is a resolved page request.
type Params struct {
	Page  int
	Limit int
}

// Skip is the number of documents to skip for the requested page.
func (p Params) Skip() int64 {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	page := int64(p.Page)
	if page > MaxPage {
		page = MaxPage
	}
	return (page - 1) * int64(p.Limit)
}

// Limit64 is Limit as int64 for driver options.
func (p Params) Limit64() int64 { return int64(p.Limit) }

// Meta is the pagination block of a list response.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// Parse reads page and limit from q. Missing, non-numeric or non-positive
// values fall back to page 1 and defaultLimit; page is capped at MaxPage and
// limit at MaxLimit.
func Parse(q url.Values, defaultLimit int) Params {
	return New(q.Get("page"), q.Get("limit"), defaultLimit)
}

// New resolves raw page/limit strings.
func New(rawPage, rawLimit string, defaultLimit int) Params {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// MetaFor builds the pagination block for total matching documents.
func (p Params) MetaFor(total int64) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return Meta{Page: p.Page, Limit: p.Limit, Pages: pages, Total: total}
}

// Page is a slice of results with its pagination block.
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// NewPage wraps items, normalising nil to an empty slice for JSON output.
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: p.MetaFor(total)}
}
