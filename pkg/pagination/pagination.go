package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params holds the resolved page window of a list request.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Bounds are the per-entity limits a page window is clamped to.
type Bounds struct {
	DefaultLimit int
	MaxLimit     int
}

// Normalize fills zero values with the package defaults and keeps the
// default limit within the maximum.
func (b Bounds) Normalize() Bounds {
	if b.MaxLimit <= 0 {
		b.MaxLimit = MaxLimit
	}
	if b.DefaultLimit <= 0 {
		b.DefaultLimit = DefaultLimit
	}
	if b.DefaultLimit > b.MaxLimit {
		b.DefaultLimit = b.MaxLimit
	}
	return b
}

// Parse resolves raw limit/offset strings against the bounds. It never
// fails: absent, malformed or out-of-range input degrades to a safe value.
func Parse(rawLimit, rawOffset string, b Bounds) Params {
	b = b.Normalize()

	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil || limit <= 0 {
		limit = b.DefaultLimit
	}
	if limit > b.MaxLimit {
		limit = b.MaxLimit
	}

	offset, err := strconv.Atoi(strings.TrimSpace(rawOffset))
	if err != nil || offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// Response wraps a paginated API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
	Links   []Link      `json:"links,omitempty"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasNext(total),
	}
}

// WithLinks attaches navigation links built from the request path and query.
func (r *Response) WithLinks(basePath string, query url.Values) *Response {
	r.Links = Params{Limit: r.Limit, Offset: r.Offset}.Links(basePath, query, r.Total)
	return r
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset < total && p.Limit < total-p.Offset
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page, saturating at
// math.MaxInt.
func (p Params) NextOffset() int {
	if p.Offset > math.MaxInt-p.Limit {
		return math.MaxInt
	}
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Links generates self/next/previous links for a list result. Filter,
// search and sort parameters in query are carried over unchanged; only
// limit and offset are rewritten.
func (p Params) Links(basePath string, query url.Values, total int) []Link {
	links := []Link{
		{Relation: "self", URL: pageURL(basePath, query, p.Limit, p.Offset)},
	}

	if p.HasNext(total) {
		links = append(links, Link{
			Relation: "next",
			URL:      pageURL(basePath, query, p.Limit, p.NextOffset()),
		})
	}

	if p.HasPrevious() {
		links = append(links, Link{
			Relation: "previous",
			URL:      pageURL(basePath, query, p.Limit, p.PreviousOffset()),
		})
	}

	return links
}

func pageURL(basePath string, query url.Values, limit, offset int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return basePath + "?" + q.Encode()
}

// Link represents a single navigation link of a list response.
type Link struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}
