package pagination

import (
	"math"
	"net/url"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	p := Parse("", "", Bounds{})

	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestParse_CustomValues(t *testing.T) {
	p := Parse("50", "10", Bounds{MaxLimit: 100})

	if p.Limit != 50 {
		t.Errorf("expected limit 50, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestParse_Fallbacks(t *testing.T) {
	b := Bounds{DefaultLimit: 10, MaxLimit: 100}
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
	}{
		{"negative limit", "-5", "", 10, 0},
		{"zero limit", "0", "", 10, 0},
		{"garbage limit", "abc", "", 10, 0},
		{"fractional limit", "2.5", "", 10, 0},
		{"limit above max", "9999", "", 100, 0},
		{"limit at max", "100", "", 100, 0},
		{"negative offset", "", "-1", 10, 0},
		{"garbage offset", "", "x", 10, 0},
		{"padded values", " 25 ", " 50 ", 25, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.limit, tt.offset, b)
			if p.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", p.Limit, tt.wantLimit)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", p.Offset, tt.wantOffset)
			}
		})
	}
}

func TestBounds_Normalize(t *testing.T) {
	b := Bounds{DefaultLimit: 500, MaxLimit: 50}.Normalize()
	if b.DefaultLimit != 50 {
		t.Errorf("expected default limit clamped to 50, got %d", b.DefaultLimit)
	}

	b = Bounds{}.Normalize()
	if b.DefaultLimit != DefaultLimit || b.MaxLimit != MaxLimit {
		t.Errorf("unexpected defaults: %+v", b)
	}
}

func TestNewResponse(t *testing.T) {
	data := []string{"a", "b", "c"}
	r := NewResponse(data, 10, Params{Limit: 3, Offset: 0})

	if r.Total != 10 {
		t.Errorf("expected total 10, got %d", r.Total)
	}
	if !r.HasMore {
		t.Error("expected has_more to be true when offset+limit < total")
	}

	r2 := NewResponse(data, 3, Params{Limit: 3, Offset: 0})
	if r2.HasMore {
		t.Error("expected has_more to be false when offset+limit >= total")
	}
}

func TestParams_HasNext(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		total  int
		want   bool
	}{
		{"more results", Params{Limit: 10, Offset: 0}, 25, true},
		{"exact end", Params{Limit: 10, Offset: 15}, 25, false},
		{"past end", Params{Limit: 10, Offset: 30}, 25, false},
		{"no results", Params{Limit: 10, Offset: 0}, 0, false},
		{"last partial page", Params{Limit: 10, Offset: 20}, 25, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.HasNext(tt.total); got != tt.want {
				t.Errorf("HasNext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParams_PreviousOffset(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   int
	}{
		{"normal", Params{Limit: 10, Offset: 20}, 10},
		{"clamp to zero", Params{Limit: 10, Offset: 5}, 0},
		{"exact", Params{Limit: 10, Offset: 10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.PreviousOffset(); got != tt.want {
				t.Errorf("PreviousOffset() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParams_Links_MiddlePage(t *testing.T) {
	p := Params{Limit: 10, Offset: 10}
	query := url.Values{"is_active": {"true"}, "limit": {"10"}, "offset": {"10"}}
	links := p.Links("/api/v1/patients", query, 25)

	linkMap := make(map[string]string)
	for _, l := range links {
		linkMap[l.Relation] = l.URL
	}

	if got, want := linkMap["self"], "/api/v1/patients?is_active=true&limit=10&offset=10"; got != want {
		t.Errorf("self = %q, want %q", got, want)
	}
	if got, want := linkMap["next"], "/api/v1/patients?is_active=true&limit=10&offset=20"; got != want {
		t.Errorf("next = %q, want %q", got, want)
	}
	if got, want := linkMap["previous"], "/api/v1/patients?is_active=true&limit=10&offset=0"; got != want {
		t.Errorf("previous = %q, want %q", got, want)
	}
	if query.Get("offset") != "10" {
		t.Error("Links must not modify the caller's query values")
	}
}

func TestParams_Links_NoResults(t *testing.T) {
	p := Params{Limit: 10, Offset: 0}
	links := p.Links("/api/v1/visits", nil, 0)

	if len(links) != 1 {
		t.Fatalf("expected 1 link (self only), got %d", len(links))
	}
	if links[0].Relation != "self" {
		t.Errorf("expected 'self', got %q", links[0].Relation)
	}
}

func TestResponse_WithLinks(t *testing.T) {
	r := NewResponse([]int{1}, 30, Params{Limit: 10, Offset: 0}).WithLinks("/x", nil)
	if len(r.Links) != 2 {
		t.Fatalf("expected self and next links, got %+v", r.Links)
	}
}

func TestParams_HugeOffset(t *testing.T) {
	p := Parse("100", "9223372036854775800", Bounds{})
	if p.Offset != 9223372036854775800 {
		t.Fatalf("expected the offset to be kept, got %d", p.Offset)
	}

	r := NewResponse([]int{}, 5, p).WithLinks("/api/v1/patients", nil)
	if r.HasMore {
		t.Error("has_more must be false past the end")
	}
	for _, l := range r.Links {
		if l.Relation == "next" {
			t.Errorf("unexpected next link %q", l.URL)
		}
	}
	if got := p.NextOffset(); got != math.MaxInt {
		t.Errorf("NextOffset() = %d, want math.MaxInt", got)
	}
}
