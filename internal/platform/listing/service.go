package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/ehr/practice/internal/platform/catalog"
	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/telemetry"
)

var ErrUnknownEntity = errors.New("unknown entity")

// Page is one page of a list result with the spec that selected it.
type Page struct {
	Items []Row
	Total int
	Spec  *query.Spec
}

type Service struct {
	catalog *catalog.Catalog
	repo    Repository
	metrics *telemetry.Metrics
}

func NewService(cat *catalog.Catalog, repo Repository, metrics *telemetry.Metrics) *Service {
	return &Service{catalog: cat, repo: repo, metrics: metrics}
}

func (s *Service) entity(name string) (*catalog.Entity, error) {
	e, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEntity, name)
	}
	return e, nil
}

// Compile compiles params for entity without touching the repository.
func (s *Service) Compile(entity string, params query.Params) (*query.Spec, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}

	spec, err := e.Compiler().Compile(params)
	if err != nil {
		kind, _ := query.KindOf(err)
		s.metrics.ObserveCompile(entity, string(kind))
		return nil, err
	}
	s.metrics.ObserveCompile(entity, "")
	return spec, nil
}

// List compiles params and fetches the selected page.
func (s *Service) List(ctx context.Context, entity string, params query.Params) (*Page, error) {
	spec, err := s.Compile(entity, params)
	if err != nil {
		return nil, err
	}
	e, _ := s.catalog.Lookup(entity)

	items, total, err := s.repo.List(ctx, e.Table, spec)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Total: total, Spec: spec}, nil
}

// FieldDescription documents one filterable field.
type FieldDescription struct {
	Type      string   `json:"type"`
	Values    []string `json:"values,omitempty"`
	Operators []string `json:"operators"`
}

// Description documents an entity's list query surface.
type Description struct {
	Entity       string                      `json:"entity"`
	SearchFields []string                    `json:"search_fields"`
	Filters      map[string]FieldDescription `json:"filters"`
	Sortable     []string                    `json:"sortable"`
	DefaultSort  query.Sort                  `json:"default_sort"`
	DefaultLimit int                         `json:"default_limit"`
	MaxLimit     int                         `json:"max_limit"`
	Shadowed     []string                    `json:"shadowed,omitempty"`
}

// Describe reports what entity's list endpoint accepts.
func (s *Service) Describe(entity string) (*Description, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}
	comp := e.Compiler()
	schema := comp.Schema()
	bounds := schema.Bounds()

	d := &Description{
		Entity:       entity,
		SearchFields: schema.SearchFields,
		Filters:      make(map[string]FieldDescription, len(schema.Filterable)),
		Sortable:     schema.Sortable,
		DefaultSort:  schema.DefaultSort,
		DefaultLimit: bounds.DefaultLimit,
		MaxLimit:     bounds.MaxLimit,
		Shadowed:     schema.ShadowedFields(),
	}
	for name, f := range schema.Filterable {
		ops := query.Operators(f.Type, comp.Strict())
		names := make([]string, len(ops))
		for i, op := range ops {
			names[i] = op.String()
		}
		d.Filters[name] = FieldDescription{Type: f.Type.String(), Values: f.EnumValues, Operators: names}
	}
	return d, nil
}

// Entities lists the catalog's entity names.
func (s *Service) Entities() []string {
	return s.catalog.Names()
}
