package listing

import (
	"context"

	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/querysql"
)

// Row is one listed record keyed by column name.
type Row = map[string]any

// Repository executes a compiled list query against a table.
type Repository interface {
	List(ctx context.Context, table querysql.Table, spec *query.Spec) ([]Row, int, error)
}
