package listing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ehr/practice/internal/platform/db"
	"github.com/ehr/practice/internal/platform/query"
	"github.com/ehr/practice/internal/platform/querysql"
)

type repoPG struct {
	pool db.Querier
}

// NewRepo returns a Repository reading through the request's tenant
// connection, or pool when there is none.
func NewRepo(pool db.Querier) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) List(ctx context.Context, table querysql.Table, spec *query.Spec) ([]Row, int, error) {
	page, count, err := querysql.Render(table, spec)
	if err != nil {
		return nil, 0, fmt.Errorf("render %s query: %w", table.Name, err)
	}
	q := db.QuerierFromContext(ctx, r.pool)

	var total int64
	if err := q.QueryRow(ctx, count.SQL, count.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table.Name, err)
	}
	if total == 0 || spec.Page.Offset >= int(total) {
		return []Row{}, int(total), nil
	}

	rows, err := q.Query(ctx, page.SQL, page.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", table.Name, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, 0, fmt.Errorf("scan %s: %w", table.Name, err)
	}
	return items, int(total), nil
}
