// Package querysql renders a compiled query.Spec as PostgreSQL through
// squirrel. Identifiers are quoted with pgx; every operand is a bound
// argument.
package querysql

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ehr/practice/internal/platform/query"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Table binds an entity's schema field names to a physical table.
type Table struct {
	Name       string
	PrimaryKey string
	// Columns is the select list; empty selects every column.
	Columns []string
	// ColumnMap renames schema fields whose column differs.
	ColumnMap map[string]string
}

// Column returns the quoted column for a schema field.
func (t Table) Column(field string) string {
	if col, ok := t.ColumnMap[field]; ok {
		field = col
	}
	return quote(field)
}

func (t Table) from() string {
	return pgx.Identifier(strings.Split(t.Name, ".")).Sanitize()
}

func (t Table) selectList() []string {
	if len(t.Columns) == 0 {
		return []string{"*"}
	}
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = quote(c)
	}
	return out
}

func quote(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// Where renders every predicate as an AND, plus the search group as a
// nested OR.
func Where(t Table, spec *query.Spec) (sq.And, error) {
	where := sq.And{}
	for _, p := range spec.Predicates {
		col := t.Column(p.Field)
		for _, c := range p.Conditions {
			expr, err := condition(col, c)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", p.Field, err)
			}
			where = append(where, expr)
		}
	}

	if spec.Search != nil && len(spec.Search.Conditions) > 0 {
		or := sq.Or{}
		for _, sc := range spec.Search.Conditions {
			col := t.Column(sc.Field)
			if sc.Operator == query.OpILike {
				or = append(or, sq.ILike{col: sc.Operand})
			} else {
				or = append(or, sq.Like{col: sc.Operand})
			}
		}
		where = append(where, or)
	}
	return where, nil
}

func condition(col string, c query.Condition) (sq.Sqlizer, error) {
	switch c.Operator {
	// Scalars go through Expr: squirrel's Eq would expand array-backed
	// operands such as uuid.UUID into an IN list.
	case query.OpEq:
		return sq.Expr(col+" = ?", c.Value), nil
	case query.OpNe:
		return sq.Expr(col+" <> ?", c.Value), nil
	case query.OpGt:
		return sq.Expr(col+" > ?", c.Value), nil
	case query.OpGte:
		return sq.Expr(col+" >= ?", c.Value), nil
	case query.OpLt:
		return sq.Expr(col+" < ?", c.Value), nil
	case query.OpLte:
		return sq.Expr(col+" <= ?", c.Value), nil
	case query.OpIn:
		return sq.Eq{col: c.Values}, nil
	case query.OpBetween:
		if len(c.Values) != 2 {
			return nil, fmt.Errorf("between needs 2 bounds, got %d", len(c.Values))
		}
		return sq.Expr(col+" BETWEEN ? AND ?", c.Values[0], c.Values[1]), nil
	case query.OpIsNull:
		return sq.Eq{col: nil}, nil
	case query.OpIsNotNull:
		return sq.NotEq{col: nil}, nil
	case query.OpLike:
		return sq.Like{col: c.Value}, nil
	case query.OpILike:
		return sq.ILike{col: c.Value}, nil
	}
	return nil, fmt.Errorf("unsupported operator %s", c.Operator)
}

// Select renders the page query: filters, the compiled sort with a
// primary key tie-break, then LIMIT and OFFSET.
func Select(t Table, spec *query.Spec) (sq.SelectBuilder, error) {
	where, err := Where(t, spec)
	if err != nil {
		return sq.SelectBuilder{}, err
	}

	b := psql.Select(t.selectList()...).From(t.from())
	if len(where) > 0 {
		b = b.Where(where)
	}

	var orderBy []string
	for _, s := range spec.Sort {
		orderBy = append(orderBy, t.Column(s.Field)+" "+string(s.Direction))
	}
	if t.PrimaryKey != "" && (len(spec.Sort) == 0 || spec.Sort[len(spec.Sort)-1].Field != t.PrimaryKey) {
		orderBy = append(orderBy, quote(t.PrimaryKey)+" ASC")
	}
	if len(orderBy) > 0 {
		b = b.OrderBy(orderBy...)
	}

	return b.Limit(uint64(spec.Page.Limit)).Offset(uint64(spec.Page.Offset)), nil
}

// Count renders SELECT COUNT(*) over the same filters as Select.
func Count(t Table, spec *query.Spec) (sq.SelectBuilder, error) {
	where, err := Where(t, spec)
	if err != nil {
		return sq.SelectBuilder{}, err
	}
	b := psql.Select("COUNT(*)").From(t.from())
	if len(where) > 0 {
		b = b.Where(where)
	}
	return b, nil
}

// Statement is a rendered SQL string and its arguments.
type Statement struct {
	SQL  string `json:"sql"`
	Args []any  `json:"args"`
}

// Render returns both the page and count statements for spec.
func Render(t Table, spec *query.Spec) (page, count Statement, err error) {
	sb, err := Select(t, spec)
	if err != nil {
		return page, count, err
	}
	if page.SQL, page.Args, err = sb.ToSql(); err != nil {
		return page, count, fmt.Errorf("render select: %w", err)
	}

	cb, err := Count(t, spec)
	if err != nil {
		return page, count, err
	}
	if count.SQL, count.Args, err = cb.ToSql(); err != nil {
		return page, count, fmt.Errorf("render count: %w", err)
	}
	return page, count, nil
}
