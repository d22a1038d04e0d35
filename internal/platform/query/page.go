package query

import "github.com/ehr/practice/pkg/pagination"

// compilePage resolves limit and offset; malformed input never fails.
func compilePage(s Schema, params Params) pagination.Params {
	var limit, offset string
	if v, ok := params.Get(KeyLimit); ok {
		limit = v.Scalar()
	}
	if v, ok := params.Get(KeyOffset); ok {
		offset = v.Scalar()
	}
	return pagination.Parse(limit, offset, s.Bounds())
}
