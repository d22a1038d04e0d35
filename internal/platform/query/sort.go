package query

// compileSort resolves sort_by and sort_order against the schema. Field
// and direction fall back to the default independently.
func compileSort(s Schema, params Params) []Sort {
	out := s.DefaultSort

	if v, ok := params.Get(KeySortBy); ok {
		if field := v.Scalar(); s.IsSortable(field) {
			out.Field = field
		}
	}
	if v, ok := params.Get(KeySortOrder); ok {
		if dir, ok := ParseDirection(v.Scalar()); ok {
			out.Direction = dir
		}
	}
	return []Sort{out}
}
