package storage

// Filter operators supported by list queries.
const (
	OpEq  = "eq"
	OpGt  = "gt"
	OpGte = "gte"
	OpLt  = "lt"
	OpLte = "lte"
	OpIn  = "in"
)

// DefaultPageLimit is applied when a list query does not set one.
const DefaultPageLimit = 25

// Filter is a single field condition. Value holds one entry for the
// comparison operators and all entries for OpIn.
type Filter struct {
	Field  string
	Op     string
	Values []string
}

// ListQuery carries generic list parameters parsed from the request:
// field selection, sort keys ("-field" for descending), pagination and
// per-field filters.
type ListQuery struct {
	Select  []string
	Sort    []string
	Page    int
	Limit   int
	Filters []Filter
}

// Normalize applies defaults for page and limit.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if len(q.Sort) == 0 {
		q.Sort = []string{"-created_at"}
	}
}

// Skip returns the number of documents to skip for the current page.
func (q *ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// WithFilter returns a copy of the query with an extra equality filter.
func (q ListQuery) WithFilter(field string, values ...string) ListQuery {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: OpEq, Values: values})
	return q
}
