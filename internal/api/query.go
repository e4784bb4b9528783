package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/school-backend/internal/storage"
)

// Query parameters consumed by the list machinery itself; everything
// else is treated as a field filter.
var reservedParams = map[string]bool{
	"select":   true,
	"sort":     true,
	"page":     true,
	"limit":    true,
	"archived": true,
	"teacher":  true,
}

// parseListQuery builds a storage.ListQuery from the request query
// string. Filters accept a bracketed operator suffix, e.g.
// grade_level[gte]=7 or school_year[in]=2025,2026; a bare key means
// equality.
func parseListQuery(c *gin.Context) storage.ListQuery {
	q := storage.ListQuery{}

	if sel := c.Query("select"); sel != "" {
		for _, f := range strings.Split(sel, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Select = append(q.Select, fieldKey(f))
			}
		}
	}
	if sort := c.Query("sort"); sort != "" {
		for _, f := range strings.Split(sort, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Sort = append(q.Sort, sortKey(f))
			}
		}
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		q.Limit = limit
	}

	for key, values := range c.Request.URL.Query() {
		field, op := splitFilterKey(key)
		if reservedParams[field] || len(values) == 0 {
			continue
		}
		vals := values
		if op == storage.OpIn {
			vals = strings.Split(values[0], ",")
		} else {
			vals = values[:1]
		}
		q.Filters = append(q.Filters, storage.Filter{
			Field:  fieldKey(field),
			Op:     op,
			Values: vals,
		})
	}

	q.Normalize()
	return q
}

// splitFilterKey parses "field[op]" into its parts. Unknown operators
// fall back to equality.
func splitFilterKey(key string) (field, op string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, storage.OpEq
	}
	field = key[:open]
	switch key[open+1 : len(key)-1] {
	case "gt":
		op = storage.OpGt
	case "gte":
		op = storage.OpGte
	case "lt":
		op = storage.OpLt
	case "lte":
		op = storage.OpLte
	case "in":
		op = storage.OpIn
	default:
		op = storage.OpEq
	}
	return field, op
}

// sortKey preserves the leading "-" while mapping the field name.
func sortKey(f string) string {
	if strings.HasPrefix(f, "-") {
		return "-" + fieldKey(f[1:])
	}
	return fieldKey(f)
}

// fieldKey maps client-facing camelCase field names onto the stored
// snake_case keys, so callers can write sort=-createdAt.
func fieldKey(f string) string {
	var b strings.Builder
	for i, r := range f {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
