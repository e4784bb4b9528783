package api

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/classpoint/school-backend/internal/storage"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/api/v1/subjects?"+rawQuery, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	c.Request = req
	return c
}

func TestParseListQueryDefaults(t *testing.T) {
	q := parseListQuery(queryContext(t, ""))

	if q.Page != 1 {
		t.Errorf("Page = %d, want 1", q.Page)
	}
	if q.Limit != storage.DefaultPageLimit {
		t.Errorf("Limit = %d, want %d", q.Limit, storage.DefaultPageLimit)
	}
	if !reflect.DeepEqual(q.Sort, []string{"-created_at"}) {
		t.Errorf("Sort = %v, want [-created_at]", q.Sort)
	}
	if len(q.Filters) != 0 {
		t.Errorf("Filters = %v, want none", q.Filters)
	}
}

func TestParseListQueryPagination(t *testing.T) {
	q := parseListQuery(queryContext(t, "page=3&limit=50"))

	if q.Page != 3 || q.Limit != 50 {
		t.Errorf("Page/Limit = %d/%d, want 3/50", q.Page, q.Limit)
	}
	if q.Skip() != 100 {
		t.Errorf("Skip() = %d, want 100", q.Skip())
	}
}

func TestParseListQuerySelectAndSort(t *testing.T) {
	q := parseListQuery(queryContext(t, "select=name,schoolYear&sort=-createdAt,name"))

	if !reflect.DeepEqual(q.Select, []string{"name", "school_year"}) {
		t.Errorf("Select = %v", q.Select)
	}
	if !reflect.DeepEqual(q.Sort, []string{"-created_at", "name"}) {
		t.Errorf("Sort = %v", q.Sort)
	}
}

func TestParseListQueryFilters(t *testing.T) {
	q := parseListQuery(queryContext(t, "gradeLevel[gte]=7&schoolYear[in]=2025-2026,2026-2027&section=A"))

	want := map[string]storage.Filter{
		"grade_level": {Field: "grade_level", Op: storage.OpGte, Values: []string{"7"}},
		"school_year": {Field: "school_year", Op: storage.OpIn, Values: []string{"2025-2026", "2026-2027"}},
		"section":     {Field: "section", Op: storage.OpEq, Values: []string{"A"}},
	}
	if len(q.Filters) != len(want) {
		t.Fatalf("got %d filters, want %d: %v", len(q.Filters), len(want), q.Filters)
	}
	for _, f := range q.Filters {
		if !reflect.DeepEqual(f, want[f.Field]) {
			t.Errorf("filter %s = %+v, want %+v", f.Field, f, want[f.Field])
		}
	}
}

func TestParseListQuerySkipsReservedParams(t *testing.T) {
	q := parseListQuery(queryContext(t, "page=2&limit=10&sort=name&archived=true&teacher=someone&name=Math"))

	if len(q.Filters) != 1 || q.Filters[0].Field != "name" {
		t.Errorf("Filters = %v, want only the name filter", q.Filters)
	}
}

func TestSplitFilterKey(t *testing.T) {
	tests := []struct {
		key   string
		field string
		op    string
	}{
		{"name", "name", storage.OpEq},
		{"grade_level[gt]", "grade_level", storage.OpGt},
		{"grade_level[gte]", "grade_level", storage.OpGte},
		{"grade_level[lt]", "grade_level", storage.OpLt},
		{"grade_level[lte]", "grade_level", storage.OpLte},
		{"school_year[in]", "school_year", storage.OpIn},
		{"name[bogus]", "name", storage.OpEq},
		{"name[gte", "name[gte", storage.OpEq},
	}
	for _, tt := range tests {
		field, op := splitFilterKey(tt.key)
		if field != tt.field || op != tt.op {
			t.Errorf("splitFilterKey(%q) = (%q, %q), want (%q, %q)", tt.key, field, op, tt.field, tt.op)
		}
	}
}

func TestFieldKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"name", "name"},
		{"schoolYear", "school_year"},
		{"createdAt", "created_at"},
		{"already_snake", "already_snake"},
		{"Upper", "upper"},
	}
	for _, tt := range tests {
		if got := fieldKey(tt.in); got != tt.want {
			t.Errorf("fieldKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
