package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-society-manager/internal/pagination"
)

func TestWhereBuilder(t *testing.T) {
	where := &whereBuilder{}
	assert.Empty(t, where.clause())

	where.add("society_id = $%d", "s1")
	where.addIf("status = $%d", "  ")
	where.search("bob", "full_name", "email")
	where.addIf("role = $%d", "admin")

	assert.Equal(t, "WHERE society_id = $1 AND (full_name ILIKE $2 OR email ILIKE $2) AND role = $3", where.clause())
	assert.Equal(t, []any{"s1", "%bob%", "admin"}, where.args)
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{"name": "s.name"}

	tests := []struct {
		name    string
		filters pagination.Filters
		want    string
	}{
		{name: "fallback when empty", filters: pagination.Filters{}, want: "created_at DESC"},
		{name: "unknown key", filters: pagination.Filters{Sort: "name; DROP TABLE x"}, want: "created_at DESC"},
		{name: "ascending", filters: pagination.Filters{Sort: "name"}, want: "s.name ASC"},
		{name: "descending", filters: pagination.Filters{Sort: "NAME", Order: "desc"}, want: "s.name DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.filters, allowed, "created_at DESC"))
		})
	}
}
