package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIndexDef(t *testing.T) {
	idx := parseIndexDef("ux_users_email", `CREATE UNIQUE INDEX ux_users_email ON public.users USING btree (email)`)
	assert.True(t, idx.Unique)
	assert.Equal(t, []string{"email"}, idx.Columns)

	idx = parseIndexDef("ix_orders", `CREATE INDEX ix_orders ON sales.orders USING btree (customer_id, "Created")`)
	assert.False(t, idx.Unique)
	assert.Equal(t, []string{"customer_id", "Created"}, idx.Columns)
}

func TestQualified(t *testing.T) {
	assert.Equal(t, `"ventas"."Orders"`, qualified("ventas", "Orders"))
	assert.Equal(t, []string{`"a"`, `"b""c"`}, quoteAll([]string{"a", `b"c`}))
}
