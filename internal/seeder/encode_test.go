package seeder

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shade int

func (s shade) String() string { return "shade" }

func TestEncodeValue(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")

	tests := []struct {
		name string
		in   any
		fam  TypeFamily
		want string
	}{
		{"string", "hola", FamilyText, "hola"},
		{"true", true, FamilyBoolean, "t"},
		{"false", false, FamilyBoolean, "f"},
		{"int", 7, FamilyInteger, "7"},
		{"int64", int64(-42), FamilyBigInt, "-42"},
		{"float", 1.5, FamilyFloat, "1.5"},
		{"decimal", decimal.RequireFromString("12.30"), FamilyNumeric, "12.3"},
		{"date", ts, FamilyDate, "2024-03-05"},
		{"timestamp", ts, FamilyTimestamp, "2024-03-05T14:30:00Z"},
		{"uuid", id, FamilyUUID, "7d444840-9dc0-11d1-b245-5ffdce74fad2"},
		{"bytes", []byte{0xde, 0xad}, FamilyBinary, `\xdead`},
		{"json", map[string]any{"k": 1}, FamilyJSON, `{"k":1}`},
		{"array", arrayValue{Elem: FamilyText, Items: []any{`a"b`, nil, `c\d`}}, FamilyArray, `{"a\"b",NULL,"c\\d"}`},
		{"stringer", shade(1), FamilyUnknown, "shade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := encodeValue(tt.in, tt.fam)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeValueNull(t *testing.T) {
	s, ok, err := encodeValue(nil, FamilyText)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, s)
}

func TestEncodeRowReportsColumn(t *testing.T) {
	_, err := encodeRow([]string{"a", "b"}, []TypeFamily{FamilyText, FamilyUnknown}, []any{"x", struct{}{}})
	require.Error(t, err)

	var encErr *encodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, "b", encErr.column)
	assert.True(t, recoverable(err))
}

func TestEncodeCSVQuotesEveryValue(t *testing.T) {
	buf, err := encodeCSV(
		[]string{"a", "b", "c", "d"},
		[]TypeFamily{FamilyText, FamilyText, FamilyText, FamilyInteger},
		[][]any{
			{`say "hi"`, nil, "", int64(3)},
			{`\N`, "a,b", "line\nbreak", nil},
		},
	)
	require.NoError(t, err)

	want := `"say ""hi""",\N,"","3"` + "\n" +
		`"\N","a,b","line` + "\n" + `break",\N` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestNextUnique(t *testing.T) {
	used := valueSet{}
	used.add(int64(1))
	used.add(int64(2))

	seq := []any{int64(1), int64(2), int64(3)}
	i := 0
	v, ok := nextUnique(func() any { v := seq[i%len(seq)]; i++; return v }, used, 10)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)
	assert.Len(t, used, 2, "used must not change")

	v, ok = nextUnique(func() any { return int64(1) }, used, 5)
	assert.False(t, ok)
	assert.Equal(t, int64(1), v)

	v, ok = nextUnique(func() any { return nil }, used, 5)
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestValueSetComparesTextForm(t *testing.T) {
	set := valueSet{}
	set.add(int64(15))
	assert.True(t, set.has("15"))

	id := uuid.New()
	set.add(id)
	assert.True(t, set.has(id.String()))
}

func TestReferentialCache(t *testing.T) {
	c := NewReferentialCache()
	key := cacheKey("customers", "id")

	c.Add(key, int64(1), nil, "1", int64(2))
	assert.Equal(t, []any{int64(1), int64(2)}, c.Values(key))

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		assert.Contains(t, []any{int64(1), int64(2)}, c.Sample(rng, key))
	}
	assert.Nil(t, c.Sample(rng, cacheKey("orders", "id")))

	assert.True(t, c.NeedsWarmup(key))
	c.MarkFresh(key)
	c.MarkFresh(cacheKey("customer_types", "id"))
	assert.False(t, c.NeedsWarmup(key))

	c.MarkStale("customers")
	assert.True(t, c.NeedsWarmup(key))
	assert.False(t, c.NeedsWarmup(cacheKey("customer_types", "id")))
	assert.Len(t, c.Values(key), 2, "stale keys keep their values")
}

func TestUniquenessTrackerPerColumn(t *testing.T) {
	tr := NewUniquenessTracker()
	tr.Used("a.x").add("v")
	assert.True(t, tr.Used("a.x").has("v"))
	assert.False(t, tr.Used("a.y").has("v"))
}
