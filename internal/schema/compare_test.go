package schema_test

import (
	"strconv"
	"testing"

	"fixture-check/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compare(fixture, live schema.RawColumns) []schema.Discrepancy {
	return schema.CompareColumns(
		schema.Normalize(fixture, schema.FromFixture),
		schema.Normalize(live, schema.FromLive),
	)
}

func TestCompareColumns_Equal(t *testing.T) {
	fixture := schema.RawColumns{
		"id":   {"type": "integer", "null": false, "default": nil, "length": 11, "unsigned": false},
		"name": {"type": "string", "length": 255, "null": true, "default": "anon"},
	}
	live := schema.RawColumns{
		"id":   {"type": "integer", "null": false, "default": nil, "length": int64(11), "unsigned": false},
		"name": {"type": "string", "length": int64(255), "null": true, "default": "anon", "collate": "utf8mb4_general_ci"},
	}

	assert.Empty(t, compare(fixture, live))
}

func TestCompareColumns_EqualRandomized(t *testing.T) {
	faker := gofakeit.New(3)
	types := []string{"string", "text", "integer", "boolean", "decimal", "datetime", "uuid"}

	for i := 0; i < 100; i++ {
		raw := schema.RawColumns{}
		for j := faker.Number(1, 6); j > 0; j-- {
			col := schema.RawColumn{"type": faker.RandomString(types)}
			if faker.Bool() {
				col["length"] = faker.Number(1, 1000)
			}
			if faker.Bool() {
				col["null"] = faker.Bool()
			}
			if faker.Bool() {
				col["default"] = faker.Number(-5, 5)
			}
			raw[faker.LetterN(6)] = col
		}

		live := schema.RawColumns{}
		for name, col := range raw {
			lc := schema.RawColumn{}
			for k, v := range col {
				lc[k] = v
			}
			if d, ok := lc["default"].(int); ok {
				lc["default"] = strconv.Itoa(d)
			}
			live[name] = lc
		}

		assert.Empty(t, compare(raw, live))
	}
}

func TestCompareColumns_AutoIncrementNeverCompared(t *testing.T) {
	fixture := schema.RawColumns{"id": {"type": "integer", "autoIncrement": true}}

	assert.Empty(t, compare(fixture, schema.RawColumns{"id": {"type": "integer"}}))
	assert.Empty(t, compare(fixture, schema.RawColumns{"id": {"type": "integer", "autoIncrement": false}}))
}

func TestCompareColumns_DefaultStringCoercion(t *testing.T) {
	fixture := schema.RawColumns{"count": {"type": "integer", "default": 0}}
	live := schema.RawColumns{"count": {"type": "integer", "default": "0"}}

	assert.Empty(t, compare(fixture, live))
}

func TestCompareColumns_TypeDiffers(t *testing.T) {
	got := compare(
		schema.RawColumns{"body": {"type": "string"}},
		schema.RawColumns{"body": {"type": "text"}},
	)

	require.Len(t, got, 1)
	assert.Equal(t, schema.Discrepancy{
		Column:    "body",
		Attribute: "type",
		Kind:      schema.KindAttributeDiffers,
		Fixture:   "string",
		Live:      "text",
	}, got[0])
	assert.Equal(t, `body: type differs (fixture: "string", live: "text")`, got[0].String())
}

func TestCompareColumns_StrictEquality(t *testing.T) {
	tests := []struct {
		name    string
		fixture any
		live    any
	}{
		{"int vs bool", 0, false},
		{"string vs int", "255", 255},
		{"bool vs int", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compare(
				schema.RawColumns{"c": {"length": tt.fixture}},
				schema.RawColumns{"c": {"length": tt.live}},
			)
			require.Len(t, got, 1)
			assert.Equal(t, schema.KindAttributeDiffers, got[0].Kind)
		})
	}
}

func TestCompareColumns_LiveMissingAttribute(t *testing.T) {
	got := compare(
		schema.RawColumns{"qty": {"type": "integer", "unsigned": true, "precision": nil}},
		schema.RawColumns{"qty": {"type": "integer"}},
	)

	require.Len(t, got, 1)
	assert.Equal(t, schema.KindLiveMissingAttribute, got[0].Kind)
	assert.Equal(t, "unsigned", got[0].Attribute)
	assert.Equal(t, "qty: live column has no unsigned attribute (fixture: true)", got[0].String())
}

func TestCompareColumns_NullAgainstValue(t *testing.T) {
	got := compare(
		schema.RawColumns{"title": {"default": nil}},
		schema.RawColumns{"title": {"default": "untitled"}},
	)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].Fixture)
	assert.Equal(t, "untitled", got[0].Live)
}

func TestCompareColumns_IgnoresMissingColumnsAndExtras(t *testing.T) {
	got := compare(
		schema.RawColumns{"id": {"type": "integer", "comment": "pk"}, "gone": {"type": "string"}},
		schema.RawColumns{"id": {"type": "integer", "comment": "primary"}, "extra": {"type": "string"}},
	)

	assert.Empty(t, got)
}

func TestCompareColumns_Order(t *testing.T) {
	got := compare(
		schema.RawColumns{
			"b": {"type": "string", "null": true, "length": 10},
			"a": {"type": "integer", "default": 1},
		},
		schema.RawColumns{
			"b": {"type": "text", "null": false, "length": int64(20)},
			"a": {"type": "biginteger", "default": "2"},
		},
	)

	var order []string
	for _, d := range got {
		order = append(order, d.Column+"."+d.Attribute)
	}
	assert.Equal(t, []string{"a.default", "a.type", "b.length", "b.null", "b.type"}, order)
}
