package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fixture-check/internal/errs"
	"fixture-check/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersYAML = `
table: users
fields:
  id: {type: integer, null: false, autoIncrement: true}
  name: {type: string, length: 255, null: true, default: null}
  created: datetime
  _constraints:
    primary: {type: primary, columns: [id]}
records:
  - {id: 1, name: alice}
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestParse(t *testing.T) {
	fx, err := Parse("Users", []byte(usersYAML))
	require.NoError(t, err)

	assert.Equal(t, "Users", fx.Name)
	assert.Equal(t, "users", fx.Table)
	assert.Equal(t, schema.RawColumn{"type": "integer", "null": false, "autoIncrement": true}, fx.Fields["id"])
	assert.Equal(t, schema.RawColumn{"type": "datetime"}, fx.Fields["created"])
	assert.Contains(t, fx.Fields, "_constraints")

	cols := schema.Normalize(fx.Fields, schema.FromFixture)
	assert.Equal(t, []string{"created", "id", "name"}, cols.Names())
	assert.Equal(t, schema.Some(255), cols["name"].Length)
	assert.Equal(t, schema.Null[string](), cols["name"].Default)
}

func TestParse_DerivesTable(t *testing.T) {
	fx, err := Parse("Blog.BlogPosts", []byte("fields:\n  id: integer\n"))
	require.NoError(t, err)
	assert.Equal(t, "blog_posts", fx.Table)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"broken yaml", "fields: [\n"},
		{"list field", "fields:\n  id: [integer]\n"},
		{"numeric field", "fields:\n  id: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("Broken", []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UsersFixture.yml", usersYAML)
	writeFile(t, dir, "Articles.yaml", "fields: {}\n")
	writeFile(t, dir, "Fixture.yml", "fields: {}\n")
	writeFile(t, dir, "README.md", "not a fixture")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yml"), 0o755))

	ids, err := Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Articles", "Fixture", "Users"}, ids)

	ids, err = Discover(dir, "Blog")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blog.Articles", "Blog.Fixture", "Blog.Users"}, ids)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRegistry_LoadDirAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UsersFixture.yml", usersYAML)
	writeFile(t, dir, "BrokenFixture.yml", "fields: [\n")

	r := NewRegistry()
	ids, err := r.LoadDir(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Broken", "Users"}, ids)
	assert.Equal(t, ids, r.Names())

	fx, err := r.Resolve("Users")
	require.NoError(t, err)
	assert.Equal(t, "users", fx.Table)

	_, err = r.Resolve("Broken")
	assert.True(t, errs.IsInvalidInput(err))

	_, err = r.Resolve("users")
	assert.True(t, errs.IsNotFound(err), "lookups are case sensitive")
}

func TestRegistry_FactoryErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("Plain", func() (*Fixture, error) { return nil, errors.New("boom") })
	r.Register("Gone", func() (*Fixture, error) { return LoadFile("Gone", filepath.Join(t.TempDir(), "Gone.yml")) })
	r.RegisterFixture(&Fixture{Name: "Code", Table: "code"})

	_, err := r.Resolve("Plain")
	assert.True(t, errs.IsInvalidInput(err))

	_, err = r.Resolve("Gone")
	assert.True(t, errs.IsNotFound(err))

	fx, err := r.Resolve("Code")
	require.NoError(t, err)
	assert.Equal(t, "code", fx.Table)
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "Users", Identifier("", "Users"))
	assert.Equal(t, "Blog.Posts", Identifier("Blog", "Posts"))

	plugin, name := SplitIdentifier("Vendor/Blog.Posts")
	assert.Equal(t, "Vendor/Blog", plugin)
	assert.Equal(t, "Posts", name)

	plugin, name = SplitIdentifier("Posts")
	assert.Empty(t, plugin)
	assert.Equal(t, "Posts", name)
}

var tableizeTests = []struct {
	in  string
	out string
}{
	{"", ""},
	{"Users", "users"},
	{"users", "users"},
	{"BlogPosts", "blog_posts"},
	{"HTTPLogs", "http_logs"},
	{"Article2Tags", "article2_tags"},
	{"already_snake", "already_snake"},
	{"CCase", "c_case"},
}

func TestTableize(t *testing.T) {
	for _, tt := range tableizeTests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, Tableize(tt.in))
		})
	}
}

func TestParse_QuotedAndPlainNullKeys(t *testing.T) {
	fx, err := Parse("Tags", []byte("fields:\n  a: {null: true}\n  b: {\"null\": false}\n"))
	require.NoError(t, err)
	assert.Equal(t, schema.RawColumn{"null": true}, fx.Fields["a"])
	assert.Equal(t, schema.RawColumn{"null": false}, fx.Fields["b"])
}

func TestParse_TimestampDefaultsKeepSourceText(t *testing.T) {
	doc := `
fields:
  created: {type: datetime, default: 2020-01-01 00:00:00}
  born: {type: date, default: 2020-01-01}
  label: {type: string, default: "2020-01-01"}
`
	fx, err := Parse("Events", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "2020-01-01 00:00:00", fx.Fields["created"]["default"])
	assert.Equal(t, "2020-01-01", fx.Fields["born"]["default"])

	live := schema.RawColumns{
		"created": {"type": "datetime", "default": "2020-01-01 00:00:00"},
		"born":    {"type": "date", "default": "2020-01-01"},
		"label":   {"type": "string", "default": "2020-01-01"},
	}
	assert.Empty(t, schema.CompareColumns(
		schema.Normalize(fx.Fields, schema.FromFixture),
		schema.Normalize(live, schema.FromLive),
	))
}

func TestParse_ReservedKeysAreNotValidated(t *testing.T) {
	doc := `
fields:
  id: integer
  _indexes: []
  _options: engine
  _constraints:
    primary: {type: primary, columns: [id]}
`
	fx, err := Parse("Tags", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, schema.RawColumn{}, fx.Fields["_indexes"])
	assert.Equal(t, schema.RawColumn{}, fx.Fields["_options"])
	assert.Contains(t, fx.Fields["_constraints"], "primary")

	cols := schema.Normalize(fx.Fields, schema.FromFixture)
	assert.Equal(t, []string{"id"}, cols.Names())
}

func TestParse_AliasedColumn(t *testing.T) {
	doc := `
fields:
  id: &key {type: integer, null: false}
  parent_id: *key
`
	fx, err := Parse("Nodes", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, fx.Fields["id"], fx.Fields["parent_id"])
}
