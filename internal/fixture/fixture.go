// Package fixture resolves fixture identifiers to declared table schemas.
//
// Fixtures live in YAML files, one per table:
//
//	table: users            # optional, derived from the identifier otherwise
//	fields:
//	  id: {type: integer, null: false, autoIncrement: true}
//	  name: {type: string, length: 255, null: true}
//	  created: datetime     # shorthand for {type: datetime}
//	  _constraints:
//	    primary: {type: primary, columns: [id]}
//
// Identifiers are registered explicitly in a Registry, usually by LoadDir at
// startup, and resolved by plain map lookup.
package fixture

import (
	"fixture-check/internal/schema"
)

// Fixture is a declared table schema. It is not modified after it is built.
type Fixture struct {
	Name   string
	Table  string
	Fields schema.RawColumns
}

// Factory builds a fixture on demand.
type Factory func() (*Fixture, error)
