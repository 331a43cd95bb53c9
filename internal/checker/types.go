package checker

import (
	"context"
	"fmt"

	"fixture-check/internal/fixture"
	"fixture-check/internal/schema"
)

// Resolver turns a fixture identifier into its declared schema.
type Resolver interface {
	Resolve(id string) (*fixture.Fixture, error)
}

// LiveSource describes tables of the live database.
type LiveSource interface {
	Describe(ctx context.Context, table string) (schema.RawColumns, error)
}

// Reporter receives the human-readable output of a run.
type Reporter interface {
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// Config controls a run.
type Config struct {
	// Ignore lists fixture identifiers that are skipped entirely. Matching
	// is exact and case-sensitive.
	Ignore []string
	// Strict makes resolution and introspection errors fail the run.
	Strict bool
}

// Pair is one fixture to check. An empty Table means the table the fixture
// declares.
type Pair struct {
	Fixture string
	Table   string
}

// PairState tracks a pair through the run.
type PairState int

const (
	Pending PairState = iota
	Resolving
	ResolutionFailed
	Resolved
	Introspecting
	IntrospectionFailed
	Compared
	Ignored
)

func (s PairState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolving:
		return "resolving"
	case ResolutionFailed:
		return "resolution_failed"
	case Resolved:
		return "resolved"
	case Introspecting:
		return "introspecting"
	case IntrospectionFailed:
		return "introspection_failed"
	case Compared:
		return "compared"
	case Ignored:
		return "ignored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Failed reports whether the pair was skipped because of an error.
func (s PairState) Failed() bool {
	return s == ResolutionFailed || s == IntrospectionFailed
}

// MismatchReport is the outcome of one pair.
type MismatchReport struct {
	Fixture string
	Table   string
	State   PairState
	// MissingLive lists columns the fixture declares but the table lacks.
	MissingLive []string
	// MissingFixture lists columns the table has but the fixture lacks.
	MissingFixture []string
	Discrepancies  []schema.Discrepancy
	Err            error
}

// Count is the number of differences the pair contributes to the total.
func (r MismatchReport) Count() int {
	return len(r.MissingLive) + len(r.MissingFixture) + len(r.Discrepancies)
}

// RunSummary accumulates the reports of one run. Ignored lists the pairs
// skipped through Config.Ignore.
type RunSummary struct {
	Total       int
	IssuesFound bool
	Reports     []MismatchReport
	Ignored     []string
	Skipped     int
	Canceled    bool
	Strict      bool
}

// Err returns a *ComparisonFailure when the run should fail, nil otherwise.
// Skipped pairs only fail a strict run.
func (s RunSummary) Err() error {
	if s.IssuesFound || (s.Strict && s.Skipped > 0) {
		return &ComparisonFailure{Count: s.Total, Skipped: s.Skipped}
	}
	return nil
}

// ComparisonFailure is the error of a run that found differences.
type ComparisonFailure struct {
	Count   int
	Skipped int
}

func (e *ComparisonFailure) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("%d fixture pairs could not be checked", e.Skipped)
	}
	return fmt.Sprintf("%d fixture differences found", e.Count)
}
