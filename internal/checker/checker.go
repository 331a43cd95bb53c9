// Package checker compares fixture schemas with live tables pair by pair and
// accumulates the differences into a RunSummary.
package checker

import (
	"context"
	"strings"

	"fixture-check/internal/errs"
	"fixture-check/internal/logger"
	"fixture-check/internal/schema"
)

// Checker runs fixture/table comparisons. It is not safe for concurrent use.
type Checker struct {
	cfg      Config
	ignore   map[string]struct{}
	fixtures Resolver
	live     LiveSource
	report   Reporter
	log      *logger.Logger
	progress func(done, total int, r MismatchReport)
}

// Option configures a Checker.
type Option func(*Checker)

// WithReporter sets where human-readable output goes.
func WithReporter(r Reporter) Option {
	return func(c *Checker) {
		if r != nil {
			c.report = r
		}
	}
}

// WithLogger sets the logger for pair lifecycle events.
func WithLogger(l *logger.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.log = l
		}
	}
}

// WithProgress sets a hook called once per finished pair.
func WithProgress(fn func(done, total int, r MismatchReport)) Option {
	return func(c *Checker) {
		c.progress = fn
	}
}

func New(cfg Config, fixtures Resolver, live LiveSource, opts ...Option) *Checker {
	c := &Checker{
		cfg:      cfg,
		ignore:   make(map[string]struct{}, len(cfg.Ignore)),
		fixtures: fixtures,
		live:     live,
		report:   nopReporter{},
		log:      logger.Nop(),
	}
	for _, id := range cfg.Ignore {
		c.ignore[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run checks every pair in order. Per-pair errors are recorded and never
// stop the run; a canceled context stops it before the next pair.
func (c *Checker) Run(ctx context.Context, pairs []Pair) RunSummary {
	summary := RunSummary{Strict: c.cfg.Strict}

	for i, p := range pairs {
		if ctx.Err() != nil {
			c.log.With().Int("remaining", len(pairs)-i).Logger().Warn("run canceled")
			summary.Canceled = true
			break
		}

		r := c.check(ctx, p)
		summary.Reports = append(summary.Reports, r)
		switch {
		case r.State == Ignored:
			summary.Ignored = append(summary.Ignored, r.Fixture)
		case r.State.Failed():
			summary.Skipped++
		default:
			summary.Total += r.Count()
		}

		if c.progress != nil {
			c.progress(i+1, len(pairs), r)
		}
	}

	summary.IssuesFound = summary.Total > 0
	if len(c.cfg.Ignore) > 0 {
		c.report.Info("Ignored fixtures: %s", strings.Join(c.cfg.Ignore, ", "))
	}
	return summary
}

func (c *Checker) check(ctx context.Context, p Pair) MismatchReport {
	r := MismatchReport{Fixture: p.Fixture, Table: p.Table, State: Pending}
	log := c.log.With().Str("fixture", p.Fixture).Logger()

	if _, ok := c.ignore[p.Fixture]; ok {
		c.transition(log, &r, Ignored)
		return r
	}

	c.transition(log, &r, Resolving)
	fx, err := c.fixtures.Resolve(p.Fixture)
	if err != nil {
		r.Err = err
		c.transition(log, &r, ResolutionFailed)
		log.With().Err(err).Str("kind", errs.KindOf(err).String()).Logger().Warn("fixture not resolved")
		c.report.Error("Fixture %s could not be resolved: %v", p.Fixture, err)
		return r
	}
	if r.Table == "" {
		r.Table = fx.Table
	}
	c.transition(log, &r, Resolved)

	log = log.With().Str("table", r.Table).Logger()
	c.report.Info("Comparing fixture %s with table %s", r.Fixture, r.Table)

	c.transition(log, &r, Introspecting)
	raw, err := c.live.Describe(ctx, r.Table)
	if err != nil {
		r.Err = err
		c.transition(log, &r, IntrospectionFailed)
		log.With().Err(err).Str("kind", errs.KindOf(err).String()).Logger().Warn("table not introspected")
		c.report.Error("Table %s could not be introspected: %v", r.Table, err)
		return r
	}

	fixtureCols := schema.Normalize(fx.Fields, schema.FromFixture)
	liveCols := schema.Normalize(raw, schema.FromLive)

	r.MissingLive = schema.DiffPresence(fixtureCols, liveCols)
	r.MissingFixture = schema.DiffPresence(liveCols, fixtureCols)
	r.Discrepancies = schema.CompareColumns(fixtureCols, liveCols)
	c.transition(log, &r, Compared)

	c.reportDifferences(r)
	return r
}

func (c *Checker) transition(log *logger.Logger, r *MismatchReport, to PairState) {
	log.With().Str("from", r.State.String()).Str("to", to.String()).Logger().Debug("pair state")
	r.State = to
}

func (c *Checker) reportDifferences(r MismatchReport) {
	if len(r.MissingLive) > 0 {
		c.report.Warning("Fixture %s declares columns missing from table %s: %s",
			r.Fixture, r.Table, strings.Join(r.MissingLive, ", "))
	}
	if len(r.MissingFixture) > 0 {
		c.report.Warning("Table %s has columns missing from fixture %s: %s",
			r.Table, r.Fixture, strings.Join(r.MissingFixture, ", "))
	}
	for _, d := range r.Discrepancies {
		c.report.Warning("%s", d)
	}
	if r.Count() == 0 {
		c.report.Info("Fixture %s matches table %s", r.Fixture, r.Table)
	}
}

type nopReporter struct{}

func (nopReporter) Info(string, ...any)    {}
func (nopReporter) Warning(string, ...any) {}
func (nopReporter) Error(string, ...any)   {}
