// Package catalog normalizes one text column of a PIM catalog export.
package catalog

import (
	"context"
	"io"
	"runtime"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/arthur-debert/pimfix/pkg/engine"
	"github.com/arthur-debert/pimfix/pkg/errors"
	"github.com/arthur-debert/pimfix/pkg/logging"
)

// Options configures a Processor.
type Options struct {
	// Field is the header name of the column to normalize.
	Field string
	// KeyColumns identify a row in change reports, such as a product
	// number and language. Columns missing from the header are skipped.
	KeyColumns []string
	Delimiter  rune
	// Workers bounds concurrent normalization; 0 means GOMAXPROCS.
	Workers int
	// CacheSize is the number of distinct field values to memoize; 0
	// disables the cache.
	CacheSize int
}

// Change describes one row the rules altered.
type Change struct {
	Row   int
	Keys  map[string]string
	Rules []string
	Old   string
	New   string
}

// Report summarizes a run.
type Report struct {
	Rows       int
	Changed    int
	RuleCounts map[string]int
	Changes    []Change
	CacheHits  int64
}

// normalized is the memoized outcome for one field value.
type normalized struct {
	text  string
	rules []string
}

// Processor normalizes a catalog column with an engine.
type Processor struct {
	engine *engine.Engine
	opts   Options
	cache  *lru.Cache[string, normalized]
	hits   atomic.Int64
	logger zerolog.Logger
}

// NewProcessor creates a processor. Field must be set.
func NewProcessor(e *engine.Engine, opts Options) (*Processor, error) {
	if opts.Field == "" {
		return nil, errors.New(errors.ErrInvalidInput, "catalog field name is required")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	p := &Processor{
		engine: e,
		opts:   opts,
		logger: logging.GetLogger("catalog"),
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, normalized](opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to create cache")
		}
		p.cache = cache
	}
	return p, nil
}

// Process reads a CSV from in, normalizes the configured field of every
// row and writes the result to out. out may be nil to only compute the
// report.
func (p *Processor) Process(ctx context.Context, in io.Reader, out io.Writer) (*Report, error) {
	done := logging.LogOperationStart(p.logger, "process-catalog")
	defer done()

	table, err := Read(in, p.opts.Delimiter)
	if err != nil {
		return nil, err
	}
	report, err := p.Normalize(ctx, table)
	if err != nil {
		return nil, err
	}
	if out != nil {
		if err := Write(out, table, p.opts.Delimiter); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Normalize rewrites the configured field of every row of t in place.
// Rows are processed concurrently; the report lists changes in row order.
func (p *Processor) Normalize(ctx context.Context, t *Table) (*Report, error) {
	col, err := t.Column(p.opts.Field)
	if err != nil {
		return nil, err
	}
	keyCols := p.keyColumns(t)
	hitsBefore := p.hits.Load()

	results := make([]normalized, len(t.Rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, row := range t.Rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.normalize(row[col])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Rows:       len(t.Rows),
		RuleCounts: make(map[string]int),
	}
	for i, row := range t.Rows {
		res := results[i]
		if res.text == row[col] {
			continue
		}

		keys := make(map[string]string, len(keyCols))
		for name, idx := range keyCols {
			keys[name] = row[idx]
		}
		report.Changes = append(report.Changes, Change{
			Row:   i + 1,
			Keys:  keys,
			Rules: res.rules,
			Old:   row[col],
			New:   res.text,
		})
		for _, r := range res.rules {
			report.RuleCounts[r]++
		}
		row[col] = res.text
	}
	report.Changed = len(report.Changes)
	report.CacheHits = p.hits.Load() - hitsBefore

	p.logger.Info().
		Int("rows", report.Rows).
		Int("changed", report.Changed).
		Int64("cacheHits", report.CacheHits).
		Msg("Normalized catalog")

	return report, nil
}

func (p *Processor) normalize(text string) normalized {
	if p.cache != nil {
		if res, ok := p.cache.Get(text); ok {
			p.hits.Add(1)
			return res
		}
	}

	out, steps := p.engine.Trace(text)
	res := normalized{text: out}
	for _, s := range steps {
		if s.Changed() {
			res.rules = append(res.rules, s.Rule)
		}
	}

	if p.cache != nil {
		p.cache.Add(text, res)
	}
	return res
}

func (p *Processor) keyColumns(t *Table) map[string]int {
	cols := make(map[string]int, len(p.opts.KeyColumns))
	for _, name := range p.opts.KeyColumns {
		idx, err := t.Column(name)
		if err != nil {
			p.logger.Debug().Str("column", name).Msg("Key column not in header, skipping")
			continue
		}
		cols[name] = idx
	}
	return cols
}
