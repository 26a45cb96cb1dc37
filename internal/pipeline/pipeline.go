// Package pipeline wires a floor source to the TWAP processor and produces
// report-ready output for one collection.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"nft-floor-twap/internal/domain"
	"nft-floor-twap/internal/fingerprint"
	"nft-floor-twap/internal/observability"
	"nft-floor-twap/internal/reporting"
	"nft-floor-twap/internal/source"
	"nft-floor-twap/internal/twap"
	"nft-floor-twap/internal/verification"
)

// Output file names written by WriteOutputs.
const (
	FileCSV      = "twap.csv"
	FileChart    = "chart.json"
	FileMarkdown = "REPORT.md"
)

// Output is the result of one pipeline run.
type Output struct {
	Collection   string
	Floors       []domain.Observation // parsed source observations, native units
	Result       *twap.Result
	Fingerprint  string
	Summary      *reporting.Summary
	Verification *verification.Report // nil unless verification is enabled
}

// Pipeline orchestrates fetch, parse, process and optional verification.
type Pipeline struct {
	source    source.Source
	processor *twap.Processor
	reportGen *reporting.Generator
	logger    *zap.Logger
	verify    bool
	clock     func() time.Time
}

// Option configures Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithVerify enables re-checking every result before it is returned.
func WithVerify(enabled bool) Option {
	return func(p *Pipeline) {
		p.verify = enabled
	}
}

// WithClock sets a custom clock function for deterministic output.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

// New creates a pipeline reading from src.
func New(src source.Source, processor *twap.Processor, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    src,
		processor: processor,
		logger:    zap.NewNop(),
		clock:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	p.reportGen = reporting.NewGenerator().WithClock(p.clock)
	return p
}

// Run executes the full pipeline for one collection.
func (p *Pipeline) Run(ctx context.Context, collection string) (*Output, error) {
	out, err := p.run(ctx, collection)
	if err != nil {
		observability.RecordPipelineRun("error", 0)
		p.logger.Error("pipeline failed",
			zap.String("collection", collection),
			zap.String("source", p.source.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	observability.RecordPipelineRun("success", p.clock().Unix())
	return out, nil
}

func (p *Pipeline) run(ctx context.Context, collection string) (*Output, error) {
	// 1. Fetch
	start := time.Now()
	records, err := p.source.Fetch(ctx, collection)
	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordSourceFetch(p.source.Name(), status, time.Since(start).Seconds(), len(records))
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", collection, p.source.Name(), err)
	}

	p.logger.Info("fetched floor records",
		zap.String("collection", collection),
		zap.String("source", p.source.Name()),
		zap.Int("records", len(records)),
	)

	// 2. Parse
	floors, err := twap.ParseRecords(records)
	if err != nil {
		var recErr *twap.RecordError
		if errors.As(err, &recErr) {
			observability.RecordMalformed(recErr.Field)
		}
		return nil, fmt.Errorf("parse %s: %w", collection, err)
	}

	// 3. Process
	result, err := p.processor.Process(floors)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", collection, err)
	}

	out := &Output{
		Collection:  collection,
		Floors:      floors,
		Result:      result,
		Fingerprint: fingerprint.Result(result),
	}

	// 4. Verify (optional)
	if p.verify {
		report, err := verification.Verify(p.processor, floors)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", collection, err)
		}
		if !report.Match() {
			for _, d := range report.Divergences {
				observability.RecordVerificationFailure(d.Check)
			}
			return nil, fmt.Errorf("verify %s: %w", collection, report.Err())
		}
		out.Verification = report
	}

	// 5. Summarize
	summary, err := p.reportGen.Generate(collection, floors, result, out.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("summarize %s: %w", collection, err)
	}
	out.Summary = summary

	p.logger.Info("computed twap",
		zap.String("collection", collection),
		zap.Int("densified", len(result.Densified)),
		zap.Int("series", len(result.Twaps)),
		zap.String("fingerprint", fingerprint.Short(out.Fingerprint)),
		zap.Bool("verified", out.Verification != nil),
	)

	return out, nil
}

// Render returns out in the given format ("csv", "json" or "markdown").
func Render(out *Output, format string) ([]byte, error) {
	switch format {
	case "csv":
		return []byte(reporting.RenderCSV(out.Result)), nil
	case "json":
		return reporting.RenderJSON(out.Collection, out.Floors, out.Result)
	case "markdown":
		return []byte(reporting.RenderMarkdown(out.Summary)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// WriteOutputs writes every rendering of out into dir:
// - twap.csv
// - chart.json
// - REPORT.md
func WriteOutputs(dir string, out *Output) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	files := []struct {
		name   string
		format string
	}{
		{FileCSV, "csv"},
		{FileChart, "json"},
		{FileMarkdown, "markdown"},
	}
	for _, f := range files {
		data, err := Render(out, f.format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0644); err != nil {
			return err
		}
	}
	return nil
}
