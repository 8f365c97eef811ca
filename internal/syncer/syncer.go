// Package syncer drives one full pipeline run over a schema corpus:
// Discover → ParseEach → GenerateEach → Diff → Report.
//
// Documents are independent, so parse and generation fan out across a
// bounded worker pool; diffing and the report wait for the join. A single
// document's failure becomes a report entry, never an abort — only
// environment-level failures (unreachable discovery root, unusable
// persistence) abort the run.
package syncer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mkarlsen/quarry/internal/codegen"
	"github.com/mkarlsen/quarry/internal/parser"
)

// EnvironmentError marks a failure of the surrounding environment rather
// than of any one document. It aborts the whole run.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

type Options struct {
	// Concurrency bounds the per-document worker fan-out.
	Concurrency int
	// Timeout applies per document, so one pathological document cannot
	// stall the corpus.
	Timeout time.Duration
	// DryRun classifies changes without committing them.
	DryRun bool
}

type Syncer struct {
	source Source
	store  Store
	gen    *codegen.Generator
	opts   Options
	log    zerolog.Logger
}

func New(source Source, store Store, gen *codegen.Generator, opts Options, log zerolog.Logger) *Syncer {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Syncer{source: source, store: store, gen: gen, opts: opts, log: log}
}

type docResult struct {
	id       string
	outputs  []codegen.Output
	warnings []string
	err      error
}

// Run executes one sync. It returns a Report on completion — including runs
// where individual documents failed — and an error only on abort.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	ids, err := s.source.Discover(ctx)
	if err != nil {
		return nil, &EnvironmentError{Op: "discovering schema documents", Err: err}
	}
	s.log.Info().Int("documents", len(ids)).Msg("discovered schema documents")

	results := make([]docResult, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Concurrency)

	for i, id := range ids {
		// cooperative cancellation checkpoint at the document boundary
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.processDocument(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &EnvironmentError{Op: "sync interrupted", Err: err}
	}

	return s.commit(results, len(ids))
}

func (s *Syncer) processDocument(ctx context.Context, id string) docResult {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	done := make(chan docResult, 1)
	go func() {
		done <- s.buildDocument(ctx, id)
	}()

	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return docResult{id: id, err: fmt.Errorf("processing document: %w", ctx.Err())}
	}
}

func (s *Syncer) buildDocument(ctx context.Context, id string) docResult {
	data, err := s.source.Fetch(ctx, id)
	if err != nil {
		s.log.Warn().Str("document", id).Err(err).Msg("fetch failed")
		return docResult{id: id, err: fmt.Errorf("fetching document: %w", err)}
	}

	parsed, err := parser.Parse(id, data)
	if err != nil {
		s.log.Warn().Str("document", id).Err(err).Msg("parse failed")
		return docResult{id: id, err: err}
	}

	outputs, err := s.gen.Generate(parsed.IR)
	if err != nil {
		s.log.Warn().Str("document", id).Err(err).Msg("generation failed")
		return docResult{id: id, err: err}
	}

	s.log.Debug().
		Str("document", id).
		Str("provider", parsed.IR.Provider).
		Int("resources", len(parsed.IR.Resources)).
		Int("files", len(outputs)).
		Msg("document generated")

	var warnings []string
	for _, w := range parsed.Warnings {
		warnings = append(warnings, id+": "+w)
	}
	return docResult{id: id, outputs: outputs, warnings: warnings}
}

// commit diffs the per-document outputs against previously committed
// contents and produces the report. Unchanged files are not rewritten, so
// idempotent generation keeps the tree clean across runs.
func (s *Syncer) commit(results []docResult, discovered int) (*Report, error) {
	report := &Report{Discovered: discovered}

	newFiles := map[string]string{}
	owners := map[string]string{}
	managedDirs := map[string]bool{}

	for _, r := range results {
		if r.id == "" {
			// slot of a document skipped by cancellation before dispatch
			continue
		}
		if r.err != nil {
			report.Failed++
			report.Failures = append(report.Failures, DocumentFailure{Path: r.id, Reason: r.err.Error()})
			continue
		}

		// two documents claiming the same output path would silently
		// overwrite each other; the later one in discovery order becomes a
		// report failure instead, like any other per-document error
		collision := ""
		for _, out := range r.outputs {
			if owner, taken := owners[out.Filename]; taken {
				collision = fmt.Sprintf("output path %s collides with document %s", out.Filename, owner)
				break
			}
		}
		if collision != "" {
			s.log.Warn().Str("document", r.id).Msg(collision)
			report.Failed++
			report.Failures = append(report.Failures, DocumentFailure{Path: r.id, Reason: collision})
			continue
		}

		report.Succeeded++
		report.Warnings = append(report.Warnings, r.warnings...)
		for _, out := range r.outputs {
			owners[out.Filename] = r.id
			newFiles[out.Filename] = out.Content
			managedDirs[path.Dir(out.Filename)] = true
		}
	}

	for filename, content := range newFiles {
		old, exists, err := s.store.Read(filename)
		if err != nil {
			return nil, &EnvironmentError{Op: "reading committed file " + filename, Err: err}
		}

		switch {
		case !exists:
			if !s.opts.DryRun {
				if err := s.store.Write(filename, []byte(content)); err != nil {
					return nil, &EnvironmentError{Op: "writing " + filename, Err: err}
				}
			}
			report.Files = append(report.Files, FileChange{Path: filename, Status: StatusAdded})
		case !bytes.Equal(old, []byte(content)):
			if !s.opts.DryRun {
				if err := s.store.Write(filename, []byte(content)); err != nil {
					return nil, &EnvironmentError{Op: "writing " + filename, Err: err}
				}
			}
			report.Files = append(report.Files, FileChange{
				Path:   filename,
				Status: StatusModified,
				Diff:   patchText(string(old), content),
			})
		default:
			report.Files = append(report.Files, FileChange{Path: filename, Status: StatusUnchanged})
		}
	}

	// previously committed files under a successfully regenerated directory
	// that no current output claims are stale and get removed; directories
	// of failed documents keep their prior files untouched
	for dir := range managedDirs {
		prior, err := s.store.List(dir)
		if err != nil {
			return nil, &EnvironmentError{Op: "listing committed files under " + dir, Err: err}
		}
		for _, p := range prior {
			if _, live := newFiles[p]; live {
				continue
			}
			if !s.opts.DryRun {
				if err := s.store.Remove(p); err != nil {
					return nil, &EnvironmentError{Op: "removing " + p, Err: err}
				}
			}
			report.Files = append(report.Files, FileChange{Path: p, Status: StatusRemoved})
		}
	}

	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Path < report.Files[j].Path })
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].Path < report.Failures[j].Path })
	sort.Strings(report.Warnings)

	s.log.Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Bool("changes", report.HasChanges()).
		Msg("sync completed")

	return report, nil
}

// IsEnvironmentError reports whether err is an abort-level failure.
func IsEnvironmentError(err error) bool {
	var envErr *EnvironmentError
	return errors.As(err, &envErr)
}
