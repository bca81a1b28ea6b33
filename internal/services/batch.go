package services

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"attendancify/internal/exporter"
	"attendancify/pkg/contracts/domain"
)

// Pair is one roster file and the raw file reconciled against it
type Pair struct {
	RosterPath string `json:"roster_path"`
	RawPath    string `json:"raw_path"`
}

// PairFiles pairs rosters[i] with raws[i]. Extra files on either side are
// ignored.
func PairFiles(rosters, raws []string) []Pair {
	n := min(len(rosters), len(raws))
	pairs := make([]Pair, n)
	for i := 0; i < n; i++ {
		pairs[i] = Pair{RosterPath: rosters[i], RawPath: raws[i]}
	}
	return pairs
}

// BatchOptions configures RunBatch
type BatchOptions struct {
	// ContinueOnError attempts every pair and reports failures per pair
	// instead of aborting the batch on the first one.
	ContinueOnError bool
	// OutputDir overrides the roster directory as the report location
	OutputDir string
}

// PairResult is the outcome of one pair in a batch
type PairResult struct {
	Pair     Pair
	Artifact domain.Artifact
	Err      error
}

// Artifacts returns the artifacts of the successful results
func Artifacts(results []PairResult) []domain.Artifact {
	out := make([]domain.Artifact, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Artifact)
		}
	}
	return out
}

// RunBatch reconciles every pair and writes one report per pair, in pair
// order.
//
// By default all pairs are reconciled before anything is written; the first
// failure aborts the batch with no files on disk. With ContinueOnError each
// pair is reconciled and written on its own and the error, if any, is kept
// in its PairResult.
func (s *ReconcileService) RunBatch(ctx context.Context, pairs []Pair, format domain.OutputFormat, opts BatchOptions) ([]PairResult, error) {
	writer, err := s.reportWriter(format)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "reconcile.batch")
	defer span.End()

	s.logger.InfoContext(ctx, "Batch started",
		slog.Int("pairs", len(pairs)),
		slog.String("format", string(format)),
		slog.Bool("continue_on_error", opts.ContinueOnError))

	if opts.ContinueOnError {
		return s.runIndependent(ctx, pairs, writer, opts), nil
	}
	return s.runAtomic(ctx, pairs, writer, opts)
}

func (s *ReconcileService) runAtomic(ctx context.Context, pairs []Pair, writer exporter.ReportWriter, opts BatchOptions) ([]PairResult, error) {
	recs := make([]*domain.Reconciliation, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range pairs {
		g.Go(func() error {
			rec, err := s.Reconcile(gctx, p.RosterPath, p.RawPath)
			if err != nil {
				return err
			}
			recs[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Batch aborted", slog.String("error", err.Error()))
		return nil, err
	}

	results := make([]PairResult, len(pairs))
	var written []string
	for i, p := range pairs {
		artifact, err := s.write(ctx, writer, exporter.Report{
			RosterPath:     p.RosterPath,
			RawPath:        p.RawPath,
			OutputDir:      opts.OutputDir,
			Reconciliation: recs[i],
		})
		if err != nil {
			removeFiles(written)
			s.logger.ErrorContext(ctx, "Batch write failed, removed partial output",
				slog.Int("removed_files", len(written)),
				slog.String("error", err.Error()))
			return nil, err
		}
		written = append(written, artifact.Files...)
		results[i] = PairResult{Pair: p, Artifact: artifact}
	}

	s.logger.InfoContext(ctx, "Batch completed", slog.Int("reports", len(results)))
	return results, nil
}

func (s *ReconcileService) runIndependent(ctx context.Context, pairs []Pair, writer exporter.ReportWriter, opts BatchOptions) []PairResult {
	results := make([]PairResult, len(pairs))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, p := range pairs {
		g.Go(func() error {
			results[i] = PairResult{Pair: p}
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			rec, err := s.Reconcile(ctx, p.RosterPath, p.RawPath)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Artifact, results[i].Err = s.write(ctx, writer, exporter.Report{
				RosterPath:     p.RosterPath,
				RawPath:        p.RawPath,
				OutputDir:      opts.OutputDir,
				Reconciliation: rec,
			})
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			s.logger.WarnContext(ctx, "Batch pair failed",
				slog.String("roster", r.Pair.RosterPath),
				slog.String("raw", r.Pair.RawPath),
				slog.String("error", r.Err.Error()))
		}
	}
	s.logger.InfoContext(ctx, "Batch completed",
		slog.Int("reports", len(results)-failed),
		slog.Int("failed", failed))
	return results
}
