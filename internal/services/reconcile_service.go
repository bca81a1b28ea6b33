package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendancify/internal/config"
	"attendancify/internal/dataprocessing"
	apperrors "attendancify/internal/errors"
	"attendancify/internal/exporter"
	"attendancify/internal/infrastructure"
	"attendancify/internal/matching"
	"attendancify/pkg/contracts/domain"
)

// ReconcileOptions configures a ReconcileService
type ReconcileOptions struct {
	Threshold    int
	Exclusive    bool
	CSVBOM       bool
	BatchWorkers int

	Tracer  trace.Tracer
	Metrics *infrastructure.AppMetrics
	Logger  *slog.Logger
}

// OptionsFromConfig builds service options from the reconcile section
func OptionsFromConfig(cfg config.ReconcileConfig) ReconcileOptions {
	return ReconcileOptions{
		Threshold:    cfg.Threshold,
		Exclusive:    cfg.Exclusive,
		CSVBOM:       cfg.CSVBOM,
		BatchWorkers: cfg.BatchWorkers,
	}
}

// ReconcileService extracts raw attendance tables and matches them against
// rosters, writing the results to disk.
type ReconcileService struct {
	extractor *dataprocessing.Extractor
	matcher   *matching.Matcher
	csvBOM    bool
	workers   int
	tracer    trace.Tracer
	metrics   *infrastructure.AppMetrics
	logger    *slog.Logger
}

// NewReconcileService creates a reconcile service
func NewReconcileService(opts ReconcileOptions) *ReconcileService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.ServiceName)
	}
	workers := opts.BatchWorkers
	if workers < 1 {
		workers = 1
	}

	s := &ReconcileService{
		extractor: dataprocessing.NewExtractor(logger, nil),
		matcher: matching.NewMatcher(matching.Options{
			Threshold: opts.Threshold,
			Exclusive: opts.Exclusive,
			Logger:    logger,
		}),
		csvBOM:  opts.CSVBOM,
		workers: workers,
		tracer:  tracer,
		metrics: opts.Metrics,
		logger:  infrastructure.WithComponent(logger, "reconcile_service"),
	}

	s.logger.Info("ReconcileService initialized",
		slog.Int("threshold", s.matcher.Threshold()),
		slog.Bool("exclusive", opts.Exclusive),
		slog.Int("batch_workers", workers))
	return s
}

// ExtractRaw reads the Attendance sheet of a meeting export into a raw table
func (s *ReconcileService) ExtractRaw(ctx context.Context, path string) (*domain.RawTable, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile.extract",
		trace.WithAttributes(attribute.String("file", filepath.Base(path))))
	defer span.End()

	table, err := s.extractor.ExtractAttendanceSheet(ctx, path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordExtraction(ctx, outcome(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("rows", len(table.Records)),
		attribute.Int("sessions", len(table.Sessions)))
	s.metrics.RecordExtraction(ctx, "success")
	return table, nil
}

// ExtractAndWrite extracts path and saves it as <stem>-RAW.xlsx in outDir,
// or next to the source when outDir is empty. It returns the written path.
func (s *ReconcileService) ExtractAndWrite(ctx context.Context, path, outDir string) (string, error) {
	table, err := s.ExtractRaw(ctx, path)
	if err != nil {
		return "", err
	}

	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	out := filepath.Join(outDir, exporter.RawWorkbookName(path))
	if err := exporter.WriteRawTable(table, out); err != nil {
		return "", apperrors.NewStorageError("failed to write raw table", err)
	}

	s.logger.InfoContext(ctx, "Raw table extracted",
		slog.String("source", filepath.Base(path)),
		slog.String("output", out),
		slog.Int("rows", len(table.Records)),
		slog.Int("sessions", len(table.Sessions)))
	return out, nil
}

// ExtractAllAndWrite extracts every path in order. The first failure stops
// the run and removes the workbooks already written.
func (s *ReconcileService) ExtractAllAndWrite(ctx context.Context, paths []string, outDir string) ([]string, error) {
	written := make([]string, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			removeFiles(written)
			return nil, err
		}
		out, err := s.ExtractAndWrite(ctx, p, outDir)
		if err != nil {
			removeFiles(written)
			return nil, err
		}
		written = append(written, out)
	}
	return written, nil
}

// Reconcile loads the roster and raw table and matches them. The returned
// statuses are already mapped to present/absent.
func (s *ReconcileService) Reconcile(ctx context.Context, rosterPath, rawPath string) (*domain.Reconciliation, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile.match",
		trace.WithAttributes(
			attribute.String("roster", filepath.Base(rosterPath)),
			attribute.String("raw", filepath.Base(rawPath))))
	defer span.End()

	start := time.Now()
	rec, err := s.reconcile(ctx, rosterPath, rawPath)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordReconciliation(ctx, "match", outcome(err), 0, 0, time.Since(start))
		return nil, err
	}

	accepted := rec.AcceptedCount()
	span.SetAttributes(
		attribute.Int("roster_entries", len(rec.Matched)),
		attribute.Int("accepted", accepted),
		attribute.Int("unmatched", len(rec.Unmatched)))
	s.metrics.RecordReconciliation(ctx, "match", "success", accepted, len(rec.Unmatched), time.Since(start))
	return rec, nil
}

func (s *ReconcileService) reconcile(ctx context.Context, rosterPath, rawPath string) (*domain.Reconciliation, error) {
	roster, err := s.extractor.LoadRoster(ctx, rosterPath)
	if err != nil {
		return nil, err
	}
	raw, err := s.extractor.ReadRawFile(ctx, rawPath)
	if err != nil {
		return nil, err
	}
	rec, err := s.matcher.Match(ctx, roster, raw)
	if err != nil {
		return nil, err
	}
	return dataprocessing.ApplyStatusMapping(rec), nil
}

// MatchAndWrite reconciles one pair and writes the report next to the roster
func (s *ReconcileService) MatchAndWrite(ctx context.Context, rosterPath, rawPath string, format domain.OutputFormat) (domain.Artifact, error) {
	return s.MatchAndWriteTo(ctx, rosterPath, rawPath, format, "")
}

// MatchAndWriteTo is MatchAndWrite with an explicit output directory
func (s *ReconcileService) MatchAndWriteTo(ctx context.Context, rosterPath, rawPath string, format domain.OutputFormat, outDir string) (domain.Artifact, error) {
	writer, err := s.reportWriter(format)
	if err != nil {
		return domain.Artifact{}, err
	}

	rec, err := s.Reconcile(ctx, rosterPath, rawPath)
	if err != nil {
		return domain.Artifact{}, err
	}

	return s.write(ctx, writer, exporter.Report{
		RosterPath:     rosterPath,
		RawPath:        rawPath,
		OutputDir:      outDir,
		Reconciliation: rec,
	})
}

func (s *ReconcileService) reportWriter(format domain.OutputFormat) (exporter.ReportWriter, error) {
	writer, err := exporter.NewReportWriter(format, exporter.WriterOptions{CSVBOM: s.csvBOM, Logger: s.logger})
	if err != nil {
		return nil, apperrors.NewAppValidationError(err.Error())
	}
	return writer, nil
}

func (s *ReconcileService) write(ctx context.Context, writer exporter.ReportWriter, report exporter.Report) (domain.Artifact, error) {
	ctx, span := s.tracer.Start(ctx, "reconcile.write")
	defer span.End()

	artifact, err := writer.Write(ctx, report)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return domain.Artifact{}, apperrors.NewStorageError(
			fmt.Sprintf("failed to write report for %s", filepath.Base(report.RawPath)), err)
	}
	span.SetAttributes(attribute.String("primary", filepath.Base(artifact.Primary)))
	return artifact, nil
}

// outcome classifies err for metrics
func outcome(err error) string {
	if apperrors.IsSchemaError(err) {
		return "schema_error"
	}
	return "error"
}

func removeFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
