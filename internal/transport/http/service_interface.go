package http

import (
	"context"

	"attendancify/internal/services"
	"attendancify/pkg/contracts/domain"
)

// ReconcileServiceInterface is the part of services.ReconcileService the
// upload handlers use
type ReconcileServiceInterface interface {
	ExtractAllAndWrite(ctx context.Context, paths []string, outDir string) ([]string, error)
	RunBatch(ctx context.Context, pairs []services.Pair, format domain.OutputFormat, opts services.BatchOptions) ([]services.PairResult, error)
}
