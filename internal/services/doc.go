// Package services implements the reconciliation workflows on top of the
// dataprocessing, matching and exporter packages.
//
// # ReconcileService
//
// ExtractRaw and ExtractAndWrite turn a meeting export with an "Attendance"
// sheet into a canonical raw table (<stem>-RAW.xlsx).
//
// MatchAndWrite loads a roster and a raw table, matches them and writes the
// report in the requested format next to the roster:
//
//	svc := services.NewReconcileService(services.OptionsFromConfig(cfg.Reconcile))
//	artifact, err := svc.MatchAndWrite(ctx, "master.csv", "meeting-RAW.xlsx", domain.OutputFormatXLSX)
//	if apperrors.IsSchemaError(err) {
//	    // show err.Error() to the user as-is
//	}
//
// RunBatch reconciles pairs of files on a bounded worker pool. By default the
// batch is all or nothing; BatchOptions.ContinueOnError returns a result per
// pair instead.
//
// Every operation opens an OpenTelemetry span and, when AppMetrics are
// configured, updates the reconciliation counters.
package services
