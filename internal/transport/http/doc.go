// Package http implements the HTTP handlers of the attendance service.
//
// Handlers stay thin: they parse and validate the multipart request, store
// uploads in a per-request workspace, delegate to the reconcile service and
// stream the produced file back. Errors go through the shared ErrorHandler,
// which renders RFC 7807 problem documents:
//
//	POST /api/reconcile  roster_files, raw_files, output_format -> report or matching_results.zip
//	POST /api/extract    excel_files                            -> <stem>-RAW.xlsx or raw_excel_files.zip
//	GET  /api/health     liveness
//
// A schema error (missing sheet or column) is a 422 whose detail is the
// message to show the user.
package http
