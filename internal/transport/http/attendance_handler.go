package http

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "attendancify/internal/errors"
	"attendancify/internal/exporter"
	"attendancify/internal/files"
	"attendancify/internal/services"
	"attendancify/internal/validation"
	"attendancify/pkg/contracts/domain"
)

// Multipart field names
const (
	FieldRosterFiles  = "roster_files"
	FieldRawFiles     = "raw_files"
	FieldExcelFiles   = "excel_files"
	FieldOutputFormat = "output_format"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv; charset=utf-8",
	".zip":  "application/zip",
}

// AttendanceHandler serves the upload endpoints. Each request works in its
// own workspace, which is removed once the response is sent.
type AttendanceHandler struct {
	service       ReconcileServiceInterface
	files         *files.Manager
	validator     *validation.RequestValidator
	errorHandler  *apierrors.ErrorHandler
	defaultFormat domain.OutputFormat
	logger        *slog.Logger
}

// NewAttendanceHandler creates the upload handler. defaultFormat applies when
// a reconcile request omits output_format.
func NewAttendanceHandler(service ReconcileServiceInterface, fm *files.Manager, defaultFormat domain.OutputFormat, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AttendanceHandler {
	return &AttendanceHandler{
		service:       service,
		files:         fm,
		validator:     validation.NewRequestValidator(),
		errorHandler:  errorHandler,
		defaultFormat: defaultFormat,
		logger:        logger.With(slog.String("component", "attendance_handler")),
	}
}

// Routes returns the upload routes
func (h *AttendanceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/reconcile", h.Reconcile)
	r.Post("/extract", h.Extract)
	return r
}

// Reconcile handles POST /api/reconcile. roster_files[i] is matched with
// raw_files[i]; the response is the single report file or, when several files
// were produced, matching_results.zip.
func (h *AttendanceHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, multipartError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	rosters := r.MultipartForm.File[FieldRosterFiles]
	raws := r.MultipartForm.File[FieldRawFiles]
	req := validation.ReconcileRequest{
		OutputFormat: strings.ToLower(strings.TrimSpace(r.FormValue(FieldOutputFormat))),
		RosterFiles:  fileNames(rosters),
		RawFiles:     fileNames(raws),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := checkNames(append(req.RosterFiles, req.RawFiles...), validation.TabularExtensions, "a CSV or Excel file"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := h.defaultFormat
	if req.OutputFormat != "" {
		format = domain.OutputFormat(req.OutputFormat)
	}

	ws, err := h.files.NewWorkspace()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer ws.Cleanup()

	rosterPaths, err := saveAll(ws, rosters)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rawPaths, err := saveAll(ws, raws)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	pairs := services.PairFiles(rosterPaths, rawPaths)
	h.logger.InfoContext(ctx, "Reconcile request",
		slog.String("workspace_id", ws.ID),
		slog.Int("pairs", len(pairs)),
		slog.String("format", string(format)))

	results, err := h.service.RunBatch(ctx, pairs, format, services.BatchOptions{OutputDir: ws.OutputDir()})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var outputs []string
	for _, a := range services.Artifacts(results) {
		outputs = append(outputs, a.Files...)
	}
	h.sendOutputs(w, r, outputs, filepath.Join(ws.Dir, exporter.MatchingBundleName))
}

// Extract handles POST /api/extract. Every excel_files upload is converted to
// <stem>-RAW.xlsx; several results are returned as raw_excel_files.zip.
func (h *AttendanceHandler) Extract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, multipartError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads := r.MultipartForm.File[FieldExcelFiles]
	req := validation.ExtractRequest{ExcelFiles: fileNames(uploads)}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := checkNames(req.ExcelFiles, validation.WorkbookExtensions, "an Excel workbook"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	ws, err := h.files.NewWorkspace()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer ws.Cleanup()

	paths, err := saveAll(ws, uploads)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "Extract request",
		slog.String("workspace_id", ws.ID),
		slog.Int("files", len(paths)))

	outputs, err := h.service.ExtractAllAndWrite(ctx, paths, ws.OutputDir())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.sendOutputs(w, r, outputs, filepath.Join(ws.Dir, exporter.RawBundleName))
}

// sendOutputs streams the only output file, or a zip of all of them
func (h *AttendanceHandler) sendOutputs(w http.ResponseWriter, r *http.Request, outputs []string, bundle string) {
	if len(outputs) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.NewAppValidationError("no output was produced"))
		return
	}

	path := outputs[0]
	if len(outputs) > 1 {
		if err := exporter.BundleZip(bundle, outputs); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to package results", err))
			return
		}
		path = bundle
	}

	f, err := os.Open(path)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to open result", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to stat result", err))
		return
	}

	name := filepath.Base(path)
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(name, `"`, "")+`"`)

	h.logger.InfoContext(r.Context(), "Sending result",
		slog.String("file", name),
		slog.Int64("size_bytes", info.Size()),
		slog.Int("outputs", len(outputs)))

	http.ServeContent(w, r, name, info.ModTime(), f)
}

func multipartError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return apierrors.ErrNotMultipart(err)
}

func fileNames(headers []*multipart.FileHeader) []string {
	names := make([]string, len(headers))
	for i, fh := range headers {
		names[i] = fh.Filename
	}
	return names
}

func checkNames(names []string, exts []string, kind string) error {
	for _, n := range names {
		if err := validation.CheckFileName(filepath.Base(n), exts, kind); err != nil {
			return err
		}
	}
	return nil
}

func saveAll(ws *files.Workspace, headers []*multipart.FileHeader) ([]string, error) {
	paths := make([]string, 0, len(headers))
	for _, fh := range headers {
		p, err := ws.SaveMultipart(fh)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
