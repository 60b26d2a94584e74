// Package server exposes a ledger over a small JSON HTTP API.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/berrnk/bdz1/pkg/config"
	"github.com/berrnk/bdz1/pkg/encoder"
	"github.com/berrnk/bdz1/pkg/executors"
	"github.com/berrnk/bdz1/pkg/importer"
	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/parser"
	"github.com/berrnk/bdz1/pkg/plan"
	"github.com/berrnk/bdz1/pkg/service"
)

// maxDocumentSize bounds uploaded documents and plans.
const maxDocumentSize = 10 << 20

// Server serves one ledger. Every ledger access goes through mu: the
// ledger itself is not safe for concurrent use.
type Server struct {
	config   *config.Config
	logger   *log.Logger
	mux      *http.ServeMux
	mu       sync.Mutex
	ledger   *service.Ledger
	importer *importer.Importer
	executor *executors.Executor
}

func New(cfg *config.Config, logger *log.Logger, ledger *service.Ledger) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		ledger:   ledger,
		importer: importer.New(ledger.Store(), parser.New(logger), logger),
		executor: executors.New(logger, ledger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/accounts", s.withLogging(s.handleListAccounts))
	s.mux.HandleFunc("POST /api/accounts", s.withLogging(s.handleCreateAccount))
	s.mux.HandleFunc("GET /api/accounts/{id}", s.withLogging(s.handleGetAccount))
	s.mux.HandleFunc("PUT /api/accounts/{id}", s.withLogging(s.handleEditAccount))
	s.mux.HandleFunc("DELETE /api/accounts/{id}", s.withLogging(s.handleDeleteAccount))

	s.mux.HandleFunc("GET /api/categories", s.withLogging(s.handleListCategories))
	s.mux.HandleFunc("POST /api/categories", s.withLogging(s.handleCreateCategory))
	s.mux.HandleFunc("GET /api/categories/{id}", s.withLogging(s.handleGetCategory))
	s.mux.HandleFunc("PUT /api/categories/{id}", s.withLogging(s.handleEditCategory))
	s.mux.HandleFunc("DELETE /api/categories/{id}", s.withLogging(s.handleDeleteCategory))

	s.mux.HandleFunc("GET /api/operations", s.withLogging(s.handleListOperations))
	s.mux.HandleFunc("POST /api/operations", s.withLogging(s.handleCreateOperation))
	s.mux.HandleFunc("GET /api/operations/{id}", s.withLogging(s.handleGetOperation))
	s.mux.HandleFunc("PUT /api/operations/{id}", s.withLogging(s.handleEditOperation))
	s.mux.HandleFunc("DELETE /api/operations/{id}", s.withLogging(s.handleDeleteOperation))

	s.mux.HandleFunc("GET /api/analytics/difference", s.withLogging(s.handleDifference))
	s.mux.HandleFunc("GET /api/analytics/categories", s.withLogging(s.handleCategoryTotals))

	s.mux.HandleFunc("GET /api/export/{format}", s.withLogging(s.handleExport))
	s.mux.HandleFunc("GET /api/export/{format}/{kind}", s.withLogging(s.handleExport))
	s.mux.HandleFunc("POST /api/import", s.withLogging(s.handleImport))

	s.mux.HandleFunc("POST /api/plan", s.withLogging(s.handlePlan))
	s.mux.HandleFunc("POST /api/apply", s.withLogging(s.handlePlan))
}

// ---------------- accounts ----------------

type accountRequest struct {
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.AccountRecord, 0)
	for _, a := range s.ledger.Accounts() {
		out = append(out, a.Record())
	}
	s.mu.Unlock()
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	acc, err := s.ledger.CreateAccount(req.Name, req.Balance)
	var rec models.AccountRecord
	if err == nil {
		rec = acc.Record()
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, rec)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	acc, err := s.ledger.Account(id)
	var rec models.AccountRecord
	if err == nil {
		rec = acc.Record()
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, rec)
}

func (s *Server) handleEditAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.ledger.EditAccount(id, req.Name, req.Balance)
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.handleGetAccount(w, r)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.ledger.DeleteAccount(id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// ---------------- categories ----------------

type categoryRequest struct {
	Type models.Kind `json:"type"`
	Name string      `json:"name"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.CategoryRecord, 0)
	for _, c := range s.ledger.Categories() {
		out = append(out, c.Record())
	}
	s.mu.Unlock()
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	c, err := s.ledger.CreateCategory(req.Type, req.Name)
	var rec models.CategoryRecord
	if err == nil {
		rec = c.Record()
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, rec)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	c, err := s.ledger.Category(id)
	var rec models.CategoryRecord
	if err == nil {
		rec = c.Record()
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, rec)
}

func (s *Server) handleEditCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	err := s.ledger.EditCategory(id, req.Name)
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.handleGetCategory(w, r)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.ledger.DeleteCategory(id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// ---------------- operations ----------------

type operationRequest struct {
	Type        models.Kind     `json:"type"`
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	CategoryID  int64           `json:"category_id"`
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	var start, end time.Time
	filtered := r.URL.Query().Has("start") || r.URL.Query().Has("end")
	if filtered {
		var ok bool
		if start, end, ok = s.period(w, r); !ok {
			return
		}
	}
	s.mu.Lock()
	out := make([]models.OperationRecord, 0)
	for _, o := range s.ledger.Operations() {
		if filtered && !o.Within(start, end) {
			continue
		}
		out = append(out, o.Record())
	}
	s.mu.Unlock()
	s.respond(w, r, http.StatusOK, out)
}

func (s *Server) handleCreateOperation(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if !s.decode(w, r, &req) {
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid date", err)
		return
	}
	s.mu.Lock()
	op, err := s.ledger.CreateOperation(req.Type, req.AccountID, req.Amount, date, req.Description, req.CategoryID)
	var rec models.OperationRecord
	if err == nil {
		rec = op.Record()
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, rec)
}

func (s *Server) handleGetOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	op, err := s.ledger.Operation(id)
	var rec models.OperationRecord
	if err == nil {
		rec = op.Record()
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, rec)
}

func (s *Server) handleEditOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req operationRequest
	if !s.decode(w, r, &req) {
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid date", err)
		return
	}
	s.mu.Lock()
	err = s.ledger.EditOperation(id, req.Amount, date, req.Description)
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}
	s.handleGetOperation(w, r)
}

func (s *Server) handleDeleteOperation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.ledger.DeleteOperation(id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// ---------------- analytics ----------------

type totalsView struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

func (s *Server) handleDifference(w http.ResponseWriter, r *http.Request) {
	start, end, ok := s.period(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	totals := s.ledger.PeriodTotals(start, end)
	s.mu.Unlock()
	s.respond(w, r, http.StatusOK, map[string]any{
		"start":      start.Format(models.DateLayout),
		"end":        end.Format(models.DateLayout),
		"income":     totals.Income,
		"expense":    totals.Expense,
		"difference": totals.Net(),
	})
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	groups := s.ledger.GroupOperationsByCategory()
	s.mu.Unlock()
	out := make(map[string]totalsView, len(groups))
	for name, t := range groups {
		out[name] = totalsView{Income: t.Income, Expense: t.Expense}
	}
	s.respond(w, r, http.StatusOK, out)
}

// ---------------- export / import ----------------

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := models.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "unsupported format", err)
		return
	}
	enc, err := encoder.New(format)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "unsupported format", err)
		return
	}

	var buf bytes.Buffer
	s.mu.Lock()
	s.ledger.ExportData(enc)
	if kind := r.PathValue("kind"); kind != "" {
		var entity models.EntityKind
		entity, err = models.ParseEntityKind(kind)
		if err == nil {
			outs := [3]io.Writer{io.Discard, io.Discard, io.Discard}
			outs[entity] = &buf
			err = enc.Flush(outs[0], outs[1], outs[2])
		}
	} else {
		err = enc.WriteDocument(&buf)
	}
	s.mu.Unlock()
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write export response", "err", err)
	}
}

func contentType(f models.Format) string {
	switch f {
	case models.JSON:
		return "application/json"
	case models.CSV:
		return "text/csv"
	default:
		return "application/yaml"
	}
}

// handleImport reads a document from a multipart "document" field or from
// the raw body. The format comes from ?format= or the uploaded file name.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)

	var (
		data   []byte
		source = "request body"
		err    error
	)
	name := r.URL.Query().Get("format")
	if isMultipart(r) {
		file, header, ferr := r.FormFile("document")
		if ferr != nil {
			s.respondError(w, r, http.StatusBadRequest, "missing document field", ferr)
			return
		}
		defer file.Close()
		source = header.Filename
		if name == "" {
			name = header.Filename
		}
		data, err = io.ReadAll(file)
	} else {
		// any other content type is the document itself, form-encoded included
		data, err = io.ReadAll(r.Body)
	}
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read document", err)
		return
	}

	format, err := models.ParseFormat(name)
	if err != nil {
		if format, err = models.DetectFormat(name); err != nil {
			s.respondError(w, r, http.StatusBadRequest, "unsupported format", err)
			return
		}
	}

	s.mu.Lock()
	report := s.importer.ImportBytes(data, format, source)
	if !report.Failed() {
		s.ledger.SyncIdentifiers()
	}
	s.mu.Unlock()

	status := http.StatusOK
	if report.Failed() {
		status = http.StatusUnprocessableEntity
	}
	s.respond(w, r, status, map[string]any{
		"source":     report.Source,
		"accounts":   report.Accounts,
		"categories": report.Categories,
		"operations": report.Operations,
		"failure":    report.Failure,
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// ---------------- plan / apply ----------------

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "failed to read plan", err)
		return
	}
	p, err := plan.Parse(data)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid plan", err)
		return
	}

	apply := r.URL.Path == "/api/apply"
	s.mu.Lock()
	var report *executors.Report
	if apply {
		report, err = s.executor.Apply(p)
	} else {
		report, err = executors.BuildReport(p, s.ledger)
	}
	s.mu.Unlock()
	if err != nil {
		s.respondLedgerError(w, r, err)
		return
	}

	lines := make([]string, 0, len(report.Items))
	for _, item := range report.Items {
		prefix := "="
		if item.Status == executors.ToAdd {
			prefix = "+"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", prefix, item.Kind, item.Label))
	}
	s.respond(w, r, http.StatusOK, map[string]any{
		"applied":  apply,
		"lines":    lines,
		"to_add":   report.MissingCount(),
		"existing": report.ExistingCount(),
	})
}

// --- helpers ---

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return id, true
}

func (s *Server) period(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	q := r.URL.Query()
	start, err := models.ParseDate(q.Get("start"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid start date", err)
		return time.Time{}, time.Time{}, false
	}
	end, err := models.ParseDate(q.Get("end"))
	if err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid end date", err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err := dec.Decode(v); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := s.writeJSON(w, status, v); err != nil {
		s.logger.Warn("failed to write json response", "err", err, "path", r.URL.Path)
	}
}

// respondLedgerError maps ledger error kinds to HTTP statuses.
func (s *Server) respondLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		s.respondError(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, models.ErrValidation):
		s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
	}
}

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path, "request_id", w.Header().Get(requestIDHeader))
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path, "request_id", w.Header().Get(requestIDHeader))
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

const requestIDHeader = "X-Request-Id"

// withLogging wraps a handler to tag the request with an id, log it and
// recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "request_id", id)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path, "request_id", id)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
