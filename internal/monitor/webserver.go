// Package monitor exposes the HTTP interface over persisted analysis
// reports: a JSON API for listing and fetching reports plus debug chart
// endpoints for eyeballing a run without the full UI.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/shuttle.report/internal/monitoring"
	sqlite "github.com/banshee-data/shuttle.report/internal/storage/sqlite"
)

// WebServer handles the HTTP interface for analysis reports.
type WebServer struct {
	address string
	store   *sqlite.ReportStore
	server  *http.Server
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Store   *sqlite.ReportStore
}

// NewWebServer creates a web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		store:   config.Store,
	}
	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/reports", ws.handleReports)
	mux.HandleFunc("/api/reports/", ws.handleReportByID)
	mux.HandleFunc("/debug/timeline", ws.handleDebugTimeline)
	mux.HandleFunc("/debug/rallies", ws.handleDebugRallies)

	return mux
}

// Start begins the HTTP server and blocks until the context is cancelled,
// then shuts the server down.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	monitoring.Logf("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		return ws.server.Close()
	}
	return nil
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("encode response: %v", err)
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	ws.writeJSON(w, status, map[string]string{"error": msg})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReports lists stored report summaries, newest first.
// Query params:
//
//	limit (optional, default 50, max 500)
func (ws *WebServer) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 || v > 500 {
			ws.writeJSONError(w, http.StatusBadRequest, "limit must be in 1..500")
			return
		}
		limit = v
	}

	reports, err := ws.store.List(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []*sqlite.StoredReport{}
	}
	ws.writeJSON(w, http.StatusOK, reports)
}

// handleReportByID serves GET and DELETE for a single report.
func (ws *WebServer) handleReportByID(w http.ResponseWriter, r *http.Request) {
	reportID := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if reportID == "" || strings.Contains(reportID, "/") {
		ws.writeJSONError(w, http.StatusBadRequest, "missing report id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		stored, err := ws.store.Get(reportID)
		if err != nil {
			ws.writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		ws.writeJSON(w, http.StatusOK, stored)
	case http.MethodDelete:
		if err := ws.store.Delete(reportID); err != nil {
			ws.writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		ws.writeJSON(w, http.StatusOK, map[string]string{"deleted": reportID})
	default:
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// loadReport resolves the report_id query parameter for the debug chart
// endpoints. A missing or unknown id writes the error response and returns
// nil.
func (ws *WebServer) loadReport(w http.ResponseWriter, r *http.Request) *sqlite.StoredReport {
	reportID := r.URL.Query().Get("report_id")
	if reportID == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "missing 'report_id' parameter")
		return nil
	}
	stored, err := ws.store.Get(reportID)
	if err != nil {
		ws.writeJSONError(w, http.StatusNotFound, err.Error())
		return nil
	}
	return stored
}
