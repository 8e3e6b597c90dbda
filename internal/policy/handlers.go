package policy

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleListRecords returns all archived records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords()
	if err != nil {
		slog.Error("Error listing records", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

// handleGetRecord returns one archived record by ID
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := s.service.GetRecord(id)
	if err != nil {
		corsError(w, "Record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec)
}

// handleListFailures returns all archived failures
func (s *Server) handleListFailures(w http.ResponseWriter, r *http.Request) {
	failures, err := s.service.ListFailures()
	if err != nil {
		slog.Error("Error listing failures", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, failures)
}

// handleStats returns outcome counts
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.GetStats()
	if err != nil {
		slog.Error("Error computing stats", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

// handleExportRecords streams the archive as an XLSX workbook
func (s *Server) handleExportRecords(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportRecordsXLSX()
	if err != nil {
		slog.Error("Error exporting records", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="records.xlsx"`)
	if _, err := w.Write(data); err != nil {
		slog.Error("Error writing export", "error", err)
	}
}
