package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/zombor/codebook/internal/scanning"
)

// maxUploadSize caps scan uploads; high-resolution phone photos fit
// comfortably under it
const maxUploadSize = int64(50 << 20) // 50MB

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(appCSS)
}

func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}

// handleScanImage scans one uploaded image file and returns its records
func (s *Server) handleScanImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.")
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "File is too large. Maximum size is 50MB.")
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return
	}

	records, err := s.service.ScanUpload(filepath.Base(header.Filename), data)
	if err != nil {
		slog.Error("Failed to scan uploaded image", "filename", header.Filename, "error", err)
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Could not scan image: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"found":   len(records),
		"records": records,
	})
}

// handleScanDirectory starts a background directory scan
func (s *Server) handleScanDirectory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path      string `json:"path"`
		Recursive bool   `json:"recursive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "A directory path is required")
		return
	}

	if !s.tryBeginScan() {
		writeError(w, http.StatusConflict, "A scan is already in progress")
		return
	}

	go func() {
		defer s.endScan()
		records := s.service.ScanDirectory(req.Path, req.Recursive)
		slog.Info("Directory scan complete", "path", req.Path, "codes", len(records))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scanning"})
}

// handleScanWebcam starts a background webcam scan (no preview window
// in server mode)
func (s *Server) handleScanWebcam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Device   int `json:"device"`
		Duration int `json:"duration_seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Duration <= 0 {
		req.Duration = 30
	}

	if !s.tryBeginScan() {
		writeError(w, http.StatusConflict, "A scan is already in progress")
		return
	}

	go func() {
		defer s.endScan()
		records := s.service.ScanWebcam(context.Background(), scanning.WebcamOptions{
			Device:   req.Device,
			Duration: time.Duration(req.Duration) * time.Second,
		})
		slog.Info("Webcam scan complete", "codes", len(records))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scanning"})
}

// handleListRecords returns the current session's records
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records := s.service.Records()
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(records),
		"records": records,
	})
}

// handleClearRecords discards the current session
func (s *Server) handleClearRecords(w http.ResponseWriter, r *http.Request) {
	s.service.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleStatus reports the busy flag and record count
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scanning": s.Scanning(),
		"total":    s.service.Total(),
	})
}

// handleDownloadExport streams the current records in the requested format
func (s *Server) handleDownloadExport(w http.ResponseWriter, r *http.Request) {
	records := s.service.Records()
	now := time.Now()

	if r.URL.Query().Get("format") == "txt" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="scan_results.txt"`)
		w.Write(ExportText(records, now))
		return
	}

	data, err := ExportJSON(records, now)
	if err != nil {
		slog.Error("Error exporting records", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="scan_results.json"`)
	w.Write(data)
}

// handleExport writes the current records to a file in the export directory
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Filename == "" {
		writeError(w, http.StatusBadRequest, "A filename is required")
		return
	}

	path, err := s.service.Export(filepath.Base(req.Filename))
	if err != nil {
		slog.Error("Error exporting records", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"path": path})
}

// handleGetExportFile serves a previously written export file from the
// export directory
func (s *Server) handleGetExportFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("name"))
	data, err := s.service.ReadExport(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "Export not found")
		return
	}

	if FormatForFilename(name) == FormatText {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Write(data)
}

// handleDeleteExportFile removes a previously written export file
func (s *Server) handleDeleteExportFile(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("name"))
	if err := s.service.DeleteExport(name); err != nil {
		writeError(w, http.StatusNotFound, "Export not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleSaveSession persists the current session
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.SaveSession()
	if err != nil {
		slog.Error("Error saving session", "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// handleListSessions returns all saved sessions
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions()
	if err != nil {
		slog.Error("Error listing sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleGetSession returns one saved session
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.GetSession(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// handleDeleteSession removes a saved session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(r.PathValue("id")); err != nil {
		slog.Error("Error deleting session", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
