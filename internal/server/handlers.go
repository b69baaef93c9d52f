package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eventvms/vms/internal/models"
)

func (s *Server) handleListStalls(w http.ResponseWriter, r *http.Request) {
	stalls, err := s.reports.Stalls(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stalls)
}

func (s *Server) handleListVisitors(w http.ResponseWriter, r *http.Request) {
	visitors, err := s.reports.Visitors(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visitors)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reports.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerResponse struct {
	ID          string             `json:"id"`
	PreviewURL  *string            `json:"previewUrl"`
	EmailStatus models.EmailStatus `json:"email_status"`
	EmailError  string             `json:"email_error,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Name and email are required")
		return
	}

	result, err := s.registration.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		slog.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{
		ID:          result.ID,
		EmailStatus: result.EmailStatus,
		EmailError:  result.EmailError,
	})
}

type stallAuthRequest struct {
	StallID    string `json:"stallId"`
	AccessCode string `json:"accessCode"`
}

func (s *Server) handleStallAuth(w http.ResponseWriter, r *http.Request) {
	var req stallAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.StallID == "" || req.AccessCode == "" {
		writeError(w, http.StatusBadRequest, "stallId and accessCode required")
		return
	}

	stall, err := s.checkin.AuthenticateStall(r.Context(), req.StallID, req.AccessCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":    true,
		"stall": stall.Public(),
	})
}

type scanRequest struct {
	VisitorID  string `json:"visitorId"`
	StallID    string `json:"stallId"`
	AccessCode string `json:"accessCode"`
}

type scanResponse struct {
	OK      bool                 `json:"ok"`
	Message string               `json:"message,omitempty"`
	Visitor models.PublicVisitor `json:"visitor"`
	Stall   models.PublicStall   `json:"stall"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.VisitorID == "" || req.StallID == "" || req.AccessCode == "" {
		writeError(w, http.StatusBadRequest, "visitorId, stallId, accessCode required")
		return
	}

	result, err := s.checkin.Scan(r.Context(), req.VisitorID, req.StallID, req.AccessCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := scanResponse{OK: true, Visitor: result.Visitor, Stall: result.Stall}
	if result.Repeat {
		resp.Message = "Already scanned at this stall"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportStall(w http.ResponseWriter, r *http.Request) {
	stallID := r.PathValue("stallID")

	// Build the CSV before touching the response so an export failure
	// can still produce a clean error body.
	var buf bytes.Buffer
	if err := s.reports.ExportStallCSV(r.Context(), stallID, &buf); err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", stallID+"-visitors.csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write csv export failed", "error", err)
	}
}
