package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const uploadField = "receipt"

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   message,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadContentType prefers the part header and falls back to the extension
func uploadContentType(header string, filename string) string {
	ct := strings.ToLower(strings.TrimSpace(header))
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// handleProcessReceipt accepts a multipart upload and creates a draft expense
func (s *Server) handleProcessReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Receipt file is too large")
			return
		}
		slog.Error("Error parsing multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Error parsing form")
		return
	}

	f, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Receipt file is required")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Receipt file is empty")
		return
	}

	result, err := s.service.ProcessReceipt(r.Context(), Upload{
		Filename:    header.Filename,
		Data:        data,
		ContentType: uploadContentType(header.Header.Get("Content-Type"), header.Filename),
		CompanyID:   r.FormValue("companyId"),
		CreatedByID: r.FormValue("createdById"),
	})
	switch {
	case errors.Is(err, ErrScanFailed):
		writeError(w, http.StatusBadGateway, err.Error())
		return
	case errors.Is(err, ErrInvalidExtraction):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process receipt")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"expense":    result.Expense,
		"receipt":    result.Receipt,
		"ocr":        result.Extraction,
		"validation": result.Validation,
	})
}

type extractRequest struct {
	Text string `json:"text"`
}

// handleExtract runs the extraction on text the client already recognized
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := s.service.ExtractText(req.Text)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"ocr":        result.Extraction,
		"validation": result.Validation,
		"expense":    result.Candidate,
	})
}

func (s *Server) notFoundOr500(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	slog.Error("Error loading "+strings.ToLower(what), "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := s.service.GetExpense(r.PathValue("id"))
	if err != nil {
		s.notFoundOr500(w, err, "Expense")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.service.ListExpenses()
	if err != nil {
		slog.Error("Error listing expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteExpense(r.PathValue("id")); err != nil {
		s.notFoundOr500(w, err, "Expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.GetReceipt(r.PathValue("id"))
	if err != nil {
		s.notFoundOr500(w, err, "Receipt")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// handleGetReceiptFile serves the original upload
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		s.notFoundOr500(w, err, "Receipt")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
