package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/receipt-reader/internal/scanning"
)

// maxUploadSize fits high-resolution phone photos
const maxUploadSize = int64(50 << 20)

const tooLargeMessage = "File is too large. Maximum size is 50MB. Please compress or resize your image."

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes an {"error": message} response
func jsonError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// lookupError maps a service lookup failure to a plain text response
func lookupError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, notFound, http.StatusNotFound)
		return
	}
	slog.Error("Error handling request", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}

// handleListReceipts returns a list of all receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, receipts)
}

// contentTypeFor picks the upload's content type, falling back to its extension
func contentTypeFor(declared, filename string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	}
	return "application/octet-stream"
}

// handleUploadReceipt handles receipt upload
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, tooLargeMessage, http.StatusBadRequest)
			return
		}
		jsonError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		message := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			message = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, message, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxUploadSize {
		jsonError(w, tooLargeMessage, http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := contentTypeFor(header.Header.Get("Content-Type"), header.Filename)

	receipt, err := s.service.ProcessReceipt(r.Context(), header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing receipt", "filename", header.Filename, "error", err)
		switch {
		case errors.Is(err, ErrUnsupportedType):
			jsonError(w, "Unsupported file type. Please upload a JPEG, PNG, HEIC or PDF receipt.", http.StatusBadRequest)
		case errors.Is(err, scanning.ErrNoText):
			jsonError(w, "No text could be read from the receipt. Please try a clearer photo.", http.StatusBadRequest)
		case errors.Is(err, ErrScanFailed):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			jsonError(w, "Error saving receipt. Please try again.", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.GetReceipt(r.PathValue("id"))
	if err != nil {
		lookupError(w, err, "Receipt not found")
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// handleGetReceiptFile returns the uploaded file for a receipt
func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetReceiptFile(r.PathValue("id"))
	if err != nil {
		slog.Warn("Error getting receipt file", "id", r.PathValue("id"), "error", err)
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteReceipt deletes a receipt
func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReceipt(r.PathValue("id")); err != nil {
		lookupError(w, err, "Receipt not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleReparseReceipt runs the parser again over a stored receipt
func (s *Server) handleReparseReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.service.ReparseReceipt(r.PathValue("id"))
	if err != nil {
		lookupError(w, err, "Receipt not found")
		return
	}

	writeJSON(w, http.StatusOK, receipt)
}

// handleClearReceipts deletes the whole receipt history
func (s *Server) handleClearReceipts(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearReceipts(); err != nil {
		slog.Error("Error clearing receipts", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleExportReceipts downloads every receipt as a JSON file
func (s *Server) handleExportReceipts(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportReceipts()
	if err != nil {
		slog.Error("Error exporting receipts", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="all_receipts.json"`)
	w.Write(data)
}

// handleAskQuestion answers a spending question
func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	question, err := s.service.Ask(req.Question)
	if err != nil {
		if errors.Is(err, ErrEmptyQuestion) {
			jsonError(w, "Please type a question.", http.StatusBadRequest)
			return
		}
		slog.Error("Error answering question", "error", err)
		jsonError(w, "Error answering question", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

// handleListQuestions returns the question log
func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.service.ListQuestions()
	if err != nil {
		slog.Error("Error listing questions", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}
