package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/kontenfilter/internal/core"
	"github.com/JonMunkholm/kontenfilter/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// ProcessResponse is the success body of POST /process-excel.
type ProcessResponse struct {
	Message     string       `json:"message"`
	Sheet       string       `json:"sheet"`
	CleanedURL  string       `json:"cleaned_url"`
	ExcludedURL string       `json:"excluded_url"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Summary     core.Summary `json:"summary"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	core.ServiceStatus
	ArtifactTTL string `json:"artifact_ttl"`
}

// handleProcessExcel partitions the uploaded workbook and returns download
// links for the cleaned and excluded workbooks.
func (s *Server) handleProcessExcel(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			err = core.ErrNoFile
		}
		s.respondError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	file, header, err := r.FormFile("excelFile")
	if err != nil {
		s.respondError(w, r, core.ErrNoFile)
		return
	}
	defer file.Close()

	if !core.HasXLSXExtension(header.Filename) {
		s.respondError(w, r, core.ErrInvalidFileType)
		return
	}

	keywords, err := parseKeywords(r.FormValue("keywords"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	res, err := s.service.Process(r.Context(), core.ProcessRequest{
		FileName:  header.Filename,
		Data:      data,
		Keywords:  keywords,
		SheetName: r.FormValue("inputSheetName"),
		Column:    r.FormValue("column"),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := ProcessResponse{
		Message:     "File processed successfully",
		Sheet:       res.Sheet,
		CleanedURL:  downloadURL(res.Cleaned.ID),
		ExcludedURL: downloadURL(res.Excluded.ID),
		ExpiresAt:   res.Cleaned.ExpiresAt,
		Summary:     res.Summary,
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		expiresIn := time.Until(res.Cleaned.ExpiresAt).Round(time.Second).String()
		err := templates.ProcessResult(resp.CleanedURL, resp.ExcludedURL,
			res.Summary.KeptRows, res.Summary.ExcludedRows, expiresIn).Render(r.Context(), w)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("render result: %w", err))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseKeywords decodes the keywords form field. An absent field means no
// keywords; anything other than a JSON array of strings is rejected.
func parseKeywords(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidKeywords, err)
	}
	return keywords, nil
}

func downloadURL(id string) string {
	return "/downloads/" + id
}

// handleDownload streams a stored output workbook. Links stop working once
// the artifact expires.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "artifactID")

	a, err := s.service.Retrieve(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Payload)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(a.Payload)
}

// handleStatus reports processing load and the number of live artifacts.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		ServiceStatus: s.service.Status(),
		ArtifactTTL:   s.cfg.Artifact.TTL.String(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
