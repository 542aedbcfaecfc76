package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/JonMunkholm/kontenfilter/internal/artifact"
	"github.com/JonMunkholm/kontenfilter/internal/config"
	"github.com/JonMunkholm/kontenfilter/internal/logging"
)

// ProcessRequest is one upload: the workbook plus its filter inputs.
type ProcessRequest struct {
	FileName  string
	Data      []byte
	Keywords  []string
	SheetName string

	// Column limits classification to one header column. Empty falls back
	// to the configured content column, and then to every cell.
	Column string
}

// Outputs is the encoded result of partitioning one sheet.
type Outputs struct {
	Sheet     string
	Partition *PartitionResult
	Cleaned   []byte
	Excluded  []byte
}

// ProcessResult is what an upload hands back: two download handles.
type ProcessResult struct {
	Sheet    string          `json:"sheet"`
	Cleaned  artifact.Handle `json:"cleaned"`
	Excluded artifact.Handle `json:"excluded"`
	Summary  Summary         `json:"summary"`
}

// Service runs uploads through read → classify → encode → store.
type Service struct {
	store    *artifact.Store
	limiter  *UploadLimiter
	detector *ScriptDetector
	filter   config.FilterConfig
	timeout  time.Duration
}

// NewService wires a service from configuration. store may be nil for
// callers that only need Build (the CLI).
func NewService(store *artifact.Store, cfg *config.Config) (*Service, error) {
	detector, err := NewScriptDetector(cfg.Filter.TargetScripts, cfg.Filter.ForeignThreshold)
	if err != nil {
		return nil, fmt.Errorf("script detector: %w", err)
	}
	return &Service{
		store:    store,
		limiter:  NewUploadLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		detector: detector,
		filter:   cfg.Filter,
		timeout:  cfg.Upload.Timeout,
	}, nil
}

// Build reads the requested sheet, classifies every data row and encodes the
// kept and excluded rows as two workbooks. Sheet and file errors surface
// before any classification work starts.
func (s *Service) Build(req ProcessRequest) (*Outputs, error) {
	if len(req.Data) == 0 {
		return nil, ErrNoFile
	}
	if req.FileName != "" && !HasXLSXExtension(req.FileName) {
		return nil, ErrInvalidFileType
	}

	sheetName := s.sheetName(req.SheetName)
	sheet, err := ReadSheet(req.Data, sheetName)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	classifier := NewClassifier(s.detector, req.Keywords)
	column := strings.TrimSpace(req.Column)
	if column == "" {
		column = strings.TrimSpace(s.filter.ContentColumn)
	}
	if column != "" {
		idx := ColumnIndex(sheet.Header, column)
		if idx < 0 {
			return nil, &ColumnNotFoundError{
				Column:    column,
				Sheet:     sheet.Name,
				Available: sheet.Header.Strings(),
			}
		}
		classifier = classifier.WithColumn(idx)
	}

	result := PartitionChunked(sheet.Header, sheet.Rows, classifier, s.filter.ChunkSize)

	cleaned, err := EncodeWorkbook(sheet.Name, result.Header, result.Kept)
	if err != nil {
		return nil, fmt.Errorf("encode cleaned workbook: %w", err)
	}
	excluded, err := EncodeWorkbook(sheet.Name, result.Header, result.Excluded)
	if err != nil {
		return nil, fmt.Errorf("encode excluded workbook: %w", err)
	}

	return &Outputs{
		Sheet:     sheet.Name,
		Partition: result,
		Cleaned:   cleaned,
		Excluded:  excluded,
	}, nil
}

// Process runs Build under the upload limiter and hands both workbooks to
// the artifact store. The store deletes them on its own schedule.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("process: service has no artifact store")
	}

	log := logging.WithFields(ctx, "file", req.FileName, "sheet", s.sheetName(req.SheetName))

	waitCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.limiter.Acquire(waitCtx); err != nil {
		log.Warn("upload rejected", "error", err, "active", s.limiter.ActiveCount())
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	out, err := s.Build(req)
	if err != nil {
		return nil, err
	}

	base := SafeFileName(req.FileName)
	cleaned, err := s.store.Put(out.Cleaned, "cleaned_"+base, ContentTypeXLSX)
	if err != nil {
		return nil, fmt.Errorf("store cleaned workbook: %w", err)
	}
	excluded, err := s.store.Put(out.Excluded, "excluded_"+base, ContentTypeXLSX)
	if err != nil {
		s.store.Expire(cleaned.ID)
		return nil, fmt.Errorf("store excluded workbook: %w", err)
	}

	summary := out.Partition.Summary()
	log.Info("workbook partitioned",
		"rows", summary.TotalRows,
		"kept", summary.KeptRows,
		"excluded", summary.ExcludedRows,
		"foreign_script", summary.ForeignScript,
		"keyword_match", summary.KeywordMatch,
		"both", summary.Both,
		"keywords", len(req.Keywords),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &ProcessResult{
		Sheet:    out.Sheet,
		Cleaned:  cleaned,
		Excluded: excluded,
		Summary:  summary,
	}, nil
}

// Retrieve returns a stored output workbook.
func (s *Service) Retrieve(id string) (*artifact.Artifact, error) {
	if s.store == nil {
		return nil, artifact.ErrNotFound
	}
	return s.store.Retrieve(id)
}

// ServiceStatus reports load for monitoring.
type ServiceStatus struct {
	Uploads   UploadLimiterStatus `json:"uploads"`
	Artifacts int                 `json:"artifacts"`
}

// Status returns the limiter snapshot and the live artifact count.
func (s *Service) Status() ServiceStatus {
	st := ServiceStatus{Uploads: s.limiter.Status()}
	if s.store != nil {
		st.Artifacts = s.store.Len()
	}
	return st
}

// WaitForUploads blocks until in-flight uploads finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) sheetName(requested string) string {
	if name := strings.TrimSpace(requested); name != "" {
		return name
	}
	return s.filter.DefaultSheet
}

// HasXLSXExtension reports whether name ends in .xlsx, ignoring case.
func HasXLSXExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".xlsx")
}

// SafeFileName reduces an uploaded file name to its base name with only
// letters, digits, dots, dashes and underscores. Spaces become underscores.
func SafeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := filepath.Ext(name)
	if !HasXLSXExtension(ext) {
		ext = ".xlsx"
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "workbook"
	}
	return out + ext
}
