package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/export"
)

const exportPageSize = 100

type entityLister interface {
	List(ctx context.Context, kind string, req ListEntitiesRequest) ([]models.Record, *models.Pagination, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled bool
	MaxRows int
}

// ExportResult is a rendered document ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
	Rows        int
	Truncated   bool
}

// ExportService renders entity listings as CSV or PDF documents.
type ExportService struct {
	entities  entityLister
	renderers map[export.Format]export.Renderer
	cfg       ExportConfig
	logger    *zap.Logger
}

// NewExportService constructs an ExportService with the built-in CSV and PDF renderers.
func NewExportService(entities entityLister, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 5000
	}
	return &ExportService{
		entities: entities,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Export renders every entity matching req (up to MaxRows) in the requested format.
func (s *ExportService) Export(ctx context.Context, kind, format string, req ListEntitiesRequest) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrServiceDisabled, "exports are disabled")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	records, truncated, err := s.collect(ctx, kind, req)
	if err != nil {
		return nil, err
	}

	renderer := s.renderers[f]
	payload, err := renderer.Render(Dataset(kind, records))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	if truncated {
		s.logger.Warn("export truncated", zap.String("kind", kind), zap.Int("max_rows", s.cfg.MaxRows))
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("%s_%s.%s", kind, time.Now().UTC().Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Payload:     payload,
		Rows:        len(records),
		Truncated:   truncated,
	}, nil
}

func (s *ExportService) collect(ctx context.Context, kind string, req ListEntitiesRequest) ([]models.Record, bool, error) {
	req.PageSize = exportPageSize
	req.Page = 1
	var out []models.Record
	for {
		items, pagination, err := s.entities.List(ctx, kind, req)
		if err != nil {
			return nil, false, err
		}
		out = append(out, items...)
		if len(out) >= s.cfg.MaxRows {
			return out[:s.cfg.MaxRows], pagination.TotalCount > s.cfg.MaxRows, nil
		}
		if len(items) < exportPageSize || req.Page*exportPageSize >= pagination.TotalCount {
			return out, false, nil
		}
		req.Page++
	}
}

// Dataset flattens serialized entities into a table. The id column comes first and
// the remaining columns are sorted.
func Dataset(kind string, records []models.Record) export.Dataset {
	columns := map[string]struct{}{}
	for _, rec := range records {
		for key := range rec {
			columns[key] = struct{}{}
		}
	}
	delete(columns, "id")
	headers := make([]string, 0, len(columns)+1)
	for key := range columns {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	headers = append([]string{"id"}, headers...)

	rows := make([]map[string]string, len(records))
	for i, rec := range records {
		row := make(map[string]string, len(rec))
		for key, value := range rec {
			row[key] = cell(value)
		}
		rows[i] = row
	}
	return export.Dataset{Title: strings.ReplaceAll(kind, "_", " "), Headers: headers, Rows: rows}
}

func cell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case map[string]interface{}, models.Record, []interface{}, []models.Record:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		raw, _ := json.Marshal(value)
		return string(raw)
	}
	return s
}
