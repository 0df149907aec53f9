package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
)

type stubLister struct {
	total int
	calls []ListEntitiesRequest
}

func (s *stubLister) List(ctx context.Context, kind string, req ListEntitiesRequest) ([]models.Record, *models.Pagination, error) {
	s.calls = append(s.calls, req)
	start := (req.Page - 1) * req.PageSize
	var items []models.Record
	for i := start; i < start+req.PageSize && i < s.total; i++ {
		items = append(items, models.Record{"id": fmt.Sprintf("s-%d", i), "name": "School", "classes": []interface{}{"c-1"}})
	}
	return items, &models.Pagination{Page: req.Page, PageSize: req.PageSize, TotalCount: s.total}, nil
}

func TestExportCSVPagesThroughListing(t *testing.T) {
	lister := &stubLister{total: 230}
	svc := NewExportService(lister, ExportConfig{Enabled: true}, nil)

	res, err := svc.Export(context.Background(), "school", "csv", ListEntitiesRequest{Search: "hill"})
	require.NoError(t, err)
	assert.Len(t, lister.calls, 3)
	assert.Equal(t, "hill", lister.calls[2].Search)
	assert.Equal(t, 230, res.Rows)
	assert.False(t, res.Truncated)
	assert.True(t, strings.HasSuffix(res.Filename, ".csv"))
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)

	lines := strings.Split(strings.TrimSpace(string(res.Payload)), "\n")
	assert.Equal(t, "id,classes,name", lines[0])
	assert.Equal(t, `s-0,"[""c-1""]",School`, lines[1])
}

func TestExportTruncatesAtMaxRows(t *testing.T) {
	lister := &stubLister{total: 250}
	svc := NewExportService(lister, ExportConfig{Enabled: true, MaxRows: 150}, nil)

	res, err := svc.Export(context.Background(), "school", "pdf", ListEntitiesRequest{})
	require.NoError(t, err)
	assert.Equal(t, 150, res.Rows)
	assert.True(t, res.Truncated)
	assert.True(t, bytes.HasPrefix(res.Payload, []byte("%PDF")))
}

func TestExportRejections(t *testing.T) {
	disabled := NewExportService(&stubLister{}, ExportConfig{}, nil)
	_, err := disabled.Export(context.Background(), "school", "csv", ListEntitiesRequest{})
	assert.ErrorIs(t, err, appErrors.ErrServiceDisabled)

	svc := NewExportService(&stubLister{}, ExportConfig{Enabled: true}, nil)
	_, err = svc.Export(context.Background(), "school", "xlsx", ListEntitiesRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestDatasetCells(t *testing.T) {
	ds := Dataset("module_chapter", []models.Record{
		{"id": "m-1", "order": 2, "logo": nil, "is_enabled": true},
		{"id": "m-2", "module": map[string]interface{}{"id": "x"}},
	})
	assert.Equal(t, "module chapter", ds.Title)
	assert.Equal(t, []string{"id", "is_enabled", "logo", "module", "order"}, ds.Headers)
	assert.Equal(t, "2", ds.Rows[0]["order"])
	assert.Equal(t, "", ds.Rows[0]["logo"])
	assert.Equal(t, "true", ds.Rows[0]["is_enabled"])
	assert.Equal(t, `{"id":"x"}`, ds.Rows[1]["module"])
}
