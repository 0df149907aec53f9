package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/middleware"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/service"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/response"
)

type entityService interface {
	Kinds() []service.KindInfo
	Validate(ctx context.Context, kind string, rec models.Record) (models.ValidationResult, error)
	Normalize(ctx context.Context, kind string, rec models.Record) (models.Record, error)
	List(ctx context.Context, kind string, req service.ListEntitiesRequest) ([]models.Record, *models.Pagination, error)
	Get(ctx context.Context, kind, id string) (models.Record, error)
	Create(ctx context.Context, kind string, rec models.Record) (models.Record, error)
	Update(ctx context.Context, kind, id string, rec models.Record) (models.Record, error)
	SoftDelete(ctx context.Context, kind, id string) (models.Record, error)
	Restore(ctx context.Context, kind, id string) (models.Record, error)
	HardDelete(ctx context.Context, kind, id string) error
}

type exportService interface {
	Export(ctx context.Context, kind, format string, req service.ListEntitiesRequest) (*service.ExportResult, error)
}

// EntityHandler exposes the generic entity endpoints.
type EntityHandler struct {
	service  entityService
	exporter exportService
}

// NewEntityHandler constructs an entity handler. exporter may be nil.
func NewEntityHandler(svc entityService, exporter exportService) *EntityHandler {
	return &EntityHandler{service: svc, exporter: exporter}
}

// Kinds godoc
// @Summary List entity kinds
// @Tags Entities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /entities [get]
func (h *EntityHandler) Kinds(c *gin.Context) {
	response.OK(c, h.service.Kinds())
}

// Validate godoc
// @Summary Validate an entity payload without saving it
// @Tags Entities
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param payload body object true "Entity record"
// @Success 200 {object} response.Envelope
// @Router /entities/{kind}/validate [post]
func (h *EntityHandler) Validate(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	result, err := h.service.Validate(c.Request.Context(), c.Param("kind"), rec)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Normalize godoc
// @Summary Apply defaults and return the canonical record
// @Tags Entities
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param payload body object true "Entity record"
// @Success 200 {object} response.Envelope
// @Router /entities/{kind}/normalize [post]
func (h *EntityHandler) Normalize(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	out, err := h.service.Normalize(c.Request.Context(), c.Param("kind"), rec)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// List godoc
// @Summary List entities of a kind
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param search query string false "Search keyword"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "Sort field"
// @Param sort_order query string false "asc or desc"
// @Param include_deleted query bool false "Include soft deleted rows"
// @Param only_deleted query bool false "Only soft deleted rows"
// @Success 200 {object} response.Envelope
// @Router /entities/{kind} [get]
func (h *EntityHandler) List(c *gin.Context) {
	req, ok := bindListQuery(c)
	if !ok {
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), c.Param("kind"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "kind", c.Param("kind"))
	response.JSON(c, http.StatusOK, items, pagination, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get entity by id
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Router /entities/{kind}/{id} [get]
func (h *EntityHandler) Get(c *gin.Context) {
	out, err := h.service.Get(c.Request.Context(), c.Param("kind"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Create godoc
// @Summary Create entity
// @Tags Entities
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param payload body object true "Entity record"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /entities/{kind} [post]
func (h *EntityHandler) Create(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	out, err := h.service.Create(c.Request.Context(), c.Param("kind"), rec)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Update godoc
// @Summary Update entity
// @Tags Entities
// @Accept json
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Param payload body object true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /entities/{kind}/{id} [put]
func (h *EntityHandler) Update(c *gin.Context) {
	rec, ok := bindRecord(c)
	if !ok {
		return
	}
	out, err := h.service.Update(c.Request.Context(), c.Param("kind"), c.Param("id"), rec)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Delete godoc
// @Summary Soft delete an entity, or remove it with hard=true
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Param hard query bool false "Delete permanently (admin only)"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /entities/{kind}/{id} [delete]
func (h *EntityHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	if IsHardDelete(c) {
		if err := h.service.HardDelete(ctx, c.Param("kind"), c.Param("id")); err != nil {
			response.Error(c, err)
			return
		}
		response.NoContent(c)
		return
	}
	out, err := h.service.SoftDelete(ctx, c.Param("kind"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Restore godoc
// @Summary Restore a soft deleted entity
// @Tags Entities
// @Produce json
// @Param kind path string true "Entity kind"
// @Param id path string true "Entity ID"
// @Success 200 {object} response.Envelope
// @Router /entities/{kind}/{id}/restore [post]
func (h *EntityHandler) Restore(c *gin.Context) {
	out, err := h.service.Restore(c.Request.Context(), c.Param("kind"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, out)
}

// Export godoc
// @Summary Export entities as CSV or PDF
// @Tags Entities
// @Produce text/csv
// @Produce application/pdf
// @Param kind path string true "Entity kind"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /entities/{kind}/export [get]
func (h *EntityHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceDisabled, "exports are disabled"))
		return
	}
	req, ok := bindListQuery(c)
	if !ok {
		return
	}
	res, err := h.exporter.Export(c.Request.Context(), c.Param("kind"), c.Query("format"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("X-Export-Rows", strconv.Itoa(res.Rows))
	if res.Truncated {
		c.Header("X-Export-Truncated", "true")
	}
	response.File(c, res.Filename, res.ContentType, res.Payload)
}

// IsHardDelete reports whether the request asks for permanent deletion.
func IsHardDelete(c *gin.Context) bool {
	hard, _ := strconv.ParseBool(c.Query("hard"))
	return hard
}

func bindRecord(c *gin.Context) (models.Record, bool) {
	var rec models.Record
	if err := c.ShouldBindJSON(&rec); err != nil || rec == nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return nil, false
	}
	return rec, true
}

func bindListQuery(c *gin.Context) (service.ListEntitiesRequest, bool) {
	var req service.ListEntitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return req, false
	}
	return req, true
}
