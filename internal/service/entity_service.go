package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
)

type recordRepository interface {
	List(ctx context.Context, filter models.RecordFilter) ([]models.StoredRecord, int, error)
	FindByID(ctx context.Context, kind models.Kind, id string) (*models.StoredRecord, error)
	Create(ctx context.Context, row *models.StoredRecord) error
	Update(ctx context.Context, row *models.StoredRecord) error
	HardDelete(ctx context.Context, kind models.Kind, id string) error
}

// ListEntitiesRequest captures the query string accepted when listing entities.
type ListEntitiesRequest struct {
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	Search         string `form:"search" validate:"omitempty,max=100"`
	SortBy         string `form:"sort_by" validate:"omitempty,max=63"`
	SortOrder      string `form:"sort_order" validate:"omitempty,oneof=asc desc ASC DESC"`
	IncludeDeleted bool   `form:"include_deleted"`
	OnlyDeleted    bool   `form:"only_deleted"`
}

// KindInfo describes a registered entity kind.
type KindInfo struct {
	Kind          models.Kind `json:"kind"`
	SoftDeletable bool        `json:"soft_deletable"`
}

// protectedKeys are owned by the backend: ids and timestamps are assigned on write and
// deletion state moves only through SoftDelete/Restore.
var protectedKeys = []string{"id", "created_at", "updated_at", "is_deleted", "deleted_at"}

// EntityService validates, normalizes and persists entities of every registered kind.
type EntityService struct {
	repo      recordRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration

	// writes counts committed mutations; Get skips the cache fill when one lands during its load.
	writes uint64
}

// NewEntityService constructs an EntityService. cache and metrics may be nil.
func NewEntityService(repo recordRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *EntityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// Kinds returns every registered kind.
func (s *EntityService) Kinds() []KindInfo {
	kinds := models.Kinds()
	out := make([]KindInfo, len(kinds))
	for i, k := range kinds {
		out[i] = KindInfo{Kind: k, SoftDeletable: models.IsSoftDeletable(k)}
	}
	return out
}

// Validate builds an entity from rec and runs its rules without persisting anything.
func (s *EntityService) Validate(ctx context.Context, kind string, rec models.Record) (models.ValidationResult, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return models.ValidationResult{}, err
	}
	entity, err := models.New(k, rec)
	if err != nil {
		return models.ValidationResult{}, unknownKind(kind)
	}
	result := entity.Validate()
	s.metrics.RecordValidationFailure(k, result)
	return result, nil
}

// Normalize returns the canonical serialized form of rec, applying defaults.
func (s *EntityService) Normalize(ctx context.Context, kind string, rec models.Record) (models.Record, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return nil, err
	}
	entity, err := models.New(k, rec)
	if err != nil {
		return nil, unknownKind(kind)
	}
	return entity.Serialize(), nil
}

// List returns a page of serialized entities.
func (s *EntityService) List(ctx context.Context, kind string, req ListEntitiesRequest) ([]models.Record, *models.Pagination, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return nil, nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid list query")
	}

	filter := models.RecordFilter{
		Kind:           k,
		IncludeDeleted: req.IncludeDeleted,
		OnlyDeleted:    req.OnlyDeleted,
		Search:         req.Search,
		Page:           req.Page,
		PageSize:       req.PageSize,
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
	}

	start := time.Now()
	rows, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("record_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to list %s", k))
	}

	items := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		entity, err := row.Entity()
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to decode %s", k))
		}
		items = append(items, entity.Serialize())
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a single serialized entity, consulting the cache first.
func (s *EntityService) Get(ctx context.Context, kind, id string) (models.Record, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return nil, err
	}

	key := cacheKey(k, id)
	var cached models.Record
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	before := atomic.LoadUint64(&s.writes)
	entity, err := s.load(ctx, k, id)
	if err != nil {
		return nil, err
	}
	out := entity.Serialize()
	if atomic.LoadUint64(&s.writes) == before {
		_ = s.cache.Set(ctx, key, out, s.cacheTTL)
	}
	return out, nil
}

// Create validates and persists a new entity.
func (s *EntityService) Create(ctx context.Context, kind string, rec models.Record) (models.Record, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return nil, err
	}
	entity, err := models.New(k, withoutProtected(rec))
	if err != nil {
		return nil, unknownKind(kind)
	}
	if err := s.check(k, entity); err != nil {
		return nil, err
	}

	row, err := models.Stored(k, entity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to encode %s", k))
	}
	start := time.Now()
	err = s.repo.Create(ctx, &row)
	s.metrics.ObserveDBQuery("record_create", time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrConflict) {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s already exists", k))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to create %s", k))
	}

	created, err := row.Entity()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to decode %s", k))
	}
	s.metrics.RecordMutation(k, "create")
	s.logger.Info("entity created", zap.String("kind", string(k)), zap.String("id", row.ID))
	return created.Serialize(), nil
}

// Update applies the keys present in rec to an existing entity.
func (s *EntityService) Update(ctx context.Context, kind, id string, rec models.Record) (models.Record, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return nil, err
	}
	entity, err := s.load(ctx, k, id)
	if err != nil {
		return nil, err
	}

	entity.Update(withoutProtected(rec))
	if err := s.check(k, entity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, k, entity, "update"); err != nil {
		return nil, err
	}
	return entity.Serialize(), nil
}

// SoftDelete marks an entity deleted. Kinds without a tombstone are rejected.
func (s *EntityService) SoftDelete(ctx context.Context, kind, id string) (models.Record, error) {
	return s.transition(ctx, kind, id, "soft_delete", func(e models.SoftDeletable) { e.SoftDelete() })
}

// Restore clears the deletion marker of an entity.
func (s *EntityService) Restore(ctx context.Context, kind, id string) (models.Record, error) {
	return s.transition(ctx, kind, id, "restore", func(e models.SoftDeletable) { e.Restore() })
}

// HardDelete removes an entity permanently.
func (s *EntityService) HardDelete(ctx context.Context, kind, id string) error {
	k, err := resolveKind(kind)
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.repo.HardDelete(ctx, k, id)
	s.metrics.ObserveDBQuery("record_delete", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(k)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to delete %s", k))
	}
	atomic.AddUint64(&s.writes, 1)
	_ = s.cache.Delete(ctx, cacheKey(k, id))
	s.metrics.RecordMutation(k, "hard_delete")
	s.logger.Info("entity deleted", zap.String("kind", string(k)), zap.String("id", id))
	return nil
}

func (s *EntityService) transition(ctx context.Context, kind, id, operation string, apply func(models.SoftDeletable)) (models.Record, error) {
	k, err := resolveKind(kind)
	if err != nil {
		return nil, err
	}
	if !models.IsSoftDeletable(k) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("%s does not support soft delete", k))
	}
	entity, err := s.load(ctx, k, id)
	if err != nil {
		return nil, err
	}
	sd, ok := entity.(models.SoftDeletable)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, fmt.Sprintf("%s does not support soft delete", k))
	}
	apply(sd)
	if err := s.save(ctx, k, entity, operation); err != nil {
		return nil, err
	}
	return entity.Serialize(), nil
}

func (s *EntityService) load(ctx context.Context, k models.Kind, id string) (models.Entity, error) {
	start := time.Now()
	row, err := s.repo.FindByID(ctx, k, id)
	s.metrics.ObserveDBQuery("record_find", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(k)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to load %s", k))
	}
	entity, err := row.Entity()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to decode %s", k))
	}
	return entity, nil
}

func (s *EntityService) save(ctx context.Context, k models.Kind, entity models.Entity, operation string) error {
	row, err := models.Stored(k, entity)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to encode %s", k))
	}
	start := time.Now()
	err = s.repo.Update(ctx, &row)
	s.metrics.ObserveDBQuery("record_update", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(k)
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to update %s", k))
	}
	atomic.AddUint64(&s.writes, 1)
	_ = s.cache.Delete(ctx, cacheKey(k, row.ID))
	s.metrics.RecordMutation(k, operation)
	s.logger.Info("entity updated", zap.String("kind", string(k)), zap.String("id", row.ID), zap.String("operation", operation))
	return nil
}

func (s *EntityService) check(k models.Kind, entity models.Entity) error {
	result := entity.Validate()
	if result.IsValid {
		return nil
	}
	s.metrics.RecordValidationFailure(k, result)
	return appErrors.WithDetails(appErrors.ErrValidation, fmt.Sprintf("%s is invalid", k), result.Errors)
}

func withoutProtected(rec models.Record) models.Record {
	out := make(models.Record, len(rec))
	for key, value := range rec {
		out[key] = value
	}
	for _, key := range protectedKeys {
		delete(out, key)
	}
	return out
}

func resolveKind(raw string) (models.Kind, error) {
	k := models.Kind(raw)
	if !models.Has(k) {
		return "", unknownKind(raw)
	}
	return k, nil
}

func unknownKind(raw string) error {
	return appErrors.Clone(appErrors.ErrUnknownKind, fmt.Sprintf("unknown entity type %q", raw))
}

func notFound(k models.Kind) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", k))
}

func cacheKey(k models.Kind, id string) string {
	return fmt.Sprintf("entity:%s:%s", k, id)
}
