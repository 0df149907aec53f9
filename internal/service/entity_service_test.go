package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
)

type mockRecordRepo struct {
	rows      map[string]models.StoredRecord
	seq       int
	lastList  models.RecordFilter
	findCalls int
	listErr   error
	createErr error
	onFind    func()
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{rows: map[string]models.StoredRecord{}}
}

func (m *mockRecordRepo) key(kind models.Kind, id string) string { return string(kind) + "/" + id }

func (m *mockRecordRepo) List(ctx context.Context, filter models.RecordFilter) ([]models.StoredRecord, int, error) {
	m.lastList = filter
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []models.StoredRecord
	for _, row := range m.rows {
		if row.Kind != filter.Kind {
			continue
		}
		if !filter.IncludeDeleted && row.IsDeleted {
			continue
		}
		out = append(out, row)
	}
	return out, len(out), nil
}

func (m *mockRecordRepo) FindByID(ctx context.Context, kind models.Kind, id string) (*models.StoredRecord, error) {
	m.findCalls++
	row, ok := m.rows[m.key(kind, id)]
	// onFind runs after the row is read, standing in for a writer that commits mid-request.
	if hook := m.onFind; hook != nil {
		m.onFind = nil
		hook()
	}
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *mockRecordRepo) Create(ctx context.Context, row *models.StoredRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if row.ID == "" {
		m.seq++
		if err := row.SetID(fmt.Sprintf("gen-%d", m.seq)); err != nil {
			return err
		}
	}
	m.rows[m.key(row.Kind, row.ID)] = *row
	return nil
}

func (m *mockRecordRepo) Update(ctx context.Context, row *models.StoredRecord) error {
	if _, ok := m.rows[m.key(row.Kind, row.ID)]; !ok {
		return sql.ErrNoRows
	}
	m.rows[m.key(row.Kind, row.ID)] = *row
	return nil
}

func (m *mockRecordRepo) HardDelete(ctx context.Context, kind models.Kind, id string) error {
	if _, ok := m.rows[m.key(kind, id)]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, m.key(kind, id))
	return nil
}

type memoryCache struct {
	items map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{items: map[string][]byte{}} }

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.items, key)
	return nil
}

func newEntityService(repo *mockRecordRepo) (*EntityService, *MetricsService) {
	metrics := NewMetricsService()
	return NewEntityService(repo, nil, metrics, nil, nil, time.Minute), metrics
}

func TestEntityServiceUnknownKind(t *testing.T) {
	svc, _ := newEntityService(newMockRecordRepo())

	_, err := svc.Validate(context.Background(), "homework", models.Record{})
	assert.ErrorIs(t, err, appErrors.ErrUnknownKind)

	_, err = svc.Create(context.Background(), "homework", models.Record{})
	assert.ErrorIs(t, err, appErrors.ErrUnknownKind)
}

func TestEntityServiceValidateCountsFailures(t *testing.T) {
	svc, metrics := newEntityService(newMockRecordRepo())

	result, err := svc.Validate(context.Background(), "question", models.Record{"question_text": "", "exp_points": -5})
	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.validationFailures.WithLabelValues("question", "exp_points")))
	assert.Equal(t, uint64(1), metrics.Snapshot().ValidationFailures)
}

func TestEntityServiceNormalizeAppliesDefaults(t *testing.T) {
	svc, _ := newEntityService(newMockRecordRepo())

	out, err := svc.Normalize(context.Background(), "competition", models.Record{"title": "Quiz"})
	require.NoError(t, err)
	assert.Equal(t, "subject", out["competition_type"])
	assert.Equal(t, 30, out["total_time"])
}

func TestEntityServiceCreateAndGet(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "school", models.Record{"name": "Hill Top", "email": "office@hilltop.edu"})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", created["id"])
	assert.Equal(t, true, created["is_active"])

	got, err := svc.Get(ctx, "school", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, "Hill Top", got["name"])

	_, err = svc.Get(ctx, "school", "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestEntityServiceCreateIgnoresClientIdentity(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)

	created, err := svc.Create(context.Background(), "school", models.Record{
		"id":         "client-chosen",
		"name":       "Hill Top",
		"is_deleted": true,
		"deleted_at": "2020-01-01T00:00:00Z",
		"created_at": "1999-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", created["id"])
	assert.Equal(t, false, created["is_deleted"])
	assert.Nil(t, created["deleted_at"])
	assert.NotContains(t, created["created_at"], "1999")
	assert.NotContains(t, repo.rows, "school/client-chosen")
	assert.False(t, repo.rows["school/gen-1"].IsDeleted)
}

func TestEntityServiceCreateConflict(t *testing.T) {
	repo := newMockRecordRepo()
	repo.createErr = appErrors.Clone(appErrors.ErrConflict, "school gen-1 already exists")
	svc, _ := newEntityService(repo)

	_, err := svc.Create(context.Background(), "school", models.Record{"name": "Hill Top"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestEntityServiceGetCachesReads(t *testing.T) {
	repo := newMockRecordRepo()
	store := newMemoryCache()
	metrics := NewMetricsService()
	svc := NewEntityService(repo, NewCacheService(store, metrics, time.Minute, nil, true), metrics, nil, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, "subject", models.Record{"name": "Maths", "code": "MATH"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "subject", "gen-1")
	require.NoError(t, err)
	_, err = svc.Get(ctx, "subject", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findCalls)
	assert.Contains(t, store.items, "entity:subject:gen-1")

	_, err = svc.Update(ctx, "subject", "gen-1", models.Record{"name": "Mathematics"})
	require.NoError(t, err)
	assert.NotContains(t, store.items, "entity:subject:gen-1")
}

func TestEntityServiceGetSkipsFillAfterConcurrentWrite(t *testing.T) {
	repo := newMockRecordRepo()
	store := newMemoryCache()
	svc := NewEntityService(repo, NewCacheService(store, nil, time.Minute, nil, true), nil, nil, nil, time.Minute)
	ctx := context.Background()

	_, err := svc.Create(ctx, "subject", models.Record{"name": "Maths", "code": "MATH"})
	require.NoError(t, err)

	repo.onFind = func() {
		_, updateErr := svc.Update(ctx, "subject", "gen-1", models.Record{"name": "Mathematics"})
		require.NoError(t, updateErr)
	}
	stale, err := svc.Get(ctx, "subject", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, "Maths", stale["name"])
	assert.NotContains(t, store.items, "entity:subject:gen-1")

	fresh, err := svc.Get(ctx, "subject", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", fresh["name"])
}

func TestEntityServiceCreateRejectsInvalid(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)

	_, err := svc.Create(context.Background(), "level", models.Record{"name": 2, "min_exp": 100, "max_exp": 50})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, map[string]string{"min_exp": "Minimum experience cannot be greater than maximum experience"}, appErr.Details)
	assert.Empty(t, repo.rows)
}

func TestEntityServiceUpdateProtectsKeys(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "subject", models.Record{"name": "Maths", "code": "MATH"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "subject", "gen-1", models.Record{"id": "hijack", "name": "Mathematics", "is_deleted": true})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", updated["id"])
	assert.Equal(t, "Mathematics", updated["name"])
	assert.Equal(t, "MATH", updated["code"])

	_, err = svc.Update(ctx, "subject", "gen-1", models.Record{"name": ""})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	stored, err := svc.Get(ctx, "subject", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", stored["name"])
}

func TestEntityServiceSoftDeleteAndRestore(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "theory", models.Record{"title": "Cells", "description": "Basic unit of life"})
	require.NoError(t, err)

	deleted, err := svc.SoftDelete(ctx, "theory", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, true, deleted["is_deleted"])
	assert.NotNil(t, deleted["deleted_at"])
	assert.True(t, repo.rows["theory/gen-1"].IsDeleted)

	items, _, err := svc.List(ctx, "theory", ListEntitiesRequest{})
	require.NoError(t, err)
	assert.Empty(t, items)

	restored, err := svc.Restore(ctx, "theory", "gen-1")
	require.NoError(t, err)
	assert.Equal(t, false, restored["is_deleted"])
	assert.Nil(t, restored["deleted_at"])
	assert.False(t, repo.rows["theory/gen-1"].IsDeleted)
}

func TestEntityServiceSoftDeleteUnsupportedKind(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)

	_, err := svc.SoftDelete(context.Background(), "level", "any")
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Zero(t, repo.findCalls)
}

func TestEntityServiceHardDelete(t *testing.T) {
	repo := newMockRecordRepo()
	svc, metrics := newEntityService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "level", models.Record{"name": 1, "min_exp": 0, "max_exp": 99})
	require.NoError(t, err)

	require.NoError(t, svc.HardDelete(ctx, "level", "gen-1"))
	assert.Empty(t, repo.rows)
	assert.ErrorIs(t, svc.HardDelete(ctx, "level", "gen-1"), appErrors.ErrNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.entityMutations.WithLabelValues("level", "hard_delete")))
}

func TestEntityServiceListQuery(t *testing.T) {
	repo := newMockRecordRepo()
	svc, _ := newEntityService(repo)
	ctx := context.Background()

	_, pagination, err := svc.List(ctx, "mission", ListEntitiesRequest{Page: 2, SortOrder: "asc", Search: "week"})
	require.NoError(t, err)
	assert.Equal(t, &models.Pagination{Page: 2, PageSize: 20, TotalCount: 0}, pagination)
	assert.Equal(t, models.KindMission, repo.lastList.Kind)
	assert.Equal(t, "week", repo.lastList.Search)

	_, _, err = svc.List(ctx, "mission", ListEntitiesRequest{PageSize: 500})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, _, err = svc.List(ctx, "mission", ListEntitiesRequest{SortOrder: "sideways"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	repo.listErr = fmt.Errorf("db down")
	_, _, err = svc.List(ctx, "mission", ListEntitiesRequest{})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestEntityServiceKinds(t *testing.T) {
	svc, _ := newEntityService(newMockRecordRepo())
	kinds := svc.Kinds()
	require.Len(t, kinds, 19)
	for _, k := range kinds {
		assert.Equal(t, models.IsSoftDeletable(k.Kind), k.SoftDeletable)
	}
}
