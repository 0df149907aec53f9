package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/theshushant/gyaan-buddy-combined-sub001/internal/models"
	appErrors "github.com/theshushant/gyaan-buddy-combined-sub001/pkg/errors"
)

const uniqueViolation = pq.ErrorCode("23505")

const recordColumns = "id, kind, payload, is_deleted, deleted_at, created_at, updated_at"

var payloadKey = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

// RecordRepository persists every entity kind in the entity_records table.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository creates a new instance of RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// List returns one page of rows of a single kind together with the total count.
func (r *RecordRepository) List(ctx context.Context, filter models.RecordFilter) ([]models.StoredRecord, int, error) {
	baseQuery := `FROM entity_records WHERE kind = $1`
	args := []interface{}{string(filter.Kind)}
	var conditions []string

	switch {
	case filter.OnlyDeleted:
		conditions = append(conditions, "is_deleted = TRUE")
	case !filter.IncludeDeleted:
		conditions = append(conditions, "is_deleted = FALSE")
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		conditions = append(conditions, fmt.Sprintf("payload::text ILIKE $%d", len(args)+1))
		args = append(args, "%"+term+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, id %s LIMIT %d OFFSET %d",
		recordColumns, baseQuery, sortExpression(filter.SortBy), sortOrder, sortOrder, pageSize, offset)

	var rows []models.StoredRecord
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s records: %w", filter.Kind, err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count %s records: %w", filter.Kind, err)
	}

	return rows, total, nil
}

// FindByID returns a row of the given kind. sql.ErrNoRows is returned unwrapped.
func (r *RecordRepository) FindByID(ctx context.Context, kind models.Kind, id string) (*models.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM entity_records WHERE kind = $1 AND id = $2 LIMIT 1`
	var row models.StoredRecord
	if err := r.db.GetContext(ctx, &row, query, string(kind), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find %s by id: %w", kind, err)
	}
	return &row, nil
}

// Create inserts a row, assigning an id when the entity does not carry one.
func (r *RecordRepository) Create(ctx context.Context, row *models.StoredRecord) error {
	if row.ID == "" {
		if err := row.SetID(uuid.NewString()); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}

	const query = `INSERT INTO entity_records (id, kind, payload, is_deleted, deleted_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, row.ID, string(row.Kind), row.Payload, row.IsDeleted, row.DeletedAt, row.CreatedAt, row.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("%s %s already exists", row.Kind, row.ID))
		}
		return fmt.Errorf("create %s: %w", row.Kind, err)
	}
	return nil
}

// Update overwrites the payload and deletion columns of an existing row.
func (r *RecordRepository) Update(ctx context.Context, row *models.StoredRecord) error {
	const query = `UPDATE entity_records SET payload = $3, is_deleted = $4, deleted_at = $5, updated_at = $6 WHERE kind = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, string(row.Kind), row.ID, row.Payload, row.IsDeleted, row.DeletedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update %s: %w", row.Kind, err)
	}
	return requireAffected(res)
}

// HardDelete removes the row permanently.
func (r *RecordRepository) HardDelete(ctx context.Context, kind models.Kind, id string) error {
	const query = `DELETE FROM entity_records WHERE kind = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, string(kind), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return requireAffected(res)
}

// Ping checks database connectivity.
func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// sortExpression maps a sort key onto a column or a payload field.
func sortExpression(sortBy string) string {
	switch sortBy {
	case "", "created_at":
		return "created_at"
	case "updated_at", "id":
		return sortBy
	}
	if payloadKey.MatchString(sortBy) {
		return fmt.Sprintf("payload->>'%s'", sortBy)
	}
	return "created_at"
}
