package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

const auditColumns = `id, action, resource_type, resource_id, request_id, before_state, after_state, status, error_message, created_at`

// AuditRepository implements audit log persistence
type AuditRepository struct {
	db querier
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return newAuditRepository(pool)
}

func newAuditRepository(db querier) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateTx inserts an audit log entry within the audited transaction
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	q, err := pgxTx(tx)
	if err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var beforeStateJSON, afterStateJSON []byte

	if log.BeforeState != nil {
		beforeStateJSON, err = json.Marshal(log.BeforeState)
		if err != nil {
			return err
		}
	}

	if log.AfterState != nil {
		afterStateJSON, err = json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
	}

	_, err = q.Exec(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		log.ID,
		string(log.Action),
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeStateJSON,
		afterStateJSON,
		string(log.Status),
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List retrieves audit logs with filtering, newest first
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := []any{}

	add := func(clause string, value any) {
		args = append(args, value)
		query += fmt.Sprintf(clause, len(args))
	}

	if filter.Action != "" {
		add(` AND action = $%d`, string(filter.Action))
	}
	if filter.ResourceType != "" {
		add(` AND resource_type = $%d`, filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add(` AND resource_id = $%d`, filter.ResourceID)
	}
	if filter.StartDate != nil {
		add(` AND created_at >= $%d`, timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		add(` AND created_at <= $%d`, timeToPgTimestamptz(*filter.EndDate))
	}

	query += ` ORDER BY created_at DESC, id DESC`

	limit, offset := domain.ValidatePagination(filter.Limit, filter.Offset)
	add(` LIMIT $%d`, limit)
	add(` OFFSET $%d`, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var (
			log                             domain.AuditLog
			action, status                  string
			beforeStateJSON, afterStateJSON []byte
			createdAt                       pgtype.Timestamptz
		)

		err := rows.Scan(
			&log.ID,
			&action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeStateJSON,
			&afterStateJSON,
			&status,
			&log.ErrorMessage,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		log.Action = domain.AuditAction(action)
		log.Status = domain.AuditStatus(status)
		log.CreatedAt = createdAt.Time

		if beforeStateJSON != nil {
			_ = json.Unmarshal(beforeStateJSON, &log.BeforeState)
		}

		if afterStateJSON != nil {
			_ = json.Unmarshal(afterStateJSON, &log.AfterState)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
