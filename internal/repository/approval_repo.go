package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// ApprovalRecordRepository stores the approval history trail.
type ApprovalRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRecordRepository creates a new approval record repository.
func NewApprovalRecordRepository(db *sql.DB, logger *zap.Logger) *ApprovalRecordRepository {
	return &ApprovalRecordRepository{db: db, logger: logger}
}

// Create appends one history entry.
func (r *ApprovalRecordRepository) Create(tx *sql.Tx, rec *entity.ApprovalRecord) error {
	query := `
		INSERT INTO approval_records (
			application_id, actor, role, action, from_status, to_status, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query,
			rec.ApplicationID, rec.Actor, rec.Role, rec.Action,
			rec.FromStatus, rec.ToStatus, rec.Comment)
	} else {
		result, err = r.db.Exec(query,
			rec.ApplicationID, rec.Actor, rec.Role, rec.Action,
			rec.FromStatus, rec.ToStatus, rec.Comment)
	}
	if err != nil {
		r.logger.Error("Failed to create approval record",
			zap.Int64("application_id", rec.ApplicationID), zap.Error(err))
		return fmt.Errorf("failed to create approval record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	rec.ID = id
	return nil
}

// ListByApplication returns the history trail oldest first.
func (r *ApprovalRecordRepository) ListByApplication(applicationID int64) ([]*entity.ApprovalRecord, error) {
	query := `
		SELECT id, application_id, actor, role, action, from_status, to_status, comment, created_at
		FROM approval_records
		WHERE application_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list approval records",
			zap.Int64("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list approval records: %w", err)
	}
	defer rows.Close()

	var records []*entity.ApprovalRecord
	for rows.Next() {
		var rec entity.ApprovalRecord
		if err := rows.Scan(
			&rec.ID, &rec.ApplicationID, &rec.Actor, &rec.Role, &rec.Action,
			&rec.FromStatus, &rec.ToStatus, &rec.Comment, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approval record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
