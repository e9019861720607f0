package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// ApplicationRepository handles travel application persistence. The draft
// travels as one JSON document beside the indexed status columns.
type ApplicationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *sql.DB, logger *zap.Logger) *ApplicationRepository {
	return &ApplicationRepository{db: db, logger: logger}
}

func (r *ApplicationRepository) execer(tx *sql.Tx) execer {
	if tx != nil {
		return tx
	}
	return r.db
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Create inserts a new application and assigns its id.
func (r *ApplicationRepository) Create(tx *sql.Tx, app *entity.TravelApplication) error {
	draftJSON, err := json.Marshal(app.Draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	query := `
		INSERT INTO travel_applications (
			applicant_id, department, status, requires_ceo, draft_data, total_cost
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.execer(tx).Exec(query,
		app.ApplicantID,
		app.Department,
		app.Status,
		app.RequiresCEO,
		string(draftJSON),
		app.TotalEstimatedCost().String(),
	)
	if err != nil {
		r.logger.Error("Failed to create application", zap.Error(err))
		return fmt.Errorf("failed to create application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	app.ID = id
	return nil
}

// Update rewrites the draft document and status columns.
func (r *ApplicationRepository) Update(tx *sql.Tx, app *entity.TravelApplication) error {
	draftJSON, err := json.Marshal(app.Draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	query := `
		UPDATE travel_applications
		SET department = ?, status = ?, requires_ceo = ?, draft_data = ?,
			total_cost = ?, submitted_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.execer(tx).Exec(query,
		app.Department,
		app.Status,
		app.RequiresCEO,
		string(draftJSON),
		app.TotalEstimatedCost().String(),
		app.SubmittedAt,
		app.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update application", zap.Int64("id", app.ID), zap.Error(err))
		return fmt.Errorf("failed to update application: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("application %d not found", app.ID)
	}
	return nil
}

const applicationColumns = `
	id, applicant_id, department, status, requires_ceo, draft_data,
	submitted_at, created_at, updated_at
`

// GetByID returns the application or (nil, nil) when absent.
func (r *ApplicationRepository) GetByID(id int64) (*entity.TravelApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM travel_applications WHERE id = ?`

	app, err := r.scanApplication(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get application", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListByApplicant returns the applicant's applications, newest first.
func (r *ApplicationRepository) ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM travel_applications
		WHERE applicant_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	return r.list(query, applicantID, limit, offset)
}

// ListByStatus returns applications in one status, oldest first so approval
// queues drain in submission order.
func (r *ApplicationRepository) ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM travel_applications
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ? OFFSET ?
	`
	return r.list(query, status, limit, offset)
}

// ListPendingSince returns applications sitting in a review state with no
// update since the cutoff. The reminder worker nudges these.
func (r *ApplicationRepository) ListPendingSince(cutoff time.Time) ([]*entity.TravelApplication, error) {
	query := `
		SELECT ` + applicationColumns + `
		FROM travel_applications
		WHERE status IN (?, ?, ?, ?)
		AND updated_at < ?
		ORDER BY updated_at ASC
	`
	return r.list(query,
		entity.StatusSubmitted,
		entity.StatusManagerApproved,
		entity.StatusCHROApproved,
		entity.StatusCEOApproved,
		cutoff,
	)
}

func (r *ApplicationRepository) list(query string, args ...interface{}) ([]*entity.TravelApplication, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*entity.TravelApplication
	for rows.Next() {
		app, err := r.scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *ApplicationRepository) scanApplication(row rowScanner) (*entity.TravelApplication, error) {
	var app entity.TravelApplication
	var draftJSON string
	var submittedAt sql.NullTime

	err := row.Scan(
		&app.ID,
		&app.ApplicantID,
		&app.Department,
		&app.Status,
		&app.RequiresCEO,
		&draftJSON,
		&submittedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(draftJSON), &app.Draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft for application %d: %w", app.ID, err)
	}
	if submittedAt.Valid {
		app.SubmittedAt = &submittedAt.Time
	}
	return &app, nil
}
