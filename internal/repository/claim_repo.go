package repository

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// ClaimRepository stores post-travel expense claims. Amounts are persisted
// as exact decimal strings.
type ClaimRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository.
func NewClaimRepository(db *sql.DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{db: db, logger: logger}
}

// Create inserts one claim and assigns its id.
func (r *ClaimRepository) Create(tx *sql.Tx, claim *entity.ExpenseClaim) error {
	query := `
		INSERT INTO expense_claims (
			application_id, category, description, amount, expense_date, receipt_ref
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query,
			claim.ApplicationID, claim.Category, claim.Description,
			claim.Amount.String(), claim.ExpenseDate, claim.ReceiptRef)
	} else {
		result, err = r.db.Exec(query,
			claim.ApplicationID, claim.Category, claim.Description,
			claim.Amount.String(), claim.ExpenseDate, claim.ReceiptRef)
	}
	if err != nil {
		r.logger.Error("Failed to create expense claim",
			zap.Int64("application_id", claim.ApplicationID), zap.Error(err))
		return fmt.Errorf("failed to create expense claim: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	claim.ID = id
	return nil
}

// ListByApplication returns an application's claims oldest first.
func (r *ClaimRepository) ListByApplication(applicationID int64) ([]*entity.ExpenseClaim, error) {
	query := `
		SELECT id, application_id, category, description, amount, expense_date, receipt_ref, created_at
		FROM expense_claims
		WHERE application_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(query, applicationID)
	if err != nil {
		r.logger.Error("Failed to list expense claims",
			zap.Int64("application_id", applicationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list expense claims: %w", err)
	}
	defer rows.Close()

	var claims []*entity.ExpenseClaim
	for rows.Next() {
		var claim entity.ExpenseClaim
		var amount string
		if err := rows.Scan(
			&claim.ID, &claim.ApplicationID, &claim.Category, &claim.Description,
			&amount, &claim.ExpenseDate, &claim.ReceiptRef, &claim.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense claim: %w", err)
		}
		claim.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount on claim %d: %w", claim.ID, err)
		}
		claims = append(claims, &claim)
	}
	return claims, rows.Err()
}
