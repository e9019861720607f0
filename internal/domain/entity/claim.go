package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseClaim is one actual expense reported after travel, reconciled
// against the advance disbursed for the application.
type ExpenseClaim struct {
	ID            int64           `json:"id"`
	ApplicationID int64           `json:"application_id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	ExpenseDate   string          `json:"expense_date"`
	ReceiptRef    string          `json:"receipt_ref,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CategoryReconciliation compares advanced and claimed amounts for one
// booking category.
type CategoryReconciliation struct {
	Category string          `json:"category"`
	Advanced decimal.Decimal `json:"advanced"`
	Claimed  decimal.Decimal `json:"claimed"`
	Variance decimal.Decimal `json:"variance"`
}

// Reconciliation is the advance-versus-claims statement for one
// application. Variance is claimed minus advanced: positive means the
// employee is owed money, negative means an advance refund is due.
type Reconciliation struct {
	ApplicationID int64                    `json:"application_id"`
	Categories    []CategoryReconciliation `json:"categories"`
	TotalAdvanced decimal.Decimal          `json:"total_advanced"`
	TotalClaimed  decimal.Decimal          `json:"total_claimed"`
	Variance      decimal.Decimal          `json:"variance"`
}

// ApprovalRecord is one entry in an application's approval history trail.
type ApprovalRecord struct {
	ID            int64     `json:"id"`
	ApplicationID int64     `json:"application_id"`
	Actor         string    `json:"actor"`
	Role          string    `json:"role"`
	Action        string    `json:"action"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
