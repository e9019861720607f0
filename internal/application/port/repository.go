package port

import (
	"database/sql"
	"time"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// ApplicationRepository defines persistence operations for TravelApplication.
type ApplicationRepository interface {
	Create(tx *sql.Tx, app *entity.TravelApplication) error
	Update(tx *sql.Tx, app *entity.TravelApplication) error
	GetByID(id int64) (*entity.TravelApplication, error)
	ListByApplicant(applicantID string, limit, offset int) ([]*entity.TravelApplication, error)
	ListByStatus(status string, limit, offset int) ([]*entity.TravelApplication, error)
	ListPendingSince(cutoff time.Time) ([]*entity.TravelApplication, error)
}

// ApprovalRepository defines persistence operations for the approval trail.
type ApprovalRepository interface {
	Create(tx *sql.Tx, rec *entity.ApprovalRecord) error
	ListByApplication(applicationID int64) ([]*entity.ApprovalRecord, error)
}

// ClaimRepository defines persistence operations for ExpenseClaim.
type ClaimRepository interface {
	Create(tx *sql.Tx, claim *entity.ExpenseClaim) error
	ListByApplication(applicationID int64) ([]*entity.ExpenseClaim, error)
}

// MasterRepository provides read access to master data tables.
type MasterRepository interface {
	ListModes() ([]entity.TravelMode, error)
	ListSubOptions() ([]entity.TravelSubOption, error)
	ListLocations() ([]entity.Location, error)
	ListGLCodes() ([]entity.GLCode, error)
	ListGuestHouses() ([]entity.GuestHouse, error)
	ListPanelHotels() ([]entity.PanelHotel, error)
}

// TransactionManager handles database transactions.
type TransactionManager interface {
	WithTransaction(fn func(*sql.Tx) error) error
}
