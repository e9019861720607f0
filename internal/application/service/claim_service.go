package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrops/traveldesk/internal/application/port"
	"github.com/hrops/traveldesk/internal/domain/entity"
)

// CategoryOther groups advance line items and claims that belong to no
// booking category.
const CategoryOther = "other"

// ClaimService records post-travel expense claims and reconciles them
// against the advance disbursed with the application.
type ClaimService interface {
	AddClaim(id int64, applicantID string, claim *entity.ExpenseClaim) error
	Claims(id int64) ([]*entity.ExpenseClaim, error)
	Reconcile(id int64) (*entity.Reconciliation, error)
}

type claimServiceImpl struct {
	appRepo   port.ApplicationRepository
	claimRepo port.ClaimRepository
	logger    Logger
}

// NewClaimService creates a new ClaimService.
func NewClaimService(appRepo port.ApplicationRepository, claimRepo port.ClaimRepository, logger Logger) ClaimService {
	return &claimServiceImpl{appRepo: appRepo, claimRepo: claimRepo, logger: logger}
}

// AddClaim files one expense claim. Claims open once the travel desk has
// taken the application up and stay open after close, so late receipts can
// still be reconciled.
func (s *claimServiceImpl) AddClaim(id int64, applicantID string, claim *entity.ExpenseClaim) error {
	app, err := s.application(id)
	if err != nil {
		return err
	}
	if app.ApplicantID != applicantID {
		return ErrForbidden
	}
	if app.Status != entity.StatusTravelDesk && app.Status != entity.StatusClosed {
		return ErrClaimsNotOpen
	}

	claim.ApplicationID = app.ID
	claim.Category = normalizeCategory(claim.Category)
	claim.CreatedAt = time.Now()

	if err := s.claimRepo.Create(nil, claim); err != nil {
		s.logger.Error("Failed to add claim", "error", err, "application_id", id)
		return err
	}
	s.logger.Info("Expense claim filed",
		"application_id", id, "category", claim.Category, "amount", claim.Amount.String())
	return nil
}

// Claims returns the claims filed against one application.
func (s *claimServiceImpl) Claims(id int64) ([]*entity.ExpenseClaim, error) {
	app, err := s.application(id)
	if err != nil {
		return nil, err
	}
	return s.claimRepo.ListByApplication(app.ID)
}

// Reconcile builds the advance-versus-claims statement. Advances come from
// the draft's derived fare fields; claims are grouped into the same four
// categories. Variance is claimed minus advanced per category and overall.
func (s *claimServiceImpl) Reconcile(id int64) (*entity.Reconciliation, error) {
	app, err := s.application(id)
	if err != nil {
		return nil, err
	}
	claims, err := s.claimRepo.ListByApplication(app.ID)
	if err != nil {
		return nil, err
	}

	advanced := map[string]decimal.Decimal{
		entity.CategoryTicketing:     decimal.Zero,
		entity.CategoryAccommodation: decimal.Zero,
		entity.CategoryConveyance:    decimal.Zero,
		CategoryOther:                decimal.Zero,
	}
	for i := range app.Draft.Trips {
		adv := app.Draft.Trips[i].TravelAdvance
		advanced[entity.CategoryTicketing] = advanced[entity.CategoryTicketing].Add(adv.AirFare).Add(adv.TrainFare)
		advanced[entity.CategoryAccommodation] = advanced[entity.CategoryAccommodation].Add(adv.LodgingFare)
		advanced[entity.CategoryConveyance] = advanced[entity.CategoryConveyance].Add(adv.ConveyanceFare)
		advanced[CategoryOther] = advanced[CategoryOther].Add(adv.OtherExpenses)
	}

	claimed := map[string]decimal.Decimal{}
	for _, c := range claims {
		cat := normalizeCategory(c.Category)
		claimed[cat] = claimed[cat].Add(c.Amount)
	}

	rec := &entity.Reconciliation{
		ApplicationID: app.ID,
		TotalAdvanced: decimal.Zero,
		TotalClaimed:  decimal.Zero,
	}
	for _, cat := range []string{
		entity.CategoryTicketing, entity.CategoryAccommodation,
		entity.CategoryConveyance, CategoryOther,
	} {
		line := entity.CategoryReconciliation{
			Category: cat,
			Advanced: advanced[cat],
			Claimed:  claimed[cat],
			Variance: claimed[cat].Sub(advanced[cat]),
		}
		rec.Categories = append(rec.Categories, line)
		rec.TotalAdvanced = rec.TotalAdvanced.Add(line.Advanced)
		rec.TotalClaimed = rec.TotalClaimed.Add(line.Claimed)
	}
	rec.Variance = rec.TotalClaimed.Sub(rec.TotalAdvanced)
	return rec, nil
}

func (s *claimServiceImpl) application(id int64) (*entity.TravelApplication, error) {
	app, err := s.appRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrNotFound
	}
	return app, nil
}

// normalizeCategory folds unknown claim categories into "other" so the
// statement always carries exactly four lines.
func normalizeCategory(cat string) string {
	switch cat {
	case entity.CategoryTicketing, entity.CategoryAccommodation, entity.CategoryConveyance:
		return cat
	default:
		return CategoryOther
	}
}
