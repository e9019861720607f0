package repository

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// MasterRepository serves the reference data behind every selector: travel
// modes, sub-options, locations, GL codes, guest houses, panel hotels.
type MasterRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMasterRepository creates a new master data repository.
func NewMasterRepository(db *sql.DB, logger *zap.Logger) *MasterRepository {
	return &MasterRepository{db: db, logger: logger}
}

// ListModes returns all travel modes.
func (r *MasterRepository) ListModes() ([]entity.TravelMode, error) {
	rows, err := r.db.Query(`SELECT id, code, label, category FROM travel_modes ORDER BY id`)
	if err != nil {
		return nil, r.wrap("travel modes", err)
	}
	defer rows.Close()

	var modes []entity.TravelMode
	for rows.Next() {
		var m entity.TravelMode
		if err := rows.Scan(&m.ID, &m.Code, &m.Label, &m.Category); err != nil {
			return nil, r.wrap("travel modes", err)
		}
		modes = append(modes, m)
	}
	return modes, rows.Err()
}

// ListSubOptions returns all mode sub-options.
func (r *MasterRepository) ListSubOptions() ([]entity.TravelSubOption, error) {
	rows, err := r.db.Query(`SELECT id, mode_id, label FROM travel_sub_options ORDER BY mode_id, id`)
	if err != nil {
		return nil, r.wrap("sub-options", err)
	}
	defer rows.Close()

	var options []entity.TravelSubOption
	for rows.Next() {
		var o entity.TravelSubOption
		if err := rows.Scan(&o.ID, &o.ModeID, &o.Label); err != nil {
			return nil, r.wrap("sub-options", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// ListLocations returns all locations.
func (r *MasterRepository) ListLocations() ([]entity.Location, error) {
	rows, err := r.db.Query(`SELECT id, name, state FROM locations ORDER BY name`)
	if err != nil {
		return nil, r.wrap("locations", err)
	}
	defer rows.Close()

	var locations []entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.State); err != nil {
			return nil, r.wrap("locations", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// ListGLCodes returns all general-ledger codes.
func (r *MasterRepository) ListGLCodes() ([]entity.GLCode, error) {
	rows, err := r.db.Query(`SELECT id, code, description FROM gl_codes ORDER BY code`)
	if err != nil {
		return nil, r.wrap("GL codes", err)
	}
	defer rows.Close()

	var codes []entity.GLCode
	for rows.Next() {
		var c entity.GLCode
		if err := rows.Scan(&c.ID, &c.Code, &c.Description); err != nil {
			return nil, r.wrap("GL codes", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// ListGuestHouses returns all company guest houses.
func (r *MasterRepository) ListGuestHouses() ([]entity.GuestHouse, error) {
	rows, err := r.db.Query(`SELECT id, name, location_id FROM guest_houses ORDER BY name`)
	if err != nil {
		return nil, r.wrap("guest houses", err)
	}
	defer rows.Close()

	var houses []entity.GuestHouse
	for rows.Next() {
		var g entity.GuestHouse
		if err := rows.Scan(&g.ID, &g.Name, &g.LocationID); err != nil {
			return nil, r.wrap("guest houses", err)
		}
		houses = append(houses, g)
	}
	return houses, rows.Err()
}

// ListPanelHotels returns all empanelled hotels.
func (r *MasterRepository) ListPanelHotels() ([]entity.PanelHotel, error) {
	rows, err := r.db.Query(`SELECT id, name, city FROM panel_hotels ORDER BY name`)
	if err != nil {
		return nil, r.wrap("panel hotels", err)
	}
	defer rows.Close()

	var hotels []entity.PanelHotel
	for rows.Next() {
		var h entity.PanelHotel
		if err := rows.Scan(&h.ID, &h.Name, &h.City); err != nil {
			return nil, r.wrap("panel hotels", err)
		}
		hotels = append(hotels, h)
	}
	return hotels, rows.Err()
}

func (r *MasterRepository) wrap(what string, err error) error {
	r.logger.Error("Master data query failed", zap.String("entity", what), zap.Error(err))
	return fmt.Errorf("failed to load %s: %w", what, err)
}
