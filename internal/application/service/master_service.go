package service

import (
	"github.com/hrops/traveldesk/internal/application/port"
	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/draft"
)

// MasterDataService exposes the read-only reference tables the draft
// editors and dropdowns are populated from.
type MasterDataService interface {
	Modes() ([]entity.TravelMode, error)
	SubOptions() ([]entity.TravelSubOption, error)
	SubOptionsByMode(modeID int64) ([]entity.TravelSubOption, error)
	Locations() ([]entity.Location, error)
	GLCodes() ([]entity.GLCode, error)
	GuestHouses() ([]entity.GuestHouse, error)
	PanelHotels() ([]entity.PanelHotel, error)
}

type masterDataServiceImpl struct {
	repo   port.MasterRepository
	logger Logger
}

// NewMasterDataService creates a new MasterDataService.
func NewMasterDataService(repo port.MasterRepository, logger Logger) MasterDataService {
	return &masterDataServiceImpl{repo: repo, logger: logger}
}

func (s *masterDataServiceImpl) Modes() ([]entity.TravelMode, error) {
	return s.repo.ListModes()
}

func (s *masterDataServiceImpl) SubOptions() ([]entity.TravelSubOption, error) {
	return s.repo.ListSubOptions()
}

// SubOptionsByMode returns only the sub-options belonging to one mode, the
// shape a mode dropdown's dependent list needs.
func (s *masterDataServiceImpl) SubOptionsByMode(modeID int64) ([]entity.TravelSubOption, error) {
	options, err := s.repo.ListSubOptions()
	if err != nil {
		return nil, err
	}
	catalog := draft.BuildSubOptionCatalog(options)
	return catalog[modeID], nil
}

func (s *masterDataServiceImpl) Locations() ([]entity.Location, error) {
	return s.repo.ListLocations()
}

func (s *masterDataServiceImpl) GLCodes() ([]entity.GLCode, error) {
	return s.repo.ListGLCodes()
}

func (s *masterDataServiceImpl) GuestHouses() ([]entity.GuestHouse, error) {
	return s.repo.ListGuestHouses()
}

func (s *masterDataServiceImpl) PanelHotels() ([]entity.PanelHotel, error) {
	return s.repo.ListPanelHotels()
}
