package draft

import "github.com/hrops/traveldesk/internal/domain/entity"

// ModeCatalog indexes travel modes by row id for code lookups.
type ModeCatalog map[int64]entity.TravelMode

// BuildModeCatalog builds a catalog from master-data rows.
func BuildModeCatalog(modes []entity.TravelMode) ModeCatalog {
	c := make(ModeCatalog, len(modes))
	for _, m := range modes {
		c[m.ID] = m
	}
	return c
}

// Code returns the mode code for id, or "" when the id is unknown.
func (c ModeCatalog) Code(id int64) string {
	return c[id].Code
}

// SubOptionCatalog maps a mode id to its dependent sub-options. A missing
// entry is a valid "no sub-option available" state, not an error.
type SubOptionCatalog map[int64][]entity.TravelSubOption

// BuildSubOptionCatalog builds a catalog from master-data rows.
func BuildSubOptionCatalog(options []entity.TravelSubOption) SubOptionCatalog {
	c := make(SubOptionCatalog)
	for _, o := range options {
		c[o.ModeID] = append(c[o.ModeID], o)
	}
	return c
}

// Contains reports whether subOptionID is a valid choice under modeID.
func (c SubOptionCatalog) Contains(modeID, subOptionID int64) bool {
	for _, o := range c[modeID] {
		if o.ID == subOptionID {
			return true
		}
	}
	return false
}
