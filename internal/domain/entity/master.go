package entity

// TravelMode is a ticketing or conveyance mode (flight, train, bus, car).
// Code is the stable identifier business rules key on; ID is the row id the
// draft references.
type TravelMode struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

// TravelSubOption is a dependent choice under a mode, such as a ticket
// class or a vehicle category.
type TravelSubOption struct {
	ID     int64  `json:"id"`
	ModeID int64  `json:"mode_id"`
	Label  string `json:"label"`
}

// Location is a master-data city or site selectable as a trip endpoint.
type Location struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	State string `json:"state,omitempty"`
}

// GLCode is a general-ledger accounting code charged for travel costs.
type GLCode struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GuestHouse is a company-operated stay option for accommodation bookings
// of type company.
type GuestHouse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	LocationID int64  `json:"location_id"`
}

// PanelHotel is an empanelled hotel offered alongside self-arranged stays.
type PanelHotel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}
