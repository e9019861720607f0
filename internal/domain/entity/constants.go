package entity

// Application status values persisted alongside the draft document.
const (
	StatusDraft           = "DRAFT"
	StatusSubmitted       = "SUBMITTED"
	StatusManagerApproved = "MANAGER_APPROVED"
	StatusCHROApproved    = "CHRO_APPROVED"
	StatusCEOApproved     = "CEO_APPROVED"
	StatusTravelDesk      = "TRAVEL_DESK"
	StatusClosed          = "CLOSED"
	StatusRejected        = "REJECTED"
	StatusCancelled       = "CANCELLED"
)

// Trip modes.
const (
	TripModeOneWay    = "one-way"
	TripModeRoundTrip = "round-trip"
)

// Accommodation types.
const (
	AccommodationCompany = "company"
	AccommodationSelf    = "self"
)

// Booking categories, used as the discriminant tag on the wire.
const (
	CategoryTicketing     = "ticketing"
	CategoryAccommodation = "accommodation"
	CategoryConveyance    = "conveyance"
)

// Travel mode codes from master data. The validator and advance derivation
// branch on these, never on raw mode ids.
const (
	ModeCodeFlight = "FLIGHT"
	ModeCodeTrain  = "TRAIN"
	ModeCodeBus    = "BUS"
	ModeCodeCar    = "CAR"
)

// Approver roles acting on an application.
const (
	RoleEmployee   = "employee"
	RoleManager    = "manager"
	RoleCHRO       = "chro"
	RoleCEO        = "ceo"
	RoleTravelDesk = "travel_desk"
)

// Approval actions recorded in the history trail.
const (
	ActionSubmit   = "SUBMIT"
	ActionApprove  = "APPROVE"
	ActionReject   = "REJECT"
	ActionCancel   = "CANCEL"
	ActionProcess  = "PROCESS"
	ActionClose    = "CLOSE"
	ActionReminder = "REMINDER"
)

// DateLayout and TimeLayout are the formats for all date and time fields in
// the draft. Draft fields stay strings so a blank row is representable;
// parsing happens in the validator and in advance derivation.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)
