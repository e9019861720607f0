package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TravelApplication is a travel request moving through the approval
// lifecycle. The editable content lives in Draft and is persisted as a JSON
// document; status and audit fields are indexed columns.
type TravelApplication struct {
	ID          int64                  `json:"id"`
	ApplicantID string                 `json:"applicant_id"`
	Department  string                 `json:"department"`
	Status      string                 `json:"status"`
	RequiresCEO bool                   `json:"requires_ceo_approval"`
	Draft       TravelApplicationDraft `json:"draft"`
	SubmittedAt *time.Time             `json:"submitted_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// TotalEstimatedCost sums every booking cost across all trips. The CEO
// routing guard compares this against the configured threshold.
func (a *TravelApplication) TotalEstimatedCost() decimal.Decimal {
	total := decimal.Zero
	for _, trip := range a.Draft.Trips {
		for _, b := range trip.Ticketing {
			total = total.Add(b.EstimatedCost)
		}
		for _, b := range trip.Accommodation {
			total = total.Add(b.EstimatedCost)
		}
		for _, b := range trip.Conveyance {
			total = total.Add(b.EstimatedCost)
		}
	}
	return total
}

// TravelApplicationDraft is the editable shape of one application: header
// fields plus the trip list. It is exclusively owned by the application
// service for the duration of an editing session.
type TravelApplicationDraft struct {
	Purpose         string          `json:"purpose"`
	InternalOrder   string          `json:"internal_order"`
	SanctionNumber  string          `json:"sanction_number"`
	GeneralLedgerID int64           `json:"general_ledger_id"`
	AdvanceAmount   decimal.Decimal `json:"advance_amount"`
	Trips           []Trip          `json:"trips"`
}

// Trip is one origin-to-destination segment with its category bookings and
// travel advance. ClientKey is a locally generated stable identity so edits
// and removals stay correct under reordering; the backend id, when present,
// lives on the enclosing application.
type Trip struct {
	ClientKey     string `json:"client_key"`
	TripMode      string `json:"trip_mode"`
	FromLocation  int64  `json:"from_location"`
	ToLocation    int64  `json:"to_location"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	TripPurpose   string `json:"trip_purpose"`
	GuestCount    int    `json:"guest_count"`

	Ticketing     []TicketingBooking     `json:"ticketing"`
	Accommodation []AccommodationBooking `json:"accommodation"`
	Conveyance    []ConveyanceBooking    `json:"conveyance"`
	TravelAdvance TravelAdvance          `json:"travel_advance"`
}

// TicketingBooking is one ticket reservation within a trip. Arrival fields
// are meaningful only when the parent trip is a round trip.
type TicketingBooking struct {
	ClientKey          string          `json:"client_key"`
	BookingType        int64           `json:"booking_type"`
	SubOption          int64           `json:"sub_option,omitempty"`
	FromLocation       int64           `json:"from_location"`
	ToLocation         int64           `json:"to_location"`
	DepartureDate      string          `json:"departure_date"`
	DepartureTime      string          `json:"departure_time"`
	ArrivalDate        string          `json:"arrival_date,omitempty"`
	ArrivalTime        string          `json:"arrival_time,omitempty"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`
	SpecialInstruction string          `json:"special_instruction"`
}

// AccommodationBooking is one lodging reservation. Exactly one of
// GuestHouseID and HotelName is populated, per AccommodationType.
type AccommodationBooking struct {
	ClientKey          string          `json:"client_key"`
	AccommodationType  string          `json:"accommodation_type"`
	GuestHouseID       int64           `json:"guest_house_id,omitempty"`
	HotelName          string          `json:"hotel_name,omitempty"`
	Place              string          `json:"place"`
	ArrivalDate        string          `json:"arrival_date"`
	ArrivalTime        string          `json:"arrival_time"`
	DepartureDate      string          `json:"departure_date"`
	DepartureTime      string          `json:"departure_time"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`
	SpecialInstruction string          `json:"special_instruction"`
}

// ConveyanceBooking is one local vehicle reservation. Pickup and drop points
// are free text rather than master-data locations.
type ConveyanceBooking struct {
	ClientKey          string          `json:"client_key"`
	BookingType        int64           `json:"booking_type"`
	SubOption          int64           `json:"sub_option,omitempty"`
	FromLocation       string          `json:"from_location"`
	ToLocation         string          `json:"to_location"`
	StartDate          string          `json:"start_date"`
	StartTime          string          `json:"start_time"`
	EndDate            string          `json:"end_date"`
	EndTime            string          `json:"end_time"`
	DropLocation       string          `json:"drop_location"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`
	SpecialInstruction string          `json:"special_instruction"`
}

// TravelAdvance is the pre-trip disbursement request. The fare fields and
// Total are derived from the booking lists and OtherExpenses; they are never
// edited independently, only recomputed.
type TravelAdvance struct {
	AirFare            decimal.Decimal `json:"air_fare"`
	TrainFare          decimal.Decimal `json:"train_fare"`
	LodgingFare        decimal.Decimal `json:"lodging_fare"`
	ConveyanceFare     decimal.Decimal `json:"conveyance_fare"`
	OtherExpenses      decimal.Decimal `json:"other_expenses"`
	Total              decimal.Decimal `json:"total"`
	SpecialInstruction string          `json:"special_instruction"`
}
