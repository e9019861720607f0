// Package transform maps between the editing draft shape and the wire
// shape, where all three booking categories travel as one polymorphic
// bookings array tagged by booking_details.category.
package transform

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// ApplicationPayload is the wire body for create, update and fetch.
type ApplicationPayload struct {
	Purpose         string              `json:"purpose"`
	InternalOrder   string              `json:"internal_order"`
	SanctionNumber  string              `json:"sanction_number"`
	GeneralLedgerID *int64              `json:"general_ledger"`
	AdvanceAmount   decimal.Decimal     `json:"advance_amount"`
	TripDetails     []TripDetailPayload `json:"trip_details"`
}

// TripDetailPayload is one trip on the wire.
type TripDetailPayload struct {
	ClientKey     string           `json:"client_key"`
	TripMode      string           `json:"trip_mode"`
	FromLocation  *int64           `json:"from_location"`
	ToLocation    *int64           `json:"to_location"`
	DepartureDate string           `json:"departure_date"`
	ReturnDate    string           `json:"return_date,omitempty"`
	TripPurpose   string           `json:"trip_purpose"`
	GuestCount    int              `json:"guest_count"`
	TravelAdvance AdvancePayload   `json:"travel_advance"`
	Bookings      []BookingPayload `json:"bookings"`
}

// AdvancePayload carries the trip advance on the wire.
type AdvancePayload struct {
	AirFare            decimal.Decimal `json:"air_fare"`
	TrainFare          decimal.Decimal `json:"train_fare"`
	LodgingFare        decimal.Decimal `json:"lodging_fare"`
	ConveyanceFare     decimal.Decimal `json:"conveyance_fare"`
	OtherExpenses      decimal.Decimal `json:"other_expenses"`
	Total              decimal.Decimal `json:"total"`
	SpecialInstruction string          `json:"special_instruction"`
}

// BookingPayload is one entry of the unified bookings array.
type BookingPayload struct {
	BookingType        *int64          `json:"booking_type"`
	SubOption          *int64          `json:"sub_option,omitempty"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`
	SpecialInstruction string          `json:"special_instruction"`
	BookingDetails     BookingDetails  `json:"booking_details"`
}

// BookingDetails is a tagged union over the three booking categories. The
// Category tag selects exactly one of the detail pointers; marshalling
// flattens the selected details next to the tag.
type BookingDetails struct {
	Category      string
	Ticketing     *TicketingDetails
	Accommodation *AccommodationDetails
	Conveyance    *ConveyanceDetails
}

// TicketingDetails is the category-specific part of a ticketing booking.
type TicketingDetails struct {
	ClientKey     string `json:"client_key"`
	FromLocation  *int64 `json:"from_location"`
	ToLocation    *int64 `json:"to_location"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalDate   string `json:"arrival_date,omitempty"`
	ArrivalTime   string `json:"arrival_time,omitempty"`
}

// AccommodationDetails is the category-specific part of an accommodation
// booking.
type AccommodationDetails struct {
	ClientKey         string `json:"client_key"`
	AccommodationType string `json:"accommodation_type"`
	GuestHouseID      *int64 `json:"guest_house_id,omitempty"`
	HotelName         string `json:"hotel_name,omitempty"`
	Place             string `json:"place"`
	ArrivalDate       string `json:"arrival_date"`
	ArrivalTime       string `json:"arrival_time"`
	DepartureDate     string `json:"departure_date"`
	DepartureTime     string `json:"departure_time"`
}

// ConveyanceDetails is the category-specific part of a conveyance booking.
type ConveyanceDetails struct {
	ClientKey    string `json:"client_key"`
	FromLocation string `json:"from_location"`
	ToLocation   string `json:"to_location"`
	StartDate    string `json:"start_date"`
	StartTime    string `json:"start_time"`
	EndDate      string `json:"end_date"`
	EndTime      string `json:"end_time"`
	DropLocation string `json:"drop_location"`
}

type taggedTicketing struct {
	Category string `json:"category"`
	TicketingDetails
}

type taggedAccommodation struct {
	Category string `json:"category"`
	AccommodationDetails
}

type taggedConveyance struct {
	Category string `json:"category"`
	ConveyanceDetails
}

// MarshalJSON writes the selected details flattened beside the category tag.
func (d BookingDetails) MarshalJSON() ([]byte, error) {
	switch d.Category {
	case CategoryTicketing:
		if d.Ticketing == nil {
			return nil, fmt.Errorf("booking_details: ticketing details missing")
		}
		return json.Marshal(taggedTicketing{Category: d.Category, TicketingDetails: *d.Ticketing})
	case CategoryAccommodation:
		if d.Accommodation == nil {
			return nil, fmt.Errorf("booking_details: accommodation details missing")
		}
		return json.Marshal(taggedAccommodation{Category: d.Category, AccommodationDetails: *d.Accommodation})
	case CategoryConveyance:
		if d.Conveyance == nil {
			return nil, fmt.Errorf("booking_details: conveyance details missing")
		}
		return json.Marshal(taggedConveyance{Category: d.Category, ConveyanceDetails: *d.Conveyance})
	default:
		return nil, fmt.Errorf("booking_details: unknown category %q", d.Category)
	}
}

// UnmarshalJSON reads the category tag first, then decodes the matching
// detail shape.
func (d *BookingDetails) UnmarshalJSON(data []byte) error {
	var tag struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}

	switch tag.Category {
	case CategoryTicketing:
		var details TicketingDetails
		if err := json.Unmarshal(data, &details); err != nil {
			return err
		}
		*d = BookingDetails{Category: tag.Category, Ticketing: &details}
	case CategoryAccommodation:
		var details AccommodationDetails
		if err := json.Unmarshal(data, &details); err != nil {
			return err
		}
		*d = BookingDetails{Category: tag.Category, Accommodation: &details}
	case CategoryConveyance:
		var details ConveyanceDetails
		if err := json.Unmarshal(data, &details); err != nil {
			return err
		}
		*d = BookingDetails{Category: tag.Category, Conveyance: &details}
	default:
		return fmt.Errorf("booking_details: unknown category %q", tag.Category)
	}
	return nil
}
