package draft

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

var (
	// ErrIndexOutOfRange is returned for an index outside the current
	// booking list.
	ErrIndexOutOfRange = errors.New("booking index out of range")

	// ErrUnknownField is returned when SetField names a field the
	// category does not have.
	ErrUnknownField = errors.New("unknown booking field")
)

// coerceCost parses a cost field value. An empty string is zero, matching a
// cleared input.
func coerceCost(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid cost value %q: %w", value, err)
	}
	return d, nil
}

// coerceID parses an id field value. An empty string is the unset id.
func coerceID(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id value %q: %w", value, err)
	}
	return id, nil
}

// TicketingEditor mutates one trip's ticketing list. Editors never touch
// the network; they only reshape the trip they are bound to.
type TicketingEditor struct {
	trip *entity.Trip
}

// NewTicketingEditor binds an editor to a trip.
func NewTicketingEditor(trip *entity.Trip) *TicketingEditor {
	return &TicketingEditor{trip: trip}
}

// Add appends a blank row and returns a pointer to it.
func (e *TicketingEditor) Add() *entity.TicketingBooking {
	e.trip.Ticketing = append(e.trip.Ticketing, EmptyTicketing())
	return &e.trip.Ticketing[len(e.trip.Ticketing)-1]
}

// SetField replaces one field of one row, coercing string input to the
// field's type. Cost and id fields accept an empty string as cleared.
func (e *TicketingEditor) SetField(index int, field, value string) error {
	if index < 0 || index >= len(e.trip.Ticketing) {
		return fmt.Errorf("%w: ticketing[%d]", ErrIndexOutOfRange, index)
	}
	b := &e.trip.Ticketing[index]
	switch field {
	case "booking_type":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.BookingType = id
	case "sub_option":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.SubOption = id
	case "from_location":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.FromLocation = id
	case "to_location":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.ToLocation = id
	case "departure_date":
		b.DepartureDate = value
	case "departure_time":
		b.DepartureTime = value
	case "arrival_date":
		b.ArrivalDate = value
	case "arrival_time":
		b.ArrivalTime = value
	case "estimated_cost":
		cost, err := coerceCost(value)
		if err != nil {
			return err
		}
		b.EstimatedCost = cost
	case "special_instruction":
		b.SpecialInstruction = value
	default:
		return fmt.Errorf("%w: ticketing.%s", ErrUnknownField, field)
	}
	return nil
}

// Remove deletes the row at index and re-indexes the remainder.
func (e *TicketingEditor) Remove(index int) error {
	if index < 0 || index >= len(e.trip.Ticketing) {
		return fmt.Errorf("%w: ticketing[%d]", ErrIndexOutOfRange, index)
	}
	e.trip.Ticketing = append(e.trip.Ticketing[:index], e.trip.Ticketing[index+1:]...)
	return nil
}

// RemoveByKey deletes the row with the given client key, if present.
func (e *TicketingEditor) RemoveByKey(key string) bool {
	for i, b := range e.trip.Ticketing {
		if b.ClientKey == key {
			_ = e.Remove(i)
			return true
		}
	}
	return false
}

// SetMode changes the row's travel mode and clears a previously selected
// sub-option that is no longer valid under the new mode.
func (e *TicketingEditor) SetMode(index int, modeID int64, subOptions SubOptionCatalog) error {
	if index < 0 || index >= len(e.trip.Ticketing) {
		return fmt.Errorf("%w: ticketing[%d]", ErrIndexOutOfRange, index)
	}
	b := &e.trip.Ticketing[index]
	b.BookingType = modeID
	if b.SubOption != 0 && !subOptions.Contains(modeID, b.SubOption) {
		b.SubOption = 0
	}
	return nil
}

// AccommodationEditor mutates one trip's accommodation list.
type AccommodationEditor struct {
	trip *entity.Trip
}

// NewAccommodationEditor binds an editor to a trip.
func NewAccommodationEditor(trip *entity.Trip) *AccommodationEditor {
	return &AccommodationEditor{trip: trip}
}

// Add appends a blank row and returns a pointer to it.
func (e *AccommodationEditor) Add() *entity.AccommodationBooking {
	e.trip.Accommodation = append(e.trip.Accommodation, EmptyAccommodation())
	return &e.trip.Accommodation[len(e.trip.Accommodation)-1]
}

// SetField replaces one field of one row. Switching accommodation_type
// clears the counterpart stay field so only one of guest house and hotel is
// ever populated.
func (e *AccommodationEditor) SetField(index int, field, value string) error {
	if index < 0 || index >= len(e.trip.Accommodation) {
		return fmt.Errorf("%w: accommodation[%d]", ErrIndexOutOfRange, index)
	}
	b := &e.trip.Accommodation[index]
	switch field {
	case "accommodation_type":
		b.AccommodationType = value
		switch value {
		case entity.AccommodationCompany:
			b.HotelName = ""
		case entity.AccommodationSelf:
			b.GuestHouseID = 0
		}
	case "guest_house_id":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.GuestHouseID = id
	case "hotel_name":
		b.HotelName = value
	case "place":
		b.Place = value
	case "arrival_date":
		b.ArrivalDate = value
	case "arrival_time":
		b.ArrivalTime = value
	case "departure_date":
		b.DepartureDate = value
	case "departure_time":
		b.DepartureTime = value
	case "estimated_cost":
		cost, err := coerceCost(value)
		if err != nil {
			return err
		}
		b.EstimatedCost = cost
	case "special_instruction":
		b.SpecialInstruction = value
	default:
		return fmt.Errorf("%w: accommodation.%s", ErrUnknownField, field)
	}
	return nil
}

// Remove deletes the row at index and re-indexes the remainder.
func (e *AccommodationEditor) Remove(index int) error {
	if index < 0 || index >= len(e.trip.Accommodation) {
		return fmt.Errorf("%w: accommodation[%d]", ErrIndexOutOfRange, index)
	}
	e.trip.Accommodation = append(e.trip.Accommodation[:index], e.trip.Accommodation[index+1:]...)
	return nil
}

// RemoveByKey deletes the row with the given client key, if present.
func (e *AccommodationEditor) RemoveByKey(key string) bool {
	for i, b := range e.trip.Accommodation {
		if b.ClientKey == key {
			_ = e.Remove(i)
			return true
		}
	}
	return false
}

// ConveyanceEditor mutates one trip's conveyance list.
type ConveyanceEditor struct {
	trip *entity.Trip
}

// NewConveyanceEditor binds an editor to a trip.
func NewConveyanceEditor(trip *entity.Trip) *ConveyanceEditor {
	return &ConveyanceEditor{trip: trip}
}

// Add appends a blank row and returns a pointer to it.
func (e *ConveyanceEditor) Add() *entity.ConveyanceBooking {
	e.trip.Conveyance = append(e.trip.Conveyance, EmptyConveyance())
	return &e.trip.Conveyance[len(e.trip.Conveyance)-1]
}

// SetField replaces one field of one row.
func (e *ConveyanceEditor) SetField(index int, field, value string) error {
	if index < 0 || index >= len(e.trip.Conveyance) {
		return fmt.Errorf("%w: conveyance[%d]", ErrIndexOutOfRange, index)
	}
	b := &e.trip.Conveyance[index]
	switch field {
	case "booking_type":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.BookingType = id
	case "sub_option":
		id, err := coerceID(value)
		if err != nil {
			return err
		}
		b.SubOption = id
	case "from_location":
		b.FromLocation = value
	case "to_location":
		b.ToLocation = value
	case "start_date":
		b.StartDate = value
	case "start_time":
		b.StartTime = value
	case "end_date":
		b.EndDate = value
	case "end_time":
		b.EndTime = value
	case "drop_location":
		b.DropLocation = value
	case "estimated_cost":
		cost, err := coerceCost(value)
		if err != nil {
			return err
		}
		b.EstimatedCost = cost
	case "special_instruction":
		b.SpecialInstruction = value
	default:
		return fmt.Errorf("%w: conveyance.%s", ErrUnknownField, field)
	}
	return nil
}

// Remove deletes the row at index and re-indexes the remainder.
func (e *ConveyanceEditor) Remove(index int) error {
	if index < 0 || index >= len(e.trip.Conveyance) {
		return fmt.Errorf("%w: conveyance[%d]", ErrIndexOutOfRange, index)
	}
	e.trip.Conveyance = append(e.trip.Conveyance[:index], e.trip.Conveyance[index+1:]...)
	return nil
}

// RemoveByKey deletes the row with the given client key, if present.
func (e *ConveyanceEditor) RemoveByKey(key string) bool {
	for i, b := range e.trip.Conveyance {
		if b.ClientKey == key {
			_ = e.Remove(i)
			return true
		}
	}
	return false
}

// SetMode changes the row's vehicle mode and clears an invalid sub-option.
func (e *ConveyanceEditor) SetMode(index int, modeID int64, subOptions SubOptionCatalog) error {
	if index < 0 || index >= len(e.trip.Conveyance) {
		return fmt.Errorf("%w: conveyance[%d]", ErrIndexOutOfRange, index)
	}
	b := &e.trip.Conveyance[index]
	b.BookingType = modeID
	if b.SubOption != 0 && !subOptions.Contains(modeID, b.SubOption) {
		b.SubOption = 0
	}
	return nil
}
