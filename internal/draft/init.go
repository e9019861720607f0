// Package draft holds the in-memory editing model for a travel
// application: empty-record constructors, category editors mutating one
// trip's booking lists, and the pure advance derivation.
package draft

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// NewDraft returns an empty application draft ready for editing.
func NewDraft() entity.TravelApplicationDraft {
	return entity.TravelApplicationDraft{
		AdvanceAmount: decimal.Zero,
		Trips:         []entity.Trip{},
	}
}

// EmptyTrip returns a fully populated blank trip. Every field an editor
// reads has a concrete zero value; booking slices are empty, never nil.
func EmptyTrip() entity.Trip {
	return entity.Trip{
		ClientKey:     uuid.NewString(),
		TripMode:      entity.TripModeOneWay,
		Ticketing:     []entity.TicketingBooking{},
		Accommodation: []entity.AccommodationBooking{},
		Conveyance:    []entity.ConveyanceBooking{},
		TravelAdvance: EmptyAdvance(),
	}
}

// EmptyTicketing returns a blank ticketing row with a fresh client key.
func EmptyTicketing() entity.TicketingBooking {
	return entity.TicketingBooking{
		ClientKey:     uuid.NewString(),
		EstimatedCost: decimal.Zero,
	}
}

// EmptyAccommodation returns a blank accommodation row defaulting to a
// company guest house stay.
func EmptyAccommodation() entity.AccommodationBooking {
	return entity.AccommodationBooking{
		ClientKey:         uuid.NewString(),
		AccommodationType: entity.AccommodationCompany,
		EstimatedCost:     decimal.Zero,
	}
}

// EmptyConveyance returns a blank conveyance row with a fresh client key.
func EmptyConveyance() entity.ConveyanceBooking {
	return entity.ConveyanceBooking{
		ClientKey:     uuid.NewString(),
		EstimatedCost: decimal.Zero,
	}
}

// EmptyAdvance returns a zeroed travel advance.
func EmptyAdvance() entity.TravelAdvance {
	return entity.TravelAdvance{
		AirFare:        decimal.Zero,
		TrainFare:      decimal.Zero,
		LodgingFare:    decimal.Zero,
		ConveyanceFare: decimal.Zero,
		OtherExpenses:  decimal.Zero,
		Total:          decimal.Zero,
	}
}
