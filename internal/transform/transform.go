package transform

import (
	"fmt"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// Category tags written into booking_details on the wire.
const (
	CategoryTicketing     = entity.CategoryTicketing
	CategoryAccommodation = entity.CategoryAccommodation
	CategoryConveyance    = entity.CategoryConveyance
)

// ToBackend converts a draft into its wire shape, flattening the three
// typed booking lists of every trip into one tagged bookings array.
func ToBackend(d entity.TravelApplicationDraft) ApplicationPayload {
	payload := ApplicationPayload{
		Purpose:         d.Purpose,
		InternalOrder:   d.InternalOrder,
		SanctionNumber:  d.SanctionNumber,
		GeneralLedgerID: SanitizeID(d.GeneralLedgerID),
		AdvanceAmount:   d.AdvanceAmount,
		TripDetails:     make([]TripDetailPayload, 0, len(d.Trips)),
	}

	for _, trip := range d.Trips {
		detail := TripDetailPayload{
			ClientKey:     trip.ClientKey,
			TripMode:      trip.TripMode,
			FromLocation:  SanitizeID(trip.FromLocation),
			ToLocation:    SanitizeID(trip.ToLocation),
			DepartureDate: trip.DepartureDate,
			ReturnDate:    trip.ReturnDate,
			TripPurpose:   trip.TripPurpose,
			GuestCount:    trip.GuestCount,
			TravelAdvance: AdvancePayload{
				AirFare:            trip.TravelAdvance.AirFare,
				TrainFare:          trip.TravelAdvance.TrainFare,
				LodgingFare:        trip.TravelAdvance.LodgingFare,
				ConveyanceFare:     trip.TravelAdvance.ConveyanceFare,
				OtherExpenses:      trip.TravelAdvance.OtherExpenses,
				Total:              trip.TravelAdvance.Total,
				SpecialInstruction: trip.TravelAdvance.SpecialInstruction,
			},
			Bookings: make([]BookingPayload, 0,
				len(trip.Ticketing)+len(trip.Accommodation)+len(trip.Conveyance)),
		}

		for _, b := range trip.Ticketing {
			detail.Bookings = append(detail.Bookings, BookingPayload{
				BookingType:        SanitizeID(b.BookingType),
				SubOption:          SanitizeID(b.SubOption),
				EstimatedCost:      b.EstimatedCost,
				SpecialInstruction: b.SpecialInstruction,
				BookingDetails: BookingDetails{
					Category: CategoryTicketing,
					Ticketing: &TicketingDetails{
						ClientKey:     b.ClientKey,
						FromLocation:  SanitizeID(b.FromLocation),
						ToLocation:    SanitizeID(b.ToLocation),
						DepartureDate: b.DepartureDate,
						DepartureTime: b.DepartureTime,
						ArrivalDate:   b.ArrivalDate,
						ArrivalTime:   b.ArrivalTime,
					},
				},
			})
		}

		for _, b := range trip.Accommodation {
			detail.Bookings = append(detail.Bookings, BookingPayload{
				EstimatedCost:      b.EstimatedCost,
				SpecialInstruction: b.SpecialInstruction,
				BookingDetails: BookingDetails{
					Category: CategoryAccommodation,
					Accommodation: &AccommodationDetails{
						ClientKey:         b.ClientKey,
						AccommodationType: b.AccommodationType,
						GuestHouseID:      SanitizeID(b.GuestHouseID),
						HotelName:         b.HotelName,
						Place:             b.Place,
						ArrivalDate:       b.ArrivalDate,
						ArrivalTime:       b.ArrivalTime,
						DepartureDate:     b.DepartureDate,
						DepartureTime:     b.DepartureTime,
					},
				},
			})
		}

		for _, b := range trip.Conveyance {
			detail.Bookings = append(detail.Bookings, BookingPayload{
				BookingType:        SanitizeID(b.BookingType),
				SubOption:          SanitizeID(b.SubOption),
				EstimatedCost:      b.EstimatedCost,
				SpecialInstruction: b.SpecialInstruction,
				BookingDetails: BookingDetails{
					Category: CategoryConveyance,
					Conveyance: &ConveyanceDetails{
						ClientKey:    b.ClientKey,
						FromLocation: b.FromLocation,
						ToLocation:   b.ToLocation,
						StartDate:    b.StartDate,
						StartTime:    b.StartTime,
						EndDate:      b.EndDate,
						EndTime:      b.EndTime,
						DropLocation: b.DropLocation,
					},
				},
			})
		}

		payload.TripDetails = append(payload.TripDetails, detail)
	}

	return payload
}

// FromBackend is the inverse of ToBackend: it filters every trip's bookings
// array by category tag and rebuilds the three typed lists. A booking whose
// tag matches no category is an error rather than a silent drop.
func FromBackend(p ApplicationPayload) (entity.TravelApplicationDraft, error) {
	d := entity.TravelApplicationDraft{
		Purpose:         p.Purpose,
		InternalOrder:   p.InternalOrder,
		SanctionNumber:  p.SanctionNumber,
		GeneralLedgerID: idValue(p.GeneralLedgerID),
		AdvanceAmount:   p.AdvanceAmount,
		Trips:           make([]entity.Trip, 0, len(p.TripDetails)),
	}

	for ti, detail := range p.TripDetails {
		trip := entity.Trip{
			ClientKey:     detail.ClientKey,
			TripMode:      detail.TripMode,
			FromLocation:  idValue(detail.FromLocation),
			ToLocation:    idValue(detail.ToLocation),
			DepartureDate: detail.DepartureDate,
			ReturnDate:    detail.ReturnDate,
			TripPurpose:   detail.TripPurpose,
			GuestCount:    detail.GuestCount,
			Ticketing:     []entity.TicketingBooking{},
			Accommodation: []entity.AccommodationBooking{},
			Conveyance:    []entity.ConveyanceBooking{},
			TravelAdvance: entity.TravelAdvance{
				AirFare:            detail.TravelAdvance.AirFare,
				TrainFare:          detail.TravelAdvance.TrainFare,
				LodgingFare:        detail.TravelAdvance.LodgingFare,
				ConveyanceFare:     detail.TravelAdvance.ConveyanceFare,
				OtherExpenses:      detail.TravelAdvance.OtherExpenses,
				Total:              detail.TravelAdvance.Total,
				SpecialInstruction: detail.TravelAdvance.SpecialInstruction,
			},
		}

		for bi, b := range detail.Bookings {
			switch b.BookingDetails.Category {
			case CategoryTicketing:
				bd := b.BookingDetails.Ticketing
				if bd == nil {
					return d, fmt.Errorf("trip %d booking %d: ticketing details missing", ti, bi)
				}
				trip.Ticketing = append(trip.Ticketing, entity.TicketingBooking{
					ClientKey:          bd.ClientKey,
					BookingType:        idValue(b.BookingType),
					SubOption:          idValue(b.SubOption),
					FromLocation:       idValue(bd.FromLocation),
					ToLocation:         idValue(bd.ToLocation),
					DepartureDate:      bd.DepartureDate,
					DepartureTime:      bd.DepartureTime,
					ArrivalDate:        bd.ArrivalDate,
					ArrivalTime:        bd.ArrivalTime,
					EstimatedCost:      b.EstimatedCost,
					SpecialInstruction: b.SpecialInstruction,
				})
			case CategoryAccommodation:
				bd := b.BookingDetails.Accommodation
				if bd == nil {
					return d, fmt.Errorf("trip %d booking %d: accommodation details missing", ti, bi)
				}
				trip.Accommodation = append(trip.Accommodation, entity.AccommodationBooking{
					ClientKey:          bd.ClientKey,
					AccommodationType:  bd.AccommodationType,
					GuestHouseID:       idValue(bd.GuestHouseID),
					HotelName:          bd.HotelName,
					Place:              bd.Place,
					ArrivalDate:        bd.ArrivalDate,
					ArrivalTime:        bd.ArrivalTime,
					DepartureDate:      bd.DepartureDate,
					DepartureTime:      bd.DepartureTime,
					EstimatedCost:      b.EstimatedCost,
					SpecialInstruction: b.SpecialInstruction,
				})
			case CategoryConveyance:
				bd := b.BookingDetails.Conveyance
				if bd == nil {
					return d, fmt.Errorf("trip %d booking %d: conveyance details missing", ti, bi)
				}
				trip.Conveyance = append(trip.Conveyance, entity.ConveyanceBooking{
					ClientKey:          bd.ClientKey,
					BookingType:        idValue(b.BookingType),
					SubOption:          idValue(b.SubOption),
					FromLocation:       bd.FromLocation,
					ToLocation:         bd.ToLocation,
					StartDate:          bd.StartDate,
					StartTime:          bd.StartTime,
					EndDate:            bd.EndDate,
					EndTime:            bd.EndTime,
					DropLocation:       bd.DropLocation,
					EstimatedCost:      b.EstimatedCost,
					SpecialInstruction: b.SpecialInstruction,
				})
			default:
				return d, fmt.Errorf("trip %d booking %d: unknown category %q", ti, bi, b.BookingDetails.Category)
			}
		}

		d.Trips = append(d.Trips, trip)
	}

	return d, nil
}
