package draft

import (
	"github.com/shopspring/decimal"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

// ComputeAdvance derives a trip's travel advance from its booking lists.
// Fare fields are pure sums: flight tickets feed AirFare, all other tickets
// feed TrainFare, accommodation feeds LodgingFare, conveyance feeds
// ConveyanceFare. OtherExpenses and SpecialInstruction are the only
// caller-owned fields and are carried over from the current advance. Total
// is always the sum of the five amount fields.
func ComputeAdvance(trip *entity.Trip, modes ModeCatalog) entity.TravelAdvance {
	adv := EmptyAdvance()
	adv.OtherExpenses = trip.TravelAdvance.OtherExpenses
	adv.SpecialInstruction = trip.TravelAdvance.SpecialInstruction

	for _, b := range trip.Ticketing {
		if modes.Code(b.BookingType) == entity.ModeCodeFlight {
			adv.AirFare = adv.AirFare.Add(b.EstimatedCost)
		} else {
			adv.TrainFare = adv.TrainFare.Add(b.EstimatedCost)
		}
	}
	for _, b := range trip.Accommodation {
		adv.LodgingFare = adv.LodgingFare.Add(b.EstimatedCost)
	}
	for _, b := range trip.Conveyance {
		adv.ConveyanceFare = adv.ConveyanceFare.Add(b.EstimatedCost)
	}

	adv.Total = decimal.Sum(adv.AirFare, adv.TrainFare, adv.LodgingFare, adv.ConveyanceFare, adv.OtherExpenses)
	return adv
}

// RecomputeAdvances refreshes every trip's advance in place and returns the
// draft-level total. Called before any read or persistence of the draft so
// derived fields can never go stale relative to their inputs.
func RecomputeAdvances(d *entity.TravelApplicationDraft, modes ModeCatalog) decimal.Decimal {
	total := decimal.Zero
	for i := range d.Trips {
		d.Trips[i].TravelAdvance = ComputeAdvance(&d.Trips[i], modes)
		total = total.Add(d.Trips[i].TravelAdvance.Total)
	}
	d.AdvanceAmount = total
	return total
}
