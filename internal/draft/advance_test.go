package draft

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrops/traveldesk/internal/domain/entity"
)

var testModes = BuildModeCatalog([]entity.TravelMode{
	{ID: 1, Code: entity.ModeCodeFlight, Label: "Flight", Category: entity.CategoryTicketing},
	{ID: 2, Code: entity.ModeCodeTrain, Label: "Train", Category: entity.CategoryTicketing},
	{ID: 3, Code: entity.ModeCodeCar, Label: "Car", Category: entity.CategoryConveyance},
})

func TestComputeAdvance(t *testing.T) {
	trip := EmptyTrip()
	trip.Ticketing = []entity.TicketingBooking{
		{ClientKey: "t1", BookingType: 1, EstimatedCost: decimal.NewFromInt(5000)},
		{ClientKey: "t2", BookingType: 2, EstimatedCost: decimal.NewFromInt(3000)},
	}
	trip.Accommodation = []entity.AccommodationBooking{
		{ClientKey: "a1", EstimatedCost: decimal.NewFromInt(2000)},
	}
	trip.Conveyance = []entity.ConveyanceBooking{
		{ClientKey: "c1", BookingType: 3, EstimatedCost: decimal.NewFromInt(500)},
	}
	trip.TravelAdvance.OtherExpenses = decimal.NewFromInt(300)
	trip.TravelAdvance.SpecialInstruction = "advance to bank account"

	adv := ComputeAdvance(&trip, testModes)

	assert.True(t, adv.AirFare.Equal(decimal.NewFromInt(5000)), "air fare = %s", adv.AirFare)
	assert.True(t, adv.TrainFare.Equal(decimal.NewFromInt(3000)), "train fare = %s", adv.TrainFare)
	assert.True(t, adv.LodgingFare.Equal(decimal.NewFromInt(2000)), "lodging fare = %s", adv.LodgingFare)
	assert.True(t, adv.ConveyanceFare.Equal(decimal.NewFromInt(500)), "conveyance fare = %s", adv.ConveyanceFare)
	assert.True(t, adv.Total.Equal(decimal.NewFromInt(10800)), "total = %s", adv.Total)
	assert.Equal(t, "advance to bank account", adv.SpecialInstruction)
}

func TestComputeAdvance_TracksBookingChanges(t *testing.T) {
	trip := EmptyTrip()
	ed := NewTicketingEditor(&trip)
	ed.Add()
	require.NoError(t, ed.SetField(0, "booking_type", "1"))
	require.NoError(t, ed.SetField(0, "estimated_cost", "5000"))

	adv := ComputeAdvance(&trip, testModes)
	require.True(t, adv.Total.Equal(decimal.NewFromInt(5000)))

	// Removing the booking drops the derived total straight back to zero;
	// there is no stored state to go stale.
	require.NoError(t, ed.Remove(0))
	adv = ComputeAdvance(&trip, testModes)
	assert.True(t, adv.Total.IsZero())
}

func TestRecomputeAdvances(t *testing.T) {
	d := NewDraft()

	one := EmptyTrip()
	one.Ticketing = []entity.TicketingBooking{
		{ClientKey: "t1", BookingType: 1, EstimatedCost: decimal.NewFromInt(4000)},
	}
	two := EmptyTrip()
	two.Accommodation = []entity.AccommodationBooking{
		{ClientKey: "a1", EstimatedCost: decimal.NewFromInt(1500)},
	}
	two.TravelAdvance.OtherExpenses = decimal.NewFromInt(250)
	d.Trips = []entity.Trip{one, two}

	total := RecomputeAdvances(&d, testModes)

	assert.True(t, total.Equal(decimal.NewFromInt(5750)), "total = %s", total)
	assert.True(t, d.AdvanceAmount.Equal(total))
	assert.True(t, d.Trips[0].TravelAdvance.AirFare.Equal(decimal.NewFromInt(4000)))
	assert.True(t, d.Trips[1].TravelAdvance.LodgingFare.Equal(decimal.NewFromInt(1500)))
	assert.True(t, d.Trips[1].TravelAdvance.Total.Equal(decimal.NewFromInt(1750)))
}
