package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/draft"
)

var (
	testNow   = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	testModes = draft.BuildModeCatalog([]entity.TravelMode{
		{ID: 1, Code: entity.ModeCodeFlight, Label: "Flight"},
		{ID: 2, Code: entity.ModeCodeTrain, Label: "Train"},
		{ID: 3, Code: entity.ModeCodeCar, Label: "Car"},
	})
)

// validDraft builds a complete draft that passes every rule: one round trip
// Mumbai to Delhi with a flight booked well ahead.
func validDraft() entity.TravelApplicationDraft {
	return entity.TravelApplicationDraft{
		Purpose:         "Vendor audit",
		InternalOrder:   "IO-1001",
		SanctionNumber:  "SN-2002",
		GeneralLedgerID: 4,
		Trips: []entity.Trip{
			{
				ClientKey:     "trip-1",
				TripMode:      entity.TripModeRoundTrip,
				FromLocation:  1,
				ToLocation:    2,
				DepartureDate: "2026-09-20",
				ReturnDate:    "2026-09-23",
				TripPurpose:   "plant visit",
				GuestCount:    1,
				Ticketing: []entity.TicketingBooking{
					{
						ClientKey:     "tk-1",
						BookingType:   1,
						FromLocation:  1,
						ToLocation:    2,
						DepartureDate: "2026-09-20",
						DepartureTime: "08:30",
						ArrivalDate:   "2026-09-23",
						ArrivalTime:   "20:15",
						EstimatedCost: decimal.NewFromInt(6000),
					},
				},
				Accommodation: []entity.AccommodationBooking{},
				Conveyance:    []entity.ConveyanceBooking{},
			},
		},
	}
}

func fieldErrors(errs []FieldError, field string) []FieldError {
	var out []FieldError
	for _, e := range errs {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

func TestValidate_CompleteDraftPasses(t *testing.T) {
	errs := Validate(validDraft(), testModes, DefaultPolicy(), testNow)
	assert.Empty(t, errs)
}

func TestValidate_HeaderRequiredFields(t *testing.T) {
	d := validDraft()
	d.Purpose = ""
	d.InternalOrder = ""
	d.SanctionNumber = ""
	d.GeneralLedgerID = 0

	errs := Validate(d, testModes, DefaultPolicy(), testNow)

	for _, field := range []string{"purpose", "internal_order", "sanction_number", "general_ledger"} {
		found := fieldErrors(errs, field)
		require.Len(t, found, 1, "field %s", field)
		assert.Equal(t, SeverityBlocking, found[0].Severity)
	}
}

func TestValidate_NoTrips(t *testing.T) {
	d := validDraft()
	d.Trips = nil

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	found := fieldErrors(errs, "trips")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityBlocking, found[0].Severity)
}

func TestValidate_NoBookingsIsAdvisory(t *testing.T) {
	d := validDraft()
	d.Trips[0].Ticketing = []entity.TicketingBooking{}

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	found := fieldErrors(errs, "trips")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
	assert.False(t, HasBlocking(errs))
}

func TestValidate_OneWayNeverRequiresReturnDate(t *testing.T) {
	for _, returnDate := range []string{"", "2026-09-10", "1999-01-01", "gibberish"} {
		d := validDraft()
		d.Trips[0].TripMode = entity.TripModeOneWay
		d.Trips[0].ReturnDate = returnDate
		d.Trips[0].Ticketing[0].ArrivalDate = ""
		d.Trips[0].Ticketing[0].ArrivalTime = ""

		errs := Validate(d, testModes, DefaultPolicy(), testNow)
		assert.Empty(t, fieldErrors(errs, "return_date"), "return_date=%q", returnDate)
	}
}

func TestValidate_RoundTripReturnBeforeDeparture(t *testing.T) {
	d := validDraft()
	d.Trips[0].ReturnDate = "2026-09-19"

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	found := fieldErrors(errs, "return_date")
	require.Len(t, found, 1, "exactly one return_date error expected")
	assert.Equal(t, SeverityBlocking, found[0].Severity)
	require.NotNil(t, found[0].TripIndex)
	assert.Equal(t, 0, *found[0].TripIndex)
}

func TestValidate_RoundTripMissingReturnDate(t *testing.T) {
	d := validDraft()
	d.Trips[0].ReturnDate = ""

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	require.Len(t, fieldErrors(errs, "return_date"), 1)
}

func TestValidate_SameOriginAndDestination(t *testing.T) {
	d := validDraft()
	d.Trips[0].ToLocation = d.Trips[0].FromLocation

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	assert.NotEmpty(t, fieldErrors(errs, "to_location"))
}

func TestValidate_TicketingCostMustBePositive(t *testing.T) {
	d := validDraft()
	d.Trips[0].Ticketing[0].EstimatedCost = decimal.Zero

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	found := fieldErrors(errs, "estimated_cost")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityBlocking, found[0].Severity)
}

func TestValidate_RoundTripRequiresArrival(t *testing.T) {
	d := validDraft()
	d.Trips[0].Ticketing[0].ArrivalDate = ""
	d.Trips[0].Ticketing[0].ArrivalTime = ""

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	assert.Len(t, fieldErrors(errs, "arrival_date"), 1)
	assert.Len(t, fieldErrors(errs, "arrival_time"), 1)
}

func TestValidate_FlightCostEscalation(t *testing.T) {
	// One-way Mumbai to Delhi in 10 days, flight at 12,000: a single
	// informational note on estimated_cost and nothing blocking.
	d := validDraft()
	d.Trips[0].TripMode = entity.TripModeOneWay
	d.Trips[0].ReturnDate = ""
	d.Trips[0].Ticketing[0].ArrivalDate = ""
	d.Trips[0].Ticketing[0].ArrivalTime = ""
	d.Trips[0].DepartureDate = "2026-09-11"
	d.Trips[0].Ticketing[0].DepartureDate = "2026-09-11"
	d.Trips[0].Ticketing[0].EstimatedCost = decimal.NewFromInt(12000)

	errs := Validate(d, testModes, DefaultPolicy(), testNow)

	found := fieldErrors(errs, "estimated_cost")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityInfo, found[0].Severity)
	assert.Contains(t, found[0].Message, "CEO")
	assert.False(t, HasBlocking(errs))
}

func TestValidate_FlightLeadTime(t *testing.T) {
	// Departure in 2 days on a flight: lead-time finding on departure_date.
	d := validDraft()
	d.Trips[0].TripMode = entity.TripModeOneWay
	d.Trips[0].ReturnDate = ""
	d.Trips[0].Ticketing[0].ArrivalDate = ""
	d.Trips[0].Ticketing[0].ArrivalTime = ""
	d.Trips[0].DepartureDate = "2026-09-03"
	d.Trips[0].Ticketing[0].DepartureDate = "2026-09-03"

	policy := DefaultPolicy()
	errs := Validate(d, testModes, policy, testNow)

	found := fieldErrors(errs, "departure_date")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
	assert.False(t, HasBlocking(errs))

	policy.StrictLeadTime = true
	errs = Validate(d, testModes, policy, testNow)
	found = fieldErrors(errs, "departure_date")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityBlocking, found[0].Severity)
}

func TestValidate_TrainLeadTime(t *testing.T) {
	tests := []struct {
		name      string
		departure string
		wantWarn  bool
	}{
		{"two days out", "2026-09-03", true},
		{"exactly three days", "2026-09-04", false},
		{"well ahead", "2026-09-20", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.Trips[0].TripMode = entity.TripModeOneWay
			d.Trips[0].ReturnDate = ""
			d.Trips[0].DepartureDate = tt.departure
			tk := &d.Trips[0].Ticketing[0]
			tk.BookingType = 2
			tk.DepartureDate = tt.departure
			tk.ArrivalDate = ""
			tk.ArrivalTime = ""

			errs := Validate(d, testModes, DefaultPolicy(), testNow)
			found := fieldErrors(errs, "departure_date")
			if tt.wantWarn {
				require.Len(t, found, 1)
				assert.Equal(t, SeverityWarning, found[0].Severity)
			} else {
				assert.Empty(t, found)
			}
		})
	}
}

func TestValidate_SelfStayRequiresHotelName(t *testing.T) {
	d := validDraft()
	d.Trips[0].Accommodation = []entity.AccommodationBooking{
		{
			ClientKey:         "ac-1",
			AccommodationType: entity.AccommodationSelf,
			Place:             "Connaught Place",
			ArrivalDate:       "2026-09-20",
			ArrivalTime:       "12:00",
			DepartureDate:     "2026-09-23",
			DepartureTime:     "10:00",
			EstimatedCost:     decimal.NewFromInt(2000),
		},
	}

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	found := fieldErrors(errs, "hotel_name")
	require.Len(t, found, 1)
	assert.Equal(t, SeverityBlocking, found[0].Severity)
}

func TestValidate_CompanyStayExclusivity(t *testing.T) {
	d := validDraft()
	d.Trips[0].Accommodation = []entity.AccommodationBooking{
		{
			ClientKey:         "ac-1",
			AccommodationType: entity.AccommodationCompany,
			GuestHouseID:      7,
			HotelName:         "Hotel Sagar",
			Place:             "Connaught Place",
			ArrivalDate:       "2026-09-20",
			ArrivalTime:       "12:00",
			DepartureDate:     "2026-09-23",
			DepartureTime:     "10:00",
		},
	}

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	require.Len(t, fieldErrors(errs, "hotel_name"), 1)
}

func TestValidate_AccommodationDateOrdering(t *testing.T) {
	d := validDraft()
	d.Trips[0].Accommodation = []entity.AccommodationBooking{
		{
			ClientKey:         "ac-1",
			AccommodationType: entity.AccommodationCompany,
			GuestHouseID:      7,
			Place:             "Civil Lines",
			ArrivalDate:       "2026-09-22",
			ArrivalTime:       "12:00",
			DepartureDate:     "2026-09-20",
			DepartureTime:     "10:00",
		},
	}

	errs := Validate(d, testModes, DefaultPolicy(), testNow)
	found := fieldErrors(errs, "departure_date")
	require.Len(t, found, 1)
	assert.Equal(t, entity.CategoryAccommodation, found[0].Category)
}

func TestValidate_ConveyanceEndAfterStart(t *testing.T) {
	base := entity.ConveyanceBooking{
		ClientKey:    "cv-1",
		BookingType:  3,
		FromLocation: "Airport",
		ToLocation:   "Plant",
		DropLocation: "Plant",
		StartDate:    "2026-09-20",
		StartTime:    "11:00",
		EndDate:      "2026-09-20",
	}

	tests := []struct {
		name    string
		endTime string
		wantErr bool
	}{
		{"end after start", "12:30", false},
		{"end equals start", "11:00", true},
		{"end before start", "09:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			cv := base
			cv.EndTime = tt.endTime
			d.Trips[0].Conveyance = []entity.ConveyanceBooking{cv}

			errs := Validate(d, testModes, DefaultPolicy(), testNow)
			found := fieldErrors(errs, "end_date")
			if tt.wantErr {
				require.Len(t, found, 1)
			} else {
				assert.Empty(t, found)
			}
		})
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	// Rules never short-circuit: an empty draft reports every header field
	// plus the missing-trips rule in one pass.
	errs := Validate(entity.TravelApplicationDraft{}, testModes, DefaultPolicy(), testNow)
	assert.GreaterOrEqual(t, len(errs), 5)
}

func TestHasBlocking(t *testing.T) {
	assert.False(t, HasBlocking(nil))
	assert.False(t, HasBlocking([]FieldError{{Severity: SeverityWarning}, {Severity: SeverityInfo}}))
	assert.True(t, HasBlocking([]FieldError{{Severity: SeverityInfo}, {Severity: SeverityBlocking}}))
}
