// Package validation holds the pure business-rule validator for travel
// application drafts. Every rule runs unconditionally; all violations are
// collected into one list and the caller decides what blocks submission.
package validation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hrops/traveldesk/internal/domain/entity"
	"github.com/hrops/traveldesk/internal/draft"
)

// Severity classifies a validation finding. Only blocking findings refuse
// submission; warnings and info ride along with a successful submit.
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// FieldError is one validation finding, produced fresh on every pass and
// never persisted.
type FieldError struct {
	Field        string   `json:"field"`
	Message      string   `json:"message"`
	Severity     Severity `json:"severity"`
	Category     string   `json:"category,omitempty"`
	TripIndex    *int     `json:"trip_index,omitempty"`
	BookingIndex *int     `json:"booking_index,omitempty"`
}

// Policy holds the tunable business thresholds. StrictLeadTime promotes
// lead-time findings from warning to blocking.
type Policy struct {
	FlightLeadTimeDays int
	TrainLeadTimeDays  int
	CEOCostThreshold   decimal.Decimal
	StrictLeadTime     bool
}

// DefaultPolicy returns the standard thresholds: 7-day flight lead time,
// 3-day train lead time, CEO escalation above 10,000.
func DefaultPolicy() Policy {
	return Policy{
		FlightLeadTimeDays: 7,
		TrainLeadTimeDays:  3,
		CEOCostThreshold:   decimal.NewFromInt(10000),
	}
}

// HasBlocking reports whether any finding refuses submission.
func HasBlocking(errs []FieldError) bool {
	for _, e := range errs {
		if e.Severity == SeverityBlocking {
			return true
		}
	}
	return false
}

// Validate checks the whole draft against the business rules and returns
// every violation. It is pure: now is injected so lead-time rules are
// deterministic under test.
func Validate(d entity.TravelApplicationDraft, modes draft.ModeCatalog, policy Policy, now time.Time) []FieldError {
	v := &validator{modes: modes, policy: policy, today: midnight(now)}

	v.checkHeader(d)
	if len(d.Trips) == 0 {
		v.add(FieldError{Field: "trips", Message: "at least one trip is required", Severity: SeverityBlocking})
	}

	bookingCount := 0
	for i := range d.Trips {
		trip := &d.Trips[i]
		v.checkTrip(i, trip)
		bookingCount += len(trip.Ticketing) + len(trip.Accommodation) + len(trip.Conveyance)
	}

	if len(d.Trips) > 0 && bookingCount == 0 {
		v.add(FieldError{Field: "trips", Message: "no bookings added to any trip", Severity: SeverityWarning})
	}

	return v.errs
}

type validator struct {
	modes  draft.ModeCatalog
	policy Policy
	today  time.Time
	errs   []FieldError
}

func (v *validator) add(e FieldError) {
	v.errs = append(v.errs, e)
}

func (v *validator) checkHeader(d entity.TravelApplicationDraft) {
	if d.Purpose == "" {
		v.add(FieldError{Field: "purpose", Message: "purpose is required", Severity: SeverityBlocking})
	}
	if d.InternalOrder == "" {
		v.add(FieldError{Field: "internal_order", Message: "internal order is required", Severity: SeverityBlocking})
	}
	if d.SanctionNumber == "" {
		v.add(FieldError{Field: "sanction_number", Message: "sanction number is required", Severity: SeverityBlocking})
	}
	if d.GeneralLedgerID == 0 {
		v.add(FieldError{Field: "general_ledger", Message: "GL code is required", Severity: SeverityBlocking})
	}
}

func (v *validator) checkTrip(ti int, trip *entity.Trip) {
	idx := ti

	if trip.FromLocation == 0 {
		v.add(FieldError{Field: "from_location", Message: "origin is required", Severity: SeverityBlocking, TripIndex: &idx})
	}
	if trip.ToLocation == 0 {
		v.add(FieldError{Field: "to_location", Message: "destination is required", Severity: SeverityBlocking, TripIndex: &idx})
	}
	if trip.FromLocation != 0 && trip.FromLocation == trip.ToLocation {
		v.add(FieldError{Field: "to_location", Message: "origin and destination must differ", Severity: SeverityBlocking, TripIndex: &idx})
	}
	if trip.TripPurpose == "" {
		v.add(FieldError{Field: "trip_purpose", Message: "trip purpose is required", Severity: SeverityBlocking, TripIndex: &idx})
	}

	departure, ok := v.requireDate(trip.DepartureDate, "departure_date", &idx, nil, "")
	if trip.TripMode == entity.TripModeRoundTrip {
		if trip.ReturnDate == "" {
			v.add(FieldError{Field: "return_date", Message: "return date is required for a round trip", Severity: SeverityBlocking, TripIndex: &idx})
		} else if ret, retOK := parseDate(trip.ReturnDate); !retOK {
			v.add(FieldError{Field: "return_date", Message: "invalid date", Severity: SeverityBlocking, TripIndex: &idx})
		} else if ok && ret.Before(departure) {
			v.add(FieldError{Field: "return_date", Message: "return date must not precede departure", Severity: SeverityBlocking, TripIndex: &idx})
		}
	}

	for bi := range trip.Ticketing {
		v.checkTicketing(ti, bi, trip, &trip.Ticketing[bi])
	}
	for bi := range trip.Accommodation {
		v.checkAccommodation(ti, bi, &trip.Accommodation[bi])
	}
	for bi := range trip.Conveyance {
		v.checkConveyance(ti, bi, &trip.Conveyance[bi])
	}
}

func (v *validator) checkTicketing(ti, bi int, trip *entity.Trip, b *entity.TicketingBooking) {
	tIdx, bIdx := ti, bi
	cat := entity.CategoryTicketing
	add := func(field, msg string, sev Severity) {
		v.add(FieldError{Field: field, Message: msg, Severity: sev, Category: cat, TripIndex: &tIdx, BookingIndex: &bIdx})
	}

	if b.BookingType == 0 {
		add("booking_type", "travel mode is required", SeverityBlocking)
	}
	if b.FromLocation == 0 {
		add("from_location", "origin is required", SeverityBlocking)
	}
	if b.ToLocation == 0 {
		add("to_location", "destination is required", SeverityBlocking)
	}
	if b.DepartureTime == "" {
		add("departure_time", "departure time is required", SeverityBlocking)
	}
	if !b.EstimatedCost.IsPositive() {
		add("estimated_cost", "estimated cost must be positive", SeverityBlocking)
	}

	if trip.TripMode == entity.TripModeRoundTrip {
		if b.ArrivalDate == "" {
			add("arrival_date", "arrival date is required for a round trip", SeverityBlocking)
		}
		if b.ArrivalTime == "" {
			add("arrival_time", "arrival time is required for a round trip", SeverityBlocking)
		}
	}

	departure, ok := v.requireDate(b.DepartureDate, "departure_date", &tIdx, &bIdx, cat)
	code := v.modes.Code(b.BookingType)

	if ok {
		leadSeverity := SeverityWarning
		if v.policy.StrictLeadTime {
			leadSeverity = SeverityBlocking
		}
		days := int(departure.Sub(v.today).Hours() / 24)
		switch code {
		case entity.ModeCodeFlight:
			if days < v.policy.FlightLeadTimeDays {
				add("departure_date", fmt.Sprintf("flights must be requested at least %d days ahead", v.policy.FlightLeadTimeDays), leadSeverity)
			}
		case entity.ModeCodeTrain:
			if days < v.policy.TrainLeadTimeDays {
				add("departure_date", fmt.Sprintf("train tickets must be requested at least %d days ahead", v.policy.TrainLeadTimeDays), leadSeverity)
			}
		}
	}

	if code == entity.ModeCodeFlight && b.EstimatedCost.GreaterThan(v.policy.CEOCostThreshold) {
		add("estimated_cost", fmt.Sprintf("flight cost above %s requires CEO approval", v.policy.CEOCostThreshold.String()), SeverityInfo)
	}
}

func (v *validator) checkAccommodation(ti, bi int, b *entity.AccommodationBooking) {
	tIdx, bIdx := ti, bi
	cat := entity.CategoryAccommodation
	add := func(field, msg string, sev Severity) {
		v.add(FieldError{Field: field, Message: msg, Severity: sev, Category: cat, TripIndex: &tIdx, BookingIndex: &bIdx})
	}

	switch b.AccommodationType {
	case entity.AccommodationCompany:
		if b.GuestHouseID == 0 {
			add("guest_house_id", "guest house is required for a company stay", SeverityBlocking)
		}
		if b.HotelName != "" {
			add("hotel_name", "hotel name must be empty for a company stay", SeverityBlocking)
		}
	case entity.AccommodationSelf:
		if b.HotelName == "" {
			add("hotel_name", "hotel name is required for a self-arranged stay", SeverityBlocking)
		}
		if b.GuestHouseID != 0 {
			add("guest_house_id", "guest house must be empty for a self-arranged stay", SeverityBlocking)
		}
	default:
		add("accommodation_type", "accommodation type must be company or self", SeverityBlocking)
	}

	if b.Place == "" {
		add("place", "place is required", SeverityBlocking)
	}
	if b.ArrivalTime == "" {
		add("arrival_time", "arrival time is required", SeverityBlocking)
	}
	if b.DepartureTime == "" {
		add("departure_time", "departure time is required", SeverityBlocking)
	}

	arrival, arrOK := v.requireDate(b.ArrivalDate, "arrival_date", &tIdx, &bIdx, cat)
	departure, depOK := v.requireDate(b.DepartureDate, "departure_date", &tIdx, &bIdx, cat)
	if arrOK && depOK {
		start := withTime(arrival, b.ArrivalTime)
		end := withTime(departure, b.DepartureTime)
		if end.Before(start) {
			add("departure_date", "check-out must not precede check-in", SeverityBlocking)
		}
	}
}

func (v *validator) checkConveyance(ti, bi int, b *entity.ConveyanceBooking) {
	tIdx, bIdx := ti, bi
	cat := entity.CategoryConveyance
	add := func(field, msg string, sev Severity) {
		v.add(FieldError{Field: field, Message: msg, Severity: sev, Category: cat, TripIndex: &tIdx, BookingIndex: &bIdx})
	}

	if b.BookingType == 0 {
		add("booking_type", "vehicle mode is required", SeverityBlocking)
	}
	if b.FromLocation == "" {
		add("from_location", "pickup point is required", SeverityBlocking)
	}
	if b.ToLocation == "" {
		add("to_location", "destination is required", SeverityBlocking)
	}
	if b.DropLocation == "" {
		add("drop_location", "drop location is required", SeverityBlocking)
	}
	if b.StartTime == "" {
		add("start_time", "start time is required", SeverityBlocking)
	}
	if b.EndTime == "" {
		add("end_time", "end time is required", SeverityBlocking)
	}

	start, startOK := v.requireDate(b.StartDate, "start_date", &tIdx, &bIdx, cat)
	end, endOK := v.requireDate(b.EndDate, "end_date", &tIdx, &bIdx, cat)
	if startOK && endOK {
		from := withTime(start, b.StartTime)
		to := withTime(end, b.EndTime)
		if !to.After(from) {
			add("end_date", "end must be after start", SeverityBlocking)
		}
	}
}

// requireDate records a blocking error when value is empty or malformed and
// returns the parsed date when usable. Ordering rules only run on dates
// that parsed.
func (v *validator) requireDate(value, field string, tripIndex, bookingIndex *int, category string) (time.Time, bool) {
	e := FieldError{Field: field, Severity: SeverityBlocking, Category: category, TripIndex: tripIndex, BookingIndex: bookingIndex}
	if value == "" {
		e.Message = field + " is required"
		v.add(e)
		return time.Time{}, false
	}
	parsed, ok := parseDate(value)
	if !ok {
		e.Message = "invalid date"
		v.add(e)
		return time.Time{}, false
	}
	return parsed, true
}

func parseDate(value string) (time.Time, bool) {
	t, err := time.Parse(entity.DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// withTime folds an HH:MM field onto a date; malformed or empty times leave
// the date at midnight so date-level ordering still applies.
func withTime(date time.Time, value string) time.Time {
	t, err := time.Parse(entity.TimeLayout, value)
	if err != nil {
		return date
	}
	return date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
