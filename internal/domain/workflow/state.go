package workflow

// State is one stage of the travel application approval lifecycle.
type State string

const (
	StateDraft           State = "DRAFT"
	StateSubmitted       State = "SUBMITTED"
	StateManagerApproved State = "MANAGER_APPROVED"
	StateCHROApproved    State = "CHRO_APPROVED"
	StateCEOApproved     State = "CEO_APPROVED"
	StateTravelDesk      State = "TRAVEL_DESK"
	StateClosed          State = "CLOSED"
	StateRejected        State = "REJECTED"
	StateCancelled       State = "CANCELLED"
)

var validStates = map[State]bool{
	StateDraft:           true,
	StateSubmitted:       true,
	StateManagerApproved: true,
	StateCHROApproved:    true,
	StateCEOApproved:     true,
	StateTravelDesk:      true,
	StateClosed:          true,
	StateRejected:        true,
	StateCancelled:       true,
}

var terminalStates = map[State]bool{
	StateClosed:    true,
	StateRejected:  true,
	StateCancelled: true,
}

// IsValid reports whether s is a known lifecycle state.
func (s State) IsValid() bool {
	return validStates[s]
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

func (s State) String() string {
	return string(s)
}

// PendingRole returns the role expected to act next while the application
// sits in s, or "" when nothing is pending. State names record how far the
// approval chain has progressed; the CEO level only exists when the
// application's cost crossed the escalation threshold.
func PendingRole(s State, requiresCEO bool) string {
	switch s {
	case StateSubmitted:
		return "manager"
	case StateManagerApproved:
		return "chro"
	case StateCHROApproved:
		if requiresCEO {
			return "ceo"
		}
		return "travel_desk"
	case StateCEOApproved, StateTravelDesk:
		return "travel_desk"
	default:
		return ""
	}
}
