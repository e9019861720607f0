package workflow

import "context"

// NewApplicationMachine builds the approval lifecycle machine for one
// travel application, positioned at current. requiresCEO routes the
// post-CHRO approval either through the CEO level or straight to the
// travel desk, depending on whether the application's total estimated cost
// crossed the escalation threshold at submission.
func NewApplicationMachine(current State, requiresCEO bool) *Machine {
	ceo := func(ctx context.Context) bool { return requiresCEO }
	noCEO := func(ctx context.Context) bool { return !requiresCEO }

	b := NewBuilder()

	b.Permit(StateDraft, TriggerSubmit, StateSubmitted)
	b.Permit(StateDraft, TriggerCancel, StateCancelled)

	b.Permit(StateSubmitted, TriggerApprove, StateManagerApproved)
	b.Permit(StateSubmitted, TriggerReject, StateRejected)
	b.Permit(StateSubmitted, TriggerCancel, StateCancelled)

	b.Permit(StateManagerApproved, TriggerApprove, StateCHROApproved)
	b.Permit(StateManagerApproved, TriggerReject, StateRejected)

	b.PermitIf(StateCHROApproved, TriggerApprove, StateCEOApproved, ceo)
	b.PermitIf(StateCHROApproved, TriggerProcess, StateTravelDesk, noCEO)
	b.Permit(StateCHROApproved, TriggerReject, StateRejected)

	b.Permit(StateCEOApproved, TriggerProcess, StateTravelDesk)
	b.Permit(StateCEOApproved, TriggerReject, StateRejected)

	b.Permit(StateTravelDesk, TriggerClose, StateClosed)

	return b.Build(current)
}
