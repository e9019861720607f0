package workflow

// Trigger is an event that can move an application between states.
type Trigger string

const (
	TriggerSubmit  Trigger = "SUBMIT"
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
	TriggerCancel  Trigger = "CANCEL"
	TriggerProcess Trigger = "PROCESS"
	TriggerClose   Trigger = "CLOSE"
)

func (t Trigger) String() string {
	return string(t)
}
