package session

// Phase is the step a training round is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseBuilding
	PhaseTransmitting
	PhaseAwaitingTranscription
	PhaseScoring
	PhaseUpdatingState
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseListening:
		return "listening"
	case PhaseBuilding:
		return "building"
	case PhaseTransmitting:
		return "transmitting"
	case PhaseAwaitingTranscription:
		return "awaiting transcription"
	case PhaseScoring:
		return "scoring"
	case PhaseUpdatingState:
		return "updating state"
	default:
		return "unknown"
	}
}
