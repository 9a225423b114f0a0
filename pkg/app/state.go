package app

type State int32

const (
	StateCreated State = iota
	StateContextsAssembled
	StateInitialized
	StateRunnersResolved
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateContextsAssembled:
		return "contexts-assembled"
	case StateInitialized:
		return "initialized"
	case StateRunnersResolved:
		return "runners-resolved"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}
