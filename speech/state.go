package speech

// StateType represents the current state of the playback coordinator.
type StateType int

const (
	// StateIdle indicates no playback session is active.
	StateIdle StateType = iota
	// StateStarting indicates an utterance has been requested and the
	// coordinator is waiting to learn which synchronization strategy wins.
	StateStarting
	// StateBoundaryActive indicates boundary events are driving the highlight.
	StateBoundaryActive
	// StateFallbackActive indicates the pacing timer is driving the highlight.
	StateFallbackActive
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateBoundaryActive:
		return "boundary"
	case StateFallbackActive:
		return "fallback"
	default:
		return "unknown"
	}
}

// StateMachine manages state transitions for the playback coordinator.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
	onExit      map[StateType]func()
}

// NewStateMachine creates a new state machine with valid transitions.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StateIdle,
		transitions: map[StateType][]StateType{
			StateIdle:           {StateStarting},
			StateStarting:       {StateBoundaryActive, StateFallbackActive, StateIdle},
			StateBoundaryActive: {StateIdle},
			StateFallbackActive: {StateIdle},
		},
		onEnter: make(map[StateType]func()),
		onExit:  make(map[StateType]func()),
	}
}

// Transition attempts to transition to the specified state.
func (sm *StateMachine) Transition(to StateType) bool {
	validTransitions, ok := sm.transitions[sm.current]
	if !ok {
		return false
	}

	valid := false
	for _, state := range validTransitions {
		if state == to {
			valid = true
			break
		}
	}

	if !valid {
		return false
	}

	if exitFn, ok := sm.onExit[sm.current]; ok && exitFn != nil {
		exitFn()
	}

	sm.current = to

	if enterFn, ok := sm.onEnter[to]; ok && enterFn != nil {
		enterFn()
	}

	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}

// OnExit registers a callback for exiting a state.
func (sm *StateMachine) OnExit(state StateType, fn func()) {
	sm.onExit[state] = fn
}
