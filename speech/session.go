package speech

import "time"

// NoWord is the cleared highlight index, published whenever no word is
// being spoken.
const NoWord = -1

// Strategy identifies which synchronization signal drives the highlight.
type Strategy int

const (
	// StrategyNone means arbitration has not resolved yet.
	StrategyNone Strategy = iota
	// StrategyBoundary means driver boundary events drive the highlight.
	StrategyBoundary
	// StrategyFallback means the pacing timer drives the highlight.
	StrategyFallback
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyBoundary:
		return "boundary"
	case StrategyFallback:
		return "fallback"
	default:
		return "none"
	}
}

// session holds all mutable state for one playback attempt. The coordinator
// owns exactly one live session at a time; driver callbacks and timer ticks
// capture the *session they were created for, and the coordinator drops any
// callback whose session is no longer the active one. That pointer
// comparison is the stale-timer guard: a tick scheduled before a stop can
// never advance a torn-down session.
type session struct {
	words   []string
	text    string
	lang    string
	rate    float64
	profile PacingProfile

	strategy Strategy
	index    int // NoWord until the winning strategy produces a signal

	speaking      bool
	stoppedByUser bool // set on explicit stop; auto-resets after the grace window
	boundarySeen  bool // first-writer-wins latch for arbitration

	pauseBudget time.Duration // remaining punctuation dwell, drained per tick

	arbitration *time.Timer
	tickStop    chan struct{}
}

// stopTimers releases the session's timer resources. Idempotent.
func (s *session) stopTimers() {
	if s.arbitration != nil {
		s.arbitration.Stop()
		s.arbitration = nil
	}
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}
