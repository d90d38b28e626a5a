// Package speech drives read-along playback: it speaks a story through a
// platform text-to-speech driver and keeps a per-word highlight index
// synchronized with the audio, using driver boundary events when they are
// trustworthy and a calibrated pacing timer when they are not.
package speech

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Coordinator orchestrates playback sessions. It owns the driver, arbitrates
// between the boundary-event and fallback-pacing strategies, and publishes
// the authoritative current word index. The presentation layer only reads
// from it; all mutation happens here.
type Coordinator struct {
	mu      sync.Mutex
	driver  Driver
	cfg     Config
	machine *StateMachine
	session *session

	// Callbacks. Invoked with the coordinator lock held, so they must not
	// call back into the coordinator; push to a channel instead.
	onWordChange  func(int)
	onStateChange func(StateType)
	onError       func(err error, message string)
	onDone        func()
}

// NewCoordinator creates a coordinator for the given driver.
func NewCoordinator(driver Driver, cfg Config) *Coordinator {
	c := &Coordinator{
		driver:  driver,
		cfg:     cfg,
		machine: NewStateMachine(),
	}
	// State change notifications ride the machine's enter hooks, so every
	// successful transition reaches the callback without a second call site.
	for _, st := range []StateType{StateIdle, StateStarting, StateBoundaryActive, StateFallbackActive} {
		c.machine.OnEnter(st, func() { c.notifyState(st) })
	}
	return c
}

// OnWordChange registers a callback for highlight index updates. The index
// is NoWord whenever the highlight is cleared.
func (c *Coordinator) OnWordChange(fn func(index int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onWordChange = fn
}

// OnStateChange registers a callback for coordinator state transitions.
func (c *Coordinator) OnStateChange(fn func(StateType)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStateChange = fn
}

// OnError registers a callback for surfaced driver failures. The message is
// the user-facing text from UserMessage.
func (c *Coordinator) OnError(fn func(err error, message string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// OnDone registers a callback for natural playback completion. Explicit
// stops and errors do not fire it.
func (c *Coordinator) OnDone(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDone = fn
}

// Speak starts a new playback session at the given rate, implicitly and
// synchronously cancelling any session already in flight.
func (c *Coordinator) Speak(text, lang string, rate float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !ValidRate(rate) {
		return fmt.Errorf("%w: %.2f", ErrInvalidRate, rate)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ErrNoContent
	}

	if prior := c.session; prior != nil {
		// Cancelling the old utterance may make the driver emit a
		// trailing "interrupted" error; mark the session so it is
		// discarded like a user stop.
		prior.stoppedByUser = true
		c.teardownLocked(prior)
	}

	s := &session{
		words:   words,
		text:    strings.Join(words, " "),
		lang:    lang,
		rate:    rate,
		profile: ProfileForRate(rate),
		index:   NoWord,
	}
	c.session = s
	c.machine.Transition(StateStarting)
	c.notifyWord(NoWord)

	h := Handlers{
		OnBoundary: func(charIndex int) { c.handleBoundary(s, charIndex) },
		OnEnd:      func() { c.handleEnd(s) },
		OnError:    func(err error) { c.handleError(s, err) },
	}

	if err := c.driver.Speak(s.text, lang, rate, h); err != nil {
		c.session = nil
		c.machine.Transition(StateIdle)
		return fmt.Errorf("starting utterance: %w", err)
	}
	s.speaking = true

	if c.boundaryEventsTrusted() {
		// Give the engine one arbitration window to prove it emits
		// boundary events before committing to the timer.
		s.arbitration = time.AfterFunc(c.cfg.ArbitrationWindow, func() {
			c.handleArbitrationDeadline(s)
		})
	} else {
		c.activateFallbackLocked(s)
	}

	log.Debug("playback started",
		"driver", c.driver.Name(),
		"words", len(words),
		"rate", rate,
		"boundary_trusted", c.boundaryEventsTrusted())
	return nil
}

// Stop cancels the active session. It is synchronous from the caller's
// perspective: by the time it returns the index is cleared and the timers
// are gone. The driver's own cancellation may lag and emit a delayed error;
// that error is discarded for a short grace window.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return
	}

	s.stoppedByUser = true
	grace := c.cfg.StopGraceWindow
	time.AfterFunc(grace, func() {
		c.mu.Lock()
		s.stoppedByUser = false
		c.mu.Unlock()
	})

	log.Debug("playback stopped by user", "index", s.index)
	c.teardownLocked(s)
}

// CurrentWordIndex returns the highlight index, or NoWord when idle.
func (c *Coordinator) CurrentWordIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return NoWord
	}
	return c.session.index
}

// IsSpeaking reports whether a session is active.
func (c *Coordinator) IsSpeaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil && c.session.speaking
}

// State returns the coordinator's current state.
func (c *Coordinator) State() StateType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// Strategy returns the active session's synchronization strategy, or
// StrategyNone when idle or still arbitrating.
func (c *Coordinator) Strategy() Strategy {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return StrategyNone
	}
	return c.session.strategy
}

// boundaryEventsTrusted resolves the capability flag against the config
// override. With "auto" the driver's own capability report decides.
func (c *Coordinator) boundaryEventsTrusted() bool {
	switch c.cfg.BoundaryEvents {
	case BoundaryEventsAlways:
		return true
	case BoundaryEventsNever:
		return false
	default:
		return c.driver.Capabilities().BoundaryEventsReliable
	}
}

// handleBoundary processes a boundary event from the driver.
func (c *Coordinator) handleBoundary(s *session, charIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s || !s.speaking {
		return // stale callback from a torn-down session
	}

	if !s.boundarySeen {
		s.boundarySeen = true
		if s.arbitration != nil {
			s.arbitration.Stop()
			s.arbitration = nil
		}
		// First-writer-wins: if the deadline already committed us to
		// fallback pacing, late boundary events lose arbitration and
		// are ignored for the rest of the session.
		if s.strategy == StrategyFallback {
			log.Debug("boundary event lost arbitration, ignoring")
			return
		}
		s.strategy = StrategyBoundary
		c.machine.Transition(StateBoundaryActive)
	}

	if s.strategy != StrategyBoundary {
		return
	}

	idx := WordIndexAtOffset(s.words, charIndex)
	if idx != s.index {
		s.index = idx
		c.notifyWord(idx)
	}
}

// handleArbitrationDeadline fires when no boundary event arrived in time.
func (c *Coordinator) handleArbitrationDeadline(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s || !s.speaking || s.boundarySeen {
		return
	}
	log.Debug("arbitration window elapsed, committing to fallback pacing")
	c.activateFallbackLocked(s)
}

// activateFallbackLocked commits the session to timer-driven pacing and
// starts the tick loop. Caller holds c.mu.
func (c *Coordinator) activateFallbackLocked(s *session) {
	s.strategy = StrategyFallback
	c.machine.Transition(StateFallbackActive)

	s.index = 0
	c.notifyWord(0)

	stop := make(chan struct{})
	s.tickStop = stop
	interval := s.profile.MsPerWord

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.tick(s)
			}
		}
	}()
}

// tick advances fallback pacing by one interval.
func (c *Coordinator) tick(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s || !s.speaking {
		return // tick scheduled before teardown; drop it
	}

	if s.pauseBudget > 0 {
		s.pauseBudget -= s.profile.MsPerWord
		return
	}

	next := s.index + 1
	if next >= len(s.words) {
		// No end-of-speech callback can be trusted on this path, so
		// running off the end of the story is natural completion.
		log.Debug("fallback pacing reached end of story")
		c.finishLocked(s)
		return
	}

	s.index = next
	c.notifyWord(next)

	if pause := trailingPause(s.words[next-1], s.profile); pause > 0 {
		s.pauseBudget = pause
	}
}

// handleEnd processes the driver's natural-completion callback.
func (c *Coordinator) handleEnd(s *session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != s {
		return
	}
	log.Debug("driver reported end of utterance")
	c.finishLocked(s)
}

// handleError processes a driver failure.
func (c *Coordinator) handleError(s *session, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.stoppedByUser {
		// Self-inflicted: the cancellation we issued bounced back as an
		// error within the grace window. Not a failure.
		log.Debug("suppressed post-stop driver error", "err", err)
		return
	}
	if c.session != s {
		log.Debug("dropped stale driver error", "err", err)
		return
	}

	msg := UserMessage(err)
	log.Error("driver error", "err", err, "message", msg)
	c.teardownLocked(s)
	if c.onError != nil {
		c.onError(err, msg)
	}
}

// finishLocked tears the session down as natural completion. Caller holds c.mu.
func (c *Coordinator) finishLocked(s *session) {
	c.teardownLocked(s)
	if c.onDone != nil {
		c.onDone()
	}
}

// teardownLocked releases all session resources and returns to Idle:
// timers stopped, utterance cancelled, index cleared, speaking flag down.
// Caller holds c.mu.
func (c *Coordinator) teardownLocked(s *session) {
	s.stopTimers()
	if s.speaking {
		s.speaking = false
		c.driver.Cancel()
	}
	s.index = NoWord
	if c.session == s {
		c.session = nil
		c.machine.Transition(StateIdle)
		c.notifyWord(NoWord)
	}
}

func (c *Coordinator) notifyWord(index int) {
	if c.onWordChange != nil {
		c.onWordChange(index)
	}
}

func (c *Coordinator) notifyState(state StateType) {
	if c.onStateChange != nil {
		c.onStateChange(state)
	}
}
