package speech

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeDriver is a controllable driver for coordinator tests. The test
// drives the callback sequence by hand through the captured handlers.
type fakeDriver struct {
	mu          sync.Mutex
	reliable    bool
	speakErr    error
	speakCalls  int
	cancelCalls int
	handlers    Handlers
	lastText    string
}

func (f *fakeDriver) Speak(text, lang string, rate float64, h Handlers) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.speakErr != nil {
		return f.speakErr
	}
	f.speakCalls++
	f.handlers = h
	f.lastText = text
	return nil
}

func (f *fakeDriver) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
}

func (f *fakeDriver) Capabilities() Capabilities {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Capabilities{BoundaryEventsReliable: f.reliable}
}

func (f *fakeDriver) Name() string { return "fake" }

func (f *fakeDriver) currentHandlers() Handlers {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handlers
}

func (f *fakeDriver) cancels() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelCalls
}

// recorder collects callback notifications thread-safely.
type recorder struct {
	mu     sync.Mutex
	words  []int
	states []StateType
	errs   []string
	done   int
}

func (r *recorder) attach(c *Coordinator) {
	c.OnWordChange(func(i int) {
		r.mu.Lock()
		r.words = append(r.words, i)
		r.mu.Unlock()
	})
	c.OnStateChange(func(s StateType) {
		r.mu.Lock()
		r.states = append(r.states, s)
		r.mu.Unlock()
	})
	c.OnError(func(err error, msg string) {
		r.mu.Lock()
		r.errs = append(r.errs, msg)
		r.mu.Unlock()
	})
	c.OnDone(func() {
		r.mu.Lock()
		r.done++
		r.mu.Unlock()
	})
}

func (r *recorder) wordLog() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.words...)
}

func (r *recorder) stateLog() []StateType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]StateType(nil), r.states...)
}

func (r *recorder) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func (r *recorder) doneCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ArbitrationWindow = 40 * time.Millisecond
	cfg.StopGraceWindow = 120 * time.Millisecond
	return cfg
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSpeakRejectsInvalidRate(t *testing.T) {
	c := NewCoordinator(&fakeDriver{reliable: true}, testConfig())
	if err := c.Speak("hello world", "en", 0.9); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("err = %v, want ErrInvalidRate", err)
	}
}

func TestSpeakRejectsEmptyText(t *testing.T) {
	c := NewCoordinator(&fakeDriver{reliable: true}, testConfig())
	if err := c.Speak("   \n ", "en", 1.0); !errors.Is(err, ErrNoContent) {
		t.Fatalf("err = %v, want ErrNoContent", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want Idle", c.State())
	}
}

func TestSpeakDriverFailureReturnsToIdle(t *testing.T) {
	d := &fakeDriver{reliable: true, speakErr: ErrVoiceUnavailable}
	c := NewCoordinator(d, testConfig())
	if err := c.Speak("hello world", "en", 1.0); !errors.Is(err, ErrVoiceUnavailable) {
		t.Fatalf("err = %v, want ErrVoiceUnavailable", err)
	}
	if c.State() != StateIdle || c.IsSpeaking() {
		t.Errorf("coordinator did not return to idle")
	}
}

func TestBoundaryEventsWinArbitration(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two three four", "en", 1.0); err != nil {
		t.Fatal(err)
	}

	h := d.currentHandlers()
	h.OnBoundary(0) // "one"
	if c.State() != StateBoundaryActive {
		t.Fatalf("state = %v, want BoundaryActive", c.State())
	}
	if c.Strategy() != StrategyBoundary {
		t.Fatalf("strategy = %v, want boundary", c.Strategy())
	}

	h.OnBoundary(4)  // "two"
	h.OnBoundary(8)  // "three"
	h.OnBoundary(14) // "four"

	got := rec.wordLog()
	want := []int{NoWord, 0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("word log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word log = %v, want %v", got, want)
		}
	}

	// The arbitration deadline elapsing later must not flip us to fallback.
	time.Sleep(60 * time.Millisecond)
	if c.Strategy() != StrategyBoundary {
		t.Errorf("strategy flipped to %v after deadline", c.Strategy())
	}
}

func TestStateCallbackTracksEveryTransition(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two three", "en", 1.0); err != nil {
		t.Fatal(err)
	}
	h := d.currentHandlers()
	h.OnBoundary(0)
	h.OnEnd()

	got := rec.stateLog()
	want := []StateType{StateStarting, StateBoundaryActive, StateIdle}
	if len(got) != len(want) {
		t.Fatalf("state log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("state log = %v, want %v", got, want)
		}
	}
}

func TestMonotoneOffsetsNeverMoveHighlightBackwards(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("alpha beta gamma", "en", 1.0); err != nil {
		t.Fatal(err)
	}
	h := d.currentHandlers()
	for _, off := range []int{0, 2, 5, 6, 11, 12} {
		h.OnBoundary(off)
	}

	prev := NoWord
	for _, idx := range rec.wordLog() {
		if idx < prev && idx != NoWord {
			t.Fatalf("highlight moved backwards: %v", rec.wordLog())
		}
		prev = idx
	}
}

func TestArbitrationDeadlineCommitsToFallback(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two three", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	if c.Strategy() != StrategyNone {
		t.Fatalf("strategy = %v before deadline, want none", c.Strategy())
	}

	waitFor(t, time.Second, func() bool { return c.Strategy() == StrategyFallback })
	if c.State() != StateFallbackActive {
		t.Errorf("state = %v, want FallbackActive", c.State())
	}

	// Fallback publishes word 0 immediately on activation.
	waitFor(t, time.Second, func() bool {
		for _, w := range rec.wordLog() {
			if w == 0 {
				return true
			}
		}
		return false
	})
	c.Stop()
}

func TestLateBoundaryEventsLoseArbitration(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())

	if err := c.Speak("one two three", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	waitFor(t, time.Second, func() bool { return c.Strategy() == StrategyFallback })

	h := d.currentHandlers()
	h.OnBoundary(4)
	h.OnBoundary(8)
	if c.Strategy() != StrategyFallback {
		t.Errorf("late boundary events flipped strategy to %v", c.Strategy())
	}
	c.Stop()
}

func TestUntrustedDriverGoesStraightToFallback(t *testing.T) {
	d := &fakeDriver{reliable: false}
	c := NewCoordinator(d, testConfig())

	if err := c.Speak("one two", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	if c.Strategy() != StrategyFallback {
		t.Errorf("strategy = %v, want fallback without waiting", c.Strategy())
	}
	c.Stop()
}

func TestBoundaryEventsNeverOverride(t *testing.T) {
	d := &fakeDriver{reliable: true}
	cfg := testConfig()
	cfg.BoundaryEvents = BoundaryEventsNever
	c := NewCoordinator(d, cfg)

	if err := c.Speak("one two", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	if c.Strategy() != StrategyFallback {
		t.Errorf("strategy = %v, want fallback", c.Strategy())
	}
	c.Stop()
}

func TestFallbackVisitsEveryWordOnceThenFinishes(t *testing.T) {
	d := &fakeDriver{reliable: false}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two three four", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	waitFor(t, 5*time.Second, func() bool { return rec.doneCount() == 1 })

	var visited []int
	for _, w := range rec.wordLog() {
		if w != NoWord {
			visited = append(visited, w)
		}
	}
	if len(visited) != 4 {
		t.Fatalf("visited = %v, want each of 0..3 once", visited)
	}
	for i, w := range visited {
		if w != i {
			t.Fatalf("visited = %v, want 0 1 2 3", visited)
		}
	}

	if c.State() != StateIdle || c.CurrentWordIndex() != NoWord {
		t.Errorf("coordinator not idle after completion")
	}
}

func TestFallbackPausesLongerAfterSentenceEnd(t *testing.T) {
	d := &fakeDriver{reliable: false}
	c := NewCoordinator(d, testConfig())

	type stamp struct {
		index int
		at    time.Time
	}
	var mu sync.Mutex
	var stamps []stamp
	c.OnWordChange(func(i int) {
		mu.Lock()
		stamps = append(stamps, stamp{i, time.Now()})
		mu.Unlock()
	})
	done := make(chan struct{})
	c.OnDone(func() { close(done) })

	// rate 1.5: 150ms per word, 300ms extra after a sentence end.
	if err := c.Speak("Stop. here now", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("playback did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	var at [3]time.Time
	for _, s := range stamps {
		if s.index >= 0 && s.index < 3 && at[s.index].IsZero() {
			at[s.index] = s.at
		}
	}
	afterSentence := at[2].Sub(at[1])
	plain := at[1].Sub(at[0])
	if afterSentence <= plain {
		t.Errorf("gap after sentence end %v not longer than plain gap %v", afterSentence, plain)
	}
}

func TestStopClearsStateAndSuppressesLateError(t *testing.T) {
	d := &fakeDriver{reliable: false}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two three", "en", 1.5); err != nil {
		t.Fatal(err)
	}
	h := d.currentHandlers()
	c.Stop()

	if c.IsSpeaking() {
		t.Error("still speaking after stop")
	}
	if c.CurrentWordIndex() != NoWord {
		t.Errorf("index = %d after stop, want NoWord", c.CurrentWordIndex())
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v after stop, want Idle", c.State())
	}
	if d.cancels() == 0 {
		t.Error("driver was not cancelled")
	}

	// A driver error bouncing back within the grace window is self-inflicted.
	h.OnError(ErrInterrupted)
	if rec.errorCount() != 0 {
		t.Errorf("late post-stop error was surfaced")
	}
	if rec.doneCount() != 0 {
		t.Errorf("stop fired completion")
	}
}

func TestDriverErrorSurfacesAndResets(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two", "en", 1.0); err != nil {
		t.Fatal(err)
	}
	d.currentHandlers().OnError(ErrDeviceBusy)

	if rec.errorCount() != 1 {
		t.Fatalf("error count = %d, want 1", rec.errorCount())
	}
	if c.State() != StateIdle || c.IsSpeaking() {
		t.Error("coordinator not reset after error")
	}
	if rec.doneCount() != 0 {
		t.Error("error fired completion")
	}
}

func TestNaturalEndFiresDone(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("one two", "en", 1.0); err != nil {
		t.Fatal(err)
	}
	h := d.currentHandlers()
	h.OnBoundary(0)
	h.OnBoundary(4)
	h.OnEnd()

	if rec.doneCount() != 1 {
		t.Fatalf("done count = %d, want 1", rec.doneCount())
	}
	if c.State() != StateIdle || c.CurrentWordIndex() != NoWord {
		t.Error("coordinator not idle after completion")
	}
}

func TestNewSessionInvalidatesOldCallbacks(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	rec := &recorder{}
	rec.attach(c)

	if err := c.Speak("first story here", "en", 1.0); err != nil {
		t.Fatal(err)
	}
	old := d.currentHandlers()

	if err := c.Speak("second story", "en", 1.0); err != nil {
		t.Fatal(err)
	}
	if d.cancels() != 1 {
		t.Errorf("cancel calls = %d, want 1", d.cancels())
	}

	// Signals from the replaced session must not move the new highlight.
	before := rec.wordLog()
	old.OnBoundary(6)
	old.OnEnd()
	old.OnError(ErrSynthesisFailed)

	if got := rec.wordLog(); len(got) != len(before) {
		t.Errorf("stale callbacks produced notifications: %v -> %v", before, got)
	}
	if rec.doneCount() != 0 || rec.errorCount() != 0 {
		t.Error("stale end or error leaked through")
	}
	if c.State() != StateStarting {
		t.Errorf("state = %v, want Starting for the new session", c.State())
	}
	c.Stop()
}

func TestStopWhileIdleIsNoOp(t *testing.T) {
	d := &fakeDriver{reliable: true}
	c := NewCoordinator(d, testConfig())
	c.Stop()
	if d.cancels() != 0 {
		t.Error("stop while idle cancelled the driver")
	}
}
