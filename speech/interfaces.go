package speech

// Handlers carries the callbacks a driver invokes while an utterance plays.
// Drivers must invoke them from their own goroutine, never synchronously
// from inside Speak, and must stop invoking them after Cancel returns.
type Handlers struct {
	// OnBoundary reports that playback reached the given character offset
	// in the spoken text. Engines that cannot produce boundary events
	// simply never call it.
	OnBoundary func(charIndex int)

	// OnEnd reports natural completion of the utterance.
	OnEnd func()

	// OnError reports a failure, classified into one of the package's
	// sentinel errors. A cancelled utterance reports ErrInterrupted.
	OnError func(err error)
}

// Capabilities describes what a driver can do.
type Capabilities struct {
	// BoundaryEventsReliable is true when the engine delivers word
	// boundary callbacks consistently enough to drive the highlight.
	// When false the coordinator commits to fallback pacing immediately
	// instead of waiting out the arbitration window.
	BoundaryEventsReliable bool
}

// Driver wraps a platform text-to-speech engine. Only one utterance may be
// in flight at a time; the Coordinator is the sole caller and serializes
// access.
type Driver interface {
	// Speak starts synthesizing and playing text. It returns once the
	// utterance has been queued; progress arrives through h.
	Speak(text, lang string, rate float64, h Handlers) error

	// Cancel stops the in-flight utterance, if any. The driver's own
	// cancellation may be asynchronous and may still emit a trailing
	// OnError(ErrInterrupted).
	Cancel()

	// Capabilities returns the driver's capabilities.
	Capabilities() Capabilities

	// Name returns the driver identifier, e.g. "espeak".
	Name() string
}
