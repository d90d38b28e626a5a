// Package mock provides a scriptable speech driver for tests and for
// running the app without any real engine installed.
package mock

import (
	"strings"
	"sync"
	"time"

	"github.com/storyspeak/storyspeak/speech"
)

// Driver implements speech.Driver with a fully scriptable schedule: it
// emits a boundary event per word at a fixed cadence, then completion.
// Tests configure it to delay, drop, or fail any part of that sequence.
type Driver struct {
	mu sync.Mutex

	// Script
	reliable           bool
	wordDelay          time.Duration
	initialDelay       time.Duration
	suppressBoundaries bool
	suppressEnd        bool
	speakErr           error
	failAfter          int // emit failWith after this many boundaries; 0 disables
	failWith           error
	cancelErr          error
	cancelErrDelay     time.Duration

	// State
	handlers speech.Handlers
	cancelCh chan struct{}

	// Observability for tests
	speakCount  int
	cancelCount int
	lastText    string
	lastLang    string
	lastRate    float64
}

// New creates a mock driver that behaves like a well-mannered engine:
// reliable boundary events every 10ms and a clean completion.
func New() *Driver {
	return &Driver{
		reliable:  true,
		wordDelay: 10 * time.Millisecond,
	}
}

// Name returns the driver identifier.
func (d *Driver) Name() string { return "mock" }

// Capabilities returns the scripted capability report.
func (d *Driver) Capabilities() speech.Capabilities {
	d.mu.Lock()
	defer d.mu.Unlock()
	return speech.Capabilities{BoundaryEventsReliable: d.reliable}
}

// Speak plays through the scripted schedule in a background goroutine.
func (d *Driver) Speak(text, lang string, rate float64, h speech.Handlers) error {
	d.mu.Lock()
	if d.speakErr != nil {
		err := d.speakErr
		d.mu.Unlock()
		return err
	}

	d.speakCount++
	d.lastText = text
	d.lastLang = lang
	d.lastRate = rate
	d.handlers = h

	cancel := make(chan struct{})
	d.cancelCh = cancel

	words := strings.Fields(text)
	delay := d.wordDelay
	initial := d.initialDelay
	suppressBoundaries := d.suppressBoundaries
	suppressEnd := d.suppressEnd
	failAfter := d.failAfter
	failWith := d.failWith
	d.mu.Unlock()

	go func() {
		if initial > 0 {
			select {
			case <-cancel:
				return
			case <-time.After(initial):
			}
		}

		if !suppressBoundaries {
			offset := 0
			for i, w := range words {
				if h.OnBoundary != nil {
					h.OnBoundary(offset)
				}
				if failAfter > 0 && i+1 >= failAfter {
					if h.OnError != nil {
						h.OnError(failWith)
					}
					return
				}
				offset += len(w) + 1

				select {
				case <-cancel:
					return
				case <-time.After(delay):
				}
			}
		} else if !suppressEnd {
			// No boundaries: approximate a speaking duration so OnEnd
			// does not arrive instantly.
			select {
			case <-cancel:
				return
			case <-time.After(delay * time.Duration(len(words)+1)):
			}
		}

		if !suppressEnd && h.OnEnd != nil {
			h.OnEnd()
		}
	}()

	return nil
}

// Cancel stops the scripted playback. If an error was scripted for
// cancellation, it is emitted asynchronously after the scripted delay,
// imitating an engine whose teardown is not synchronous.
func (d *Driver) Cancel() {
	d.mu.Lock()
	d.cancelCount++
	if d.cancelCh != nil {
		close(d.cancelCh)
		d.cancelCh = nil
	}
	h := d.handlers
	cancelErr := d.cancelErr
	delay := d.cancelErrDelay
	d.mu.Unlock()

	if cancelErr != nil && h.OnError != nil {
		go func() {
			if delay > 0 {
				time.Sleep(delay)
			}
			h.OnError(cancelErr)
		}()
	}
}

// SetReliable scripts the boundary-event capability report.
func (d *Driver) SetReliable(reliable bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reliable = reliable
}

// SetWordDelay scripts the cadence between boundary events.
func (d *Driver) SetWordDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.wordDelay = delay
}

// SetInitialDelay scripts a delay before the first boundary event.
func (d *Driver) SetInitialDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.initialDelay = delay
}

// SuppressBoundaries scripts an engine that never emits boundary events.
func (d *Driver) SuppressBoundaries() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suppressBoundaries = true
}

// SuppressEnd scripts an engine that never reports completion.
func (d *Driver) SuppressEnd() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.suppressEnd = true
}

// SetSpeakError scripts Speak itself to fail synchronously.
func (d *Driver) SetSpeakError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speakErr = err
}

// FailAfter scripts an error emission after n boundary events.
func (d *Driver) FailAfter(n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failAfter = n
	d.failWith = err
}

// EmitErrorOnCancel scripts a delayed error callback after Cancel, the way
// real engines report "interrupted" for an utterance we killed ourselves.
func (d *Driver) EmitErrorOnCancel(err error, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelErr = err
	d.cancelErrDelay = delay
}

// SpeakCalls returns how many times Speak was invoked.
func (d *Driver) SpeakCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speakCount
}

// CancelCalls returns how many times Cancel was invoked.
func (d *Driver) CancelCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelCount
}

// LastText returns the text most recently passed to Speak.
func (d *Driver) LastText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastText
}

// LastRate returns the rate most recently passed to Speak.
func (d *Driver) LastRate() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastRate
}
