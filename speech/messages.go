package speech

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Messages for Bubble Tea communication between the coordinator and the UI.

// WordHighlightMsg carries a highlight index update. Index is NoWord when
// the highlight is cleared.
type WordHighlightMsg struct {
	Index int
}

// PlaybackStateMsg carries a coordinator state transition.
type PlaybackStateMsg struct {
	State StateType
}

// PlaybackDoneMsg indicates natural playback completion.
type PlaybackDoneMsg struct{}

// PlaybackErrorMsg indicates a surfaced driver failure.
type PlaybackErrorMsg struct {
	Err     error
	Message string // user-facing text from UserMessage
}

// Events relays coordinator callbacks into a channel the Bubble Tea event
// loop can drain. Coordinator callbacks run with the coordinator's lock
// held, so the relay never blocks: if the UI falls behind, intermediate
// highlight updates are dropped in favor of newer ones.
type Events struct {
	ch chan tea.Msg
}

// NewEvents creates an event relay and wires it to the coordinator.
func NewEvents(c *Coordinator) *Events {
	e := &Events{ch: make(chan tea.Msg, 64)}

	c.OnWordChange(func(index int) {
		e.send(WordHighlightMsg{Index: index})
	})
	c.OnStateChange(func(state StateType) {
		e.send(PlaybackStateMsg{State: state})
	})
	c.OnError(func(err error, message string) {
		e.send(PlaybackErrorMsg{Err: err, Message: message})
	})
	c.OnDone(func() {
		e.send(PlaybackDoneMsg{})
	})

	return e
}

func (e *Events) send(msg tea.Msg) {
	select {
	case e.ch <- msg:
	default:
		log.Debug("speech event dropped, UI not draining", "msg", msg)
	}
}

// Next returns a command that waits for the next speech event. The UI
// re-issues it after handling each message.
func (e *Events) Next() tea.Cmd {
	return func() tea.Msg {
		return <-e.ch
	}
}
