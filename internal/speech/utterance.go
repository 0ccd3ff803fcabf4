package speech

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// EventType classifies utterance lifecycle events.
type EventType int

const (
	// EventStarted fires when the first audible unit of the utterance
	// begins playing. Utterances whose units all fail or are blank never
	// start.
	EventStarted EventType = iota
	// EventFinished fires when the utterance has fully left the
	// pipeline: its last unit played (or was skipped), or it was
	// cancelled.
	EventFinished
)

// Event is one lifecycle notification for an utterance.
type Event struct {
	Type EventType
	Text string // the original utterance text
}

// Utterance is one caller-supplied text spanning one or more units.
// Each lifecycle event is delivered at most once; the channels never
// block the pipeline, so slow or absent consumers are safe.
type Utterance struct {
	id   string
	text string

	events chan Event
	done   chan struct{}

	startOnce  sync.Once
	finishOnce sync.Once
}

func newUtterance(text string) *Utterance {
	return &Utterance{
		id:     uuid.NewString(),
		text:   text,
		events: make(chan Event, 2),
		done:   make(chan struct{}),
	}
}

// ID returns the utterance's unique identifier, useful for correlating
// log lines.
func (u *Utterance) ID() string { return u.id }

// Text returns the original text passed to Speak or SpeakQueued.
func (u *Utterance) Text() string { return u.text }

// Events returns the lifecycle event stream: at most one Started
// followed by exactly one Finished. The channel is buffered for both,
// so reading it is optional.
func (u *Utterance) Events() <-chan Event { return u.events }

// Done returns a channel closed once the utterance finishes or is
// cancelled.
func (u *Utterance) Done() <-chan struct{} { return u.done }

// Wait blocks until the utterance finishes and returns its text, or
// returns early with ctx's error.
func (u *Utterance) Wait(ctx context.Context) (string, error) {
	select {
	case <-u.done:
		return u.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// start emits Started. Idempotent.
func (u *Utterance) start() {
	u.startOnce.Do(func() {
		u.events <- Event{Type: EventStarted, Text: u.text}
	})
}

// finish emits Finished and closes done. Idempotent.
func (u *Utterance) finish() {
	u.finishOnce.Do(func() {
		u.events <- Event{Type: EventFinished, Text: u.text}
		close(u.done)
	})
}
