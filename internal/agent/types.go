package agent

import (
	"context"
	"errors"

	"github.com/chadiek/agentic-interview/internal/llm"
	"github.com/chadiek/agentic-interview/internal/transcript"
)

var (
	// ErrBusy is returned when an operation is triggered while another completion is in flight.
	ErrBusy = errors.New("another interview turn is in progress")
	// ErrBlankInput is returned for an empty profile or answer. Nothing is changed.
	ErrBlankInput = errors.New("input is empty")
)

// State is the turn-taking state.
type State string

const (
	StateIdle     State = "idle"
	StateThinking State = "thinking"
)

// Completer is a single request/response exchange with the model.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Voice binds host speech synthesis and one-shot recognition.
type Voice interface {
	// Speak plays text and returns once playback has ended.
	Speak(ctx context.Context, text string) error
	// Arm starts one non-continuous recognition session. The result arrives out of band.
	Arm(ctx context.Context) error
}

// EventSink observes controller changes (e.g. to push them to the browser).
type EventSink interface {
	StateChanged(state State)
	TranscriptChanged(msgs []transcript.Message)
}

type nopVoice struct{}

func (nopVoice) Speak(context.Context, string) error { return nil }
func (nopVoice) Arm(context.Context) error           { return nil }

type nopEvents struct{}

func (nopEvents) StateChanged(State)                     {}
func (nopEvents) TranscriptChanged([]transcript.Message) {}
