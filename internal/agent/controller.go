package agent

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/chadiek/agentic-interview/internal/diagnostics"
	"github.com/chadiek/agentic-interview/internal/llm"
	"github.com/chadiek/agentic-interview/internal/transcript"
)

// Sampling settings per turn type.
const (
	planTemperature       = 0.2
	planMaxTokens         = 900
	followUpTemperature   = 0.2
	followUpMaxTokens     = 400
	nextTemperature       = 0.6
	nextMaxTokens         = 400
	evaluationTemperature = 0.0
	evaluationMaxTokens   = 400
)

// Options tunes controller policy.
type Options struct {
	// RearmAfterEvaluation re-arms recognition after an evaluation reply has been spoken.
	RearmAfterEvaluation bool
	Logger               *zap.Logger
	Events               EventSink
}

// Controller orchestrates interview turns: compose prompt -> completion -> transcript -> speech -> listen.
// At most one completion turn is in flight; a second trigger gets ErrBusy.
type Controller struct {
	llm    Completer
	store  *transcript.Store
	keys   diagnostics.KeyState
	voice  Voice
	events EventSink
	logger *zap.Logger

	rearmAfterEvaluation bool

	mu     sync.Mutex
	state  State
	closed bool

	// voice follow-through tasks outlive the request that started them
	baseCtx    context.Context
	cancelBase context.CancelFunc
	tasks      sync.WaitGroup
}

// NewController constructs a Controller. voice may be nil when no speech host is bound.
func NewController(c Completer, store *transcript.Store, keys diagnostics.KeyState, voice Voice, opts Options) *Controller {
	if voice == nil {
		voice = nopVoice{}
	}
	events := opts.Events
	if events == nil {
		events = nopEvents{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		llm:                  c,
		store:                store,
		keys:                 keys,
		voice:                voice,
		events:               events,
		logger:               logger,
		rearmAfterEvaluation: opts.RearmAfterEvaluation,
		state:                StateIdle,
		baseCtx:              ctx,
		cancelBase:           cancel,
	}
}

// State reports whether a turn is in flight.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns the transcript in order.
func (c *Controller) Messages() []transcript.Message { return c.store.Messages() }

// StartInterview announces the start, asks for a plan, then extracts its follow-up questions.
// The two completions run strictly in sequence; the first failure ends the turn.
func (c *Controller) StartInterview(ctx context.Context, profile string) error {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return ErrBlankInput
	}
	return c.runTurn(ctx, "start", true, func(ctx context.Context) (string, error) {
		c.appendMessage(transcript.RoleUser, startAnnouncement(profile))
		plan, err := c.llm.Complete(ctx, llm.Request{Prompt: planPrompt(profile), Temperature: planTemperature, MaxTokens: planMaxTokens})
		if err != nil {
			return "", err
		}
		c.appendMessage(transcript.RoleAssistant, planPrefix+"\n"+plan)

		followUps, err := c.llm.Complete(ctx, llm.Request{Prompt: followUpPrompt(plan), Temperature: followUpTemperature, MaxTokens: followUpMaxTokens})
		if err != nil {
			return "", err
		}
		c.appendMessage(transcript.RoleAssistant, followUpPrefix+"\n"+followUps)
		return followUps, nil
	})
}

// AskNext asks the model for the next question given the whole transcript.
func (c *Controller) AskNext(ctx context.Context) error {
	return c.runTurn(ctx, "ask_next", true, func(ctx context.Context) (string, error) {
		reply, err := c.llm.Complete(ctx, llm.Request{Prompt: nextQuestionPrompt(c.store.Render()), Temperature: nextTemperature, MaxTokens: nextMaxTokens})
		if err != nil {
			return "", err
		}
		c.appendMessage(transcript.RoleAssistant, reply)
		return reply, nil
	})
}

// SubmitAnswer records the answer immediately, then asks the model to score it.
func (c *Controller) SubmitAnswer(ctx context.Context, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ErrBlankInput
	}
	return c.runTurn(ctx, "answer", c.rearmAfterEvaluation, func(ctx context.Context) (string, error) {
		c.appendMessage(transcript.RoleUser, answer)
		reply, err := c.llm.Complete(ctx, llm.Request{Prompt: evaluationPrompt(c.store.Render(), answer), Temperature: evaluationTemperature, MaxTokens: evaluationMaxTokens})
		if err != nil {
			return "", err
		}
		c.appendMessage(transcript.RoleAssistant, reply)
		return reply, nil
	})
}

// HandleUtterance treats a recognized utterance exactly like a typed answer.
func (c *Controller) HandleUtterance(ctx context.Context, text string) error {
	return c.SubmitAnswer(ctx, text)
}

// RunSelfTest sends the fixed diagnostics prompt. It occupies the turn slot but never touches the transcript.
func (c *Controller) RunSelfTest(ctx context.Context) (diagnostics.SelfTestResult, error) {
	if err := c.acquire(); err != nil {
		return diagnostics.SelfTestResult{}, err
	}
	defer c.release()
	return diagnostics.SelfTest(context.WithoutCancel(ctx), c.llm, c.keys), nil
}

// Clear empties the transcript (reseeding the system message if the store is configured to).
func (c *Controller) Clear() {
	c.store.Clear()
	c.publishTranscript()
}

// Wait blocks until queued speech/listen tasks have finished.
func (c *Controller) Wait() { c.tasks.Wait() }

// Close cancels pending speech/listen tasks and waits for them.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelBase()
	c.mu.Unlock()
	c.tasks.Wait()
}

// runTurn holds the slot for the completion work only. Failures become an "Error: ..." assistant
// message; messages appended before the failure stay.
func (c *Controller) runTurn(ctx context.Context, name string, rearm bool, fn func(context.Context) (string, error)) error {
	if err := c.acquire(); err != nil {
		c.logger.Info("turn rejected", zap.String("turn", name), zap.Error(err))
		return err
	}
	reply, err := fn(context.WithoutCancel(ctx))
	if err != nil {
		c.logger.Warn("turn failed", zap.String("turn", name), zap.Error(err))
		c.appendMessage(transcript.RoleAssistant, "Error: "+err.Error())
	}
	c.release()
	if err == nil {
		c.followThrough(reply, rearm)
	}
	return nil
}

// followThrough speaks text to completion, then arms recognition, as one sequential task.
// Nothing is started once the controller is closed.
func (c *Controller) followThrough(text string, rearm bool) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.tasks.Add(1)
	c.mu.Unlock()

	voice := c.voice
	go func() {
		defer c.tasks.Done()
		if strings.TrimSpace(text) != "" {
			if err := voice.Speak(c.baseCtx, text); err != nil {
				c.logger.Warn("speech synthesis failed", zap.Error(err))
			}
		}
		if !rearm || c.baseCtx.Err() != nil {
			return
		}
		if err := voice.Arm(c.baseCtx); err != nil {
			c.logger.Warn("arm recognition failed", zap.Error(err))
		}
	}()
}

func (c *Controller) acquire() error {
	c.mu.Lock()
	if c.state == StateThinking {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateThinking
	c.mu.Unlock()
	c.events.StateChanged(StateThinking)
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
	c.events.StateChanged(StateIdle)
}

func (c *Controller) appendMessage(role transcript.Role, text string) {
	c.store.Append(role, text)
	c.publishTranscript()
}

func (c *Controller) publishTranscript() {
	c.events.TranscriptChanged(c.store.Messages())
}
