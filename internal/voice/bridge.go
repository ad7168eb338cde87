// Package voice bridges the browser's speech recognition and synthesis to the interview controller
// over a websocket. The browser owns the speech engines; the server only asks it to speak or listen.
package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chadiek/agentic-interview/internal/agent"
	"github.com/chadiek/agentic-interview/internal/transcript"
)

// Frame is the websocket message format.
// Browser -> server: "hello", "utterance", "spoken".
// Server -> browser: "speak", "listen", "state", "transcript", "busy", "error".
type Frame struct {
	Type        string               `json:"type"`
	ID          string               `json:"id,omitempty"`
	Text        string               `json:"text,omitempty"`
	State       string               `json:"state,omitempty"`
	Messages    []transcript.Message `json:"messages,omitempty"`
	Recognition bool                 `json:"recognition,omitempty"`
	Synthesis   bool                 `json:"synthesis,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// UtteranceHandler receives recognized speech.
type UtteranceHandler interface {
	HandleUtterance(ctx context.Context, text string) error
}

const writeTimeout = 5 * time.Second

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Allow any origin for demo use; restrict in production
		return true
	},
}

type client struct {
	conn        *websocket.Conn
	writeMu     sync.Mutex
	capMu       sync.RWMutex
	recognition bool
	synthesis   bool
	done        chan struct{}
}

func (c *client) write(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(f)
}

func (c *client) caps() (recognition, synthesis bool) {
	c.capMu.RLock()
	defer c.capMu.RUnlock()
	return c.recognition, c.synthesis
}

// Bridge is the single browser voice session. A newer connection replaces the older one.
// It implements agent.Voice and agent.EventSink.
type Bridge struct {
	logger *zap.Logger

	mu      sync.Mutex
	handler UtteranceHandler
	current *client
	pending map[string]chan struct{}

	ctx      context.Context
	cancel   context.CancelFunc
	handlers sync.WaitGroup
}

func NewBridge(logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		logger:  logger,
		pending: make(map[string]chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetHandler wires recognized utterances to the controller.
func (b *Bridge) SetHandler(h UtteranceHandler) {
	b.mu.Lock()
	b.handler = h
	b.mu.Unlock()
}

// Connected reports whether a browser is attached.
func (b *Bridge) Connected() bool {
	return b.client() != nil
}

// Capabilities reports what the attached browser announced.
func (b *Bridge) Capabilities() (recognition, synthesis bool) {
	cl := b.client()
	if cl == nil {
		return false, false
	}
	return cl.caps()
}

func (b *Bridge) client() *client {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// ServeHTTP upgrades to a websocket and runs the read loop until the browser goes away.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("ws upgrade error", zap.Error(err))
		return
	}
	cl := &client{conn: conn, done: make(chan struct{})}

	b.mu.Lock()
	previous := b.current
	b.current = cl
	b.mu.Unlock()
	if previous != nil {
		b.logger.Info("voice client replaced")
		_ = previous.conn.Close()
	}
	b.logger.Info("voice client connected", zap.String("remote", r.RemoteAddr))

	defer func() {
		close(cl.done)
		_ = conn.Close()
		b.mu.Lock()
		if b.current == cl {
			b.current = nil
		}
		b.mu.Unlock()
		b.logger.Info("voice client disconnected")
	}()

	for {
		_, data, rerr := conn.ReadMessage()
		if rerr != nil {
			return
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil {
			_ = cl.write(Frame{Type: "error", Error: "invalid frame"})
			continue
		}
		b.dispatch(cl, f)
	}
}

func (b *Bridge) dispatch(cl *client, f Frame) {
	switch strings.ToLower(f.Type) {
	case "hello":
		cl.capMu.Lock()
		cl.recognition, cl.synthesis = f.Recognition, f.Synthesis
		cl.capMu.Unlock()
		b.logger.Info("voice capabilities", zap.Bool("recognition", f.Recognition), zap.Bool("synthesis", f.Synthesis))
	case "spoken":
		b.mu.Lock()
		ch, ok := b.pending[f.ID]
		delete(b.pending, f.ID)
		b.mu.Unlock()
		if ok {
			close(ch)
		}
	case "utterance":
		b.mu.Lock()
		h := b.handler
		if h == nil || b.ctx.Err() != nil {
			b.mu.Unlock()
			return
		}
		b.handlers.Add(1)
		b.mu.Unlock()
		text := f.Text
		go func() {
			defer b.handlers.Done()
			err := h.HandleUtterance(b.ctx, text)
			switch {
			case errors.Is(err, agent.ErrBusy):
				_ = cl.write(Frame{Type: "busy", Text: text})
			case err != nil:
				_ = cl.write(Frame{Type: "error", Error: err.Error()})
			}
		}()
	default:
		b.logger.Debug("ignoring voice frame", zap.String("type", f.Type))
	}
}

// Speak asks the browser to speak text and waits for its playback-ended notice.
// Without a browser or synthesis support it returns immediately.
func (b *Bridge) Speak(ctx context.Context, text string) error {
	cl := b.client()
	if cl == nil {
		return nil
	}
	if _, synthesis := cl.caps(); !synthesis {
		return nil
	}
	id := uuid.NewString()
	ended := make(chan struct{})
	b.mu.Lock()
	b.pending[id] = ended
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	if err := cl.write(Frame{Type: "speak", ID: id, Text: text}); err != nil {
		return err
	}
	select {
	case <-ended:
		return nil
	case <-cl.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Arm asks the browser for one non-continuous recognition session.
func (b *Bridge) Arm(ctx context.Context) error {
	cl := b.client()
	if cl == nil {
		return nil
	}
	if recognition, _ := cl.caps(); !recognition {
		return nil
	}
	return cl.write(Frame{Type: "listen"})
}

// StateChanged pushes the controller state to the browser.
func (b *Bridge) StateChanged(state agent.State) {
	b.push(Frame{Type: "state", State: string(state)})
}

// TranscriptChanged pushes the full transcript to the browser.
func (b *Bridge) TranscriptChanged(msgs []transcript.Message) {
	b.push(Frame{Type: "transcript", Messages: msgs})
}

func (b *Bridge) push(f Frame) {
	cl := b.client()
	if cl == nil {
		return
	}
	if err := cl.write(f); err != nil {
		b.logger.Debug("voice push failed", zap.String("type", f.Type), zap.Error(err))
	}
}

// Close drops the browser connection and waits for in-flight utterance handlers.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.cancel()
	b.mu.Unlock()
	if cl := b.client(); cl != nil {
		_ = cl.conn.Close()
	}
	b.handlers.Wait()
}
