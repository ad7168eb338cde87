// Package transcript holds the ordered, append-only interview conversation.
package transcript

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Role tags a message with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is one transcript entry.
type Message struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Store is an append-only message sequence. The only removal is Clear.
type Store struct {
	seed   string
	reseed bool

	mu   sync.RWMutex
	msgs []Message
}

// NewStore starts the transcript with one system message carrying seed.
// When reseed is true, Clear restores that system message; otherwise Clear empties the store.
func NewStore(seed string, reseed bool) *Store {
	s := &Store{seed: seed, reseed: reseed}
	s.msgs = s.initial()
	return s
}

func (s *Store) initial() []Message {
	return []Message{{ID: uuid.NewString(), Role: RoleSystem, Text: s.seed}}
}

// Append adds a message at the end and returns it.
func (s *Store) Append(role Role, text string) Message {
	m := Message{ID: uuid.NewString(), Role: role, Text: text}
	s.mu.Lock()
	s.msgs = append(s.msgs, m)
	s.mu.Unlock()
	return m
}

// Messages returns a copy of the sequence in conversational order.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.msgs))
	copy(out, s.msgs)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}

// Clear drops every message, reseeding the system message if configured.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reseed {
		s.msgs = s.initial()
		return
	}
	s.msgs = nil
}

// Render formats the transcript as "ROLE: text" lines.
func (s *Store) Render() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	for i, m := range s.msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.ToUpper(string(m.Role)))
		b.WriteString(": ")
		b.WriteString(m.Text)
	}
	return b.String()
}
