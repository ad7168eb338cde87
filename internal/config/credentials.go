package config

import (
	"strings"
	"sync"
)

// Credentials combines the statically resolved key with a runtime-entered dev key.
// The dev key lives only in memory.
type Credentials struct {
	static string

	mu  sync.RWMutex
	dev string
}

func NewCredentials(static string) *Credentials {
	return &Credentials{static: strings.TrimSpace(static)}
}

// SetDevKey replaces the runtime-entered key. An empty value clears it.
func (c *Credentials) SetDevKey(key string) {
	c.mu.Lock()
	c.dev = strings.TrimSpace(key)
	c.mu.Unlock()
}

// HasStatic reports whether a key was resolved at startup.
func (c *Credentials) HasStatic() bool { return c.static != "" }

// HasDev reports whether a runtime key has been entered.
func (c *Credentials) HasDev() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dev != ""
}

// EffectiveKey returns the static key if set, otherwise the dev key.
func (c *Credentials) EffectiveKey() string {
	if c.static != "" {
		return c.static
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dev
}
