// Package notify is a best-effort toast channel. Nothing in the engine
// depends on a listener being present; a toast that nobody hears is fine.
package notify

import "github.com/google/uuid"

// Level grades a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// Toast is one user-facing notification.
type Toast struct {
	ID      uuid.UUID
	Level   Level
	Message string
}

// Channel fans toasts out to registered listeners.
type Channel struct {
	listeners map[int]func(Toast)
	next      int
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	return &Channel{listeners: make(map[int]func(Toast))}
}

// Listen registers fn for future toasts. The returned func unregisters it.
func (c *Channel) Listen(fn func(Toast)) (cancel func()) {
	id := c.next
	c.next++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// Post delivers a toast to every listener. Safe on a nil channel.
func (c *Channel) Post(level Level, message string) {
	if c == nil {
		return
	}
	t := Toast{ID: uuid.New(), Level: level, Message: message}
	for _, fn := range c.listeners {
		fn(t)
	}
}
