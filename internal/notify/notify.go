// Package notify holds transient user-facing feedback: success and error
// toasts that auto-dismiss after a fixed delay and can be dismissed by hand.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the visual weight of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// DefaultTTL is how long a notification stays up before auto-dismissing.
const DefaultTTL = 5 * time.Second

// Notification is one transient message.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Center collects active notifications.
type Center struct {
	mu     sync.Mutex
	items  []Notification
	ttl    time.Duration
	timers map[string]*time.Timer
}

// NewCenter creates a center with the given auto-dismiss delay; zero means
// DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, timers: map[string]*time.Timer{}}
}

// Push adds a notification and schedules its auto-dismissal.
func (c *Center) Push(level Level, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	c.mu.Unlock()

	return n
}

// Success pushes a success toast.
func (c *Center) Success(message string) Notification {
	return c.Push(LevelSuccess, message)
}

// Error pushes an error toast.
func (c *Center) Error(message string) Notification {
	return c.Push(LevelError, message)
}

// Dismiss removes a notification by id. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Active returns the notifications currently showing, oldest first.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}
