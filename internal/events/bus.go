// Package events is a small named-event dispatcher for dashboard notifications.
package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	// SlideChanged is published with a SlideChange when the carousel moves.
	SlideChanged = "slideChange"
	// Resize is published with a Viewport when the output size changes.
	Resize = "resize"
)

// SlideChange names the newly active slide.
type SlideChange struct {
	CityID string `json:"city"`
	Index  int    `json:"index"`
}

// Viewport is the new output size in pixels.
type Viewport struct {
	Width  int `json:"width" validate:"required,gt=0"`
	Height int `json:"height" validate:"required,gt=0"`
}

// Handler receives an event payload.
type Handler func(payload any)

type subscription struct {
	id int
	h  Handler
}

// Bus dispatches events synchronously, in subscription order, on the
// publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscription
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{handlers: make(map[string][]subscription), logger: logger}
}

// Subscribe registers h for name and returns a function that removes it.
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, h: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[name]
		for i, s := range subs {
			if s.id == id {
				b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every handler registered for name and reports how many ran.
func (b *Bus) Publish(name string, payload any) int {
	b.mu.RLock()
	subs := b.handlers[name]
	b.mu.RUnlock()

	for _, s := range subs {
		s.h(payload)
	}
	return len(subs)
}

// OnSlideChange subscribes h to SlideChanged events.
func (b *Bus) OnSlideChange(h func(SlideChange)) (unsubscribe func()) {
	return subscribeAs(b, SlideChanged, h)
}

// OnResize subscribes h to Resize events.
func (b *Bus) OnResize(h func(Viewport)) (unsubscribe func()) {
	return subscribeAs(b, Resize, h)
}

func (b *Bus) PublishSlideChange(ev SlideChange) int { return b.Publish(SlideChanged, ev) }

func (b *Bus) PublishResize(vp Viewport) int { return b.Publish(Resize, vp) }

// subscribeAs wraps a typed handler. A payload of any other type is logged
// and not delivered.
func subscribeAs[T any](b *Bus, name string, h func(T)) func() {
	return b.Subscribe(name, func(payload any) {
		v, ok := payload.(T)
		if !ok {
			var want T
			b.logger.Warn("event payload has unexpected type",
				zap.String("event", name),
				zap.String("want", fmt.Sprintf("%T", want)),
				zap.String("got", fmt.Sprintf("%T", payload)))
			return
		}
		h(v)
	})
}
