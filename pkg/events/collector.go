package events

import (
	"slices"
	"sync"
)

// Collector records every event and optionally forwards it.
type Collector struct {
	mu      sync.Mutex
	events  []Event
	handler Handler
}

func NewCollector(handler Handler) *Collector {
	if handler == nil {
		handler = NewNoopHandler()
	}
	return &Collector{handler: handler}
}

func (c *Collector) Handle(event Event) {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	c.handler.Handle(event)
}

func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.events)
}

func (c *Collector) AtLevel(level Level) []Event {
	out := make([]Event, 0)
	for _, event := range c.Events() {
		if event.Level >= level {
			out = append(out, event)
		}
	}
	return out
}

func (c *Collector) Messages() []string {
	events := c.Events()
	out := make([]string, len(events))
	for i, event := range events {
		out[i] = event.Message
	}
	return out
}

func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
