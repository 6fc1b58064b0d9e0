package events

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(event Event)

func (h HandlerFunc) Handle(event Event) {
	h(event)
}

func NewNoopHandler() *NoopHandler {
	return &NoopHandler{}
}

type NoopHandler struct{}

func (h *NoopHandler) Handle(event Event) {}
