package events

import "fmt"

type Level uint8

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warn:
		return "W"
	case Error:
		return "E"
	default:
		return "X"
	}
}

// Event is a single progress report from an operation. Task names the
// operation that raised it, e.g. "sync" or "android:build".
type Event struct {
	Level   Level
	Task    string
	Message string
	Error   error
}

func (e Event) String() string {
	s := e.Message
	if e.Task != "" {
		s = fmt.Sprintf("[%s] %s", e.Task, s)
	}
	if e.Error != nil {
		s = fmt.Sprintf("%s: %v", s, e.Error)
	}
	return s
}

type Handler interface {
	Handle(event Event)
}

// Reporter stamps events with a task name before handing them on.
type Reporter struct {
	Task    string
	Handler Handler
}

func NewReporter(task string, handler Handler) Reporter {
	if handler == nil {
		handler = NewNoopHandler()
	}
	return Reporter{Task: task, Handler: handler}
}

func (r Reporter) emit(level Level, message string, err error) {
	r.Handler.Handle(Event{
		Level:   level,
		Task:    r.Task,
		Message: message,
		Error:   err,
	})
}

func (r Reporter) Debugf(format string, args ...any) {
	r.emit(Debug, fmt.Sprintf(format, args...), nil)
}

func (r Reporter) Infof(format string, args ...any) {
	r.emit(Info, fmt.Sprintf(format, args...), nil)
}

func (r Reporter) Warnf(format string, args ...any) {
	r.emit(Warn, fmt.Sprintf(format, args...), nil)
}

func (r Reporter) Errorf(err error, format string, args ...any) {
	r.emit(Error, fmt.Sprintf(format, args...), err)
}
