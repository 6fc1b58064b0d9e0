package scaffold

import "github.com/olimci/cordova-dev/pkg/events"

func defaultOptions() *options {
	return &options{
		variables: make(map[string]any),
		report:    events.NewReporter("scaffold", nil),
	}
}

type options struct {
	variables map[string]any
	report    events.Reporter
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Option func(o *options)

func WithVariables(vars *Variables) Option {
	return func(o *options) {
		if vars != nil {
			o.variables = vars.ToMap()
		}
	}
}

func WithEventHandler(h events.Handler) Option {
	return func(o *options) {
		o.report = events.NewReporter("scaffold", h)
	}
}
