package internal

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/olimci/cordova-dev/pkg/events"
)

// NewLogger returns the logger operations report through. Debug events are
// only shown when debug is set.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Level: log.InfoLevel,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = levelStyle("DEBU", "#6c7086")
	styles.Levels[log.InfoLevel] = levelStyle("INFO", "#89b4fa")
	styles.Levels[log.WarnLevel] = levelStyle("WARN", "#f9e2af")
	styles.Levels[log.ErrorLevel] = levelStyle("ERRO", "#f38ba8")
	styles.Prefix = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	logger.SetStyles(styles)

	return logger
}

func levelStyle(label, color string) lipgloss.Style {
	return lipgloss.NewStyle().
		SetString(label).
		Bold(true).
		MaxWidth(4).
		Foreground(lipgloss.Color(color))
}

// LogHandler renders events through a charmbracelet logger, prefixed with
// the task that raised them.
type LogHandler struct {
	logger *log.Logger
}

func NewLogHandler(logger *log.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

func (h *LogHandler) Handle(event events.Event) {
	logger := h.logger
	if event.Task != "" {
		logger = logger.WithPrefix(event.Task)
	}

	var kv []any
	if event.Error != nil {
		kv = append(kv, "err", event.Error)
	}

	switch event.Level {
	case events.Debug:
		logger.Debug(event.Message, kv...)
	case events.Info:
		logger.Info(event.Message, kv...)
	case events.Warn:
		logger.Warn(event.Message, kv...)
	default:
		logger.Error(event.Message, kv...)
	}
}
