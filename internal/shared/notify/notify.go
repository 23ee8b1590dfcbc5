// Package notify delivers one-shot user notices (the toasts of the web
// client) to whatever sinks the process has configured.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a single user-facing message scoped to a session.
type Notice struct {
	SessionID string    `json:"sessionId"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

func NewNotice(sessionID string, level Level, message string) Notice {
	return Notice{SessionID: sessionID, Level: level, Message: message, At: time.Now().UTC()}
}

// Notifier accepts notices. Delivery failures are the sink's problem; callers
// never block on or react to them.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// Fanout forwards each notice to every non-nil sink in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, notice Notice) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, notice)
		}
	}
}

// Nop drops every notice.
type Nop struct{}

func (Nop) Notify(context.Context, Notice) {}

// LogNotifier writes notices to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	if n == nil || n.logger == nil {
		return
	}
	level := slog.LevelInfo
	if notice.Level == LevelError {
		level = slog.LevelWarn
	}
	n.logger.LogAttrs(ctx, level, "user notice",
		slog.String("session.id", notice.SessionID),
		slog.String("notice.level", string(notice.Level)),
		slog.String("notice.message", notice.Message),
	)
}

// WriterNotifier prints notices as lines, used by the CLI.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Notify(_ context.Context, notice Notice) {
	if n == nil || n.w == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "[%s] %s\n", notice.Level, notice.Message)
}
