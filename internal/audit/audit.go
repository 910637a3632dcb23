package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event is one tool/prompt/resource invocation, written as a JSON line.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category"`
	Name       string    `json:"name"`
	Toolset    string    `json:"toolset,omitempty"`
	Outcome    string    `json:"outcome"`
	DurationMS int64     `json:"durationMs,omitempty"`
	Error      string    `json:"error,omitempty"`
}

type Logger struct {
	out io.Writer
	mu  sync.Mutex
}

func NewLogger(out io.Writer) *Logger {
	if out == nil {
		out = io.Discard
	}
	return &Logger{out: out}
}

func (l *Logger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = l.out.Write(append(data, '\n'))
}
