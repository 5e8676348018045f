package helpers

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RunLog appends analysis lifecycle lines to a rotating log file under the
// state directory. It is best-effort: write failures never surface to the
// analysis workflow.
type RunLog struct {
	mu     sync.Mutex
	writer *lumberjack.Logger
}

// NewRunLog creates a run log writing to the given file path
func NewRunLog(path string) *RunLog {
	return &RunLog{
		writer: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     30, // days
		},
	}
}

// Write appends one stage line with a timestamp
func (l *RunLog) Write(stage, message string) {
	if l == nil || l.writer == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format("2006-01-02 15:04:05"), stage, message)
	_, _ = l.writer.Write([]byte(line))
}

// Close closes the underlying log file
func (l *RunLog) Close() error {
	if l == nil || l.writer == nil {
		return nil
	}
	return l.writer.Close()
}
