package safety

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrNilWriter is returned by AuditLogger.Log when the logger was
// constructed with a nil writer.
var ErrNilWriter = errors.New("audit logger: writer is nil")

// AuditEntry captures one MCP tool invocation against the Nebulon
// infrastructure: which tool ran, the parameters it was given, and how it
// ended. Handlers strip credential values before logging, so Params never
// carries a password.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Tool      string         `json:"tool"`
	Params    map[string]any `json:"params"`
	Result    string         `json:"result"`
	Duration  time.Duration  `json:"duration_ns"`
}

// AuditLogger appends AuditEntry records as newline-delimited JSON,
// one line per invocation. It is safe for concurrent use.
type AuditLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewAuditLogger returns an AuditLogger that writes to w. If w is nil the
// returned logger is also nil; a nil logger is accepted by the tool
// helpers and simply discards entries.
func NewAuditLogger(w io.Writer) *AuditLogger {
	if w == nil {
		return nil
	}
	return &AuditLogger{w: w}
}

// Log serialises entry as a single JSON line and writes it to the
// underlying writer. Each entry is written in one Write call so concurrent
// invocations never interleave within a line.
func (l *AuditLogger) Log(entry AuditEntry) error {
	if l == nil || l.w == nil {
		return ErrNilWriter
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	l.mu.Lock()
	_, err = l.w.Write(line)
	l.mu.Unlock()

	return err
}
