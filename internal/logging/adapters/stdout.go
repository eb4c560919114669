package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"applyflow/internal/logging/types"
)

// ANSI codes for the text format
var levelColors = map[string]string{
	"DEBUG": "\033[90m",
	"INFO":  "\033[34m",
	"WARN":  "\033[33m",
	"ERROR": "\033[31m",
	"FATAL": "\033[31m",
}

const colorReset = "\033[0m"

// StdoutAdapter writes entries to stdout as JSON lines or colorized text
type StdoutAdapter struct {
	name      string
	format    string
	colorized bool
	mu        sync.Mutex
}

// StdoutConfig configures the stdout adapter
type StdoutConfig struct {
	Format    string `yaml:"format"`    // json or text
	Colorized bool   `yaml:"colorized"` // ANSI colors in text format
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name string, config StdoutConfig) *StdoutAdapter {
	return &StdoutAdapter{
		name:      name,
		format:    config.Format,
		colorized: config.Colorized,
	}
}

func (a *StdoutAdapter) Write(entry *types.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var line string
	if strings.EqualFold(a.format, "text") {
		line = a.textLine(entry)
	} else {
		encoded, err := a.jsonLine(entry)
		if err != nil {
			return fmt.Errorf("failed to format log entry: %w", err)
		}
		line = encoded
	}

	_, err := fmt.Fprintln(os.Stdout, line)
	return err
}

func (a *StdoutAdapter) Close() error {
	return nil
}

func (a *StdoutAdapter) Health() error {
	return nil
}

func (a *StdoutAdapter) Name() string {
	return a.name
}

func (a *StdoutAdapter) jsonLine(entry *types.LogEntry) (string, error) {
	record := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		record[k] = v
	}
	record["level"] = entry.Level.String()
	record["message"] = entry.Message
	record["time"] = entry.Timestamp.Format(time.RFC3339)

	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// textLine renders "timestamp [LEVEL] message k=v ..." with fields in
// stable key order.
func (a *StdoutAdapter) textLine(entry *types.LogEntry) string {
	level := strings.ToUpper(entry.Level.String())
	if a.colorized {
		if color, ok := levelColors[level]; ok {
			level = color + level + colorReset
		}
	}

	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"))
	b.WriteString(" [")
	b.WriteString(level)
	b.WriteString("] ")
	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
		}
	}
	return b.String()
}
