package executor

import (
	"errors"
	"strings"
)

var (
	// ErrScriptFailed is returned when the interpreter exits unsuccessfully or cannot be started
	ErrScriptFailed = errors.New("script execution failed")
	// ErrTimeout is returned when the interpreter does not finish within the configured timeout
	ErrTimeout = errors.New("script execution timed out")
)

// Quote wraps a script in single quotes for a POSIX shell command line.
// Embedded single quotes close the quoting, add an escaped literal quote and reopen it.
func Quote(script string) string {
	return "'" + strings.ReplaceAll(script, "'", `'"'"'`) + "'"
}

// CommandLine builds the shell command evaluating script with interpreter
func CommandLine(interpreter, flag, script string) string {
	var b strings.Builder
	b.WriteString(interpreter)
	if flag != "" {
		b.WriteByte(' ')
		b.WriteString(flag)
	}
	b.WriteByte(' ')
	b.WriteString(Quote(script))
	return b.String()
}

// summarize returns the first meaningful line of a script for log output
func summarize(script string) string {
	const maxLen = 60
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "tell application") {
			continue
		}
		if len(line) > maxLen {
			return line[:maxLen] + "..."
		}
		return line
	}
	return ""
}
