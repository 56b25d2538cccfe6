//go:build !windows
// +build !windows

package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "''"},
		{"plain", "'plain'"},
		{"it's", `'it'"'"'s'`},
		{"''", `''"'"''"'"''`},
		{"a \"b\" c", `'a "b" c'`},
	}

	for _, tt := range tests {
		if got := Quote(tt.input); got != tt.expected {
			t.Errorf("Quote(%q): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestCommandLine(t *testing.T) {
	if got := CommandLine("osascript", "-e", "beep"); got != "osascript -e 'beep'" {
		t.Errorf("unexpected command line: %s", got)
	}
	if got := CommandLine("cat", "", "x"); got != "cat 'x'" {
		t.Errorf("unexpected command line without flag: %s", got)
	}
}

// TestExecute_QuotingRoundTrip verifies that the script reaches the interpreter byte for byte.
// printf plays the interpreter role and echoes its argument back.
func TestExecute_QuotingRoundTrip(t *testing.T) {
	scripts := []string{
		"simple",
		"tell application \"Music\" to playpause",
		"it's a 'quoted' script",
		"line one\nline two | with pipe",
		"$HOME `uname` ; rm -rf /nothing",
	}

	exec := NewExecutor(zap.NewNop(), "printf", "%s", 2*time.Second)

	for _, script := range scripts {
		out, err := exec.Execute(context.Background(), script)
		if err != nil {
			t.Fatalf("Execute(%q) unexpected error: %v", script, err)
		}
		if out != strings.TrimSpace(script) {
			t.Errorf("round trip mismatch: want %q, got %q", script, out)
		}
	}
}

func TestExecute_TrimsOutput(t *testing.T) {
	exec := NewExecutor(zap.NewNop(), "printf", "%s", 2*time.Second)
	out, err := exec.Execute(context.Background(), "  playing \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "playing" {
		t.Errorf("expected trimmed output, got %q", out)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name        string
		interpreter string
		flag        string
		script      string
		timeout     time.Duration
		wantErr     error
	}{
		{
			name:        "Non-zero exit",
			interpreter: "false",
			script:      "ignored",
			timeout:     2 * time.Second,
			wantErr:     ErrScriptFailed,
		},
		{
			name:        "Missing interpreter",
			interpreter: "musicbridge-definitely-not-installed",
			flag:        "-e",
			script:      "ignored",
			timeout:     2 * time.Second,
			wantErr:     ErrScriptFailed,
		},
		{
			name:        "Timeout",
			interpreter: "sleep",
			script:      "5",
			timeout:     100 * time.Millisecond,
			wantErr:     ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			exec := NewExecutor(zap.New(core), tt.interpreter, tt.flag, tt.timeout)

			_, err := exec.Execute(context.Background(), tt.script)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute error: want %v, got %v", tt.wantErr, err)
			}

			start := time.Now()
			out := exec.Run(context.Background(), tt.script)
			if out != "" {
				t.Errorf("Run should swallow failures, got %q", out)
			}
			if elapsed := time.Since(start); elapsed > 3*time.Second {
				t.Errorf("Run took too long: %v", elapsed)
			}

			if logs.FilterMessage("Script execution failed").Len() != 1 {
				t.Errorf("expected one failure log entry, got %d", logs.FilterMessage("Script execution failed").Len())
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	script := `
		tell application "Music"
			return player state as string
		end tell
	`
	if got := summarize(script); got != "return player state as string" {
		t.Errorf("unexpected summary: %q", got)
	}
	if got := summarize(strings.Repeat("x", 100)); len(got) != 63 {
		t.Errorf("expected truncated summary, got %d chars", len(got))
	}
	if got := summarize("   "); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}
