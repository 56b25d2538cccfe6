//go:build !windows
// +build !windows

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

const (
	shellPath = "/bin/sh"
	// waitDelay bounds how long we keep reading pipes after the process was killed
	waitDelay = 500 * time.Millisecond
)

// ScriptExecutor evaluates scripts through an external interpreter, one process per call
type ScriptExecutor struct {
	logger      *zap.Logger
	interpreter string
	flag        string
	timeout     time.Duration
}

// NewExecutor creates an executor for the given interpreter command
func NewExecutor(logger *zap.Logger, interpreter, flag string, timeout time.Duration) *ScriptExecutor {
	if _, err := exec.LookPath(interpreter); err != nil {
		// Not fatal: every call will fail and be reported as empty output
		logger.Warn("Script interpreter not found in PATH",
			zap.String("interpreter", interpreter),
			zap.Error(err))
	} else {
		logger.Info("Script interpreter detected", zap.String("interpreter", interpreter))
	}

	return &ScriptExecutor{
		logger:      logger,
		interpreter: interpreter,
		flag:        flag,
		timeout:     timeout,
	}
}

// NewFromDialect creates an executor for the dialect's interpreter
func NewFromDialect(logger *zap.Logger, dialect domain.Dialect, cfg domain.Config) *ScriptExecutor {
	return NewExecutor(logger, dialect.Interpreter(), dialect.Flag(), cfg.GetScriptTimeout())
}

// Run executes the script and returns its trimmed output.
// Failures are logged and reported as an empty string.
func (e *ScriptExecutor) Run(ctx context.Context, script string) string {
	out, err := e.Execute(ctx, script)
	if err != nil {
		e.logger.Warn("Script execution failed",
			zap.String("interpreter", e.interpreter),
			zap.String("script", summarize(script)),
			zap.Error(err))
		return ""
	}
	return out
}

// Execute executes the script and keeps the failure as an error
func (e *ScriptExecutor) Execute(ctx context.Context, script string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	line := CommandLine(e.interpreter, e.flag, script)

	cmd := exec.CommandContext(ctx, shellPath, "-c", line)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return "", fmt.Errorf("%w: %v (stderr: %s)", ErrScriptFailed, err, strings.TrimSpace(stderr.String()))
	}

	e.logger.Debug("Script executed",
		zap.String("script", summarize(script)),
		zap.Duration("took", time.Since(start)))

	return strings.TrimSpace(stdout.String()), nil
}
