//go:build windows
// +build windows

package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

// ScriptExecutor is a placeholder for Windows, where neither osascript nor playerctl exist
type ScriptExecutor struct {
	logger *zap.Logger
}

// NewExecutor creates a stub executor
func NewExecutor(logger *zap.Logger, interpreter, flag string, timeout time.Duration) *ScriptExecutor {
	logger.Warn("Script execution is not implemented for Windows, the player will always look idle")
	return &ScriptExecutor{logger: logger}
}

// NewFromDialect creates a stub executor
func NewFromDialect(logger *zap.Logger, dialect domain.Dialect, cfg domain.Config) *ScriptExecutor {
	return NewExecutor(logger, dialect.Interpreter(), dialect.Flag(), cfg.GetScriptTimeout())
}

// Run always returns an empty string
func (e *ScriptExecutor) Run(ctx context.Context, script string) string {
	return ""
}

// Execute always fails
func (e *ScriptExecutor) Execute(ctx context.Context, script string) (string, error) {
	return "", fmt.Errorf("%w: not supported on windows", ErrScriptFailed)
}
