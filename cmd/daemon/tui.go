package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/musicbridge/internal/bridge"
	"github.com/genricoloni/musicbridge/internal/commands"
	"github.com/genricoloni/musicbridge/internal/engine"
	"github.com/genricoloni/musicbridge/internal/executor"
	"github.com/genricoloni/musicbridge/internal/scripts"
	"github.com/genricoloni/musicbridge/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show the player in the terminal",
	Args:  cobra.NoArgs,
	RunE:  tuiRun,
}

// tuiLogger keeps the terminal clean: logs go to a file in debug mode and nowhere otherwise
func tuiLogger() (*zap.Logger, error) {
	if !cfg.Debug {
		return zap.NewNop(), nil
	}
	zc := zap.NewDevelopmentConfig()
	zc.OutputPaths = []string{"musicbridge-tui.log"}
	zc.ErrorOutputPaths = []string{"musicbridge-tui.log"}
	return zc.Build()
}

func tuiRun(cmd *cobra.Command, args []string) (err error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	logger, err := tuiLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dialect, err := scripts.New(cfg.Dialect, cfg.App)
	if err != nil {
		return err
	}
	runner := executor.NewFromDialect(logger.Named("executor"), dialect, cfg)
	b := bridge.NewBridge(logger.Named("bridge"), runner, dialect, cfg)

	view := tui.NewSurface(logger.Named("terminal"))
	dispatcher := commands.NewDispatcher(logger.Named("commands"), b, view)
	scheduler := engine.NewScheduler(logger.Named("scheduler"), b, cfg)

	program := tea.NewProgram(tui.NewModel(logger, dispatcher, scheduler, cfg), tea.WithAltScreen())
	view.Attach(program)

	if err := scheduler.Start(context.Background()); err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, scheduler.Stop(context.Background()))
	}()
	scheduler.Register(view, engine.KindLive)

	_, err = program.Run()
	return err
}
