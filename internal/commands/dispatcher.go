package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/surface"
	"go.uber.org/zap"
)

// ErrUnknownCommand is returned for names outside the fixed command set
var ErrUnknownCommand = errors.New("unknown command")

// NoTrackWarning is shown by showNowPlaying when nothing is loaded
const NoTrackWarning = "No track is currently playing"

// Presenter shows user-facing output produced by commands
type Presenter interface {
	// ShowWarning displays a transient warning message
	ShowWarning(message string)
	// ShowDocument opens a titled HTML document
	ShowDocument(title, html string)
}

// Dispatcher routes inbound commands to the bridge
type Dispatcher struct {
	logger    *zap.Logger
	bridge    domain.Bridge
	presenter Presenter
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher(logger *zap.Logger, bridge domain.Bridge, presenter Presenter) *Dispatcher {
	return &Dispatcher{
		logger:    logger,
		bridge:    bridge,
		presenter: presenter,
	}
}

// Parse validates a raw command name
func Parse(name string) (domain.CommandName, error) {
	for _, c := range domain.Commands() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Invoke runs a command. Control commands cause the bridge to emit a change,
// which refreshes every registered surface.
func (d *Dispatcher) Invoke(ctx context.Context, name domain.CommandName) error {
	d.logger.Debug("Invoking command", zap.String("command", string(name)))

	switch name {
	case domain.CommandTogglePlayPause:
		d.bridge.TogglePlayPause(ctx)
	case domain.CommandNextTrack:
		d.bridge.NextTrack(ctx)
	case domain.CommandPreviousTrack:
		d.bridge.PreviousTrack(ctx)
	case domain.CommandVolumeUp:
		d.bridge.VolumeUp(ctx)
	case domain.CommandVolumeDown:
		d.bridge.VolumeDown(ctx)
	case domain.CommandToggleMute:
		d.bridge.ToggleMute(ctx)
	case domain.CommandShowNowPlaying:
		return d.showNowPlaying(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return nil
}

func (d *Dispatcher) showNowPlaying(ctx context.Context) error {
	track := d.bridge.TrackInfo(ctx)
	if track == nil {
		d.presenter.ShowWarning(NoTrackWarning)
		return nil
	}

	html, err := surface.NowPlayingDocument(*track)
	if err != nil {
		return fmt.Errorf("failed to show now playing: %w", err)
	}
	d.presenter.ShowDocument("Now Playing", html)
	return nil
}
