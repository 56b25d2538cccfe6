package commands

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/musicbridge/internal/bridge"
	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/domain/mocks"
	"github.com/genricoloni/musicbridge/internal/scripts"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// mockConfig is a simple mock implementation of domain.Config for testing
type mockConfig struct{}

func (mockConfig) GetStatusInterval() time.Duration { return 5 * time.Second }
func (mockConfig) GetPanelInterval() time.Duration  { return 2 * time.Second }
func (mockConfig) GetScriptTimeout() time.Duration  { return time.Second }
func (mockConfig) GetMaxTextLength() int            { return 50 }
func (mockConfig) GetFallbackLabel() string         { return "🎵 Apple Music" }
func (mockConfig) GetListenAddr() string            { return "127.0.0.1:0" }
func (mockConfig) GetArtworkDir() string            { return "/tmp/musicbridge-test" }
func (mockConfig) GetArtworkSize() int              { return 64 }

// recordingPresenter keeps everything it was asked to show
type recordingPresenter struct {
	warnings  []string
	titles    []string
	documents []string
}

func (p *recordingPresenter) ShowWarning(message string) {
	p.warnings = append(p.warnings, message)
}

func (p *recordingPresenter) ShowDocument(title, html string) {
	p.titles = append(p.titles, title)
	p.documents = append(p.documents, html)
}

var dialect = &scripts.AppleScript{App: "Music"}

func newTestDispatcher(runner domain.ScriptRunner) (*Dispatcher, *bridge.Bridge, *recordingPresenter) {
	b := bridge.NewBridge(zap.NewNop(), runner, dialect, mockConfig{})
	presenter := &recordingPresenter{}
	return NewDispatcher(zap.NewNop(), b, presenter), b, presenter
}

func TestInvoke_ControlCommands(t *testing.T) {
	tests := []struct {
		command domain.CommandName
		expect  func(r *mocks.MockScriptRunner)
	}{
		{domain.CommandTogglePlayPause, func(r *mocks.MockScriptRunner) {
			r.EXPECT().Run(gomock.Any(), dialect.PlayPause()).Return("")
		}},
		{domain.CommandNextTrack, func(r *mocks.MockScriptRunner) {
			r.EXPECT().Run(gomock.Any(), dialect.NextTrack()).Return("")
		}},
		{domain.CommandPreviousTrack, func(r *mocks.MockScriptRunner) {
			r.EXPECT().Run(gomock.Any(), dialect.PreviousTrack()).Return("")
		}},
		{domain.CommandVolumeUp, func(r *mocks.MockScriptRunner) {
			gomock.InOrder(
				r.EXPECT().Run(gomock.Any(), dialect.GetVolume()).Return("40"),
				r.EXPECT().Run(gomock.Any(), dialect.SetVolume(45)).Return(""),
			)
		}},
		{domain.CommandVolumeDown, func(r *mocks.MockScriptRunner) {
			gomock.InOrder(
				r.EXPECT().Run(gomock.Any(), dialect.GetVolume()).Return("40"),
				r.EXPECT().Run(gomock.Any(), dialect.SetVolume(35)).Return(""),
			)
		}},
		{domain.CommandToggleMute, func(r *mocks.MockScriptRunner) {
			gomock.InOrder(
				r.EXPECT().Run(gomock.Any(), dialect.GetVolume()).Return("40"),
				r.EXPECT().Run(gomock.Any(), dialect.SetVolume(0)).Return(""),
			)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.command), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			runner := mocks.NewMockScriptRunner(ctrl)
			tt.expect(runner)

			d, b, _ := newTestDispatcher(runner)
			if err := d.Invoke(context.Background(), tt.command); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			select {
			case <-b.Changes():
			default:
				t.Error("control command should emit a change")
			}
		})
	}
}

func TestInvoke_UnknownCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	d, _, _ := newTestDispatcher(mocks.NewMockScriptRunner(ctrl))

	err := d.Invoke(context.Background(), "selfDestruct")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestInvoke_ShowNowPlaying(t *testing.T) {
	t.Run("No track warns", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockScriptRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), dialect.TrackInfo()).Return("")

		d, b, presenter := newTestDispatcher(runner)
		if err := d.Invoke(context.Background(), domain.CommandShowNowPlaying); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(presenter.warnings) != 1 || presenter.warnings[0] != NoTrackWarning {
			t.Errorf("expected one warning, got %v", presenter.warnings)
		}
		if len(presenter.documents) != 0 {
			t.Error("no document expected")
		}
		if len(b.Changes()) != 0 {
			t.Error("showNowPlaying must not emit a change")
		}
	})

	t.Run("Track opens document", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		runner := mocks.NewMockScriptRunner(ctrl)
		runner.EXPECT().Run(gomock.Any(), dialect.TrackInfo()).Return("Daft Punk|One More Time|Discovery|HAS_ART")

		d, _, presenter := newTestDispatcher(runner)
		if err := d.Invoke(context.Background(), domain.CommandShowNowPlaying); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(presenter.titles) != 1 || presenter.titles[0] != "Now Playing" {
			t.Fatalf("expected a Now Playing document, got %v", presenter.titles)
		}
		for _, want := range []string{"One More Time", "Daft Punk", "Discovery"} {
			if !strings.Contains(presenter.documents[0], want) {
				t.Errorf("document missing %q", want)
			}
		}
		if len(presenter.warnings) != 0 {
			t.Error("no warning expected")
		}
	})
}

func TestParse(t *testing.T) {
	for _, c := range domain.Commands() {
		got, err := Parse(string(c))
		if err != nil || got != c {
			t.Errorf("Parse(%q) = %q, %v", c, got, err)
		}
	}
	if _, err := Parse("NextTrack"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("command names are case sensitive, got %v", err)
	}
}
