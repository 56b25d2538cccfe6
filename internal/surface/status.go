package surface

import (
	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

const (
	ellipsis      = "..."
	playingLabel  = "🎵 Playing..."
	playingGlyph  = "▶️"
	pausedGlyph   = "⏸️"
	pauseIcon     = "debug-pause"
	playIcon      = "play"
	mutedIcon     = "mute"
	unmutedIcon   = "unmute"
	statusTooltip = "Click for full track info"
	minTextLength = 4
)

// StatusView is the rendered status strip
type StatusView struct {
	// Text is the glyph plus "artist - name", or a fallback label
	Text string `json:"text"`
	// Tooltip describes the strip action
	Tooltip string `json:"tooltip"`
	// Command runs when the strip is clicked
	Command domain.CommandName `json:"command"`
	// PlayPauseIcon is the icon of the play/pause button
	PlayPauseIcon string `json:"playPauseIcon"`
	// MuteIcon is the icon of the mute button
	MuteIcon string `json:"muteIcon"`
	// Accent is the per-track theme
	Accent domain.Accent `json:"accent"`
}

// StatusStrip renders a one-line summary of the player
type StatusStrip struct {
	publisher[StatusView]

	logger    *zap.Logger
	accents   *AccentCache
	maxLength int
	fallback  string
}

// NewStatusStrip creates a status strip surface
func NewStatusStrip(logger *zap.Logger, cfg domain.Config) *StatusStrip {
	maxLength := cfg.GetMaxTextLength()
	if maxLength < minTextLength {
		maxLength = minTextLength
	}
	return &StatusStrip{
		logger:    logger,
		accents:   NewAccentCache(),
		maxLength: maxLength,
		fallback:  cfg.GetFallbackLabel(),
	}
}

// Name implements domain.Surface
func (s *StatusStrip) Name() string { return "status" }

// Render implements domain.Surface
func (s *StatusStrip) Render(snapshot domain.PlayerSnapshot) {
	view := StatusView{
		Text:          s.text(snapshot),
		Tooltip:       statusTooltip,
		Command:       domain.CommandShowNowPlaying,
		PlayPauseIcon: playIcon,
		MuteIcon:      unmutedIcon,
		Accent:        s.accents.Accent(snapshot),
	}
	if snapshot.State == domain.StatePlaying {
		view.PlayPauseIcon = pauseIcon
	}
	if snapshot.IsMuted() {
		view.MuteIcon = mutedIcon
	}

	s.logger.Debug("Status strip rendered", zap.String("text", view.Text), zap.String("accent", view.Accent.Name))
	s.publish(view)
}

func (s *StatusStrip) text(snapshot domain.PlayerSnapshot) string {
	track := snapshot.Track
	if track != nil && track.Artist != "" && track.Name != "" {
		glyph := pausedGlyph
		if snapshot.State == domain.StatePlaying {
			glyph = playingGlyph
		}
		return Truncate(glyph+" "+track.Artist+" - "+track.Name, s.maxLength)
	}
	if snapshot.State == domain.StatePlaying {
		return playingLabel
	}
	return s.fallback
}

// Truncate shortens text to at most maxWidth display cells, ending with "..."
func Truncate(text string, maxWidth int) string {
	return runewidth.Truncate(text, maxWidth, ellipsis)
}
