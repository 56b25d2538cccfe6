package scripts

import (
	"fmt"

	"github.com/genricoloni/musicbridge/internal/domain"
)

// Playerctl drives any MPRIS player through the playerctl command line client.
// The output shapes match the AppleScript dialect so the same parser applies.
type Playerctl struct{}

func (p *Playerctl) Name() string        { return "playerctl" }
func (p *Playerctl) Interpreter() string { return "sh" }
func (p *Playerctl) Flag() string        { return "-c" }

func (p *Playerctl) TrackInfo() string {
	return `status=$(playerctl status 2>/dev/null)
case "$status" in
Playing|Paused)
	if [ -n "$(playerctl metadata mpris:artUrl 2>/dev/null)" ]; then art=` + ArtworkSentinel + `; else art=` + NoArtwork + `; fi
	printf '%s` + Delimiter + `%s\n' "$(playerctl metadata --format '{{artist}}` + Delimiter + `{{title}}` + Delimiter + `{{album}}')" "$art"
	;;
esac`
}

func (p *Playerctl) PlayerState() string {
	return "playerctl status 2>/dev/null"
}

// GetVolume converts the MPRIS 0.0-1.0 volume to a percentage
func (p *Playerctl) GetVolume() string {
	return `playerctl volume 2>/dev/null | awk '{ printf "%d", $1 * 100 + 0.5 }'`
}

func (p *Playerctl) SetVolume(v int) string {
	v = domain.ClampVolume(v)
	return fmt.Sprintf("playerctl volume %d.%02d", v/100, v%100)
}

func (p *Playerctl) PlayPause() string     { return "playerctl play-pause" }
func (p *Playerctl) NextTrack() string     { return "playerctl next" }
func (p *Playerctl) PreviousTrack() string { return "playerctl previous" }

// ArtworkURL returns the player-provided art URL; path is unused since MPRIS already exposes a URL
func (p *Playerctl) ArtworkURL(path string) string {
	return "playerctl metadata mpris:artUrl 2>/dev/null"
}
