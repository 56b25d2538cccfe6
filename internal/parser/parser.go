// Package parser turns raw interpreter output into typed player values.
// Parsing never fails: malformed answers degrade field by field.
package parser

import (
	"strconv"
	"strings"

	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/scripts"
)

// ParseTrack converts "artist|name|album|flag" into a track identity.
// It returns nil for empty or whitespace-only input.
func ParseTrack(raw string) *domain.TrackIdentity {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, scripts.Delimiter)
	track := &domain.TrackIdentity{Artist: parts[0]}

	switch {
	case len(parts) >= 4:
		track.Name = parts[1]
		track.Album = parts[2]
		if parts[3] == scripts.ArtworkSentinel {
			track.Artwork = domain.ArtworkAvailable
		} else {
			track.Artwork = domain.ArtworkMissing
		}
	case len(parts) == 3:
		track.Name = parts[1]
		track.Album = parts[2]
	case len(parts) == 2:
		track.Name = parts[1]
	}

	return track
}

// ParsePlaybackState maps the player answer onto a playback state.
// Anything but "playing" or "paused" (in any case) is stopped.
func ParsePlaybackState(raw string) domain.PlaybackState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "playing":
		return domain.StatePlaying
	case "paused":
		return domain.StatePaused
	default:
		return domain.StateStopped
	}
}

// ParseVolume reads an integer volume and clamps it to [0,100].
// Non-numeric answers read as 0.
func ParseVolume(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return domain.ClampVolume(v)
}

