// Package scripts holds the fixed script templates sent to the player.
// The volume level and a daemon-owned artwork path are the only values ever
// substituted into a template.
package scripts

import (
	"fmt"
	"strings"

	"github.com/genricoloni/musicbridge/internal/domain"
)

const (
	// Delimiter separates the fields of a track info answer
	Delimiter = "|"
	// ArtworkSentinel is the fourth track info field when artwork exists
	ArtworkSentinel = "HAS_ART"
	// NoArtwork is the fourth track info field when artwork is missing
	NoArtwork = "NO_ART"
)

// New returns the dialect registered under name.
// app is the target application for dialects that address one.
func New(name, app string) (domain.Dialect, error) {
	switch strings.ToLower(name) {
	case "applescript":
		return &AppleScript{App: app}, nil
	case "playerctl":
		return &Playerctl{}, nil
	default:
		return nil, fmt.Errorf("unknown script dialect %q", name)
	}
}

