package surface

import (
	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

// Row is one entry of the tree surface
type Row struct {
	Label string `json:"label"`
	// Icon is a theme icon identifier
	Icon string `json:"icon,omitempty"`
	// Command is set on actionable rows
	Command domain.CommandName `json:"command,omitempty"`
	// Header marks section titles
	Header bool `json:"header,omitempty"`
}

// TreeView is the rendered tree
type TreeView struct {
	Rows   []Row         `json:"rows"`
	Accent domain.Accent `json:"accent"`
}

// Tree renders the player as a list of rows with control entries
type Tree struct {
	publisher[TreeView]

	logger  *zap.Logger
	accents *AccentCache
}

// NewTree creates a tree surface
func NewTree(logger *zap.Logger) *Tree {
	return &Tree{
		logger:  logger,
		accents: NewAccentCache(),
	}
}

// Name implements domain.Surface
func (t *Tree) Name() string { return "tree" }

// Render implements domain.Surface
func (t *Tree) Render(snapshot domain.PlayerSnapshot) {
	rows := Rows(snapshot)
	t.logger.Debug("Tree rendered", zap.Int("rows", len(rows)))
	t.publish(TreeView{
		Rows:   rows,
		Accent: t.accents.Accent(snapshot),
	})
}

// Rows builds the tree rows for a snapshot
func Rows(snapshot domain.PlayerSnapshot) []Row {
	track := snapshot.Track
	if track == nil {
		return []Row{{Label: "No track playing", Icon: "info"}}
	}

	rows := []Row{
		{Label: "Now Playing", Header: true},
		{Label: "🎵 " + track.Name, Icon: "file-media"},
		{Label: "🎤 " + track.Artist, Icon: "person"},
	}
	if track.Album != "" {
		rows = append(rows, Row{Label: "💿 " + track.Album, Icon: "library"})
	}

	playPause := Row{Label: "▶️ Play", Icon: "play", Command: domain.CommandTogglePlayPause}
	if snapshot.State == domain.StatePlaying {
		playPause = Row{Label: "⏸️ Pause", Icon: "debug-pause", Command: domain.CommandTogglePlayPause}
	}

	return append(rows,
		Row{Label: ""},
		Row{Label: "Controls", Header: true},
		playPause,
		Row{Label: "⏮️ Previous Track", Icon: "arrow-left", Command: domain.CommandPreviousTrack},
		Row{Label: "⏭️ Next Track", Icon: "arrow-right", Command: domain.CommandNextTrack},
		Row{Label: "🔇 Mute/Unmute", Icon: "mute", Command: domain.CommandToggleMute},
		Row{Label: "🔊 Volume Up", Icon: "arrow-up", Command: domain.CommandVolumeUp},
		Row{Label: "🔉 Volume Down", Icon: "arrow-down", Command: domain.CommandVolumeDown},
	)
}
