package domain

import (
	"context"
	"time"
)

// ScriptRunner evaluates a script snippet against the player through an external interpreter
//
//go:generate mockgen -destination=mocks/script_runner_mock.go -package=mocks github.com/genricoloni/musicbridge/internal/domain ScriptRunner
type ScriptRunner interface {
	// Run executes the script and returns its trimmed output.
	// Any execution failure yields an empty string.
	Run(ctx context.Context, script string) string
}

// Dialect provides the fixed script templates understood by one interpreter
type Dialect interface {
	// Name identifies the dialect (e.g. "applescript")
	Name() string
	// Interpreter is the binary evaluating the scripts
	Interpreter() string
	// Flag precedes the quoted script on the interpreter command line
	Flag() string

	// TrackInfo returns "artist|name|album|HAS_ART" or "" when nothing is loaded
	TrackInfo() string
	// PlayerState returns "playing", "paused" or "stopped"
	PlayerState() string
	// GetVolume returns the output volume as an integer
	GetVolume() string
	// SetVolume sets the output volume; v is already clamped
	SetVolume(v int) string
	PlayPause() string
	NextTrack() string
	PreviousTrack() string
	// ArtworkURL exports the current artwork and returns a URL or path to it.
	// path is a daemon-owned scratch file that some dialects write into.
	ArtworkURL(path string) string
}

// Bridge is the typed facade over the player
type Bridge interface {
	Snapshot(ctx context.Context) PlayerSnapshot
	TrackInfo(ctx context.Context) *TrackIdentity
	PlaybackState(ctx context.Context) PlaybackState

	TogglePlayPause(ctx context.Context)
	NextTrack(ctx context.Context)
	PreviousTrack(ctx context.Context)

	Volume(ctx context.Context) int
	SetVolume(ctx context.Context, v int)
	VolumeUp(ctx context.Context)
	VolumeDown(ctx context.Context)
	IsMuted(ctx context.Context) bool
	ToggleMute(ctx context.Context)

	// ArtworkURL returns where the current artwork can be fetched from, or ""
	ArtworkURL(ctx context.Context) string

	// Changes emits after every mutating operation
	Changes() <-chan Change
}

// Surface is any rendered representation kept in sync with snapshots
type Surface interface {
	// Name identifies the surface in logs
	Name() string
	// Render updates the surface from a snapshot
	Render(snapshot PlayerSnapshot)
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageProcessor defines the interface for in-memory image processing
// This is OS-agnostic and works purely with byte streams
type ImageProcessor interface {
	// Process transforms image data into a thumbnail
	// Returns the processed image bytes or an error
	Process(ctx context.Context, imageData []byte) ([]byte, error)
}

// Config defines the interface for application configuration
type Config interface {
	// GetStatusInterval is the passive surface polling period
	GetStatusInterval() time.Duration
	// GetPanelInterval is the live surface polling period
	GetPanelInterval() time.Duration
	// GetScriptTimeout bounds one external script invocation
	GetScriptTimeout() time.Duration
	// GetMaxTextLength is the status strip truncation length
	GetMaxTextLength() int
	// GetFallbackLabel is shown by text surfaces when nothing is playing
	GetFallbackLabel() string
	// GetListenAddr is the HTTP address of the host surface
	GetListenAddr() string
	// GetArtworkDir is the scratch directory for exported artwork
	GetArtworkDir() string
	// GetArtworkSize is the edge length of artwork thumbnails
	GetArtworkSize() int
}
