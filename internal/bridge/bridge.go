package bridge

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/parser"
	"go.uber.org/zap"
)

const (
	// DefaultPreviousVolume is restored on unmute when no volume was captured
	DefaultPreviousVolume = 50
	// VolumeStep is the volume up/down increment
	VolumeStep = 5

	artworkFilename = "artwork.bin"
	changeBuffer    = 16
)

// Bridge translates typed player operations into scripted calls.
//
// Snapshot issues three independent scripts, so a snapshot taken while the
// player changes track may mix old and new values; the next poll corrects it.
// VolumeUp and VolumeDown are read-modify-write without locking against
// external volume changes.
type Bridge struct {
	logger      *zap.Logger
	runner      domain.ScriptRunner
	dialect     domain.Dialect
	artworkPath string

	// muteMu serializes ToggleMute so previousVolume has a single writer
	muteMu         sync.Mutex
	previousVolume int

	changes         chan domain.Change
	warnMu          sync.Mutex
	lastDropWarning time.Time // Rate limiting for "channel full" warnings
}

// NewBridge creates a new player bridge
func NewBridge(logger *zap.Logger, runner domain.ScriptRunner, dialect domain.Dialect, cfg domain.Config) *Bridge {
	return &Bridge{
		logger:         logger,
		runner:         runner,
		dialect:        dialect,
		artworkPath:    filepath.Join(cfg.GetArtworkDir(), artworkFilename),
		previousVolume: DefaultPreviousVolume,
		changes:        make(chan domain.Change, changeBuffer),
	}
}

// Changes returns a read-only channel that emits after every mutating operation
func (b *Bridge) Changes() <-chan domain.Change {
	return b.changes
}

// Snapshot reads track, playback state and volume.
// The track is dropped when the player reports stopped.
func (b *Bridge) Snapshot(ctx context.Context) domain.PlayerSnapshot {
	track := b.TrackInfo(ctx)
	state := b.PlaybackState(ctx)
	volume := b.Volume(ctx)

	if state == domain.StateStopped {
		track = nil
	}

	return domain.PlayerSnapshot{
		Track:  track,
		State:  state,
		Volume: volume,
	}
}

// TrackInfo returns the current track, or nil when nothing is loaded
func (b *Bridge) TrackInfo(ctx context.Context) *domain.TrackIdentity {
	return parser.ParseTrack(b.runner.Run(ctx, b.dialect.TrackInfo()))
}

// PlaybackState returns the player state; unknown answers are stopped
func (b *Bridge) PlaybackState(ctx context.Context) domain.PlaybackState {
	return parser.ParsePlaybackState(b.runner.Run(ctx, b.dialect.PlayerState()))
}

// TogglePlayPause toggles playback
func (b *Bridge) TogglePlayPause(ctx context.Context) {
	b.runner.Run(ctx, b.dialect.PlayPause())
	b.emit(string(domain.CommandTogglePlayPause))
}

// NextTrack skips to the next track
func (b *Bridge) NextTrack(ctx context.Context) {
	b.runner.Run(ctx, b.dialect.NextTrack())
	b.emit(string(domain.CommandNextTrack))
}

// PreviousTrack goes back to the previous track
func (b *Bridge) PreviousTrack(ctx context.Context) {
	b.runner.Run(ctx, b.dialect.PreviousTrack())
	b.emit(string(domain.CommandPreviousTrack))
}

// Volume returns the output volume in [0,100]
func (b *Bridge) Volume(ctx context.Context) int {
	return parser.ParseVolume(b.runner.Run(ctx, b.dialect.GetVolume()))
}

// SetVolume clamps v to [0,100] and applies it
func (b *Bridge) SetVolume(ctx context.Context, v int) {
	b.setVolume(ctx, v)
	b.emit("setVolume")
}

func (b *Bridge) setVolume(ctx context.Context, v int) {
	b.runner.Run(ctx, b.dialect.SetVolume(domain.ClampVolume(v)))
}

// VolumeUp raises the volume by one step
func (b *Bridge) VolumeUp(ctx context.Context) {
	b.setVolume(ctx, b.Volume(ctx)+VolumeStep)
	b.emit(string(domain.CommandVolumeUp))
}

// VolumeDown lowers the volume by one step
func (b *Bridge) VolumeDown(ctx context.Context) {
	b.setVolume(ctx, b.Volume(ctx)-VolumeStep)
	b.emit(string(domain.CommandVolumeDown))
}

// IsMuted reports whether the volume reads exactly 0
func (b *Bridge) IsMuted(ctx context.Context) bool {
	return b.Volume(ctx) == 0
}

// ToggleMute mutes by remembering the current volume and zeroing it, or
// unmutes by restoring the remembered volume. The decision is taken from the
// volume read now, since it may have changed outside the bridge.
func (b *Bridge) ToggleMute(ctx context.Context) {
	b.muteMu.Lock()
	current := b.Volume(ctx)
	if current == 0 {
		restore := b.previousVolume
		if restore == 0 {
			restore = DefaultPreviousVolume
		}
		b.logger.Debug("Unmuting", zap.Int("volume", restore))
		b.setVolume(ctx, restore)
	} else {
		b.previousVolume = current
		b.logger.Debug("Muting", zap.Int("previousVolume", current))
		b.setVolume(ctx, 0)
	}
	b.muteMu.Unlock()

	b.emit(string(domain.CommandToggleMute))
}

// PreviousVolume returns the volume restored by the next unmute
func (b *Bridge) PreviousVolume() int {
	b.muteMu.Lock()
	defer b.muteMu.Unlock()
	return b.previousVolume
}

// ArtworkURL asks the player where the current artwork can be read from
func (b *Bridge) ArtworkURL(ctx context.Context) string {
	return b.runner.Run(ctx, b.dialect.ArtworkURL(b.artworkPath))
}

// emit publishes a change without blocking the caller.
// Dropping is fine: a pending change already triggers the refresh we need.
func (b *Bridge) emit(operation string) {
	select {
	case b.changes <- domain.Change{Operation: operation}:
		b.logger.Debug("State change emitted", zap.String("operation", operation))
	default:
		b.logChannelFullWarning()
	}
}

// logChannelFullWarning logs a warning about the change channel being full, rate-limited
func (b *Bridge) logChannelFullWarning() {
	b.warnMu.Lock()
	defer b.warnMu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(b.lastDropWarning) >= warningInterval {
		b.logger.Warn("Changes channel full, dropping state change (no scheduler subscribed?)")
		b.lastDropWarning = now
	}
}
