package domain

// PlaybackState represents the current state of the media player
type PlaybackState string

const (
	// StatePlaying indicates the media is currently playing
	StatePlaying PlaybackState = "playing"
	// StatePaused indicates the media is paused
	StatePaused PlaybackState = "paused"
	// StateStopped indicates nothing is playing (also the fallback for unknown answers)
	StateStopped PlaybackState = "stopped"
)

// ArtworkFlag tells whether the player reported artwork for the current track
type ArtworkFlag int

const (
	// ArtworkUnknown means the player answer did not carry the artwork field
	ArtworkUnknown ArtworkFlag = iota
	// ArtworkAvailable means the track has at least one artwork
	ArtworkAvailable
	// ArtworkMissing means the player answered but reported no artwork
	ArtworkMissing
)

// TrackIdentity contains information about the currently loaded track
type TrackIdentity struct {
	// Name is the track title
	Name string
	// Artist name
	Artist string
	// Album name, empty when unset
	Album string
	// Artwork reports whether artwork is available
	Artwork ArtworkFlag
}

// HasArtwork reports whether artwork is known to be available
func (t TrackIdentity) HasArtwork() bool {
	return t.Artwork == ArtworkAvailable
}

// Key identifies the track for change detection
func (t TrackIdentity) Key() string {
	return t.Name + t.Artist
}

// PlayerSnapshot is a point-in-time read of the player.
// It is recreated on every poll and never mutated afterwards.
type PlayerSnapshot struct {
	// Track is nil when nothing is loaded
	Track *TrackIdentity
	// State is the playback state
	State PlaybackState
	// Volume is the output volume in [0,100]
	Volume int
}

// EmptySnapshot is the neutral snapshot rendered when the player cannot be read
func EmptySnapshot() PlayerSnapshot {
	return PlayerSnapshot{State: StateStopped}
}

// TrackKey returns name+artist of the current track, or "" when none is loaded
func (s PlayerSnapshot) TrackKey() string {
	if s.Track == nil {
		return ""
	}
	return s.Track.Key()
}

// ClampVolume keeps a volume inside [0,100]
func ClampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// IsMuted reports whether the snapshot volume is zero
func (s PlayerSnapshot) IsMuted() bool {
	return s.Volume == 0
}

// Accent is the per-track visual theme element
type Accent struct {
	// Name is a human readable label (e.g. "teal")
	Name string `json:"name"`
	// Gradient is a CSS background value used by markup surfaces
	Gradient string `json:"gradient"`
	// Color is a hex colour used by terminal surfaces
	Color string `json:"color"`
}

// CommandName identifies an inbound control command
type CommandName string

const (
	CommandTogglePlayPause CommandName = "togglePlayPause"
	CommandNextTrack       CommandName = "nextTrack"
	CommandPreviousTrack   CommandName = "previousTrack"
	CommandVolumeUp        CommandName = "volumeUp"
	CommandVolumeDown      CommandName = "volumeDown"
	CommandToggleMute      CommandName = "toggleMute"
	CommandShowNowPlaying  CommandName = "showNowPlaying"
)

// Commands lists the fixed inbound command set
func Commands() []CommandName {
	return []CommandName{
		CommandTogglePlayPause,
		CommandNextTrack,
		CommandPreviousTrack,
		CommandVolumeUp,
		CommandVolumeDown,
		CommandToggleMute,
		CommandShowNowPlaying,
	}
}

// Change is emitted by the bridge after every mutating operation
type Change struct {
	// Operation names the bridge call that changed the player (e.g. "nextTrack")
	Operation string
}
