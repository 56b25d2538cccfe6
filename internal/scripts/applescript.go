package scripts

import (
	"fmt"

	"github.com/genricoloni/musicbridge/internal/domain"
)

// AppleScript drives Music.app (or a compatible application) through osascript
type AppleScript struct {
	// App is the scripted application name
	App string
}

func (a *AppleScript) Name() string        { return "applescript" }
func (a *AppleScript) Interpreter() string { return "osascript" }
func (a *AppleScript) Flag() string        { return "-e" }

func (a *AppleScript) tell(body string) string {
	return fmt.Sprintf("tell application \"%s\"\n%s\nend tell", a.App, body)
}

// TrackInfo only answers while a track is playing or paused
func (a *AppleScript) TrackInfo() string {
	return a.tell(`	if player state is playing or player state is paused then
		set trackName to name of current track
		set trackArtist to artist of current track
		set trackAlbum to album of current track
		set hasArt to "` + NoArtwork + `"
		try
			if (count of artworks of current track) > 0 then
				set hasArt to "` + ArtworkSentinel + `"
			end if
		end try
		return trackArtist & "` + Delimiter + `" & trackName & "` + Delimiter + `" & trackAlbum & "` + Delimiter + `" & hasArt
	else
		return ""
	end if`)
}

func (a *AppleScript) PlayerState() string {
	return a.tell("\treturn player state as string")
}

// GetVolume reads the system output volume, not the player volume
func (a *AppleScript) GetVolume() string {
	return "output volume of (get volume settings)"
}

func (a *AppleScript) SetVolume(v int) string {
	return fmt.Sprintf("set volume output volume %d", domain.ClampVolume(v))
}

func (a *AppleScript) PlayPause() string     { return a.tell("\tplaypause") }
func (a *AppleScript) NextTrack() string     { return a.tell("\tnext track") }
func (a *AppleScript) PreviousTrack() string { return a.tell("\tprevious track") }

// ArtworkURL writes the raw data of the first artwork to path and returns a file URL
func (a *AppleScript) ArtworkURL(path string) string {
	return a.tell(fmt.Sprintf(`	try
		set artData to raw data of artwork 1 of current track
		set outFile to open for access (POSIX file "%s") with write permission
		set eof outFile to 0
		write artData to outFile
		close access outFile
		return "file://%s"
	on error
		try
			close access (POSIX file "%s")
		end try
		return ""
	end try`, path, path, path))
}
