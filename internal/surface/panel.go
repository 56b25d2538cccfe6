package surface

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"

	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

// NeutralBackground is the panel background when nothing is playing
const NeutralBackground = "#28a745"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// PanelView is the rendered panel
type PanelView struct {
	// Document is the complete HTML page
	Document string `json:"-"`
	// Fragment is the inner markup pushed to connected pages
	Fragment string `json:"html"`
	// Background is the CSS background of the page
	Background string `json:"background"`
	// TrackKey identifies the rendered track, empty when none
	TrackKey string `json:"trackKey"`
}

type panelData struct {
	Background     template.CSS
	Track          *domain.TrackIdentity
	Subtitle       string
	PlayPauseGlyph string
	Volume         int
	ArtworkSrc     string
}

// Panel renders a rich HTML view of the player
type Panel struct {
	publisher[PanelView]

	logger     *zap.Logger
	accents    *AccentCache
	artworkURL string
}

// NewPanel creates a panel surface.
// artworkURL is the endpoint serving the current artwork, empty to disable artwork.
func NewPanel(logger *zap.Logger, artworkURL string) *Panel {
	return &Panel{
		logger:     logger,
		accents:    NewAccentCache(),
		artworkURL: artworkURL,
	}
}

// Name implements domain.Surface
func (p *Panel) Name() string { return "panel" }

// Render implements domain.Surface
func (p *Panel) Render(snapshot domain.PlayerSnapshot) {
	accent := p.accents.Accent(snapshot)
	data := panelData{
		Background: template.CSS(NeutralBackground),
		Volume:     snapshot.Volume,
	}
	if track := snapshot.Track; track != nil {
		data.Track = track
		data.Background = template.CSS(accent.Gradient)
		data.Subtitle = track.Artist
		if track.Album != "" {
			data.Subtitle += " - " + track.Album
		}
		data.PlayPauseGlyph = "▶"
		if snapshot.State == domain.StatePlaying {
			data.PlayPauseGlyph = "⏸"
		}
		if track.HasArtwork() && p.artworkURL != "" {
			data.ArtworkSrc = p.artworkURL + "?track=" + url.QueryEscape(track.Key())
		}
	}

	view, err := renderPanel(data)
	if err != nil {
		p.logger.Error("Failed to render panel", zap.Error(err))
		return
	}
	view.TrackKey = snapshot.TrackKey()
	p.publish(view)
}

// Document returns the latest panel page, or the neutral page before the
// first render
func (p *Panel) Document() string {
	if view, ok := p.Latest(); ok {
		return view.Document
	}
	view, err := renderPanel(panelData{Background: template.CSS(NeutralBackground)})
	if err != nil {
		p.logger.Error("Failed to render neutral panel", zap.Error(err))
		return ""
	}
	return view.Document
}

func renderPanel(data panelData) (PanelView, error) {
	var fragment, document bytes.Buffer
	if err := templates.ExecuteTemplate(&fragment, "fragment", data); err != nil {
		return PanelView{}, fmt.Errorf("failed to render panel fragment: %w", err)
	}
	if err := templates.ExecuteTemplate(&document, "panel", data); err != nil {
		return PanelView{}, fmt.Errorf("failed to render panel document: %w", err)
	}
	return PanelView{
		Document:   document.String(),
		Fragment:   fragment.String(),
		Background: string(data.Background),
	}, nil
}

// NowPlayingDocument renders the standalone "Now Playing" page for a track
func NowPlayingDocument(track domain.TrackIdentity) (string, error) {
	if track.Name == "" {
		track.Name = "Unknown"
	}
	if track.Artist == "" {
		track.Artist = "Unknown"
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "nowplaying", track); err != nil {
		return "", fmt.Errorf("failed to render now playing document: %w", err)
	}
	return buf.String(), nil
}
