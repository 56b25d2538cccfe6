package surface

import (
	"math/rand/v2"
	"sync"

	"github.com/genricoloni/musicbridge/internal/domain"
)

// DefaultAccent is used before any snapshot has been rendered
var DefaultAccent = domain.Accent{
	Name:     "default",
	Gradient: "linear-gradient(135deg, #1a1a2e 0%, #16213e 100%)",
	Color:    "#16213e",
}

var palette = []domain.Accent{
	{Name: "purple", Gradient: "linear-gradient(135deg, #2d1b4e 0%, #1a0e2e 100%)", Color: "#8e6cc0"},
	{Name: "blue", Gradient: "linear-gradient(135deg, #1e3c72 0%, #2a5298 100%)", Color: "#4a7fd4"},
	{Name: "green", Gradient: "linear-gradient(135deg, #1a5f3f 0%, #0d3d26 100%)", Color: "#3fae7a"},
	{Name: "brown", Gradient: "linear-gradient(135deg, #5d4e37 0%, #3d2f1f 100%)", Color: "#b08d5e"},
	{Name: "navy", Gradient: "linear-gradient(135deg, #2c3e50 0%, #34495e 100%)", Color: "#6c8aa8"},
	{Name: "maroon", Gradient: "linear-gradient(135deg, #7d2f2f 0%, #4a1a1a 100%)", Color: "#c45a5a"},
	{Name: "olive", Gradient: "linear-gradient(135deg, #2e5a2a 0%, #1a3419 100%)", Color: "#6aa862"},
	{Name: "teal", Gradient: "linear-gradient(135deg, #1e4a4e 0%, #0f2a2d 100%)", Color: "#4aa3ab"},
	{Name: "plum", Gradient: "linear-gradient(135deg, #4a2c5a 0%, #2d1b36 100%)", Color: "#a06cba"},
	{Name: "indigo", Gradient: "linear-gradient(135deg, #2c4a7d 0%, #1a2e4f 100%)", Color: "#5c86c9"},
}

// Palette returns a copy of the accent palette
func Palette() []domain.Accent {
	out := make([]domain.Accent, len(palette))
	copy(out, palette)
	return out
}

// AccentCache remembers the accent drawn for the last seen track.
// A new accent is drawn only when the track key changes; the draw never
// repeats the current accent, so consecutive tracks always look different.
type AccentCache struct {
	mu           sync.Mutex
	rng          *rand.Rand
	lastTrackKey string
	current      int // index into palette, -1 before the first draw
}

// NewAccentCache creates a cache with its own random source
func NewAccentCache() *AccentCache {
	return newAccentCache(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func newAccentCache(src rand.Source) *AccentCache {
	return &AccentCache{
		rng:     rand.New(src),
		current: -1,
	}
}

// Accent returns the accent for the snapshot's track
func (c *AccentCache) Accent(snapshot domain.PlayerSnapshot) domain.Accent {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := snapshot.TrackKey()
	if c.current < 0 || key != c.lastTrackKey {
		c.current = c.draw()
		c.lastTrackKey = key
	}
	return palette[c.current]
}

func (c *AccentCache) draw() int {
	if c.current < 0 {
		return c.rng.IntN(len(palette))
	}
	// Skip over the current index
	next := c.rng.IntN(len(palette) - 1)
	if next >= c.current {
		next++
	}
	return next
}
