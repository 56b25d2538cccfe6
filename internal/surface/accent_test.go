package surface

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/genricoloni/musicbridge/internal/domain"
)

func snapshotFor(name, artist string) domain.PlayerSnapshot {
	return domain.PlayerSnapshot{
		Track:  &domain.TrackIdentity{Name: name, Artist: artist},
		State:  domain.StatePlaying,
		Volume: 50,
	}
}

func TestPalette(t *testing.T) {
	p := Palette()
	if len(p) != 10 {
		t.Fatalf("expected 10 accents, got %d", len(p))
	}
	seen := make(map[string]bool)
	for _, a := range p {
		if !strings.HasPrefix(a.Gradient, "linear-gradient(135deg") {
			t.Errorf("accent %s has unexpected gradient %q", a.Name, a.Gradient)
		}
		if !strings.HasPrefix(a.Color, "#") {
			t.Errorf("accent %s has unexpected colour %q", a.Name, a.Color)
		}
		if seen[a.Gradient] {
			t.Errorf("duplicate gradient %q", a.Gradient)
		}
		seen[a.Gradient] = true
	}

	// Palette returns a copy
	p[0].Name = "changed"
	if Palette()[0].Name == "changed" {
		t.Error("Palette must not expose the shared slice")
	}
}

func TestAccentCache_ChangesOnlyOnTrackChange(t *testing.T) {
	a := snapshotFor("One More Time", "Daft Punk")
	b := snapshotFor("Around the World", "Daft Punk")

	for seed := uint64(0); seed < 50; seed++ {
		cache := newAccentCache(rand.NewPCG(seed, seed+1))

		a1 := cache.Accent(a)
		a2 := cache.Accent(a)
		b1 := cache.Accent(b)
		b2 := cache.Accent(b)
		a3 := cache.Accent(a)

		if a1 != a2 {
			t.Fatalf("seed %d: accent changed for the same track", seed)
		}
		if b1 == a2 {
			t.Fatalf("seed %d: accent did not change on track change", seed)
		}
		if b1 != b2 {
			t.Fatalf("seed %d: accent changed for the same track", seed)
		}
		if a3 == b2 {
			t.Fatalf("seed %d: accent did not change when switching back", seed)
		}
	}
}

func TestAccentCache_SameTrackStateChanges(t *testing.T) {
	cache := NewAccentCache()
	playing := snapshotFor("One More Time", "Daft Punk")
	paused := playing
	paused.State = domain.StatePaused
	paused.Volume = 0

	if cache.Accent(playing) != cache.Accent(paused) {
		t.Error("state or volume changes must not redraw the accent")
	}
}

func TestAccentCache_NoTrack(t *testing.T) {
	cache := NewAccentCache()
	first := cache.Accent(domain.EmptySnapshot())
	if first.Gradient == "" {
		t.Fatal("expected an accent before any track was seen")
	}
	if cache.Accent(domain.EmptySnapshot()) != first {
		t.Error("repeated empty snapshots must keep the accent")
	}
}
