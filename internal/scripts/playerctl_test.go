//go:build !windows
// +build !windows

package scripts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/musicbridge/internal/executor"
	"go.uber.org/zap"
)

// fakePlayerctl answers like playerctl with a loaded, playing track
const fakePlayerctl = `#!/bin/sh
case "$1" in
status) echo Playing ;;
metadata)
	if [ "$2" = "mpris:artUrl" ]; then echo "file:///tmp/cover.jpg"; fi
	if [ "$2" = "--format" ]; then echo "Daft Punk|One More Time|Discovery"; fi
	;;
volume)
	if [ -z "$2" ]; then echo 0.7; else echo "$2" > "$FAKE_VOLUME_FILE"; fi
	;;
esac
`

func installFakePlayerctl(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "playerctl"), []byte(fakePlayerctl), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	volumeFile := filepath.Join(dir, "volume")
	t.Setenv("FAKE_VOLUME_FILE", volumeFile)
	return volumeFile
}

// TestPlayerctl_ThroughExecutor runs the real templates against a fake playerctl,
// which also proves the templates survive the executor's shell quoting.
func TestPlayerctl_ThroughExecutor(t *testing.T) {
	volumeFile := installFakePlayerctl(t)

	p := &Playerctl{}
	exec := executor.NewExecutor(zap.NewNop(), p.Interpreter(), p.Flag(), 5*time.Second)
	ctx := context.Background()

	if got := exec.Run(ctx, p.TrackInfo()); got != "Daft Punk|One More Time|Discovery|HAS_ART" {
		t.Errorf("TrackInfo output = %q", got)
	}
	if got := exec.Run(ctx, p.PlayerState()); got != "Playing" {
		t.Errorf("PlayerState output = %q", got)
	}
	if got := exec.Run(ctx, p.GetVolume()); got != "70" {
		t.Errorf("GetVolume output = %q, want 70", got)
	}
	if got := exec.Run(ctx, p.ArtworkURL("")); got != "file:///tmp/cover.jpg" {
		t.Errorf("ArtworkURL output = %q", got)
	}

	exec.Run(ctx, p.SetVolume(35))
	data, err := os.ReadFile(volumeFile)
	if err != nil {
		t.Fatalf("fake playerctl did not record a volume: %v", err)
	}
	if strings.TrimSpace(string(data)) != "0.35" {
		t.Errorf("SetVolume sent %q, want 0.35", strings.TrimSpace(string(data)))
	}
}
