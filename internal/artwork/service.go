package artwork

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

// ErrNoArtwork is returned when the current track has no artwork
var ErrNoArtwork = errors.New("no artwork for the current track")

// Service produces the thumbnail of the current track's artwork.
// The last thumbnail is cached by track key.
type Service struct {
	logger    *zap.Logger
	bridge    domain.Bridge
	fetcher   domain.Fetcher
	processor domain.ImageProcessor
	dir       string

	mu       sync.Mutex
	trackKey string
	image    []byte
}

// NewService creates a new artwork service
func NewService(
	logger *zap.Logger,
	bridge domain.Bridge,
	fetch domain.Fetcher,
	proc domain.ImageProcessor,
	cfg domain.Config,
) *Service {
	return &Service{
		logger:    logger,
		bridge:    bridge,
		fetcher:   fetch,
		processor: proc,
		dir:       cfg.GetArtworkDir(),
	}
}

// Current returns the JPEG thumbnail for the loaded track
func (s *Service) Current(ctx context.Context) ([]byte, error) {
	track := s.bridge.TrackInfo(ctx)
	if track == nil || !track.HasArtwork() {
		return nil, ErrNoArtwork
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := track.Key()
	if key == s.trackKey && s.image != nil {
		return s.image, nil
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artwork directory: %w", err)
	}

	url := s.bridge.ArtworkURL(ctx)
	if url == "" {
		return nil, ErrNoArtwork
	}

	s.logger.Info("Processing artwork",
		zap.String("track", track.Name),
		zap.String("artist", track.Artist),
		zap.String("url", url))

	data, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}

	thumbnail, err := s.processor.Process(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to process artwork: %w", err)
	}

	s.trackKey = key
	s.image = thumbnail
	return thumbnail, nil
}
