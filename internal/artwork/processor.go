package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/musicbridge/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultBlurRadius = 8.0
	coverSizeRatio    = 0.80 // Cover edge as a fraction of the thumbnail edge
	jpegQuality       = 90
)

// ProcessorConfig holds configuration for thumbnail rendering
type ProcessorConfig struct {
	Size           int
	BlurRadius     float64
	CoverSizeRatio float64
}

// ThumbnailProcessor renders square artwork thumbnails: a blurred fill of the
// cover as background with the sharp cover fitted on top
type ThumbnailProcessor struct {
	logger *zap.Logger
	config ProcessorConfig
}

// NewThumbnailProcessor creates a new thumbnail processor
func NewThumbnailProcessor(logger *zap.Logger, cfg domain.Config) *ThumbnailProcessor {
	return &ThumbnailProcessor{
		logger: logger,
		config: ProcessorConfig{
			Size:           cfg.GetArtworkSize(),
			BlurRadius:     defaultBlurRadius,
			CoverSizeRatio: coverSizeRatio,
		},
	}
}

// Process decodes imageData and returns the JPEG thumbnail
func (p *ThumbnailProcessor) Process(ctx context.Context, imageData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dy() == 0 || bounds.Dx() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	size := p.config.Size
	p.logger.Debug("Creating blurred background", zap.Int("size", size))
	background := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)
	background = imaging.Blur(background, p.config.BlurRadius)

	coverEdge := int(float64(size) * p.config.CoverSizeRatio)
	if coverEdge < 1 {
		coverEdge = 1
	}
	cover := imaging.Fit(img, coverEdge, coverEdge, imaging.Lanczos)
	coverBounds := cover.Bounds()

	offset := image.Pt((size-coverBounds.Dx())/2, (size-coverBounds.Dy())/2)
	result := imaging.Paste(background, cover, offset)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, result, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	p.logger.Debug("Artwork processed successfully", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
