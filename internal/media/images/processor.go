package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"

	"golang.org/x/image/draw"
)

const (
	// maxDimension bounds the longest edge of stored images.
	// Uploads and fetched images are downscaled to this before storage.
	maxDimension = 1600

	// jpegQuality for re-encoded images.
	jpegQuality = 85
)

// Processor normalizes incoming images: decode, downscale, re-encode as
// JPEG, and compute the BlurHash placeholder.
type Processor struct {
	storage *Storage
	logger  *slog.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(storage *Storage, logger *slog.Logger) *Processor {
	return &Processor{
		storage: storage,
		logger:  logger,
	}
}

// ProcessAndStore decodes raw image data, normalizes it, and stores it under
// the given ID. Returns the BlurHash of the stored image.
func (p *Processor) ProcessAndStore(id string, data []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	resized := downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	if err := p.storage.Save(id, buf.Bytes()); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	hash, err := ComputeBlurHash(resized)
	if err != nil {
		// The image itself is stored fine; a missing placeholder is cosmetic.
		p.logger.Warn("failed to compute blurhash",
			"id", id,
			"error", err,
		)
		hash = ""
	}

	p.logger.Debug("processed image",
		"id", id,
		"format", format,
		"bytes", buf.Len(),
	)

	return hash, nil
}

// downscale resizes an image so its longest edge is at most maxDimension,
// preserving aspect ratio. Images already within bounds are returned as-is.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	srcWidth := bounds.Dx()
	srcHeight := bounds.Dy()

	if srcWidth <= maxDimension && srcHeight <= maxDimension {
		return img
	}

	var dstWidth, dstHeight int
	if srcWidth > srcHeight {
		dstWidth = maxDimension
		dstHeight = (srcHeight * maxDimension) / srcWidth
	} else {
		dstHeight = maxDimension
		dstWidth = (srcWidth * maxDimension) / srcHeight
	}
	if dstWidth < 1 {
		dstWidth = 1
	}
	if dstHeight < 1 {
		dstHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstWidth, dstHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
