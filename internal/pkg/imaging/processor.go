package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ProcessedAvatar contains the stored variants of an uploaded avatar
type ProcessedAvatar struct {
	Full        []byte
	Thumbnail   []byte
	ContentType string
	Width       int
	Height      int
}

// Config for avatar processing
type Config struct {
	MaxSize   int // max edge for the full variant (default 1024)
	ThumbSize int // square thumbnail edge (default 256)
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxSize:   1024,
		ThumbSize: 256,
		Quality:   85,
	}
}

// Processor handles avatar image processing
type Processor struct {
	config Config
}

// NewProcessor creates an avatar processor
func NewProcessor(config Config) *Processor {
	if config.MaxSize == 0 {
		config.MaxSize = 1024
	}
	if config.ThumbSize == 0 {
		config.ThumbSize = 256
	}
	if config.Quality == 0 {
		config.Quality = 85
	}
	return &Processor{config: config}
}

// Process decodes an uploaded image, bounds the full variant and cuts a
// centered square thumbnail.
func (p *Processor) Process(reader io.Reader, filename string) (*ProcessedAvatar, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	contentType := contentTypeFor(format, filename)

	bounds := img.Bounds()
	if bounds.Dx() > p.config.MaxSize || bounds.Dy() > p.config.MaxSize {
		img = imaging.Fit(img, p.config.MaxSize, p.config.MaxSize, imaging.Lanczos)
		bounds = img.Bounds()
	}

	thumb := imaging.Fill(img, p.config.ThumbSize, p.config.ThumbSize, imaging.Center, imaging.Lanczos)

	full, err := p.encode(img, contentType)
	if err != nil {
		return nil, err
	}
	thumbBytes, err := p.encode(thumb, contentType)
	if err != nil {
		return nil, err
	}

	return &ProcessedAvatar{
		Full:        full,
		Thumbnail:   thumbBytes,
		ContentType: contentType,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

func (p *Processor) encode(img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.config.Quality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}
	return buf.Bytes(), nil
}

func contentTypeFor(format, filename string) string {
	switch format {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	}
	if strings.EqualFold(filepath.Ext(filename), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
