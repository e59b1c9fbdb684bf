package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int, asPNG bool) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return &buf
}

func TestProcessBoundsOversizedImage(t *testing.T) {
	p := NewProcessor(Config{MaxSize: 512, ThumbSize: 128, Quality: 85})

	src := encodeTestImage(t, 2000, 1000, false)
	result, err := p.Process(src, "photo.jpg")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Full))
	if err != nil {
		t.Fatalf("decode full variant: %v", err)
	}
	if img.Bounds().Dx() > 512 || img.Bounds().Dy() > 512 {
		t.Fatalf("full variant exceeds max edge: %v", img.Bounds())
	}
	// Aspect ratio preserved: 2000x1000 fits to 512x256
	if img.Bounds().Dx() != 512 || img.Bounds().Dy() != 256 {
		t.Fatalf("expected 512x256, got %v", img.Bounds())
	}
}

func TestProcessKeepsSmallImageSize(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	src := encodeTestImage(t, 300, 200, false)
	result, err := p.Process(src, "small.jpg")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Width != 300 || result.Height != 200 {
		t.Fatalf("small image must not be upscaled, got %dx%d", result.Width, result.Height)
	}
}

func TestProcessThumbnailIsSquare(t *testing.T) {
	p := NewProcessor(Config{MaxSize: 1024, ThumbSize: 256, Quality: 85})

	src := encodeTestImage(t, 800, 400, false)
	result, err := p.Process(src, "wide.jpg")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}

	thumb, _, err := image.Decode(bytes.NewReader(result.Thumbnail))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != 256 || thumb.Bounds().Dy() != 256 {
		t.Fatalf("expected 256x256 thumbnail, got %v", thumb.Bounds())
	}
}

func TestProcessPreservesPNG(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	src := encodeTestImage(t, 100, 100, true)
	result, err := p.Process(src, "icon.png")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.ContentType != "image/png" {
		t.Fatalf("expected image/png, got %s", result.ContentType)
	}

	_, format, err := image.Decode(bytes.NewReader(result.Full))
	if err != nil {
		t.Fatalf("decode full variant: %v", err)
	}
	if format != "png" {
		t.Fatalf("expected png output, got %s", format)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	p := NewProcessor(DefaultConfig())

	if _, err := p.Process(strings.NewReader("this is not an image"), "file.jpg"); err == nil {
		t.Fatal("expected error for non-image input")
	}
}
