// Package imageio handles decoding sources into raster images and encoding
// pipeline output for persistence. The pipeline itself never touches files or
// the network; everything format-shaped lives here.
package imageio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Info contains basic image metadata
type Info struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// GetInfo returns basic information about an image
func GetInfo(img image.Image) Info {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	ratio := 0.0
	if h > 0 {
		ratio = float64(w) / float64(h)
	}
	return Info{Width: w, Height: h, AspectRatio: ratio, Area: w * h}
}

// Load loads an image from a file path with WebP support
func Load(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := webp.Decode(f); err == nil {
		return img, nil
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// LoadFromURL downloads and loads an image from a URL
func LoadFromURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s (only http and https are supported)", parsedURL.Scheme)
	}

	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest("GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", "Framelab/1.0 (+https://github.com/framelab/framelab)")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %v", err)
	}

	return Decode(data)
}

// LoadAny loads an image from either a file path or URL
func LoadAny(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadFromURL(source)
	}
	return Load(source)
}

// Decode decodes an image from byte data with WebP support
func Decode(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// EncodeForModel downsizes an image to maxDim on the long edge and encodes it
// as JPEG or PNG bytes for a vision model request.
func EncodeForModel(img image.Image, format string, maxDim, quality int) ([]byte, error) {
	if maxDim > 0 {
		b := img.Bounds()
		w, h := b.Dx(), b.Dy()
		if w > maxDim || h > maxDim {
			if w >= h {
				img = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
			} else {
				img = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
			}
		}
	}

	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, err
		}
	default: // jpg
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// PrepareForModel is EncodeForModel with a base64 result, for backends that
// expect data-URL payloads.
func PrepareForModel(img image.Image, format string, maxDim, quality int) (string, error) {
	data, err := EncodeForModel(img, format, maxDim, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Save saves an image to a file with the specified format and quality
func Save(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	default: // jpg/jpeg
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	}
}

// Validate checks that an image has a usable pixel buffer of at least
// minSize on each side.
func Validate(img image.Image, minSize int) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() < minSize || bounds.Dy() < minSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), minSize)
	}
	return nil
}
