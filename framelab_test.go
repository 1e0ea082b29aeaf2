package framelab

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/framelab/framelab/pkg/cache"
	"github.com/framelab/framelab/pkg/geometry"
	"github.com/framelab/framelab/pkg/grading"
	"github.com/framelab/framelab/pkg/render"
)

// createTestImage creates a uniform test image
func createTestImage(width, height int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("New returned nil")
	}
}

func TestCropAndFrame(t *testing.T) {
	p := New()
	img := createTestImage(2000, 1000, color.NRGBA{100, 100, 100, 255})

	cropped := p.Crop(img, geometry.Square)
	if b := cropped.Bounds(); b.Dx() != 1000 || b.Dy() != 1000 {
		t.Errorf("crop = %dx%d, want 1000x1000", b.Dx(), b.Dy())
	}

	framed := p.ComposeFrame(img, geometry.FrameSpec{
		Border:    color.NRGBA{255, 255, 255, 255},
		Thickness: 40,
		Ratio:     geometry.Square,
	})
	if b := framed.Bounds(); b.Dx() != 1080 || b.Dy() != 1080 {
		t.Errorf("frame = %dx%d, want 1080x1080", b.Dx(), b.Dy())
	}
}

func TestGrade(t *testing.T) {
	p := New()
	img := createTestImage(16, 16, color.NRGBA{100, 100, 100, 255})

	out := p.Grade(img, grading.Parameters{Brightness: 0.3})
	r, _, _, _ := out.At(8, 8).RGBA()
	if r>>8 <= 100 {
		t.Errorf("graded pixel = %d, want brighter than 100", r>>8)
	}
}

func TestAnalyzeAndAutoEnhance(t *testing.T) {
	p := New()
	dark := createTestImage(32, 32, color.NRGBA{30, 30, 30, 255})

	analysis := p.Analyze(context.Background(), dark)
	if analysis.Midpoint >= 0.5 {
		t.Errorf("Midpoint = %f, want below 0.5 for a dark image", analysis.Midpoint)
	}

	params := p.AutoEnhance(context.Background(), dark, grading.Parameters{})
	if params.Brightness <= 0 {
		t.Errorf("Brightness = %f, want positive", params.Brightness)
	}
	if params != params.Clamp() {
		t.Errorf("auto-enhanced params not clamped: %+v", params)
	}
}

func TestAutoEnhanceClampsExistingParams(t *testing.T) {
	p := New()
	dark := createTestImage(32, 32, color.NRGBA{20, 20, 20, 255})

	params := p.AutoEnhance(context.Background(), dark, grading.Parameters{Brightness: 0.95})
	if params.Brightness != 1 {
		t.Errorf("Brightness = %f, want clamped to 1", params.Brightness)
	}
}

func TestConvertFilm(t *testing.T) {
	p := New()
	img := createTestImage(8, 8, color.NRGBA{128, 128, 128, 255})

	out := p.ConvertFilm(img, "standard")
	r, _, _, _ := out.At(4, 4).RGBA()
	if r>>8 != 127 {
		t.Errorf("standard conversion = %d, want 127", r>>8)
	}

	if p.ConvertFilm(img, "nosuchfilm") != img {
		t.Error("unknown profile should return the image unchanged")
	}
}

func TestProcess(t *testing.T) {
	p := NewWithOptions(Options{Cache: cache.New(0, 4)})
	img := createTestImage(400, 300, color.NRGBA{128, 128, 128, 255})

	req := render.Request{
		Source:  "test.jpg",
		Frame:   &geometry.FrameSpec{Border: color.NRGBA{255, 255, 255, 255}, Thickness: 20, Ratio: geometry.Square},
		Profile: "standard",
	}
	result := p.Process(context.Background(), img, req)
	if result.Image == nil {
		t.Fatal("no output image")
	}
	if b := result.Image.Bounds(); b.Dx() != 1080 || b.Dy() != 1080 {
		t.Errorf("output = %dx%d, want 1080x1080", b.Dx(), b.Dy())
	}

	again := p.Process(context.Background(), img, req)
	if again.Image != result.Image {
		t.Error("second process should hit the cache")
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Error("GetVersion does not match Version")
	}
}
