package analyze

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/framelab/framelab/pkg/vision"
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

type stubClassifier struct {
	labels []vision.Label
	err    error
}

func (s *stubClassifier) Classify(ctx context.Context, img image.Image) ([]vision.Label, error) {
	return s.labels, s.err
}

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestHistogramMidGray(t *testing.T) {
	img := createTestImage(64, 64, color.NRGBA{128, 128, 128, 255})
	a := Histogram(img)

	if !approx(a.Midpoint, 128.0/255, 1e-9) {
		t.Errorf("Midpoint = %f, want %f", a.Midpoint, 128.0/255)
	}
	if a.Range != 0 {
		t.Errorf("Range = %f, want 0 for a single-bucket image", a.Range)
	}
	for i, avg := range a.Average {
		if !approx(avg, 128.0/255, 1e-9) {
			t.Errorf("Average[%d] = %f, want %f", i, avg, 128.0/255)
		}
	}
	if len(a.Labels) != 0 {
		t.Errorf("Histogram should not produce labels, got %v", a.Labels)
	}
}

func TestHistogramBlackWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 32 {
				img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}

	a := Histogram(img)
	if !approx(a.Midpoint, 0.5, 0.01) {
		t.Errorf("Midpoint = %f, want about 0.5", a.Midpoint)
	}
	if a.Range != 1 {
		t.Errorf("Range = %f, want 1 for full-range image", a.Range)
	}
}

func TestHistogramBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 8), uint8(y * 8), uint8((x + y) * 4), 255})
		}
	}

	a := Histogram(img)
	if a.Midpoint < 0 || a.Midpoint > 1 {
		t.Errorf("Midpoint %f out of [0,1]", a.Midpoint)
	}
	if a.Range < 0 || a.Range > 1 {
		t.Errorf("Range %f out of [0,1]", a.Range)
	}
	for i, avg := range a.Average {
		if avg < 0 || avg > 1 {
			t.Errorf("Average[%d] = %f out of [0,1]", i, avg)
		}
	}
}

func TestAnalyzeNilAndEmpty(t *testing.T) {
	a := New()
	neutral := Neutral()

	if got := a.Analyze(context.Background(), nil); got.Midpoint != neutral.Midpoint || got.Range != neutral.Range {
		t.Errorf("nil image: got %+v, want neutral", got)
	}
	empty := image.NewNRGBA(image.Rect(0, 0, 0, 0))
	if got := a.Analyze(context.Background(), empty); got.Midpoint != neutral.Midpoint || got.Range != neutral.Range {
		t.Errorf("empty image: got %+v, want neutral", got)
	}
}

func TestAnalyzeWithoutClassifier(t *testing.T) {
	a := New()
	img := createTestImage(16, 16, color.NRGBA{200, 100, 50, 255})
	got := a.Analyze(context.Background(), img)

	if got.Labels != nil {
		t.Errorf("expected no labels without a classifier, got %v", got.Labels)
	}
	if got.Average[0] <= got.Average[2] {
		t.Errorf("expected red-heavy average, got %v", got.Average)
	}
}

func TestAnalyzeAttachesLabels(t *testing.T) {
	labels := []vision.Label{{Name: "sunset", Confidence: 0.9}}
	a := NewWithClassifier(&stubClassifier{labels: labels})
	img := createTestImage(16, 16, color.NRGBA{128, 128, 128, 255})

	got := a.Analyze(context.Background(), img)
	if len(got.Labels) != 1 || got.Labels[0].Name != "sunset" {
		t.Errorf("labels = %v, want the classifier output", got.Labels)
	}
	if !approx(got.Midpoint, 128.0/255, 1e-9) {
		t.Errorf("classification must not change histogram stats, Midpoint = %f", got.Midpoint)
	}
}

func TestAnalyzeClassifierFailureIsNeutral(t *testing.T) {
	a := NewWithClassifier(&stubClassifier{err: errors.New("connection refused")})
	img := createTestImage(16, 16, color.NRGBA{10, 10, 10, 255})

	got := a.Analyze(context.Background(), img)
	neutral := Neutral()
	if got.Midpoint != neutral.Midpoint || got.Range != neutral.Range || got.Labels != nil {
		t.Errorf("expected neutral analysis on classifier failure, got %+v", got)
	}
}

func TestNeutral(t *testing.T) {
	n := Neutral()
	if n.Midpoint != 0.5 || n.Range != 1.0 {
		t.Errorf("Neutral() = %+v", n)
	}
	if n.Average != [3]float64{} || n.Labels != nil {
		t.Errorf("Neutral() carries data: %+v", n)
	}
}

func BenchmarkHistogram(b *testing.B) {
	img := createTestImage(1920, 1080, color.NRGBA{90, 140, 200, 255})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Histogram(img)
	}
}
