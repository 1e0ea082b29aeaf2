package render

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/framelab/framelab/pkg/analyze"
	"github.com/framelab/framelab/pkg/cache"
	"github.com/framelab/framelab/pkg/geometry"
	"github.com/framelab/framelab/pkg/grading"
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

// gateClassifier blocks Classify until its gate closes, for ordering renders
// deterministically in tests.
type gateClassifier struct {
	gate chan struct{}
}

func (g *gateClassifier) Classify(ctx context.Context, img image.Image) ([]vision.Label, error) {
	<-g.gate
	return nil, nil
}

func TestRenderNil(t *testing.T) {
	r := New(nil, nil)
	result := r.Render(context.Background(), nil, Request{Profile: "standard"})
	if result.Image != nil || result.Fingerprint != "" {
		t.Errorf("nil source should yield a zero result, got %+v", result)
	}
}

func TestRenderPassthrough(t *testing.T) {
	r := New(nil, nil)
	img := createTestImage(10, 10, color.NRGBA{50, 100, 150, 255})

	result := r.Render(context.Background(), img, Request{})
	if result.Image == nil {
		t.Fatal("expected an output image")
	}
	got := result.Image.Bounds()
	if got.Dx() != 10 || got.Dy() != 10 {
		t.Errorf("passthrough changed dimensions to %dx%d", got.Dx(), got.Dy())
	}
	rr, gg, bb, _ := result.Image.At(5, 5).RGBA()
	if rr>>8 != 50 || gg>>8 != 100 || bb>>8 != 150 {
		t.Errorf("passthrough changed pixels: %d,%d,%d", rr>>8, gg>>8, bb>>8)
	}
}

func TestRenderWithFrame(t *testing.T) {
	r := New(nil, nil)
	img := createTestImage(400, 300, color.NRGBA{50, 100, 150, 255})

	result := r.Render(context.Background(), img, Request{
		Frame: &geometry.FrameSpec{Border: color.NRGBA{255, 255, 255, 255}, Thickness: 20, Ratio: geometry.Square},
	})
	b := result.Image.Bounds()
	if b.Dx() != 1080 || b.Dy() != 1080 {
		t.Errorf("framed render is %dx%d, want 1080x1080", b.Dx(), b.Dy())
	}
}

func TestRenderWithFilmProfile(t *testing.T) {
	r := New(nil, nil)
	img := createTestImage(10, 10, color.NRGBA{128, 128, 128, 255})

	result := r.Render(context.Background(), img, Request{Profile: "standard"})
	rr, _, _, _ := result.Image.At(5, 5).RGBA()
	if rr>>8 != 127 {
		t.Errorf("standard inversion of 128 = %d, want 127", rr>>8)
	}

	// An unknown profile name is skipped, not fatal
	result = r.Render(context.Background(), img, Request{Profile: "kodachrome"})
	rr, _, _, _ = result.Image.At(5, 5).RGBA()
	if rr>>8 != 128 {
		t.Errorf("unknown profile changed pixels: %d", rr>>8)
	}
}

func TestRenderAutoEnhance(t *testing.T) {
	r := New(nil, nil)
	dark := createTestImage(20, 20, color.NRGBA{30, 30, 30, 255})

	result := r.Render(context.Background(), dark, Request{AutoEnhance: true})
	if result.Params.Brightness <= 0 {
		t.Errorf("Brightness = %f, want positive for a dark image", result.Params.Brightness)
	}
	if result.Params != result.Params.Clamp() {
		t.Errorf("result params not clamped: %+v", result.Params)
	}
}

func TestRenderClampsRequestParams(t *testing.T) {
	r := New(nil, nil)
	img := createTestImage(10, 10, color.NRGBA{100, 100, 100, 255})

	result := r.Render(context.Background(), img, Request{Params: grading.Parameters{Brightness: 7}})
	if result.Params.Brightness != 1 {
		t.Errorf("Brightness = %f, want 1", result.Params.Brightness)
	}
}

func TestRenderCaching(t *testing.T) {
	c := cache.New(time.Minute, 10)
	r := New(nil, c)
	img := createTestImage(10, 10, color.NRGBA{100, 100, 100, 255})
	req := Request{Source: "photo.jpg", Params: grading.Parameters{Contrast: 0.3}}

	first := r.Render(context.Background(), img, req)
	second := r.Render(context.Background(), img, req)
	if first.Fingerprint != second.Fingerprint {
		t.Error("identical requests should share a fingerprint")
	}
	if first.Image != second.Image {
		t.Error("second render should come from the cache")
	}
	if c.Len() != 1 {
		t.Errorf("cache Len = %d, want 1", c.Len())
	}

	// Without a source identity the cache is bypassed
	anon := Request{Params: grading.Parameters{Contrast: 0.3}}
	a := r.Render(context.Background(), img, anon)
	b := r.Render(context.Background(), img, anon)
	if a.Image == b.Image {
		t.Error("renders without a source must not share cached output")
	}
}

func TestSubmitDelivers(t *testing.T) {
	r := New(nil, nil)
	img := createTestImage(10, 10, color.NRGBA{100, 100, 100, 255})

	done := make(chan Result, 1)
	r.Submit("preview", img, Request{}, func(res Result) { done <- res })

	select {
	case res := <-done:
		if res.Image == nil {
			t.Error("delivered result has no image")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("result never delivered")
	}
}

func TestSubmitDiscardsSuperseded(t *testing.T) {
	gate := &gateClassifier{gate: make(chan struct{})}
	r := New(analyze.NewWithClassifier(gate), nil)
	img := createTestImage(10, 10, color.NRGBA{100, 100, 100, 255})

	var mu sync.Mutex
	var delivered []Result
	record := func(res Result) {
		mu.Lock()
		delivered = append(delivered, res)
		mu.Unlock()
	}

	// The first request parks inside the classifier until the gate opens
	stale := Request{AutoEnhance: true, Params: grading.Parameters{Brightness: 0.1}}
	r.Submit("preview", img, stale, record)

	// The newer request renders immediately
	fresh := Request{Params: grading.Parameters{Brightness: 0.2}}
	done := make(chan Result, 1)
	r.Submit("preview", img, fresh, func(res Result) {
		record(res)
		done <- res
	})

	var freshResult Result
	select {
	case freshResult = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fresh result never delivered")
	}

	// Release the stale render; it must be discarded, not delivered
	close(gate.gate)
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(delivered) != 1 {
		t.Fatalf("delivered %d results, want 1", len(delivered))
	}
	if delivered[0].Fingerprint != freshResult.Fingerprint {
		t.Error("delivered result is not the latest request")
	}
}

func TestSubmitIndependentTargets(t *testing.T) {
	r := New(nil, nil)
	img := createTestImage(10, 10, color.NRGBA{100, 100, 100, 255})

	done := make(chan string, 2)
	r.Submit("left", img, Request{}, func(res Result) { done <- "left" })
	r.Submit("right", img, Request{}, func(res Result) { done <- "right" })

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case name := <-done:
			got[name] = true
		case <-time.After(5 * time.Second):
			t.Fatal("not all targets delivered")
		}
	}
	if !got["left"] || !got["right"] {
		t.Errorf("targets delivered: %v", got)
	}
}
