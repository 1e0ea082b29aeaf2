// Package grading implements the tonal and color adjustment chain applied to
// an image for a given parameter set. All stage math runs in floating point;
// the result is requantized to 8-bit exactly once, when the filtered image is
// rasterized.
package grading

import (
	"image"

	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
)

// Apply runs the full grading chain over img and returns a new image. It is
// total: a nil or empty image is returned unchanged and neutral parameters
// produce a plain copy.
func Apply(img image.Image, p Parameters) image.Image {
	if img == nil {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return img
	}

	p = p.Clamp()
	if p.IsNeutral() {
		return imaging.Clone(img)
	}

	// All stages collapse into one per-pixel function inside a single
	// ColorFunc filter, so intermediate values stay in float and only the
	// final write quantizes.
	chain := compose(Stages(p))
	g := gift.New(gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
		r, gg, b := chain(float64(r0), float64(g0), float64(b0))
		return float32(clamp01(r)), float32(clamp01(gg)), float32(clamp01(b)), a0
	}))

	dst := image.NewNRGBA(g.Bounds(bounds))
	g.Draw(dst, img)
	return dst
}

// compose folds the stage list into a single function, skipping identity
// stages.
func compose(stages []Stage) Stage {
	active := stages[:0]
	for _, s := range stages {
		if s != nil {
			active = append(active, s)
		}
	}
	return func(r, g, b float64) (float64, float64, float64) {
		for _, s := range active {
			r, g, b = s(r, g, b)
		}
		return r, g, b
	}
}
