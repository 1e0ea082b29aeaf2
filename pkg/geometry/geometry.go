package geometry

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// BaseLongEdge is the fixed long-edge resolution of a framed canvas.
const BaseLongEdge = 1080

// FrameSpec fully determines the framed output for a given source image:
// border color, border thickness in canvas pixels, and target aspect ratio.
type FrameSpec struct {
	Border    color.NRGBA
	Thickness int
	Ratio     AspectRatio
}

// Crop center-crops the longer dimension of img so the result matches the
// target aspect ratio, preserving resolution along the shorter dimension.
// It never upscales. A matching ratio yields a plain copy; an image with no
// pixels is returned unchanged.
func Crop(img image.Image, ratio AspectRatio) image.Image {
	if img == nil {
		return img
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 || ratio.Value() <= 0 {
		return img
	}

	cw, ch := cropSize(w, h, ratio.Value())
	if cw == w && ch == h {
		return imaging.Clone(img)
	}
	return imaging.CropCenter(img, cw, ch)
}

// cropSize computes the largest region of a w×h image with the target ratio.
func cropSize(w, h int, target float64) (int, int) {
	current := float64(w) / float64(h)
	if target > current {
		// Target is wider, constrain by width
		return w, int(math.Round(float64(w) / target))
	}
	// Target is taller (or equal), constrain by height
	return int(math.Round(float64(h) * target)), h
}

// CanvasSize returns the fixed canvas dimensions for a target ratio, with the
// long edge pinned to BaseLongEdge.
func CanvasSize(ratio AspectRatio) (int, int) {
	v := ratio.Value()
	if v <= 0 {
		return BaseLongEdge, BaseLongEdge
	}
	if v >= 1 {
		return BaseLongEdge, int(math.Round(BaseLongEdge / v))
	}
	return int(math.Round(BaseLongEdge * v)), BaseLongEdge
}

// ComposeFrame renders img centered inside a bordered canvas. The canvas is
// sized by CanvasSize for the spec's ratio and filled with the border color;
// the image fills the interior left after insetting the border thickness on
// every side. Thickness is clamped so the interior never collapses to zero
// area. An image with no pixels is returned unchanged.
func ComposeFrame(img image.Image, spec FrameSpec) image.Image {
	if img == nil {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return img
	}

	cw, ch := CanvasSize(spec.Ratio)
	t := ClampThickness(spec.Thickness, cw, ch)

	canvas := imaging.New(cw, ch, spec.Border)
	interior := imaging.Fill(img, cw-2*t, ch-2*t, imaging.Center, imaging.Lanczos)
	return imaging.Paste(canvas, interior, image.Pt(t, t))
}

// ClampThickness limits a border thickness so a cw×ch canvas keeps an
// interior of at least one pixel per dimension.
func ClampThickness(t, cw, ch int) int {
	if t < 0 {
		return 0
	}
	m := cw
	if ch < m {
		m = ch
	}
	if max := (m - 1) / 2; t > max {
		return max
	}
	return t
}
