package film

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Convert applies a film profile to img and returns a new image. The
// transform is per-pixel over raw RGB samples; alpha is untouched. Every
// intermediate value is clamped to [0,255] per channel before being written
// back, and identical inputs always produce byte-identical output. A nil or
// empty image is returned unchanged.
func Convert(img image.Image, p Profile) image.Image {
	if img == nil {
		return img
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return img
	}

	out := imaging.Clone(img)
	gain := 1.0
	if p.Exposure != 0 {
		gain = math.Pow(2, p.Exposure)
	}

	for i := 0; i < len(out.Pix); i += 4 {
		r := float64(out.Pix[i])
		g := float64(out.Pix[i+1])
		b := float64(out.Pix[i+2])

		switch p.Mode {
		case ModeMono:
			gray := 0.299*r + 0.587*g + 0.114*b
			v := 255 - gray
			if p.Contrast != 0 {
				v = (v-128)*p.Contrast + 128
			}
			r, g, b = v, v, v
		case ModePositive:
			r *= p.ScaleR
			g *= p.ScaleG
			b *= p.ScaleB
			if p.Contrast != 0 {
				r = (r-128)*p.Contrast + 128
				g = (g-128)*p.Contrast + 128
				b = (b-128)*p.Contrast + 128
			}
		default: // ModeInvert
			r = (255 - r) * p.ScaleR
			g = (255 - g) * p.ScaleG
			b = (255 - b) * p.ScaleB
		}

		if p.Exposure != 0 {
			r *= gain
			g *= gain
			b *= gain
		}

		r, g, b = clamp255(r), clamp255(g), clamp255(b)
		mean := (r + g + b) / 3

		if p.HalationThreshold > 0 && mean > p.HalationThreshold {
			// Highlight glow bleeds into the red layer
			r = clamp255(r + p.HalationStrength*(255-r))
		}
		if p.ShadowThreshold > 0 && mean < p.ShadowThreshold {
			r = clamp255(r + p.ShadowLift)
			g = clamp255(g + p.ShadowLift)
			b = clamp255(b + p.ShadowLift)
		}

		out.Pix[i] = uint8(r + 0.5)
		out.Pix[i+1] = uint8(g + 0.5)
		out.Pix[i+2] = uint8(b + 0.5)
	}

	return out
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
