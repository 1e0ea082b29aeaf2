package grading

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Stage is a pure per-pixel color transform over normalized RGB. Stages are
// composed in a fixed order by Stages; each one is independently testable.
// A nil Stage means the control sits at identity and the step is skipped.
type Stage func(r, g, b float64) (float64, float64, float64)

// Stages builds the ordered filter chain for a parameter set. The order is
// load-bearing: tonal controls, vibrance, tone curves, exposure bounds,
// white balance, hue rotation, channel gains.
func Stages(p Parameters) []Stage {
	return []Stage{
		Tonal(p.Brightness, p.Contrast, p.Saturation),
		VibranceBoost(p.Vibrance),
		ToneCurves(p.Lights, p.Darks),
		ExposureBounds(p.Whites, p.Blacks),
		WhiteBalance(p.Temperature, p.Tint),
		HueRotate(p.Hue),
		ChannelGains(p.Red, p.Green, p.Blue),
	}
}

// Tonal applies brightness as a direct offset, and contrast and saturation
// scaled as 1+param. Contrast pivots on mid-gray; saturation interpolates
// between the pixel and its Rec.601 luma.
func Tonal(brightness, contrast, saturation float64) Stage {
	if brightness == 0 && contrast == 0 && saturation == 0 {
		return nil
	}
	cs := 1 + contrast
	ss := 1 + saturation
	return func(r, g, b float64) (float64, float64, float64) {
		r += brightness
		g += brightness
		b += brightness
		if contrast != 0 {
			r = (r-0.5)*cs + 0.5
			g = (g-0.5)*cs + 0.5
			b = (b-0.5)*cs + 0.5
		}
		if saturation != 0 {
			l := luma(r, g, b)
			r = l + (r-l)*ss
			g = l + (g-l)*ss
			b = l + (b-l)*ss
		}
		return r, g, b
	}
}

// VibranceBoost is a selective saturation boost weighted toward pixels that
// are not already saturated.
func VibranceBoost(vibrance float64) Stage {
	if vibrance == 0 {
		return nil
	}
	return func(r, g, b float64) (float64, float64, float64) {
		mx := math.Max(r, math.Max(g, b))
		mn := math.Min(r, math.Min(g, b))
		weight := 1 - clamp01(mx-mn)
		scale := 1 + vibrance*weight
		l := luma(r, g, b)
		return l + (r-l)*scale, l + (g-l)*scale, l + (b-l)*scale
	}
}

// ToneCurves approximates the lights and darks controls with two sequential
// power-law adjustments: power 1-lights*0.5 followed by power 1+darks*0.5.
func ToneCurves(lights, darks float64) Stage {
	if lights == 0 && darks == 0 {
		return nil
	}
	lp := 1 - lights*0.5
	dp := 1 + darks*0.5
	return func(r, g, b float64) (float64, float64, float64) {
		r, g, b = clamp01(r), clamp01(g), clamp01(b)
		if lights != 0 {
			r = math.Pow(r, lp)
			g = math.Pow(g, lp)
			b = math.Pow(b, lp)
		}
		if darks != 0 {
			r = math.Pow(r, dp)
			g = math.Pow(g, dp)
			b = math.Pow(b, dp)
		}
		return r, g, b
	}
}

// ExposureBounds approximates the whites and blacks controls with two
// sequential exposure adjustments: ev=whites followed by ev=-blacks.
func ExposureBounds(whites, blacks float64) Stage {
	if whites == 0 && blacks == 0 {
		return nil
	}
	scale := math.Pow(2, whites) * math.Pow(2, -blacks)
	return func(r, g, b float64) (float64, float64, float64) {
		return r * scale, g * scale, b * scale
	}
}

const (
	baseKelvin     = 6500.0
	kelvinPerUnit  = 2500.0
	tintPerUnit    = 50.0
	tintGreenScale = 250.0
)

// WhiteBalance compensates for an illuminant at baseKelvin +
// kelvinPerUnit*temperature by dividing out its color: positive temperature
// warms the render, negative cools it. Tint offsets green against magenta by
// tintPerUnit*tint, positive toward green.
func WhiteBalance(temperature, tint float64) Stage {
	if temperature == 0 && tint == 0 {
		return nil
	}
	ref := kelvinToRGB(baseKelvin)
	tgt := kelvinToRGB(baseKelvin + kelvinPerUnit*temperature)
	gainR := ref[0] / tgt[0]
	gainB := ref[2] / tgt[2]
	gainG := (ref[1] / tgt[1]) * (1 + tintPerUnit*tint/tintGreenScale)
	return func(r, g, b float64) (float64, float64, float64) {
		return r * gainR, g * gainG, b * gainB
	}
}

// HueRotate rotates hue by hue*pi radians.
func HueRotate(hue float64) Stage {
	if hue == 0 {
		return nil
	}
	degrees := hue * 180
	return func(r, g, b float64) (float64, float64, float64) {
		c := colorful.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
		h, s, v := c.Hsv()
		out := colorful.Hsv(math.Mod(h+degrees+360, 360), s, v)
		return out.R, out.G, out.B
	}
}

// ChannelGains applies the per-channel linear gain matrix with diagonal
// terms 1+red, 1+green, 1+blue. Alpha is untouched by the whole chain.
func ChannelGains(red, green, blue float64) Stage {
	if red == 0 && green == 0 && blue == 0 {
		return nil
	}
	gr, gg, gb := 1+red, 1+green, 1+blue
	return func(r, g, b float64) (float64, float64, float64) {
		return r * gr, g * gg, b * gb
	}
}

// kelvinToRGB approximates the sRGB color of a black body at the given
// temperature (Tanner Helland curve fit), normalized to [0,1].
func kelvinToRGB(kelvin float64) [3]float64 {
	t := kelvin / 100

	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
		if t <= 19 {
			b = 0
		} else {
			b = 138.5177312231*math.Log(t-10) - 305.0447927307
		}
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
		b = 255
	}

	return [3]float64{
		clamp01(r / 255),
		clamp01(g / 255),
		clamp01(b / 255),
	}
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
