// Package film converts film negative scans (and a couple of positive
// stocks) into display images using a fixed set of emulation profiles. Each
// profile is a small data-driven descriptor interpreted by one generic
// per-pixel transform.
package film

// Mode selects the base per-pixel operation of a profile.
type Mode int

const (
	// ModeInvert inverts each channel, then applies per-channel scales.
	ModeInvert Mode = iota
	// ModeMono collapses to luma, inverts, and optionally bends contrast.
	ModeMono
	// ModePositive keeps channel polarity and only scales/bends.
	ModePositive
)

// Profile describes one film conversion. Scale factors act on the (possibly
// inverted) channel values; Exposure is a post-scale EV boost; Contrast, when
// non-zero, bends values around the 128 midpoint. Halation pushes red toward
// white above a highlight threshold, ShadowLift raises everything below a
// shadow threshold. Thresholds of zero disable their effect.
type Profile struct {
	Name string
	Mode Mode

	ScaleR, ScaleG, ScaleB float64

	Exposure float64
	Contrast float64

	HalationThreshold float64
	HalationStrength  float64

	ShadowThreshold float64
	ShadowLift      float64
}

// The fixed profile set.
var (
	// Standard is the plain 255-c inversion.
	Standard = Profile{
		Name: "standard", Mode: ModeInvert,
		ScaleR: 1, ScaleG: 1, ScaleB: 1,
	}

	// ColorNegative compensates the orange mask of C-41 stock with
	// per-channel inversion scales.
	ColorNegative = Profile{
		Name: "color-negative", Mode: ModeInvert,
		ScaleR: 1.08, ScaleG: 0.98, ScaleB: 0.86,
	}

	// Monochrome converts black-and-white negatives with a contrast bend
	// around the midpoint.
	Monochrome = Profile{
		Name: "monochrome", Mode: ModeMono,
		ScaleR: 1, ScaleG: 1, ScaleB: 1,
		Contrast: 1.2,
	}

	// Slide is a direct positive with a gentle S-bend and cool bias.
	Slide = Profile{
		Name: "slide", Mode: ModePositive,
		ScaleR: 1.02, ScaleG: 1.0, ScaleB: 0.97,
		Contrast: 1.08,
	}

	// Portra is a warm color negative with lifted shadows.
	Portra = Profile{
		Name: "portra", Mode: ModeInvert,
		ScaleR: 1.05, ScaleG: 1.0, ScaleB: 0.92,
		Exposure:        0.1,
		ShadowThreshold: 32, ShadowLift: 10,
	}

	// Tungsten800 emulates a tungsten-balanced cine stock: exposure boost,
	// red halation glow in the highlights, lifted shadows.
	Tungsten800 = Profile{
		Name: "tungsten800", Mode: ModeInvert,
		ScaleR: 1.0, ScaleG: 0.97, ScaleB: 1.06,
		Exposure:          0.25,
		HalationThreshold: 180, HalationStrength: 0.35,
		ShadowThreshold: 40, ShadowLift: 12,
	}
)

// Profiles returns the fixed set of film profiles.
func Profiles() []Profile {
	return []Profile{Standard, ColorNegative, Monochrome, Slide, Portra, Tungsten800}
}

// ProfileByName looks up a profile by name.
func ProfileByName(name string) (Profile, bool) {
	for _, p := range Profiles() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
