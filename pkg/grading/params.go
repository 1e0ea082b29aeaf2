package grading

// Parameters is the flat record of the fourteen scalar color controls. Each
// field is nominally in [-1, 1]; Temperature and Tint map onto Kelvin and
// tint-offset ranges internally. The zero value is the neutral (identity)
// adjustment. The struct is comparable, so detecting a no-op re-render is a
// plain == between two values.
type Parameters struct {
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Saturation  float64 `json:"saturation"`
	Vibrance    float64 `json:"vibrance"`
	Lights      float64 `json:"lights"`
	Darks       float64 `json:"darks"`
	Whites      float64 `json:"whites"`
	Blacks      float64 `json:"blacks"`
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Red         float64 `json:"red"`
	Green       float64 `json:"green"`
	Blue        float64 `json:"blue"`
	Hue         float64 `json:"hue"`
}

// Clamp returns a copy with every field forced back into [-1, 1]. Call it
// after any mutation, manual or derived, before handing the parameters to
// Apply.
func (p Parameters) Clamp() Parameters {
	return Parameters{
		Brightness:  clampUnit(p.Brightness),
		Contrast:    clampUnit(p.Contrast),
		Saturation:  clampUnit(p.Saturation),
		Vibrance:    clampUnit(p.Vibrance),
		Lights:      clampUnit(p.Lights),
		Darks:       clampUnit(p.Darks),
		Whites:      clampUnit(p.Whites),
		Blacks:      clampUnit(p.Blacks),
		Temperature: clampUnit(p.Temperature),
		Tint:        clampUnit(p.Tint),
		Red:         clampUnit(p.Red),
		Green:       clampUnit(p.Green),
		Blue:        clampUnit(p.Blue),
		Hue:         clampUnit(p.Hue),
	}
}

// Add returns the field-wise sum of p and delta. The result is not clamped;
// callers clamp once after applying all deltas.
func (p Parameters) Add(delta Parameters) Parameters {
	return Parameters{
		Brightness:  p.Brightness + delta.Brightness,
		Contrast:    p.Contrast + delta.Contrast,
		Saturation:  p.Saturation + delta.Saturation,
		Vibrance:    p.Vibrance + delta.Vibrance,
		Lights:      p.Lights + delta.Lights,
		Darks:       p.Darks + delta.Darks,
		Whites:      p.Whites + delta.Whites,
		Blacks:      p.Blacks + delta.Blacks,
		Temperature: p.Temperature + delta.Temperature,
		Tint:        p.Tint + delta.Tint,
		Red:         p.Red + delta.Red,
		Green:       p.Green + delta.Green,
		Blue:        p.Blue + delta.Blue,
		Hue:         p.Hue + delta.Hue,
	}
}

// IsNeutral reports whether every control sits at its identity value.
func (p Parameters) IsNeutral() bool {
	return p == Parameters{}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
