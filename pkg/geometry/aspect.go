package geometry

// AspectRatio represents a named width:height ratio
type AspectRatio struct {
	Width  int
	Height int
	Name   string
}

// Common aspect ratios
var (
	Square        = AspectRatio{1, 1, "square"}
	Portrait      = AspectRatio{3, 4, "portrait"}
	PortraitTall  = AspectRatio{2, 3, "portrait-tall"}
	Instagram     = AspectRatio{4, 5, "instagram"}
	Landscape     = AspectRatio{4, 3, "landscape"}
	LandscapeWide = AspectRatio{3, 2, "landscape-wide"}
	Widescreen    = AspectRatio{16, 9, "widescreen"}
	Story         = AspectRatio{9, 16, "story"}
)

// Ratios returns the full set of supported aspect ratios
func Ratios() []AspectRatio {
	return []AspectRatio{Square, Portrait, PortraitTall, Instagram, Landscape, LandscapeWide, Widescreen, Story}
}

// RatioByName looks up an aspect ratio by its display name
func RatioByName(name string) (AspectRatio, bool) {
	for _, r := range Ratios() {
		if r.Name == name {
			return r, true
		}
	}
	return AspectRatio{}, false
}

// Value returns the width/height ratio as a float
func (r AspectRatio) Value() float64 {
	if r.Height == 0 {
		return 0
	}
	return float64(r.Width) / float64(r.Height)
}
