// Package enhance maps image analysis output to suggested adjustment deltas.
// Constants are tuned so a single-image correction stays subtle; the caller
// adds the delta to its current parameters and clamps the result.
package enhance

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/framelab/framelab/pkg/analyze"
	"github.com/framelab/framelab/pkg/grading"
)

const (
	targetRange     = 0.7
	targetSpread    = 0.5
	targetDeviation = 0.18

	// Negative white balance gains so a cast is corrected, not amplified
	kTemperature = -0.3
	kTint        = -0.3
	kBrightness  = 0.5
	kContrast    = 0.25
	kSaturation  = 0.3
	kVibrance    = 0.5

	confidenceFloor = 0.3
	maxLabels       = 3
)

// labelNudges maps recognized content labels to small fixed adjustment
// deltas. Unrecognized labels contribute nothing.
var labelNudges = map[string]grading.Parameters{
	"sunset":   {Temperature: 0.15, Saturation: 0.1},
	"sunrise":  {Temperature: 0.15, Saturation: 0.1},
	"snow":     {Brightness: -0.1, Contrast: 0.1},
	"beach":    {Brightness: -0.1, Contrast: 0.1},
	"night":    {Brightness: 0.15},
	"dark":     {Brightness: 0.15},
	"portrait": {Saturation: -0.1, Contrast: 0.05},
	"person":   {Saturation: -0.1, Contrast: 0.05},
}

// Derive turns an analysis into an adjustment delta. The delta is additive:
// callers apply it with params.Add(delta).Clamp().
func Derive(a analyze.Analysis) grading.Parameters {
	var d grading.Parameters

	r, g, b := a.Average[0], a.Average[1], a.Average[2]

	// White balance from channel balance of the average color
	if b > 0.001 {
		d.Temperature = (r/b - 1) * kTemperature
	}
	d.Tint = (g - (r+b)/2) * kTint

	// Exposure toward a mid histogram
	d.Brightness = (0.5 - a.Midpoint) * kBrightness

	// Contrast toward the target dynamic range
	if a.Range > 0.01 {
		d.Contrast = (targetRange/a.Range - 1) * kContrast
	}

	// Saturation from the max/min channel spread of the average color
	mx := math.Max(r, math.Max(g, b))
	mn := math.Min(r, math.Min(g, b))
	if mx > 0.001 {
		spread := (mx - mn) / mx
		d.Saturation = (targetSpread - spread) * kSaturation
	}

	// Vibrance from channel deviation as a fraction of the mean
	mean := stat.Mean(a.Average[:], nil)
	if mean > 0.001 {
		cv := stat.PopStdDev(a.Average[:], nil) / mean
		d.Vibrance = (targetDeviation - cv) * kVibrance
	}

	// Content-based nudges from the top classification labels
	applied := 0
	for _, label := range a.Labels {
		if applied >= maxLabels {
			break
		}
		if label.Confidence < confidenceFloor {
			continue
		}
		nudge, ok := labelNudges[strings.ToLower(label.Name)]
		if !ok {
			continue
		}
		d = d.Add(nudge)
		applied++
	}

	return d
}
