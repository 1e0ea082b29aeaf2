// Package analyze computes read-only summaries of an image: luminance
// histogram statistics, average color, and optionally ranked content labels
// from a vision collaborator. Results are deterministic for a fixed image.
package analyze

import (
	"context"
	"image"
	"log"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"github.com/framelab/framelab/pkg/vision"
)

// Analysis is a derived summary of a source image. Midpoint is the weighted
// mean luminance bucket and Range the occupied-bucket spread, both normalized
// to [0,1]. Average holds mean R, G, B in [0,1].
type Analysis struct {
	Midpoint float64
	Range    float64
	Average  [3]float64
	Labels   []vision.Label
}

// Neutral is the analysis returned when nothing can be measured: mid
// histogram, full range, black average, no labels. Enhancement rules derive
// near-zero deltas from it.
func Neutral() Analysis {
	return Analysis{Midpoint: 0.5, Range: 1.0}
}

// Analyzer computes image analyses, optionally consulting a vision
// classifier for content labels.
type Analyzer struct {
	classifier vision.Classifier
}

// New creates an Analyzer without a classification collaborator; analyses
// carry histogram and color statistics with an empty label list.
func New() *Analyzer {
	return &Analyzer{}
}

// NewWithClassifier creates an Analyzer that forwards content labels from
// the given classifier.
func NewWithClassifier(c vision.Classifier) *Analyzer {
	return &Analyzer{classifier: c}
}

// Analyze summarizes img. An image without pixels yields Neutral. If the
// classifier collaborator fails, the whole analysis degrades to Neutral so
// downstream rules contribute near-zero adjustments.
func (a *Analyzer) Analyze(ctx context.Context, img image.Image) Analysis {
	if img == nil {
		return Neutral()
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return Neutral()
	}

	analysis := Histogram(img)

	if a.classifier != nil {
		labels, err := a.classifier.Classify(ctx, img)
		if err != nil {
			log.Printf("analyze: classification failed, using neutral analysis: %v", err)
			return Neutral()
		}
		analysis.Labels = labels
	}

	return analysis
}

// Histogram computes the luminance histogram statistics and average color of
// img. Labels are left empty.
func Histogram(img image.Image) Analysis {
	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return Neutral()
	}

	var counts [256]float64
	var buckets [256]float64
	var sumR, sumG, sumB float64

	for i := 0; i < len(src.Pix); i += 4 {
		r := int(src.Pix[i])
		g := int(src.Pix[i+1])
		b := int(src.Pix[i+2])
		// Rec.601 luma, integer weights to keep bucketing exact
		bucket := (299*r + 587*g + 114*b) / 1000
		counts[bucket]++
		sumR += float64(r)
		sumG += float64(g)
		sumB += float64(b)
	}
	for i := range buckets {
		buckets[i] = float64(i)
	}

	// Weighted mean bucket; zero-count buckets carry no weight
	midpoint := stat.Mean(buckets[:], counts[:]) / 255

	minBucket, maxBucket := -1, 0
	for i, c := range counts {
		if c == 0 {
			continue
		}
		if minBucket < 0 {
			minBucket = i
		}
		maxBucket = i
	}
	histRange := float64(maxBucket-minBucket) / 255

	n := float64(w * h)
	return Analysis{
		Midpoint: midpoint,
		Range:    histRange,
		Average:  [3]float64{sumR / n / 255, sumG / n / 255, sumB / n / 255},
	}
}
