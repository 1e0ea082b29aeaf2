// Package framelab provides photo framing, color grading and film negative
// conversion as a pure image transformation pipeline.
//
// The pipeline takes a decoded raster image plus numeric parameters and
// produces a new raster image. Every operation is stateless and
// deterministic: identical inputs give identical output, no stage mutates
// its input, and independent images can be processed concurrently without
// locking.
//
// Basic usage:
//
//	package main
//
//	import (
//		"image/color"
//		"log"
//
//		"github.com/framelab/framelab"
//		"github.com/framelab/framelab/pkg/geometry"
//		"github.com/framelab/framelab/pkg/grading"
//		"github.com/framelab/framelab/pkg/imageio"
//	)
//
//	func main() {
//		pipeline := framelab.New()
//
//		img, err := imageio.Load("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Frame it on a white square canvas
//		framed := pipeline.ComposeFrame(img, geometry.FrameSpec{
//			Border:    color.NRGBA{255, 255, 255, 255},
//			Thickness: 40,
//			Ratio:     geometry.Square,
//		})
//
//		// Warm it up a little
//		graded := pipeline.Grade(framed, grading.Parameters{
//			Temperature: 0.2,
//			Contrast:    0.1,
//		})
//
//		if err := imageio.Save(graded, "photo_framed.jpg", "jpg", 90, false); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of five core components:
//
// 1. Geometry (pkg/geometry): aspect-ratio cropping and border compositing
// 2. Grading (pkg/grading): the ordered tonal/color adjustment chain
// 3. Analyze (pkg/analyze): histogram and average-color image analysis
// 4. Enhance (pkg/enhance): analysis-driven suggested adjustments
// 5. Film (pkg/film): negative-to-positive film profile conversion
//
// pkg/vision supplies optional content labels from an Ollama or llama.cpp
// vision model, pkg/cache is an injectable render cache, and pkg/render runs
// whole renders off the interactive path with stale-result suppression.
package framelab

import (
	"context"
	"image"

	"github.com/framelab/framelab/pkg/analyze"
	"github.com/framelab/framelab/pkg/cache"
	"github.com/framelab/framelab/pkg/enhance"
	"github.com/framelab/framelab/pkg/film"
	"github.com/framelab/framelab/pkg/geometry"
	"github.com/framelab/framelab/pkg/grading"
	"github.com/framelab/framelab/pkg/render"
	"github.com/framelab/framelab/pkg/vision"
)

// Version of the framelab library
const Version = "1.0.0"

// Pipeline provides a high-level interface for the full transformation
// chain. The zero-configured Pipeline works offline; a classifier and cache
// are optional collaborators.
type Pipeline struct {
	analyzer *analyze.Analyzer
	renderer *render.Renderer
}

// Options configures a Pipeline.
type Options struct {
	// Classifier labels image content for auto-enhancement; nil disables
	// content-based nudges.
	Classifier vision.Classifier
	// Cache stores rendered images by input fingerprint; nil disables
	// caching.
	Cache *cache.Cache
}

// New creates a Pipeline with no external collaborators.
func New() *Pipeline {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a Pipeline with the given collaborators.
func NewWithOptions(opts Options) *Pipeline {
	var analyzer *analyze.Analyzer
	if opts.Classifier != nil {
		analyzer = analyze.NewWithClassifier(opts.Classifier)
	} else {
		analyzer = analyze.New()
	}
	return &Pipeline{
		analyzer: analyzer,
		renderer: render.New(analyzer, opts.Cache),
	}
}

// Crop center-crops an image to a target aspect ratio
func (p *Pipeline) Crop(img image.Image, ratio geometry.AspectRatio) image.Image {
	return geometry.Crop(img, ratio)
}

// ComposeFrame renders an image centered inside a bordered canvas
func (p *Pipeline) ComposeFrame(img image.Image, spec geometry.FrameSpec) image.Image {
	return geometry.ComposeFrame(img, spec)
}

// Grade applies the color adjustment chain to an image
func (p *Pipeline) Grade(img image.Image, params grading.Parameters) image.Image {
	return grading.Apply(img, params)
}

// Analyze computes histogram statistics, average color and content labels
// for an image
func (p *Pipeline) Analyze(ctx context.Context, img image.Image) analyze.Analysis {
	return p.analyzer.Analyze(ctx, img)
}

// AutoEnhance returns params with analysis-derived deltas folded in and
// clamped back into range
func (p *Pipeline) AutoEnhance(ctx context.Context, img image.Image, params grading.Parameters) grading.Parameters {
	analysis := p.analyzer.Analyze(ctx, img)
	return params.Add(enhance.Derive(analysis)).Clamp()
}

// ConvertFilm applies a named film profile to an image. An unknown name
// returns the image unchanged.
func (p *Pipeline) ConvertFilm(img image.Image, profileName string) image.Image {
	profile, ok := film.ProfileByName(profileName)
	if !ok {
		return img
	}
	return film.Convert(img, profile)
}

// Process runs a complete render request synchronously
func (p *Pipeline) Process(ctx context.Context, img image.Image, req render.Request) render.Result {
	return p.renderer.Render(ctx, img, req)
}

// Submit runs a render request in the background, discarding results that
// have been superseded by a newer request for the same target
func (p *Pipeline) Submit(target string, img image.Image, req render.Request, deliver func(render.Result)) {
	p.renderer.Submit(target, img, req, deliver)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
