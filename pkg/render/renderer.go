// Package render composes the pipeline stages into whole-image renders and
// runs them off the caller's interactive path. Each render is a synchronous,
// single-threaded computation; concurrency comes from independent
// submissions, which share no mutable state.
package render

import (
	"context"
	"image"
	"sync"

	"github.com/framelab/framelab/pkg/analyze"
	"github.com/framelab/framelab/pkg/cache"
	"github.com/framelab/framelab/pkg/enhance"
	"github.com/framelab/framelab/pkg/film"
	"github.com/framelab/framelab/pkg/geometry"
	"github.com/framelab/framelab/pkg/grading"
)

// Request describes one render. Source is an optional stable identity for
// the input image used for cache fingerprinting; an empty Source bypasses
// the cache. A nil Frame skips framing, an empty Profile skips film
// conversion, and AutoEnhance folds analysis-derived deltas into Params
// before grading.
type Request struct {
	Source      string
	Frame       *geometry.FrameSpec
	Params      grading.Parameters
	Profile     string
	AutoEnhance bool
}

// Result is a completed render together with the fingerprint and the final
// (clamped, possibly auto-enhanced) parameters that produced it.
type Result struct {
	Image       image.Image
	Fingerprint string
	Params      grading.Parameters
}

// Renderer runs render requests, optionally against a shared cache and an
// analyzer for auto-enhancement.
type Renderer struct {
	analyzer *analyze.Analyzer
	cache    *cache.Cache

	mu  sync.Mutex
	seq map[string]uint64
}

// New creates a Renderer. Both the analyzer and the cache may be nil:
// without an analyzer AutoEnhance derives deltas from local statistics only,
// without a cache every render recomputes.
func New(analyzer *analyze.Analyzer, c *cache.Cache) *Renderer {
	if analyzer == nil {
		analyzer = analyze.New()
	}
	return &Renderer{
		analyzer: analyzer,
		cache:    c,
		seq:      make(map[string]uint64),
	}
}

// Render executes a request synchronously and returns the result. It is
// total: any input produces an output image, and a nil source comes back
// nil rather than panicking.
func (r *Renderer) Render(ctx context.Context, src image.Image, req Request) Result {
	if src == nil {
		return Result{}
	}

	params := req.Params
	if req.AutoEnhance {
		analysis := r.analyzer.Analyze(ctx, src)
		params = params.Add(enhance.Derive(analysis))
	}
	params = params.Clamp()

	var frame geometry.FrameSpec
	if req.Frame != nil {
		frame = *req.Frame
	}
	fp := cache.Key{Source: req.Source, Frame: frame, Params: params, Profile: req.Profile}.Fingerprint()

	if r.cache != nil && req.Source != "" {
		if img, ok := r.cache.Get(fp); ok {
			return Result{Image: img, Fingerprint: fp, Params: params}
		}
	}

	out := src
	if req.Frame != nil {
		out = geometry.ComposeFrame(geometry.Crop(out, req.Frame.Ratio), *req.Frame)
	}
	if req.Profile != "" {
		if profile, ok := film.ProfileByName(req.Profile); ok {
			out = film.Convert(out, profile)
		}
	}
	out = grading.Apply(out, params)

	if r.cache != nil && req.Source != "" {
		r.cache.Put(fp, out)
	}
	return Result{Image: out, Fingerprint: fp, Params: params}
}

// Submit runs a request on a background goroutine. Results are delivered
// per target: when a newer request for the same target has been submitted in
// the meantime, the stale result is discarded instead of delivered, so the
// display only ever receives the latest requested render.
func (r *Renderer) Submit(target string, src image.Image, req Request, deliver func(Result)) {
	r.mu.Lock()
	r.seq[target]++
	ticket := r.seq[target]
	r.mu.Unlock()

	go func() {
		result := r.Render(context.Background(), src, req)

		r.mu.Lock()
		latest := r.seq[target]
		r.mu.Unlock()
		if ticket != latest {
			return // superseded
		}
		if deliver != nil {
			deliver(result)
		}
	}()
}
