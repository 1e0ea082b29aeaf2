// Package vision supplies ranked semantic labels for an image from an
// external vision model. The pipeline only forwards and shapes this output;
// the model itself is an external collaborator and every backend degrades to
// an empty label list rather than breaking the caller.
package vision

import (
	"context"
	"encoding/json"
	"image"
	"regexp"
	"sort"
	"strings"
)

// Label is a semantic content classification with model confidence in [0,1].
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Classifier produces ranked content labels for an image.
type Classifier interface {
	Classify(ctx context.Context, img image.Image) ([]Label, error)
}

// DefaultPrompt asks the model for ranked scene labels as strict JSON.
const DefaultPrompt = `You are an image content classifier.

Return JSON only:
{
  "labels": [
    {"name": "string", "confidence": 0.0}
  ]
}

HARD RULES
- Up to 5 labels, ranked by confidence descending.
- Names are lowercase single words or short hyphenated terms describing scene
  content (e.g. "sunset", "beach", "portrait", "night", "snow", "forest").
- Confidence is in [0,1].
- If nothing is recognizable, return {"labels":[]}.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

type labelResponse struct {
	Labels []Label `json:"labels"`
}

// parseLabels parses the JSON response from a vision model. Unparseable
// output yields an empty list, never an error: a confused model is treated
// as "no labels".
func parseLabels(raw string) []Label {
	raw = sanitizeModelJSON(raw)
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return nil
	}

	var resp labelResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		// Try conservative brace-slice approach
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil
		}
		if err2 := json.Unmarshal([]byte(raw[start:end+1]), &resp); err2 != nil {
			return nil
		}
	}
	return normalizeLabels(resp.Labels)
}

// normalizeLabels lowercases and trims names, drops empties and duplicates,
// clamps confidence into [0,1] and re-sorts by confidence descending.
func normalizeLabels(labels []Label) []Label {
	seen := make(map[string]bool)
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		name := strings.ToLower(strings.TrimSpace(l.Name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		conf := l.Confidence
		if conf < 0 {
			conf = 0
		}
		if conf > 1 {
			conf = 1
		}
		out = append(out, Label{Name: name, Confidence: conf})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// sanitizeModelJSON removes code fences, comments, and trailing commas from a
// model response before parsing.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	// Strip triple-backtick fences if present
	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	// Remove /* ... */ block comments
	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")

	// Remove // line/inline comments
	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reInline := regexp.MustCompile(`(?m)//.*$`)
	raw = reInline.ReplaceAllString(raw, "")

	// Remove trailing commas before } or ]
	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
