package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/framelab/framelab"
	"github.com/framelab/framelab/internal/config"
	"github.com/framelab/framelab/internal/utils"
	"github.com/framelab/framelab/pkg/film"
	"github.com/framelab/framelab/pkg/geometry"
	"github.com/framelab/framelab/pkg/grading"
	"github.com/framelab/framelab/pkg/imageio"
	"github.com/framelab/framelab/pkg/render"
	"github.com/framelab/framelab/pkg/vision"
)

func main() {
	cfg := loadConfig(os.Args[1:])

	var configPath string
	var in, outDir, ext string
	var quality int
	var lossless bool

	var ratioName, borderHex string
	var thickness int
	var noFrame bool

	var profileName string
	var auto bool
	var backend, url, model string
	var sendSize, sendQ int

	var params grading.Parameters

	flag.StringVar(&configPath, "config", "", "JSON config file supplying flag defaults (default "+config.GetConfigPath()+" when present)")
	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&outDir, "out", cfg.Output.OutputDir, "output directory")
	flag.StringVar(&ext, "ext", cfg.Output.Format, "output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", cfg.Output.Quality, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", cfg.Output.Lossless, "WebP output lossless mode")

	flag.StringVar(&ratioName, "ratio", cfg.Frame.Ratio, "frame aspect ratio: "+ratioNames())
	flag.StringVar(&borderHex, "border", cfg.Frame.BorderColor, "border color as #rrggbb")
	flag.IntVar(&thickness, "thickness", cfg.Frame.Thickness, "border thickness in canvas pixels")
	flag.BoolVar(&noFrame, "noframe", false, "skip crop and border compositing")

	flag.StringVar(&profileName, "film", "", "film profile: "+profileNames()+" (empty = none)")

	flag.BoolVar(&auto, "auto", cfg.Enhance.Auto, "auto-enhance from image analysis")
	flag.StringVar(&backend, "backend", "", "vision backend for -auto: ollama or llamacpp (empty = local analysis only)")
	flag.StringVar(&url, "url", "", "vision server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", cfg.Vision.Model, "vision model name")
	flag.IntVar(&sendSize, "sendsize", cfg.Vision.SendMaxDim, "max long side sent to the vision model (px), 0=original")
	flag.IntVar(&sendQ, "sendq", cfg.Vision.SendQuality, "JPEG quality for image sent to the vision model (1-100)")

	flag.Float64Var(&params.Brightness, "brightness", 0, "brightness offset (-1..1)")
	flag.Float64Var(&params.Contrast, "contrast", 0, "contrast (-1..1)")
	flag.Float64Var(&params.Saturation, "saturation", 0, "saturation (-1..1)")
	flag.Float64Var(&params.Vibrance, "vibrance", 0, "vibrance (-1..1)")
	flag.Float64Var(&params.Lights, "lights", 0, "lights (-1..1)")
	flag.Float64Var(&params.Darks, "darks", 0, "darks (-1..1)")
	flag.Float64Var(&params.Whites, "whites", 0, "whites (-1..1)")
	flag.Float64Var(&params.Blacks, "blacks", 0, "blacks (-1..1)")
	flag.Float64Var(&params.Temperature, "temp", 0, "color temperature (-1..1)")
	flag.Float64Var(&params.Tint, "tint", 0, "tint (-1..1)")
	flag.Float64Var(&params.Red, "red", 0, "red channel gain (-1..1)")
	flag.Float64Var(&params.Green, "green", 0, "green channel gain (-1..1)")
	flag.Float64Var(&params.Blue, "blue", 0, "blue channel gain (-1..1)")
	flag.Float64Var(&params.Hue, "hue", 0, "hue rotation (-1..1, times pi radians)")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL [-ratio square] [-border #ffffff] [-thickness 40] [-film standard] [-auto] [-out outdir]", filepath.Base(os.Args[0]))
	}
	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	ratio, ok := geometry.RatioByName(ratioName)
	if !ok {
		log.Fatalf("unknown aspect ratio %q (use one of: %s)", ratioName, ratioNames())
	}
	border, err := parseHexColor(borderHex)
	if err != nil {
		log.Fatal(err)
	}
	if profileName != "" {
		if _, ok := film.ProfileByName(profileName); !ok {
			log.Fatalf("unknown film profile %q (use one of: %s)", profileName, profileNames())
		}
	}

	// Set up the vision classifier when requested
	var classifier vision.Classifier
	if auto && backend != "" {
		if url == "" && backend == cfg.Vision.Backend {
			url = cfg.Vision.URL
		}
		switch backend {
		case "ollama":
			if url == "" {
				url = "http://localhost:11434"
			}
			c, err := vision.NewOllamaClassifier(url, model)
			if err != nil {
				log.Fatalf("Failed to create Ollama classifier: %v", err)
			}
			c.SetSendLimits(sendSize, sendQ)
			classifier = c
		case "llamacpp":
			if url == "" {
				url = "http://localhost:8080"
			}
			c, err := vision.NewLlamaCppClassifier(url, model)
			if err != nil {
				log.Fatalf("Failed to create llama.cpp classifier: %v", err)
			}
			c.SetSendLimits(sendSize, sendQ)
			classifier = c
		default:
			log.Fatalf("Unknown backend: %s (use 'ollama' or 'llamacpp')", backend)
		}
	}

	img, err := imageio.LoadAny(in)
	if err != nil {
		log.Fatal(err)
	}
	info := imageio.GetInfo(img)
	log.Printf("loaded %s: %dx%d (ratio %.3f)", in, info.Width, info.Height, info.AspectRatio)

	pipeline := framelab.NewWithOptions(framelab.Options{Classifier: classifier})

	req := render.Request{
		Source:      in,
		Params:      params,
		Profile:     profileName,
		AutoEnhance: auto,
	}
	if !noFrame {
		req.Frame = &geometry.FrameSpec{Border: border, Thickness: thickness, Ratio: ratio}
	}

	result := pipeline.Process(context.Background(), img, req)
	if auto {
		log.Printf("applied parameters: %+v", result.Params)
	}

	outPath := utils.GenerateOutputFilename(in, outDir, "", cfg.Output.Suffix, strings.ToLower(ext))
	if err := imageio.Save(result.Image, outPath, ext, quality, lossless); err != nil {
		log.Fatalf("save %s failed: %v", outPath, err)
	}
	log.Printf("wrote %s", outPath)
}

// loadConfig resolves the configuration before flag registration, since the
// config file supplies the defaults of the other flags. The -config argument
// is scanned by hand for the same reason.
func loadConfig(args []string) *config.Config {
	path := ""
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				path = args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			path = strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			path = strings.TrimPrefix(a, "--config=")
		}
	}
	if path == "" {
		if def := config.GetConfigPath(); utils.FileExists(def) {
			path = def
		}
	}
	if path == "" {
		return config.Default()
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("load config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config %s: %v", path, err)
	}
	return cfg
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("border color must be #rrggbb, got %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid border color %q: %v", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func ratioNames() string {
	var names []string
	for _, r := range geometry.Ratios() {
		names = append(names, r.Name)
	}
	return strings.Join(names, "|")
}

func profileNames() string {
	var names []string
	for _, p := range film.Profiles() {
		names = append(names, p.Name)
	}
	return strings.Join(names, "|")
}
