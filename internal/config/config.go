package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/framelab/framelab/pkg/geometry"
)

// Config holds the application configuration
type Config struct {
	Frame   FrameConfig   `json:"frame"`
	Enhance EnhanceConfig `json:"enhance"`
	Vision  VisionConfig  `json:"vision"`
	Output  OutputConfig  `json:"output"`
}

// FrameConfig holds the default border settings
type FrameConfig struct {
	BorderColor string `json:"border_color"`
	Thickness   int    `json:"thickness"`
	Ratio       string `json:"ratio"`
}

// EnhanceConfig holds auto-enhancement settings
type EnhanceConfig struct {
	Auto bool `json:"auto"`
}

// VisionConfig holds settings for the vision classification backend
type VisionConfig struct {
	Backend     string `json:"backend"`
	URL         string `json:"url"`
	Model       string `json:"model"`
	SendFormat  string `json:"send_format"`
	SendMaxDim  int    `json:"send_max_dim"`
	SendQuality int    `json:"send_quality"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
	Lossless  bool   `json:"lossless"`
	OutputDir string `json:"output_dir"`
	Suffix    string `json:"suffix"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Frame: FrameConfig{
			BorderColor: "#ffffff",
			Thickness:   40,
			Ratio:       "square",
		},
		Enhance: EnhanceConfig{
			Auto: false,
		},
		Vision: VisionConfig{
			Backend:     "ollama",
			URL:         "http://localhost:11434",
			Model:       "openbmb/minicpm-v4.5",
			SendFormat:  "jpg",
			SendMaxDim:  1536,
			SendQuality: 85,
		},
		Output: OutputConfig{
			Format:    "jpg",
			Quality:   90,
			Lossless:  false,
			OutputDir: "./output",
			Suffix:    "_framed",
		},
	}
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Frame.Thickness < 0 {
		return fmt.Errorf("frame.thickness must be non-negative")
	}

	if _, ok := geometry.RatioByName(c.Frame.Ratio); !ok {
		return fmt.Errorf("frame.ratio %q is not a known aspect ratio", c.Frame.Ratio)
	}

	if c.Vision.Backend != "ollama" && c.Vision.Backend != "llamacpp" {
		return fmt.Errorf("vision.backend must be ollama or llamacpp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch c.Output.Format {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format must be jpg, png or webp")
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "framelab", "config.json")
}
