package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// GetFileExtension returns the file extension without the dot
func GetFileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 0 {
		return strings.ToLower(ext[1:])
	}
	return ""
}

// IsImageFile checks if a file has an image extension
func IsImageFile(filename string) bool {
	ext := GetFileExtension(filename)
	imageExts := []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"}

	for _, imgExt := range imageExts {
		if ext == imgExt {
			return true
		}
	}
	return false
}

// GenerateOutputFilename generates an output filename based on input and parameters
func GenerateOutputFilename(inputFile, outputDir, prefix, suffix, format string) string {
	baseName := filepath.Base(inputFile)
	nameWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))

	if format == "" {
		format = GetFileExtension(inputFile)
		if format == "" {
			format = "jpg"
		}
	}

	outputName := fmt.Sprintf("%s%s%s.%s", prefix, nameWithoutExt, suffix, format)
	return filepath.Join(outputDir, outputName)
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return !info.IsDir()
}
