package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetFileExtension(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":       "jpg",
		"photo.webp":      "webp",
		"archive.tar.gz":  "gz",
		"noextension":     "",
		"/path/to/p.png":  "png",
		"trailing.dot.":   "",
	}
	for in, want := range cases {
		if got := GetFileExtension(in); got != want {
			t.Errorf("GetFileExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	for _, f := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp"} {
		if !IsImageFile(f) {
			t.Errorf("IsImageFile(%q) = false, want true", f)
		}
	}
	for _, f := range []string{"a.txt", "b.mp4", "noext"} {
		if IsImageFile(f) {
			t.Errorf("IsImageFile(%q) = true, want false", f)
		}
	}
}

func TestGenerateOutputFilename(t *testing.T) {
	got := GenerateOutputFilename("/in/photo.jpg", "/out", "", "_framed", "png")
	want := filepath.Join("/out", "photo_framed.png")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Empty format falls back to the input extension
	got = GenerateOutputFilename("photo.webp", "out", "fl_", "", "")
	want = filepath.Join("out", "fl_photo.webp")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir: %v", err)
	}

	if FileExists(dir) {
		t.Error("FileExists should be false for a directory")
	}
	file := filepath.Join(dir, "f.txt")
	if FileExists(file) {
		t.Error("FileExists should be false for a missing file")
	}
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(file) {
		t.Error("FileExists should be true for a regular file")
	}
}
