package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAllowedImage(t *testing.T) {
	cases := map[string]bool{
		"beach.png":      true,
		"beach.JPG":      true,
		"beach.Jpeg":     true,
		"beach.gif":      false,
		"beach":          false,
		"beach.png.exe":  false,
		".png":           true,
		"archive.tar.gz": false,
	}
	for name, want := range cases {
		if got := AllowedImage(name); got != want {
			t.Errorf("AllowedImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Beach Sunset.JPG":        "beach-sunset.jpg",
		"../../etc/passwd.png":    "passwd.png",
		`..\..\windows\evil.jpeg`: "evil.jpeg",
		"/abs/path/photo.png":     "photo.png",
		"???.png":                 "image.png",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalStoreSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore returned error: %v", err)
	}

	if err := store.Save(context.Background(), "beach.png", strings.NewReader("first"), "image/png"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Save(context.Background(), "beach.png", strings.NewReader("second"), "image/png"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "beach.png"))
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected last write to win, got %q", data)
	}
}
