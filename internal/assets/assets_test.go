package assets

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestResolveOrder(t *testing.T) {
	worldDir := t.TempDir()
	low := t.TempDir()
	high := t.TempDir()
	writePNG(t, filepath.Join(low, "a.png"), 1, 1)
	writePNG(t, filepath.Join(high, "a.png"), 2, 2)
	writePNG(t, filepath.Join(low, "b.png"), 3, 3)

	m := NewManager()
	if err := m.AddRoot(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRoot(high); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"a.png", filepath.Join(high, "a.png")},
		{"b.png", filepath.Join(low, "b.png")},
	}
	for _, tt := range tests {
		got, _, err := m.Resolve(tt.name, worldDir)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("Resolve(%s) = %s, want %s", tt.name, got, tt.want)
		}
	}

	// The referring file's directory wins over every root.
	writePNG(t, filepath.Join(worldDir, "a.png"), 4, 4)
	got, _, err := m.Resolve("a.png", worldDir)
	if err != nil || got != filepath.Join(worldDir, "a.png") {
		t.Errorf("Resolve next to world = %s, %v", got, err)
	}

	if _, _, err := m.Resolve("c.png", worldDir); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAddRootRejectsFiles(t *testing.T) {
	f := filepath.Join(t.TempDir(), "x.png")
	writePNG(t, f, 1, 1)

	m := NewManager()
	if err := m.AddRoot(f); err == nil {
		t.Error("expected error for file root")
	}
	if err := m.AddRoot(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestImageCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pano.png")
	writePNG(t, path, 8, 4)

	m := NewManager()
	img, err := m.Image("pano.png", dir)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.W != 8 || img.H != 4 {
		t.Errorf("expected 8x4, got %dx%d", img.W, img.H)
	}

	again, err := m.Image("pano.png", dir)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if again != img {
		t.Error("expected cached image")
	}
	if hits, misses := m.Cache().Stats(); hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit 1 miss, got %d/%d", hits, misses)
	}

	writePNG(t, path, 16, 8)
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	changed, err := m.Image("pano.png", dir)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if changed.W != 16 {
		t.Errorf("expected re-probed width 16, got %d", changed.W)
	}
}

func TestImageAbsolutePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abs.png")
	writePNG(t, path, 5, 7)

	img, err := NewManager().Image(path, "")
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if img.Path != path || img.H != 7 {
		t.Errorf("unexpected image %+v", img)
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache()
	c.Get("x", Stamp{})
	c.Clear()
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("expected cleared stats, got %d/%d", hits, misses)
	}
}
