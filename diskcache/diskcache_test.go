package diskcache

import (
	"image"
	"image/color"
	"os"
	"testing"
	"time"
)

func testImg() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func Test_DiskCache_PutGet(t *testing.T) {
	c, err := New(t.TempDir(), 1_048_576, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("http://x/a.png"); ok {
		t.Fatal("unexpected hit on empty cache")
	}
	if err := c.Put("http://x/a.png", testImg()); err != nil {
		t.Fatal(err)
	}
	img, ok := c.Get("http://x/a.png")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("unexpected bounds %v", b)
	}
	if c.IsStale("http://x/a.png") {
		t.Error("fresh entry reported stale")
	}
}

func Test_DiskCache_IsStale(t *testing.T) {
	c, err := New(t.TempDir(), 1_048_576, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", testImg()); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(c.Path("k"), old, old); err != nil {
		t.Fatal(err)
	}
	if !c.IsStale("k") {
		t.Error("entry past its validity window should be stale")
	}
	if c.IsStale("missing") {
		t.Error("missing entry should not be stale")
	}
}

func Test_DiskCache_PruneRemovesOldestFirst(t *testing.T) {
	dir := t.TempDir()
	big, err := New(dir, 1_048_576, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := big.Put("old", testImg()); err != nil {
		t.Fatal(err)
	}
	if err := big.Put("new", testImg()); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(big.Path("old"), past, past); err != nil {
		t.Fatal(err)
	}
	stat, err := os.Stat(big.Path("new"))
	if err != nil {
		t.Fatal(err)
	}

	// cap that fits exactly one entry
	c := &Cache{
		dir:                        dir,
		maxSizeBytes:               stat.Size(),
		validFor:                   time.Hour,
		filesWrittenSinceLastPrune: true,
	}
	c.Prune()

	if _, ok := c.Get("old"); ok {
		t.Error("oldest entry should have been pruned")
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("newest entry should survive pruning")
	}
}

func Test_DiskCache_PruneSkipsWhenNothingWritten(t *testing.T) {
	dir := t.TempDir()
	seed, err := New(dir, 1, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if err := seed.Put("k", testImg()); err != nil {
		t.Fatal(err)
	}

	c := &Cache{dir: dir, maxSizeBytes: 1, validFor: time.Hour}
	c.Prune() // no writes recorded, must not walk or delete
	if _, ok := c.Get("k"); !ok {
		t.Error("prune without writes should not delete anything")
	}
}
