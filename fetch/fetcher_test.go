package fetch

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func pngBody(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func Test_Fetcher_FetchImage(t *testing.T) {
	body := pngBody(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(0)
	img, err := f.FetchImage(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("unexpected bounds %v", b)
	}
}

func Test_Fetcher_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(0)
	if _, err := f.FetchImage(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("expected an error for 404 response")
	}
}

func Test_Fetcher_RetriesServerErrors(t *testing.T) {
	body := pngBody(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "try again", http.StatusInternalServerError)
			return
		}
		w.Write(body)
	}))
	defer srv.Close()

	f := NewFetcher(2)
	img, err := f.FetchImage(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if img == nil {
		t.Fatal("nil image from successful fetch")
	}
	if hits.Load() < 2 {
		t.Errorf("expected at least 2 attempts, got %d", hits.Load())
	}
}

func Test_Fetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write(pngBody(t))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFetcher(0)
	if _, err := f.FetchImage(ctx, srv.URL+"/img.png"); err == nil {
		t.Error("expected an error for cancelled context")
	}
}
