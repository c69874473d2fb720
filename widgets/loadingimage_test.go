package widgets

import (
	"context"
	"image"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"

	imageloading "github.com/supersonic-app/fyne-imageloading"
)

func newTestWidget(t *testing.T) *LoadingImage {
	t.Helper()
	test.NewApp()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	loader := imageloading.NewLoader(ctx, imageloading.DefaultConfig())
	return NewLoadingImage(loader, theme.BrokenImageIcon(), 100)
}

func Test_LoadingImage_PlaceholderUntilImage(t *testing.T) {
	w := newTestWidget(t)
	if w.HaveImage() {
		t.Error("new widget should not have an image")
	}
	if w.Image() != nil {
		t.Error("Image should be nil before display")
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	w.DisplayImage(img)
	if !w.HaveImage() {
		t.Error("widget should have an image after DisplayImage")
	}
	if w.Image() != img {
		t.Error("Image should return the displayed image")
	}

	w.DisplayImage(nil)
	if w.HaveImage() {
		t.Error("displaying nil should revert to the placeholder")
	}
}

func Test_LoadingImage_DisplayResetsTranslucency(t *testing.T) {
	w := newTestWidget(t)
	w.SetImageTranslucency(0.7)
	w.DisplayImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if w.imageDisp.Translucency != 0 {
		t.Error("DisplayImage should reset translucency to fully opaque")
	}
}

func Test_LoadingImage_MinSize(t *testing.T) {
	w := newTestWidget(t)
	if s := w.MinSize(); s.Width != 100 || s.Height != 100 {
		t.Errorf("unexpected min size %v", s)
	}
}

func Test_LoadingImage_CurrentTaskNilAtRest(t *testing.T) {
	w := newTestWidget(t)
	if w.CurrentTask() != nil {
		t.Error("no task should be current before any load")
	}
	w.CancelLoading() // no-op, must not panic
}
