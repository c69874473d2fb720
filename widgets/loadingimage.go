// Package widgets provides Fyne widgets that display asynchronously
// loaded images.
package widgets

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	imageloading "github.com/supersonic-app/fyne-imageloading"
)

// A widget that loads its image through a loading engine and displays a
// placeholder with a rectangular border frame and an icon positioned in
// the center of the frame until the image arrives.
type LoadingImage struct {
	ScaleMode canvas.ImageScale

	widget.BaseWidget
	binding   *imageloading.ViewBinding
	content   *fyne.Container
	imageDisp *canvas.Image
	haveImage bool
	iconImage *canvas.Image
	border    *canvas.Rectangle
	minSize   float32

	OnTapped          func(*fyne.PointEvent)
	OnTappedSecondary func(*fyne.PointEvent)
}

var (
	_ imageloading.ImageDisplayingView        = (*LoadingImage)(nil)
	_ imageloading.TranslucencyAnimatableView = (*LoadingImage)(nil)
)

func NewLoadingImage(engine imageloading.Engine, centerIcon fyne.Resource, minSize float32) *LoadingImage {
	l := &LoadingImage{minSize: minSize}
	l.ExtendBaseWidget(l)
	l.iconImage = canvas.NewImageFromResource(centerIcon)
	l.iconImage.FillMode = canvas.ImageFillContain
	l.iconImage.SetMinSize(fyne.NewSize(minSize/4, minSize/4))
	l.imageDisp = canvas.NewImageFromImage(nil)
	l.imageDisp.FillMode = canvas.ImageFillContain
	l.imageDisp.Hidden = true
	l.border = canvas.NewRectangle(color.Transparent)
	l.border.StrokeColor = theme.Color(theme.ColorNameForeground)
	l.border.StrokeWidth = 3
	l.content = container.NewStack(
		l.border,
		container.NewCenter(l.iconImage),
		l.imageDisp,
	)
	l.binding = imageloading.NewViewBinding(engine, l)
	return l
}

// Load begins loading the requested image into this widget, superseding
// any load still in flight.
func (l *LoadingImage) Load(req imageloading.ImageRequest, opts imageloading.LoadOptions) *imageloading.Task {
	return l.binding.SetImage(req, opts)
}

// CancelLoading cancels the in-flight load, if any.
func (l *LoadingImage) CancelLoading() {
	l.binding.CancelLoading()
}

// CurrentTask returns the widget's current load task, or nil.
func (l *LoadingImage) CurrentTask() *imageloading.Task {
	return l.binding.CurrentTask()
}

// Binding exposes the widget's view binding, e.g. to install an
// OnTaskFinished hook.
func (l *LoadingImage) Binding() *imageloading.ViewBinding {
	return l.binding
}

func (l *LoadingImage) HaveImage() bool {
	return l.haveImage
}

// DisplayImage shows the given image, or the placeholder if img is nil.
func (l *LoadingImage) DisplayImage(img image.Image) {
	l.haveImage = img != nil
	l.imageDisp.Image = img
	l.imageDisp.Translucency = 0
	l.Refresh()
}

// Image returns the currently displayed image, or nil.
func (l *LoadingImage) Image() image.Image {
	if !l.haveImage {
		return nil
	}
	return l.imageDisp.Image
}

func (l *LoadingImage) SetImageTranslucency(t float64) {
	l.imageDisp.Translucency = t
}

func (l *LoadingImage) Tapped(e *fyne.PointEvent) {
	if l.OnTapped != nil {
		l.OnTapped(e)
	}
}

func (l *LoadingImage) TappedSecondary(e *fyne.PointEvent) {
	if l.OnTappedSecondary != nil {
		l.OnTappedSecondary(e)
	}
}

func (l *LoadingImage) MinSize() fyne.Size {
	return fyne.NewSize(l.minSize, l.minSize)
}

func (l *LoadingImage) Refresh() {
	l.border.Hidden = l.haveImage
	l.iconImage.Hidden = l.haveImage
	l.imageDisp.Hidden = !l.haveImage
	l.imageDisp.ScaleMode = l.ScaleMode
	l.iconImage.ScaleMode = l.ScaleMode
	l.BaseWidget.Refresh()
}

func (l *LoadingImage) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(l.content)
}
