// Command imageviewer is a small demo application that loads images from
// URLs into a LoadingImage widget through the loading engine.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/20after4/configdir"

	imageloading "github.com/supersonic-app/fyne-imageloading"
	"github.com/supersonic-app/fyne-imageloading/widgets"
)

const appName = "fyne-imageloading"

func main() {
	confDir := configdir.LocalConfig(appName)
	cacheDir := configdir.LocalCache(appName)
	if err := configdir.MakePath(confDir); err != nil {
		log.Fatalf("fatal startup error: %v", err)
	}

	confFile := filepath.Join(confDir, "config.toml")
	cfg, err := imageloading.ReadConfigFile(confFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("error reading config file: %v", err)
		}
		c := imageloading.DefaultConfig()
		cfg = &c
	}
	if cfg.DiskCacheDir == "" {
		cfg.DiskCacheDir = filepath.Join(cacheDir, "images")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loader := imageloading.NewLoader(ctx, *cfg)

	fyneApp := app.New()
	w := fyneApp.NewWindow("Image Viewer")

	img := widgets.NewLoadingImage(loader, theme.BrokenImageIcon(), 300)
	img.ScaleMode = canvas.ImageScaleSmooth

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("https://example.com/image.jpg")
	status := widget.NewLabel("")

	load := func() {
		req := imageloading.ImageRequest{
			URL:           urlEntry.Text,
			ThumbnailSize: 600,
		}
		task := img.Load(req, imageloading.LoadOptions{})
		status.SetText("loading " + req.URL)
		log.Printf("started load %s for %s", task.ID, req.URL)
	}
	img.Binding().OnTaskFinished = func(task *imageloading.Task, resp imageloading.Response, opts imageloading.LoadOptions) {
		if resp.Failed() {
			status.SetText("load failed: " + resp.Err.Error())
			return
		}
		status.SetText("")
		img.DisplayImage(resp.Image)
	}
	urlEntry.OnSubmitted = func(string) { load() }
	loadBtn := widget.NewButton("Load", load)
	cancelBtn := widget.NewButton("Cancel", img.CancelLoading)

	w.SetContent(container.NewBorder(
		container.NewBorder(nil, nil, nil, container.NewHBox(loadBtn, cancelBtn), urlEntry),
		status, nil, nil,
		img,
	))
	w.Resize(fyne.NewSize(650, 500))
	w.Show()
	fyneApp.Run()

	if err := cfg.WriteConfigFile(confFile); err != nil {
		log.Printf("error writing config file: %v", err)
	}
}
