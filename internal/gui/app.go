// Main application window hosting the live preview
package gui

import (
	"context"
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"

	"camera-control-panel/internal/controls"
)

// Options configures the window.
type Options struct {
	Title     string
	Width     float32
	Height    float32
	QueueSize int
}

// DefaultOptions returns a window sized for the 800x480 preview.
func DefaultOptions() Options {
	return Options{
		Title:     "Camera Control Panel",
		Width:     800,
		Height:    480,
		QueueSize: DefaultQueueSize,
	}
}

// Application owns the fyne window, the preview surface and the event
// queue feeding the view loop.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger logrus.FieldLogger

	queue    *EventQueue
	surface  *PreviewSurface
	renderer *MatRenderer
}

// NewApplication builds the window and wires input to the event queue.
func NewApplication(app fyne.App, opts Options, logger logrus.FieldLogger) *Application {
	window := app.NewWindow(opts.Title)
	window.Resize(fyne.NewSize(opts.Width, opts.Height))
	window.CenterOnScreen()

	a := &Application{
		app:    app,
		window: window,
		logger: logger,
		queue:  NewEventQueue(opts.QueueSize, logger),
	}

	a.surface = NewPreviewSurface(a.queue, logger)
	a.renderer = NewMatRenderer(a.publish, logger)

	a.setupCallbacks()
	a.window.SetContent(a.surface)
	return a
}

func (a *Application) setupCallbacks() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if IsQuitRune(r) {
			a.logger.Info("Quit key pressed")
			a.queue.Push(controls.Quit())
			return
		}
		if k, ok := KeyForRune(r); ok {
			a.queue.Push(controls.Press(k))
		}
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if IsQuitKey(ev.Name) {
			a.logger.Info("Quit key pressed")
			a.queue.Push(controls.Quit())
			return
		}
		if k, ok := KeyForName(ev.Name); ok {
			a.queue.Push(controls.Press(k))
		}
	})

	// The loop decides when to stop; closing the window only asks it to.
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Window close requested")
		a.queue.Push(controls.Quit())
	})
}

// publish runs on the loop goroutine and swaps the image in on the fyne goroutine.
func (a *Application) publish(img image.Image) {
	fyne.Do(func() {
		a.surface.SetFrame(img)
	})
}

// Events returns the queue the view loop drains.
func (a *Application) Events() *EventQueue {
	return a.queue
}

// Renderer returns the overlay renderer the view loop draws with.
func (a *Application) Renderer() *MatRenderer {
	return a.renderer
}

// Run shows the window and runs loop on its own goroutine. It returns
// the loop's error after both the loop and the window have stopped.
func (a *Application) Run(ctx context.Context, loop func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		loopErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		loopErr = loop(ctx)
		a.logger.Debug("View loop returned, closing window")
		fyne.Do(a.app.Quit)
	}()

	a.logger.Info("Showing preview window")
	a.window.ShowAndRun()

	cancel()
	wg.Wait()

	if err := a.renderer.Close(); err != nil {
		a.logger.WithError(err).Warn("Renderer close failed")
	}
	return loopErr
}
