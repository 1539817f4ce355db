// Camera Control Panel
// Live camera preview with on-screen exposure controls.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"camera-control-panel/internal/camera"
	"camera-control-panel/internal/controls"
	"camera-control-panel/internal/core"
	"camera-control-panel/internal/gui"
	"camera-control-panel/internal/metrics"
	"camera-control-panel/internal/preview"
)

const (
	AppName    = "Camera Control Panel"
	AppID      = "com.example.camera-control-panel"
	AppVersion = "1.0.0"
)

// CLI holds the command-line configuration.
type CLI struct {
	Device int `help:"Camera device index." default:"0"`
	Width  int `help:"Capture width in pixels." default:"800"`
	Height int `help:"Capture height in pixels." default:"480"`
	FPS    int `name:"fps" help:"Requested capture frame rate." default:"30"`

	Controls    string `help:"Control style: slider or stepper." enum:"slider,stepper" default:"slider"`
	SnapshotDir string `help:"Directory for snapshots." default:"." type:"path"`

	Rotate int  `help:"Clockwise rotation applied to the preview, in multiples of 90." default:"0"`
	HFlip  bool `name:"hflip" help:"Mirror the preview horizontally."`
	VFlip  bool `name:"vflip" help:"Mirror the preview vertically."`

	Manual       bool `help:"Start with auto-exposure off."`
	VerifyWrites bool `help:"Read back every camera property and report mismatches."`

	BrightnessRange []float64 `help:"Driver brightness range as min,max." sep:"," default:"0,100"`
	ContrastRange   []float64 `help:"Driver contrast range as min,max." sep:"," default:"-100,100"`

	StatsInterval time.Duration `help:"Interval between loop statistics log lines." default:"10s"`
	MetricsEvery  int           `help:"Compute frame metrics every N frames, 0 disables." default:"10"`

	Debug bool `help:"Enable debug mode with verbose logging."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("camera-panel"),
		kong.Description("Live camera preview with exposure controls."),
		kong.UsageOnError(),
	)

	logger := initLogger(cli.Debug)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cli.Debug,
		"device":     cli.Device,
		"controls":   cli.Controls,
	}).Info("Starting " + AppName)

	if err := run(cli, logger); err != nil {
		logger.WithError(err).Fatal("Camera control panel failed")
	}

	logger.Info("Application shutting down gracefully")
}

func run(cli CLI, logger *logrus.Logger) error {
	orientation := camera.Orientation{Rotate: cli.Rotate, HFlip: cli.HFlip, VFlip: cli.VFlip}
	if err := orientation.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(cli.SnapshotDir, 0o755); err != nil {
		return fmt.Errorf("snapshot directory: %w", err)
	}

	store := core.NewDefaultStore()
	err := core.CheckStore(store)
	if err != nil {
		return err
	}

	opts := camera.DefaultOptions()
	opts.DeviceID = cli.Device
	opts.Width = cli.Width
	opts.Height = cli.Height
	opts.FPS = cli.FPS
	opts.VerifyWrites = cli.VerifyWrites
	if opts.BrightnessRange, err = driverRange("brightness", cli.BrightnessRange); err != nil {
		return err
	}
	if opts.ContrastRange, err = driverRange("contrast", cli.ContrastRange); err != nil {
		return err
	}

	device, err := camera.OpenOpenCVDevice(opts, logger.WithField("component", "camera"))
	if err != nil {
		return err
	}
	defer device.Close()

	applier := core.NewApplier(device, !cli.Manual, logger.WithField("component", "applier"))
	snapshotter := camera.NewSnapshotter(device, cli.SnapshotDir, logger.WithField("component", "snapshot"))

	commands := map[controls.CommandID]controls.Command{
		controls.CommandSnapshot: func() error {
			_, err := snapshotter.Take()
			return err
		},
		controls.CommandToggleAuto: func() error {
			return applier.ToggleAutoExposure(store)
		},
	}

	// The panel lives in frame pixels, so it follows the negotiated size,
	// not the requested one.
	frameWidth, frameHeight := orientation.OutputSize(device.Size())
	layout := controls.DefaultLayout(controls.Style(cli.Controls)).AnchorRight(float64(frameWidth))

	widgets, err := layout.Build(core.DefaultParameters())
	if err != nil {
		return err
	}
	if err := controls.CheckFits(widgets, float64(frameWidth), float64(frameHeight)); err != nil {
		return err
	}

	dispatcher, err := controls.NewDispatcher(widgets, controls.DefaultKeyBindings(), store, applier, commands, logger.WithField("component", "dispatcher"))
	if err != nil {
		return err
	}

	// A rejected property is not fatal; the panel still shows the stored value.
	if err := applier.Apply(store); err != nil {
		logger.WithError(err).Warn("Initial settings not fully applied")
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetIcon(theme.MediaPhotoIcon())
	fyneApp.Settings().SetTheme(theme.DefaultTheme())

	guiOpts := gui.DefaultOptions()
	guiOpts.Title = AppName
	guiOpts.Width = float32(frameWidth)
	guiOpts.Height = float32(frameHeight)
	window := gui.NewApplication(fyneApp, guiOpts, logger.WithField("component", "gui"))

	loopOpts := preview.DefaultOptions()
	loopOpts.Orientation = orientation
	loopOpts.StatsInterval = cli.StatsInterval
	loopOpts.MetricsEvery = cli.MetricsEvery

	var evaluator preview.Evaluator
	if cli.MetricsEvery > 0 {
		e := metrics.NewEvaluator()
		logger.WithFields(logrus.Fields{
			"metrics": e.Names(),
			"every":   cli.MetricsEvery,
		}).Info("Frame metrics enabled")
		evaluator = e
	}

	loop, err := preview.NewLoop(device, window.Renderer(), window.Events(), dispatcher, store, applier, evaluator, loopOpts, logger.WithField("component", "preview"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return window.Run(ctx, loop.Run)
}

func driverRange(name string, bounds []float64) (camera.Range, error) {
	if len(bounds) != 2 || bounds[0] >= bounds[1] {
		return camera.Range{}, fmt.Errorf("%s range must be min,max with min < max, got %v", name, bounds)
	}
	return camera.Range{Min: bounds[0], Max: bounds[1]}, nil
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
