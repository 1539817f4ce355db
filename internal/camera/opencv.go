package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"camera-control-panel/internal/core"
	"camera-control-panel/internal/io"
)

// Default capture settings
const (
	DefaultWidth  = 800
	DefaultHeight = 480
	DefaultFPS    = 30
)

// Options configures an OpenCVDevice.
type Options struct {
	DeviceID int
	Width    int
	Height   int
	FPS      int

	// Values written to the auto-exposure property. The V4L2 backend uses
	// 3 (aperture priority) for auto and 1 for manual.
	AutoExposureOn  float64
	AutoExposureOff float64

	// ExposureUnitUS is the number of microseconds in one unit of the
	// exposure property (100 for V4L2 exposure_absolute).
	ExposureUnitUS float64

	// GainScale converts white-balance gains to the driver's red/blue
	// balance units.
	GainScale float64

	// BrightnessRange and ContrastRange are the driver's property ranges.
	// Panel values are mapped linearly onto them.
	BrightnessRange Range
	ContrastRange   Range

	// VerifyWrites reads every property back and reports a mismatch as a
	// rejected setting.
	VerifyWrites bool
}

// Range is a closed interval of driver property values.
type Range struct {
	Min float64
	Max float64
}

// Brightness and contrast domains of the panel parameters.
var (
	brightnessDomain = parameterDomain(core.ParamBrightness)
	contrastDomain   = parameterDomain(core.ParamContrast)
)

func parameterDomain(name string) Range {
	for _, p := range core.DefaultParameters() {
		if p.Name == name {
			return Range{Min: p.Min, Max: p.Max}
		}
	}
	return Range{}
}

// Rescale maps v from the domain onto r. An empty r passes v through.
func (r Range) Rescale(v float64, domain Range) float64 {
	if r == (Range{}) || domain.Max == domain.Min {
		return v
	}
	return r.Min + (v-domain.Min)/(domain.Max-domain.Min)*(r.Max-r.Min)
}

// DefaultOptions returns settings for the first V4L2 camera.
func DefaultOptions() Options {
	return Options{
		DeviceID:        0,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		FPS:             DefaultFPS,
		AutoExposureOn:  3,
		AutoExposureOff: 1,
		ExposureUnitUS:  100,
		GainScale:       1000,
		BrightnessRange: brightnessDomain,
		ContrastRange:   contrastDomain,
	}
}

// propertyBackend is the property surface of a capture device.
type propertyBackend interface {
	SetProperty(prop gocv.VideoCaptureProperties, value float64)
	GetProperty(prop gocv.VideoCaptureProperties) float64
}

type captureBackend struct {
	capture *gocv.VideoCapture
}

func (b captureBackend) SetProperty(prop gocv.VideoCaptureProperties, value float64) {
	b.capture.Set(prop, value)
}

func (b captureBackend) GetProperty(prop gocv.VideoCaptureProperties) float64 {
	return b.capture.Get(prop)
}

// OpenCVDevice drives a camera through an OpenCV VideoCapture.
type OpenCVDevice struct {
	opts    Options
	capture *gocv.VideoCapture
	props   propertyBackend
	width   int
	height  int
	raw     gocv.Mat
	rgb     gocv.Mat
	writer  *io.ImageWriter
	logger  logrus.FieldLogger
}

// OpenOpenCVDevice opens the capture device. Failure here is fatal for the panel.
func OpenOpenCVDevice(opts Options, logger logrus.FieldLogger) (*OpenCVDevice, error) {
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.FPS == 0 {
		opts.FPS = DefaultFPS
	}
	if opts.ExposureUnitUS <= 0 {
		opts.ExposureUnitUS = 1
	}
	if opts.GainScale <= 0 {
		opts.GainScale = 1
	}

	capture, err := gocv.OpenVideoCapture(opts.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrDeviceUnavailable, opts.DeviceID, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: device %d did not open", ErrDeviceUnavailable, opts.DeviceID)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(opts.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(opts.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(opts.FPS))

	// Drivers fall back to the nearest mode they support.
	width, height := opts.Width, opts.Height
	if w := int(capture.Get(gocv.VideoCaptureFrameWidth)); w > 0 {
		width = w
	}
	if h := int(capture.Get(gocv.VideoCaptureFrameHeight)); h > 0 {
		height = h
	}

	logger.WithFields(logrus.Fields{
		"device":           opts.DeviceID,
		"width":            width,
		"height":           height,
		"requested_width":  opts.Width,
		"requested_height": opts.Height,
		"fps":              capture.Get(gocv.VideoCaptureFPS),
	}).Info("Camera opened")

	return &OpenCVDevice{
		opts:    opts,
		capture: capture,
		props:   captureBackend{capture: capture},
		width:   width,
		height:  height,
		raw:     gocv.NewMat(),
		rgb:     gocv.NewMat(),
		writer:  io.NewImageWriter(logger),
		logger:  logger,
	}, nil
}

// Size returns the frame size the driver negotiated.
func (d *OpenCVDevice) Size() (width, height int) {
	return d.width, d.height
}

// CaptureFrame reads the next frame and stores it as RGB in f.
func (d *OpenCVDevice) CaptureFrame(f *Frame) error {
	if err := d.grab(); err != nil {
		return err
	}

	gocv.CvtColor(d.raw, &d.rgb, gocv.ColorBGRToRGB)
	return matToFrame(d.rgb, f)
}

// CaptureToFile reads a fresh frame and encodes it to path.
func (d *OpenCVDevice) CaptureToFile(path string) error {
	if err := d.grab(); err != nil {
		return err
	}
	return d.writer.SaveImage(d.raw, path)
}

func (d *OpenCVDevice) grab() error {
	if d.capture == nil {
		return ErrDeviceUnavailable
	}
	if ok := d.capture.Read(&d.raw); !ok {
		return fmt.Errorf("%w: read returned no frame", ErrCapture)
	}
	if d.raw.Empty() {
		return fmt.Errorf("%w: empty frame", ErrCapture)
	}
	return nil
}

// SetBrightness implements core.Device.
func (d *OpenCVDevice) SetBrightness(v int) error {
	return d.set("brightness", gocv.VideoCaptureBrightness, d.opts.BrightnessRange.Rescale(float64(v), brightnessDomain))
}

// SetContrast implements core.Device.
func (d *OpenCVDevice) SetContrast(v int) error {
	return d.set("contrast", gocv.VideoCaptureContrast, d.opts.ContrastRange.Rescale(float64(v), contrastDomain))
}

// SetISO implements core.Device.
func (d *OpenCVDevice) SetISO(v int) error {
	return d.set("iso", gocv.VideoCaptureISOSpeed, float64(v))
}

// SetExposureMode implements core.Device.
func (d *OpenCVDevice) SetExposureMode(m core.ExposureMode) error {
	value := d.opts.AutoExposureOff
	if m == core.ExposureAuto {
		value = d.opts.AutoExposureOn
	}
	return d.set("exposure_mode", gocv.VideoCaptureAutoExposure, value)
}

// SetShutterSpeed implements core.Device.
func (d *OpenCVDevice) SetShutterSpeed(us int) error {
	return d.set("shutter_speed", gocv.VideoCaptureExposure, math.Round(float64(us)/d.opts.ExposureUnitUS))
}

// SetAWBGains implements core.Device. Both channels are written even
// when one is rejected.
func (d *OpenCVDevice) SetAWBGains(red, blue float64) error {
	return errors.Join(
		d.set("awb_gains.red", gocv.VideoCaptureWhiteBalanceRedV, math.Round(red*d.opts.GainScale)),
		d.set("awb_gains.blue", gocv.VideoCaptureWhiteBalanceBlueU, math.Round(blue*d.opts.GainScale)),
	)
}

func (d *OpenCVDevice) set(name string, prop gocv.VideoCaptureProperties, value float64) error {
	if d.props == nil {
		return ErrDeviceUnavailable
	}

	d.props.SetProperty(prop, value)
	if !d.opts.VerifyWrites {
		return nil
	}

	if got := d.props.GetProperty(prop); math.Abs(got-value) > 0.5 {
		return fmt.Errorf("%s: wrote %v, device reports %v", name, value, got)
	}
	return nil
}

// Close releases the capture device and buffers.
func (d *OpenCVDevice) Close() error {
	if d.capture == nil {
		return nil
	}

	err := d.capture.Close()
	d.capture = nil
	d.props = nil
	d.raw.Close()
	d.rgb.Close()

	d.logger.Info("Camera closed")
	return err
}
