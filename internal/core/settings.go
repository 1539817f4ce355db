// Settings applier: pushes a complete parameter snapshot to the camera
package core

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ExposureMode selects who governs gain and exposure time.
type ExposureMode int

const (
	ExposureAuto ExposureMode = iota
	ExposureOff
)

func (m ExposureMode) String() string {
	switch m {
	case ExposureAuto:
		return "auto"
	case ExposureOff:
		return "off"
	default:
		return "unknown"
	}
}

// Device is the set of camera properties the applier writes.
type Device interface {
	SetBrightness(v int) error
	SetContrast(v int) error
	SetExposureMode(m ExposureMode) error
	SetISO(v int) error
	SetAWBGains(red, blue float64) error
	SetShutterSpeed(us int) error
}

// Settings is the device-side view of the store.
type Settings struct {
	Brightness int
	Contrast   int
	Mode       ExposureMode
	ISO        int
	RedGain    float64
	BlueGain   float64
	ShutterUS  int
}

// DeviceApplyError collects the properties the device refused during one Apply.
type DeviceApplyError struct {
	Failed []string
	Err    error
}

func (e *DeviceApplyError) Error() string {
	return fmt.Sprintf("apply settings: %d properties failed: %v", len(e.Failed), e.Err)
}

func (e *DeviceApplyError) Unwrap() error { return e.Err }

type applyStep struct {
	property   string
	manualOnly bool
	push       func(Device, Settings) error
}

// Properties are pushed in this order. Shutter speed goes last.
var applySteps = []applyStep{
	{property: "brightness", push: func(d Device, s Settings) error { return d.SetBrightness(s.Brightness) }},
	{property: "contrast", push: func(d Device, s Settings) error { return d.SetContrast(s.Contrast) }},
	{property: "exposure_mode", push: func(d Device, s Settings) error { return d.SetExposureMode(s.Mode) }},
	{property: "iso", manualOnly: true, push: func(d Device, s Settings) error { return d.SetISO(s.ISO) }},
	{property: "awb_gains", push: func(d Device, s Settings) error { return d.SetAWBGains(s.RedGain, s.BlueGain) }},
	{property: "shutter_speed", manualOnly: true, push: func(d Device, s Settings) error { return d.SetShutterSpeed(s.ShutterUS) }},
}

// Applier derives device settings from a Store and pushes all of them.
type Applier struct {
	device Device
	logger logrus.FieldLogger
	auto   bool
}

// NewApplier creates an applier. autoExposure is the initial mode.
func NewApplier(device Device, autoExposure bool, logger logrus.FieldLogger) *Applier {
	return &Applier{
		device: device,
		logger: logger,
		auto:   autoExposure,
	}
}

// AutoExposure reports whether the device governs ISO and exposure time.
func (a *Applier) AutoExposure() bool {
	return a.auto
}

// Snapshot returns the settings Apply would push for store.
func (a *Applier) Snapshot(store *Store) (Settings, error) {
	values := make(map[string]float64, len(RequiredParameters))
	for _, name := range RequiredParameters {
		v, err := store.Rounded(name)
		if err != nil {
			return Settings{}, err
		}
		values[name] = v
	}

	mode := ExposureOff
	if a.auto {
		mode = ExposureAuto
	}

	return Settings{
		Brightness: int(values[ParamBrightness]),
		Contrast:   int(values[ParamContrast]),
		Mode:       mode,
		ISO:        int(values[ParamISO]),
		RedGain:    values[ParamRedGain],
		BlueGain:   values[ParamBlueGain],
		ShutterUS:  int(math.Round(values[ParamExposureTime] * 1000)),
	}, nil
}

// Apply pushes every device property derived from store. A property the
// device refuses is logged and skipped; the remaining ones are still pushed.
func (a *Applier) Apply(store *Store) error {
	settings, err := a.Snapshot(store)
	if err != nil {
		return err
	}

	var (
		failed []string
		errs   []error
	)
	for _, step := range applySteps {
		if step.manualOnly && settings.Mode == ExposureAuto {
			continue
		}
		if err := step.push(a.device, settings); err != nil {
			a.logger.WithFields(logrus.Fields{
				"property": step.property,
				"error":    err,
			}).Warn("Device rejected setting, keeping previous device state")
			failed = append(failed, step.property)
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrDeviceApply, step.property, err))
		}
	}

	a.logger.WithFields(logrus.Fields{
		"brightness": settings.Brightness,
		"contrast":   settings.Contrast,
		"mode":       settings.Mode.String(),
		"iso":        settings.ISO,
		"red_gain":   settings.RedGain,
		"blue_gain":  settings.BlueGain,
		"shutter_us": settings.ShutterUS,
	}).Debug("Applied camera settings")

	if len(errs) > 0 {
		return &DeviceApplyError{Failed: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// SetAutoExposure switches the exposure mode and re-applies the full
// snapshot, so leaving auto mode pushes the last stored manual values.
func (a *Applier) SetAutoExposure(on bool, store *Store) error {
	a.auto = on
	a.logger.WithField("auto_exposure", on).Info("Exposure mode changed")
	return a.Apply(store)
}

// ToggleAutoExposure flips the exposure mode and re-applies.
func (a *Applier) ToggleAutoExposure(store *Store) error {
	return a.SetAutoExposure(!a.auto, store)
}

// CheckStore verifies that store holds every parameter the applier reads.
func CheckStore(store *Store) error {
	for _, name := range RequiredParameters {
		if !store.Has(name) {
			return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
		}
	}
	return nil
}
