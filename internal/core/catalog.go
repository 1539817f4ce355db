package core

// Names of the device-relevant parameters.
const (
	ParamBrightness   = "brightness"
	ParamContrast     = "contrast"
	ParamExposureTime = "exposure_time"
	ParamISO          = "iso"
	ParamRedGain      = "adjust_red"
	ParamBlueGain     = "adjust_blue"
)

// RequiredParameters lists every parameter the settings applier reads.
var RequiredParameters = []string{
	ParamBrightness,
	ParamContrast,
	ParamExposureTime,
	ParamISO,
	ParamRedGain,
	ParamBlueGain,
}

// DefaultParameters returns the sensor control set shown on the panel.
// Exposure time is in milliseconds; the applier converts it to microseconds.
func DefaultParameters() []Parameter {
	return []Parameter{
		{Name: ParamBrightness, Label: "Brightness", Value: 50, Min: 0, Max: 100, Step: 5, Precision: 0},
		{Name: ParamContrast, Label: "Contrast", Value: 0, Min: -100, Max: 100, Step: 10, Precision: 0},
		{Name: ParamExposureTime, Label: "Exposure Time", Value: 0, Min: 0, Max: 800, Step: 10, Precision: 2},
		{Name: ParamISO, Label: "ISO", Value: 100, Min: 100, Max: 800, Step: 50, Precision: 0},
		{Name: ParamRedGain, Label: "Red Gain", Value: 1.0, Min: 0.5, Max: 2.0, Step: 0.1, Precision: 2},
		{Name: ParamBlueGain, Label: "Blue Gain", Value: 1.0, Min: 0.5, Max: 2.0, Step: 0.1, Precision: 2},
	}
}

// NewDefaultStore builds a store from DefaultParameters.
func NewDefaultStore() *Store {
	s, err := NewStore(DefaultParameters()...)
	if err != nil {
		panic(err)
	}
	return s
}
