package core

import "errors"

var (
	// ErrUnknownParameter is returned when a name is not registered in the store.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrInvalidParameter is returned when a parameter definition is malformed.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDeviceApply is wrapped by every failure to push a setting to the device.
	ErrDeviceApply = errors.New("device rejected setting")
)
