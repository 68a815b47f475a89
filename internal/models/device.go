package models

import (
	"fmt"
	"runtime"
)

// DeviceClass is the form factor reported to the backend with every request.
type DeviceClass string

const (
	DevicePhone     DeviceClass = "iphone"
	DeviceTablet    DeviceClass = "ipad"
	DeviceDesktop   DeviceClass = "mac"
	DeviceSimulator DeviceClass = "simulator"
)

var deviceClasses = []DeviceClass{DevicePhone, DeviceTablet, DeviceDesktop, DeviceSimulator}

func (d DeviceClass) String() string {
	return string(d)
}

func (d DeviceClass) Valid() bool {
	for _, c := range deviceClasses {
		if c == d {
			return true
		}
	}
	return false
}

// ParseDeviceClass accepts one of the known class names. An empty string
// resolves to the class detected for the running host.
func ParseDeviceClass(s string) (DeviceClass, error) {
	if s == "" {
		return DetectDeviceClass(), nil
	}
	d := DeviceClass(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown device class %q", s)
	}
	return d, nil
}

// DetectDeviceClass guesses the class from the build target. Anything that is
// not an Apple device is treated as a testing host.
func DetectDeviceClass() DeviceClass {
	switch runtime.GOOS {
	case "darwin":
		return DeviceDesktop
	case "ios":
		return DevicePhone
	default:
		return DeviceSimulator
	}
}
