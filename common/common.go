package common

import "strings"

// Polarization is a radar polarization channel of a Sentinel-1 acquisition.
// A GRD scene exposes one or both of the recognized channels.
type Polarization string

const (
	PolarizationVV Polarization = "vv"
	PolarizationVH Polarization = "vh"
)

// Polarizations lists the recognized channels, in retrieval order.
var Polarizations = []Polarization{PolarizationVV, PolarizationVH}

// GetPolarizationFromString returns the polarization from the user input
// or an empty Polarization if the input is not a recognized channel.
func GetPolarizationFromString(input string) Polarization {
	switch strings.ToLower(input) {
	case "vv":
		return PolarizationVV
	case "vh":
		return PolarizationVH
	}
	return Polarization("")
}
