// Package emissions converts logistics activity data into CO2 emission totals
// and stores the resulting calculation history.
package emissions

import (
	"os"
	"strconv"
)

// Factors holds the emission factors used by a Calculator.
// A Factors value is copied into the Calculator and never changes afterwards.
type Factors struct {
	// Cars is kg CO2 per km driven by car.
	Cars float64 `json:"cars"`

	// Trucks is kg CO2 per km driven by truck.
	Trucks float64 `json:"trucks"`

	// Planes is kg CO2 per flight-hour at full load.
	Planes float64 `json:"planes"`

	// Forklifts is kg CO2 per operating hour.
	Forklifts float64 `json:"forklifts"`

	// Heating is kg CO2 per kWh of heating energy.
	Heating float64 `json:"heating"`

	// LightingCoolingIT is kg CO2 per kWh of lighting, cooling and IT energy.
	LightingCoolingIT float64 `json:"lightingCoolingIt"`

	// EVFactor scales the car factor for the electric share of car travel.
	EVFactor float64 `json:"evFactor"`
}

// DefaultFactors returns the factor set used when nothing is configured.
func DefaultFactors() Factors {
	return Factors{
		Cars:              0.18,
		Trucks:            0.9,
		Planes:            9000,
		Forklifts:         2.5,
		Heating:           0.2,
		LightingCoolingIT: 0.4,
		EVFactor:          0.3,
	}
}

// FactorsFromEnv returns DefaultFactors with any EMISSION_FACTOR_* overrides applied.
// Values that are missing, unparsable or negative keep their default.
func FactorsFromEnv() Factors {
	f := DefaultFactors()
	f.Cars = envFactor("EMISSION_FACTOR_CARS", f.Cars)
	f.Trucks = envFactor("EMISSION_FACTOR_TRUCKS", f.Trucks)
	f.Planes = envFactor("EMISSION_FACTOR_PLANES", f.Planes)
	f.Forklifts = envFactor("EMISSION_FACTOR_FORKLIFTS", f.Forklifts)
	f.Heating = envFactor("EMISSION_FACTOR_HEATING", f.Heating)
	f.LightingCoolingIT = envFactor("EMISSION_FACTOR_LIGHTING_COOLING_IT", f.LightingCoolingIT)
	f.EVFactor = envFactor("EMISSION_FACTOR_EV", f.EVFactor)
	return f
}

func envFactor(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}
