package models

// EmissionFactors describes the factor set the calculator is running with.
type EmissionFactors struct {
	Cars              float64 `json:"cars"`
	Trucks            float64 `json:"trucks"`
	Planes            float64 `json:"planes"`
	Forklifts         float64 `json:"forklifts"`
	Heating           float64 `json:"heating"`
	LightingCoolingIT float64 `json:"lightingCoolingIt"`
	EVFactor          float64 `json:"evFactor"`
}
