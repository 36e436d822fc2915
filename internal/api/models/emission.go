package models

// EmissionInput is the request body for POST /v1/calculator/calculate.
// Quantities must be non-negative; shares and factors are percentages.
type EmissionInput struct {
	CarKm                float64 `json:"carKm" validate:"gte=0"`
	TruckKm              float64 `json:"truckKm" validate:"gte=0"`
	PlaneHours           float64 `json:"planeHours" validate:"gte=0"`
	ForkliftHours        float64 `json:"forkliftHours" validate:"gte=0"`
	HeatingKwh           float64 `json:"heatingKwh" validate:"gte=0"`
	LightingCoolingItKwh float64 `json:"lightingCoolingItKwh" validate:"gte=0"`
	SubcontractorsTons   float64 `json:"subcontractorsTons" validate:"gte=0"`
	EVShare              float64 `json:"evShare" validate:"gte=0,lte=100"`
	KmReduction          float64 `json:"kmReduction" validate:"gte=0,lte=100"`
	PlaneLoadFactor      float64 `json:"planeLoadFactor" validate:"gte=0,lte=100"`
}

// EmissionRecord is a stored calculation: the submitted input plus the
// computed baseline and optimized emissions, all in tons of CO2.
type EmissionRecord struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	CarKm                float64 `json:"carKm"`
	TruckKm              float64 `json:"truckKm"`
	PlaneHours           float64 `json:"planeHours"`
	ForkliftHours        float64 `json:"forkliftHours"`
	HeatingKwh           float64 `json:"heatingKwh"`
	LightingCoolingItKwh float64 `json:"lightingCoolingItKwh"`
	SubcontractorsTons   float64 `json:"subcontractorsTons"`
	EVShare              float64 `json:"evShare"`
	KmReduction          float64 `json:"kmReduction"`
	PlaneLoadFactor      float64 `json:"planeLoadFactor"`

	BaselineCars              float64 `json:"baselineCars"`
	BaselineTrucks            float64 `json:"baselineTrucks"`
	BaselinePlanes            float64 `json:"baselinePlanes"`
	BaselineForklifts         float64 `json:"baselineForklifts"`
	BaselineHeating           float64 `json:"baselineHeating"`
	BaselineLightingCoolingIt float64 `json:"baselineLightingCoolingIt"`
	BaselineSubcontractors    float64 `json:"baselineSubcontractors"`
	BaselineTotal             float64 `json:"baselineTotal"`

	OptimizedCars              float64 `json:"optimizedCars"`
	OptimizedTrucks            float64 `json:"optimizedTrucks"`
	OptimizedPlanes            float64 `json:"optimizedPlanes"`
	OptimizedForklifts         float64 `json:"optimizedForklifts"`
	OptimizedHeating           float64 `json:"optimizedHeating"`
	OptimizedLightingCoolingIt float64 `json:"optimizedLightingCoolingIt"`
	OptimizedSubcontractors    float64 `json:"optimizedSubcontractors"`
	OptimizedTotal             float64 `json:"optimizedTotal"`

	CreatedAt Timestamp `json:"createdAt"`
}

// EmissionHistory is the most recent records for a user, newest first.
type EmissionHistory struct {
	Items []EmissionRecord    `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
