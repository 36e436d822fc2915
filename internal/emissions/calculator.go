package emissions

// kgPerTon converts between the kg used internally and the tons reported.
const kgPerTon = 1000

// Input is one set of activity data submitted for calculation.
// Quantities are non-negative; EVShare, KmReduction and PlaneLoadFactor are percentages (0-100).
type Input struct {
	CarKm                float64
	TruckKm              float64
	PlaneHours           float64
	ForkliftHours        float64
	HeatingKwh           float64
	LightingCoolingItKwh float64
	SubcontractorsTons   float64
	EVShare              float64
	KmReduction          float64
	PlaneLoadFactor      float64
}

// Result holds baseline and optimized emissions per category, in tons of CO2.
type Result struct {
	BaselineCars              float64
	BaselineTrucks            float64
	BaselinePlanes            float64
	BaselineForklifts         float64
	BaselineHeating           float64
	BaselineLightingCoolingIt float64
	BaselineSubcontractors    float64
	BaselineTotal             float64

	OptimizedCars              float64
	OptimizedTrucks            float64
	OptimizedPlanes            float64
	OptimizedForklifts         float64
	OptimizedHeating           float64
	OptimizedLightingCoolingIt float64
	OptimizedSubcontractors    float64
	OptimizedTotal             float64
}

// Calculator derives emission totals from activity data using a fixed factor set.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	factors Factors
}

// NewCalculator creates a Calculator bound to the given factors.
func NewCalculator(factors Factors) *Calculator {
	return &Calculator{factors: factors}
}

// Factors returns the factor set the calculator was built with.
func (c *Calculator) Factors() Factors {
	return c.factors
}

// Calculate computes baseline and optimized emissions for in.
// Range checks are the caller's responsibility.
func (c *Calculator) Calculate(in Input) Result {
	f := c.factors

	// Baseline (kg)
	baseCars := in.CarKm * f.Cars
	baseTrucks := in.TruckKm * f.Trucks
	basePlanes := in.PlaneHours * f.Planes
	baseForklifts := in.ForkliftHours * f.Forklifts
	baseHeating := in.HeatingKwh * f.Heating
	baseLighting := in.LightingCoolingItKwh * f.LightingCoolingIT
	// Subcontractor tonnage is reported as submitted; kg is only used for the totals.
	baseSubcontractors := in.SubcontractorsTons * kgPerTon

	evShare := in.EVShare / 100
	kmKept := 1 - in.KmReduction/100
	loadFactor := in.PlaneLoadFactor / 100

	// Optimized (kg)
	optCars := in.CarKm * kmKept * ((1-evShare)*f.Cars + evShare*f.Cars*f.EVFactor)
	optTrucks := in.TruckKm * kmKept * f.Trucks
	optPlanes := in.PlaneHours * f.Planes * loadFactor
	optForklifts := baseForklifts
	optHeating := baseHeating
	optLighting := baseLighting
	optSubcontractors := baseSubcontractors

	return Result{
		BaselineCars:              baseCars / kgPerTon,
		BaselineTrucks:            baseTrucks / kgPerTon,
		BaselinePlanes:            basePlanes / kgPerTon,
		BaselineForklifts:         baseForklifts / kgPerTon,
		BaselineHeating:           baseHeating / kgPerTon,
		BaselineLightingCoolingIt: baseLighting / kgPerTon,
		BaselineSubcontractors:    in.SubcontractorsTons,
		BaselineTotal: (baseCars + baseTrucks + basePlanes + baseForklifts +
			baseHeating + baseLighting + baseSubcontractors) / kgPerTon,

		OptimizedCars:              optCars / kgPerTon,
		OptimizedTrucks:            optTrucks / kgPerTon,
		OptimizedPlanes:            optPlanes / kgPerTon,
		OptimizedForklifts:         optForklifts / kgPerTon,
		OptimizedHeating:           optHeating / kgPerTon,
		OptimizedLightingCoolingIt: optLighting / kgPerTon,
		OptimizedSubcontractors:    in.SubcontractorsTons,
		OptimizedTotal: (optCars + optTrucks + optPlanes + optForklifts +
			optHeating + optLighting + optSubcontractors) / kgPerTon,
	}
}
