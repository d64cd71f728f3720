package ballistics

import "math"

// AtmosphereScaleHeightM is the e-folding altitude of the exponential
// density model.
const AtmosphereScaleHeightM = 8434.5

// dryAirGasConstant is the specific gas constant of dry air,
// J/(kg·K).
const dryAirGasConstant = 287.05

// DensityAt returns the air density at the given absolute altitude in
// meters. With ExponentialAtmosphere unset it is the constant
// AirDensity regardless of altitude.
func (e Environment) DensityAt(altM float64) float64 {
	rho := e.AirDensity
	if rho == 0 {
		rho = SeaLevelDensity
	}
	if !e.ExponentialAtmosphere {
		return rho
	}
	return rho * math.Exp(-altM/AtmosphereScaleHeightM)
}

// DensityFromConditions computes dry-air density from station pressure
// and temperature: rho = p / (R_specific * T).
func DensityFromConditions(pressureHPa, tempC float64) float64 {
	pPa := pressureHPa * 100.0
	tK := tempC + 273.15
	return pPa / (dryAirGasConstant * tK)
}
