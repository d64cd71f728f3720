// Package chamber sizes the acetylene charge of a combustion chamber:
// how much fuel a stoichiometric air-filled chamber can burn, and how
// much a given muzzle speed requires. Pure closed-form chemistry; it
// consumes the solver's speed and performs no search of its own.
package chamber

import "math"

// Stoichiometry and gas constants. The chamber burns acetylene in air:
// 2 C2H2 + 5 O2 -> 4 CO2 + 2 H2O.
const (
	molarHeatJPerMol  = 1_299_000.0 // heat of combustion of C2H2
	molarMassGPerMol  = 26.04
	oxygenVolumeFrac  = 0.21
	molarVolumeSTPM3  = 0.0224
	gasConstant       = 8.314 // J/(mol·K)
	defaultEfficiency = 0.8
	defaultTempK      = 298.0
)

// Geometry is the cylindrical combustion chamber.
type Geometry struct {
	DiameterM float64
	LengthM   float64
}

// Volume returns the chamber volume in m³.
func (g Geometry) Volume() float64 {
	r := g.DiameterM / 2.0
	return math.Pi * r * r * g.LengthM
}

// Limits is the stoichiometric ceiling of a chamber filled with air.
type Limits struct {
	VolumeM3       float64
	MaxMol         float64
	MaxMassG       float64
	MaxEnergyJ     float64 // usable energy at the assumed efficiency
	MaxPressureBar float64 // acetylene partial pressure at the full charge
	MaxVolSTPM3    float64
}

// StoichiometricLimits computes how much acetylene the oxygen in the
// chamber's air can burn, and the usable energy that releases.
func StoichiometricLimits(g Geometry) Limits {
	v := g.Volume()
	molO2 := oxygenVolumeFrac * v / molarVolumeSTPM3
	molC2H2 := (2.0 / 5.0) * molO2

	return Limits{
		VolumeM3:       v,
		MaxMol:         molC2H2,
		MaxMassG:       molC2H2 * molarMassGPerMol,
		MaxEnergyJ:     molC2H2 * molarHeatJPerMol * defaultEfficiency,
		MaxPressureBar: partialPressureBar(molC2H2, v),
		MaxVolSTPM3:    molC2H2 * molarVolumeSTPM3,
	}
}

// Fill is the charge needed for one shot. When the chamber cannot
// deliver the required energy, Possible is false and MaxVelocityMPS
// reports the speed the full stoichiometric charge would reach.
type Fill struct {
	Possible bool

	Mol         float64
	MassG       float64
	EnergyJ     float64
	PressureBar float64
	VolSTPM3    float64

	MaxVelocityMPS float64 // populated only when Possible is false

	Limits Limits
}

// RequiredFill returns the acetylene charge that accelerates a
// projectile of the given mass to the given muzzle speed, assuming the
// default conversion efficiency.
func RequiredFill(speedMPS, projMassKG float64, g Geometry) Fill {
	lim := StoichiometricLimits(g)

	kinetic := 0.5 * projMassKG * speedMPS * speedMPS
	required := kinetic / defaultEfficiency

	if required > lim.MaxEnergyJ {
		return Fill{
			Possible:       false,
			MaxVelocityMPS: math.Sqrt(2 * lim.MaxEnergyJ * defaultEfficiency / projMassKG),
			Limits:         lim,
		}
	}

	mol := required / (molarHeatJPerMol * defaultEfficiency)
	return Fill{
		Possible:    true,
		Mol:         mol,
		MassG:       mol * molarMassGPerMol,
		EnergyJ:     required,
		PressureBar: partialPressureBar(mol, lim.VolumeM3),
		VolSTPM3:    mol * molarVolumeSTPM3,
		Limits:      lim,
	}
}

func partialPressureBar(mol, volumeM3 float64) float64 {
	pa := mol * gasConstant * defaultTempK / volumeM3
	return pa / 1e5
}
