package slope

import "math"

// Soil holds the Mohr-Coulomb strength parameters of a homogeneous slope.
type Soil struct {
	Cohesion      float64 `json:"cohesion_kpa"`
	FrictionAngle float64 `json:"friction_angle_deg"`
	UnitWeight    float64 `json:"unit_weight_kn_m3"`
}

// Forces acting on a single slice.
type Forces struct {
	Weight    float64 `json:"weight_kn"`
	Normal    float64 `json:"normal_kn"`
	Resisting float64 `json:"resisting_kn"`
}

// Forces computes the weight of the slice and the shear strength mobilised
// along its base. A slice with a vertical base (base angle of ±90°) carries
// no normal force and resists by cohesion only.
func (s Soil) Forces(sl Slice) Forces {
	weight := s.UnitWeight * sl.Area
	normal := weight * math.Cos(sl.BaseAngle)
	return Forces{
		Weight:    weight,
		Normal:    normal,
		Resisting: normal*math.Tan(radians(s.FrictionAngle)) + s.Cohesion*sl.BaseLength,
	}
}
