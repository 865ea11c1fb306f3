// Package flir converts raw FLIR thermal counts into temperature.
package flir

import (
	"fmt"
	"math"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/calib"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/emath"
	"github.com/AgPipeline/moving-transformer-psii2png/pkg/rawframe"
)

// Empirical coefficients of the saturation humidity curve, g/m^3 as a
// function of temperature in °C.
const (
	h2oK1 = 1.56
	h2oK2 = 0.0694
	h2oK3 = -0.000278
	h2oK4 = 0.000000685
)

// Environment holds the scene assumptions the radiometric model needs.
type Environment struct {
	H  float64 `yaml:"humidity"`     // relative humidity, [0,1]
	T  float64 `yaml:"temperature"`  // ambient & atmospheric temperature, °C
	D  float64 `yaml:"distance"`     // camera to object, metres
	E  float64 `yaml:"emissivity"`   // object emissivity
	K0 float64 `yaml:"kelvinoffset"` // °C -> K
}

func DefaultEnvironment() Environment {
	return Environment{H: 0.1, T: 22.0, D: 2.5, E: 0.98, K0: 273.15}
}

// A TemperatureMap is a per-pixel temperature, in °C. Pixels the model can't
// invert are NaN, and counted in NoData.
type TemperatureMap struct {
	emath.FloatGrid
	NoData int
}

// Convert turns raw counts into temperature, using the default environment.
func Convert(raw *rawframe.Frame, p calib.Parameters) TemperatureMap {
	return ConvertWithEnvironment(raw, p, DefaultEnvironment())
}

func ConvertWithEnvironment(raw *rawframe.Frame, p calib.Parameters, env Environment) TemperatureMap {
	tm := TemperatureMap{FloatGrid: emath.NewFloatGrid(raw.Width, raw.Height)}
	out := tm.Values()

	// Calibrated devices already report deci-degrees.
	if p.Calibrated {
		for i, v := range raw.Pix {
			out[i] = float64(v) / 10.0
		}
		return tm
	}

	m := newModel(p, env)
	for i, v := range raw.Pix {
		t, ok := m.temperature(float64(v))
		if !ok {
			tm.NoData++
			t = math.NaN()
		}
		out[i] = t
	}
	return tm
}

// model holds everything in the radiometric chain that doesn't depend on the
// pixel value.
type model struct {
	calib.Parameters
	env Environment

	tau        float64 // atmospheric transmittance
	atmRad     float64 // radiance emitted by the atmosphere
	ambReflRad float64 // ambient radiance reflected by the object
}

func newModel(p calib.Parameters, env Environment) model {
	m := model{Parameters: p, env: env}

	h2o := env.H * math.Exp(h2oK1+h2oK2*env.T+h2oK3*math.Pow(env.T, 2)+h2oK4*math.Pow(env.T, 3))
	sqrtH2O := math.Sqrt(h2o)
	sqrtD := math.Sqrt(env.D / 2)

	exp1 := math.Exp(-sqrtD * (p.Alpha1 + p.Beta1*sqrtH2O))
	exp2 := math.Exp(-sqrtD * (p.Alpha2 + p.Beta2*sqrtH2O))
	m.tau = p.X*exp1 + (1-p.X)*exp2

	atmTemp := env.T + env.K0
	ambTemp := env.T + env.K0
	theoAtmRad := m.planck(atmTemp)
	theoAmbReflRad := m.planck(ambTemp)

	m.atmRad = (1 - m.tau) * theoAtmRad
	m.ambReflRad = (1 - env.E) * m.tau * theoAmbReflRad

	return m
}

func (m model) String() string {
	return fmt.Sprintf("model[tau=%.6f atm=%.6f ambrefl=%.6f]", m.tau, m.atmRad, m.ambReflRad)
}

// planck is the radiance the calibration predicts for a body at kelvin.
func (m model) planck(kelvin float64) float64 {
	return m.R*m.J1/(math.Exp(m.B/kelvin)-m.F) + m.J0
}

// temperature inverts the model for one raw count, returning °C. It returns
// false when the corrected radiance has no real, finite inverse.
func (m model) temperature(raw float64) (float64, bool) {
	objRad := raw * m.env.E * m.tau
	corrected := objRad + m.atmRad + m.ambReflRad

	denom := corrected - m.J0
	if !(denom > 0) {
		return 0, false
	}
	arg := m.R/denom*m.J1 + m.F
	if !(arg > 0) {
		return 0, false
	}
	ln := math.Log(arg)
	if ln == 0 || math.IsNaN(ln) || math.IsInf(ln, 0) {
		return 0, false
	}

	kelvin := m.B / ln
	if math.IsNaN(kelvin) || math.IsInf(kelvin, 0) {
		return 0, false
	}
	return kelvin - m.env.K0, true
}
