// Package calib works out how a FLIR frame should be turned into
// temperature, from the instrument's fixed metadata.
package calib

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AgPipeline/moving-transformer-psii2png/pkg/metadata"
)

// ErrMissingCalibrationData is not retryable; the capture can't be converted.
var ErrMissingCalibrationData = errors.New("missing calibration data")

// Parameters for the radiometric model. The coefficients are only
// meaningful when Calibrated is false. A Parameters is built once by Resolve
// and passed around by value.
type Parameters struct {
	Calibrated bool

	R, B, F float64 // Planck-like constants
	J0, J1  float64 // offset and gain

	Alpha1, Alpha2 float64 // atmospheric attenuation, per sub-band
	Beta1, Beta2   float64 // humidity-dependent attenuation, per sub-band
	X              float64 // sub-band blend weight
}

func (p Parameters) String() string {
	if p.Calibrated {
		return "calib[device calibrated]"
	}
	return fmt.Sprintf("calib[R=%g B=%g F=%g J0=%g J1=%g a1=%g a2=%g b1=%g b2=%g X=%g]",
		p.R, p.B, p.F, p.J0, p.J1, p.Alpha1, p.Alpha2, p.Beta1, p.Beta2, p.X)
}

// Resolve reads the calibration out of a TERRA-REF metadata record.
func Resolve(md *metadata.Metadata) (Parameters, error) {
	if !md.IsTerra() {
		return Parameters{}, fmt.Errorf("%w: not a terraref_cleaned_metadata record", ErrMissingCalibrationData)
	}
	if md.SensorFixed == nil {
		return Parameters{}, fmt.Errorf("%w: no sensor_fixed_metadata", ErrMissingCalibrationData)
	}

	if v, _ := md.Fixed("is_calibrated"); v == "True" {
		return Parameters{Calibrated: true}, nil
	}

	var err error
	get := func(key string) float64 {
		if err != nil {
			return 0
		}
		s, ok := md.Fixed(key)
		if !ok {
			err = fmt.Errorf("%w: field '%s' absent", ErrMissingCalibrationData, key)
			return 0
		}
		f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			err = fmt.Errorf("%w: field '%s': %v", ErrMissingCalibrationData, key, perr)
			return 0
		}
		return f
	}

	p := Parameters{
		R:      get("calibration_R"),
		B:      get("calibration_B"),
		F:      get("calibration_F"),
		J1:     get("calibration_J1"),
		J0:     get("calibration_J0"),
		Alpha1: get("calibration_alpha1"),
		Alpha2: get("calibration_alpha2"),
		X:      get("calibration_X"),
		Beta1:  get("calibration_beta1"),
		Beta2:  get("calibration_beta2"),
	}
	if err != nil {
		return Parameters{}, err
	}
	return p, nil
}
