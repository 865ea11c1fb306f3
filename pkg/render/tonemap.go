package render

import (
	"fmt"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/tmo"
)

var Tonemappers = []string{"drago03", "durand", "icam06", "linear", "reinhard05"}

// Tonemapper sets up a named operator over img. The thermal scenes span a
// narrow band of kelvin, so the defaults are pushed towards more contrast.
func Tonemapper(name string, img hdr.Image) (tmo.ToneMappingOperator, error) {
	switch name {
	case "drago03":
		op := tmo.NewDefaultDrago03(img)
		op.Bias = 1.0
		return op, nil
	case "durand":
		return tmo.NewDefaultDurand(img), nil
	case "icam06":
		op := tmo.NewDefaultICam06(img)
		op.Contrast = 0.65
		return op, nil
	case "linear":
		return tmo.NewLinear(img), nil
	case "reinhard05":
		return tmo.NewDefaultReinhard05(img), nil
	}
	return nil, fmt.Errorf("tonemapper '%s' not recognized, wanted %v", name, Tonemappers)
}
