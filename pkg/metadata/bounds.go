package metadata

import (
	"fmt"

	"github.com/golang/geo/s2"
)

// Bounds returns the lat/lng box around a sensor's bounding_box polygon.
func (md *Metadata) Bounds(sensor string) (s2.Rect, error) {
	if md == nil || md.Spatial == nil {
		return s2.EmptyRect(), fmt.Errorf("no spatial_metadata")
	}
	sm, ok := md.Spatial[sensor]
	if !ok {
		return s2.EmptyRect(), fmt.Errorf("no spatial_metadata for sensor '%s'", sensor)
	}
	return sm.BoundingBox.Rect()
}

func (p Polygon) Rect() (s2.Rect, error) {
	rect := s2.EmptyRect()
	for _, ring := range p.Coordinates {
		for _, pt := range ring {
			if len(pt) < 2 {
				return s2.EmptyRect(), fmt.Errorf("bounding_box: short coordinate %v", pt)
			}
			rect = rect.AddPoint(s2.LatLngFromDegrees(pt[1], pt[0]))
		}
	}
	if rect.IsEmpty() {
		return rect, fmt.Errorf("bounding_box: no coordinates")
	}
	return rect, nil
}

// BoundsString renders a box the way the logs print it: (lat lo, lat hi, lng lo, lng hi).
func BoundsString(r s2.Rect) string {
	return fmt.Sprintf("(%.8f, %.8f, %.8f, %.8f)",
		r.Lo().Lat.Degrees(), r.Hi().Lat.Degrees(), r.Lo().Lng.Degrees(), r.Hi().Lng.Degrees())
}
