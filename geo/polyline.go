package geo

import (
	"github.com/twpayne/go-polyline"
)

// Encodes coordinates with the google polyline algorithm (precision 5, lat/lon order).
func EncodePolyline(coords CoordArray) string {
	values := make([][]float64, len(coords))
	for i, c := range coords {
		values[i] = []float64{c.Lat(), c.Lon()}
	}
	return string(polyline.EncodeCoords(values))
}

func DecodePolyline(encoded string) (CoordArray, error) {
	values, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	coords := make(CoordArray, len(values))
	for i, v := range values {
		coords[i] = NewCoord(v[1], v[0])
	}
	return coords, nil
}
