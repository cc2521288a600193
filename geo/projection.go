package geo

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidProjection = errors.New("invalid projection parameters")

type IProjection interface {
	Project(coord Coord) Point
	Inverse(point Point) Coord
}

//*******************************************
// lambert conformal conic
//*******************************************

const (
	WGS84_A = 6378137.0
	WGS84_F = 1 / 298.257223563
)

type ProjectionParams struct {
	Lat1 float64 `yaml:"lat-1" json:"lat_1"`
	Lat2 float64 `yaml:"lat-2" json:"lat_2"`
	Lat0 float64 `yaml:"lat-0" json:"lat_0"`
	Lon0 float64 `yaml:"lon-0" json:"lon_0"`
}

func (self ProjectionParams) IsZero() bool {
	return self == ProjectionParams{}
}

// Derives parameters covering all coordinates:
// standard parallels at the min and max latitude, origin at the mean position.
func DeriveProjectionParams(coords CoordArray) (ProjectionParams, error) {
	if len(coords) == 0 {
		return ProjectionParams{}, fmt.Errorf("%w: no coordinates to derive extent from", ErrInvalidProjection)
	}
	min_lat := math.Inf(1)
	max_lat := math.Inf(-1)
	sum_lat := 0.0
	sum_lon := 0.0
	for _, c := range coords {
		min_lat = math.Min(min_lat, c.Lat())
		max_lat = math.Max(max_lat, c.Lat())
		sum_lat += c.Lat()
		sum_lon += c.Lon()
	}
	n := float64(len(coords))
	return ProjectionParams{
		Lat1: min_lat,
		Lat2: max_lat,
		Lat0: sum_lat / n,
		Lon0: sum_lon / n,
	}, nil
}

func (self ProjectionParams) Validate() error {
	lats := []struct {
		name  string
		value float64
	}{{"lat-1", self.Lat1}, {"lat-2", self.Lat2}, {"lat-0", self.Lat0}}
	for _, lat := range lats {
		if math.IsNaN(lat.value) || math.Abs(lat.value) >= 90 {
			return fmt.Errorf("%w: %s = %v must be within (-90, 90)", ErrInvalidProjection, lat.name, lat.value)
		}
	}
	if math.IsNaN(self.Lon0) || math.Abs(self.Lon0) > 180 {
		return fmt.Errorf("%w: lon-0 = %v must be within [-180, 180]", ErrInvalidProjection, self.Lon0)
	}
	if self.Lat1+self.Lat2 == 0 {
		return fmt.Errorf("%w: lat-1 = %v and lat-2 = %v are symmetric to the equator", ErrInvalidProjection, self.Lat1, self.Lat2)
	}
	return nil
}

// Two standard parallel Lambert conformal conic projection on the WGS84 ellipsoid (Snyder 1987, ch. 15).
//
// Projected coordinates are in kilometers with the origin at (lon-0, lat-0).
type LambertConformalConic struct {
	params ProjectionParams
	e      float64
	n      float64
	af     float64
	rho_0  float64
	lon_0  float64
}

func NewLambertConformalConic(params ProjectionParams) (*LambertConformalConic, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := math.Sqrt(2*WGS84_F - WGS84_F*WGS84_F)
	phi_1 := _Radians(params.Lat1)
	phi_2 := _Radians(params.Lat2)
	phi_0 := _Radians(params.Lat0)

	m_1 := _LCC_m(phi_1, e)
	m_2 := _LCC_m(phi_2, e)
	t_1 := _LCC_t(phi_1, e)
	t_2 := _LCC_t(phi_2, e)
	var n float64
	if math.Abs(phi_1-phi_2) < 1e-10 {
		n = math.Sin(phi_1)
	} else {
		n = (math.Log(m_1) - math.Log(m_2)) / (math.Log(t_1) - math.Log(t_2))
	}
	if n == 0 || math.IsNaN(n) {
		return nil, fmt.Errorf("%w: cone constant is zero", ErrInvalidProjection)
	}
	af := WGS84_A * m_1 / (n * math.Pow(t_1, n))
	rho_0 := af * math.Pow(_LCC_t(phi_0, e), n)

	return &LambertConformalConic{
		params: params,
		e:      e,
		n:      n,
		af:     af,
		rho_0:  rho_0,
		lon_0:  _Radians(params.Lon0),
	}, nil
}

func (self *LambertConformalConic) Params() ProjectionParams {
	return self.params
}

func (self *LambertConformalConic) Project(coord Coord) Point {
	phi := _Radians(coord.Lat())
	lam := _Radians(coord.Lon())
	rho := self.af * math.Pow(_LCC_t(phi, self.e), self.n)
	theta := self.n * _NormalizeAngle(lam-self.lon_0)
	x := rho * math.Sin(theta)
	y := self.rho_0 - rho*math.Cos(theta)
	return Point{x / 1000, y / 1000}
}

func (self *LambertConformalConic) Inverse(point Point) Coord {
	x := point[0] * 1000
	y := point[1] * 1000
	sign := 1.0
	if self.n < 0 {
		sign = -1
	}
	dy := self.rho_0 - y
	rho := sign * math.Sqrt(x*x+dy*dy)
	theta := math.Atan2(sign*x, sign*dy)
	t := math.Pow(rho/self.af, 1/self.n)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		es := self.e * math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-es)/(1+es), self.e/2))
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}
	lam := theta/self.n + self.lon_0
	return NewCoord(_Degrees(lam), _Degrees(phi))
}

func _LCC_m(phi, e float64) float64 {
	es := e * math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-es*es)
}

func _LCC_t(phi, e float64) float64 {
	es := e * math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) / math.Pow((1-es)/(1+es), e/2)
}

func _Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func _Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func _NormalizeAngle(rad float64) float64 {
	for rad > math.Pi {
		rad -= 2 * math.Pi
	}
	for rad < -math.Pi {
		rad += 2 * math.Pi
	}
	return rad
}
