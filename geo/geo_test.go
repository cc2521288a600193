package geo

import (
	"errors"
	"math"
	"testing"
)

func _EuropeProjection(t *testing.T) *LambertConformalConic {
	t.Helper()
	proj, err := NewLambertConformalConic(ProjectionParams{Lat1: 36, Lat2: 64, Lat0: 48, Lon0: 10})
	if err != nil {
		t.Fatalf("NewLambertConformalConic: %v", err)
	}
	return proj
}

func TestProjectOrigin(t *testing.T) {
	proj := _EuropeProjection(t)
	p := proj.Project(NewCoord(10, 48))
	if math.Abs(p.X()) > 1e-6 || math.Abs(p.Y()) > 1e-6 {
		t.Errorf("Project(origin) = %v; want (0, 0)", p)
	}
}

func TestProjectInverse(t *testing.T) {
	proj := _EuropeProjection(t)
	coords := CoordArray{
		NewCoord(2.3522, 48.8566),
		NewCoord(-9.1393, 38.7223),
		NewCoord(24.9384, 60.1699),
		NewCoord(13.405, 52.52),
	}
	for _, c := range coords {
		back := proj.Inverse(proj.Project(c))
		if math.Abs(back.Lon()-c.Lon()) > 1e-5 || math.Abs(back.Lat()-c.Lat()) > 1e-5 {
			t.Errorf("Inverse(Project(%v)) = %v", c, back)
		}
	}
}

func TestProjectScaleOnStandardParallel(t *testing.T) {
	proj := _EuropeProjection(t)
	lat := 36.0
	a := proj.Project(NewCoord(10, lat))
	b := proj.Project(NewCoord(10.5, lat))

	// length of the parallel arc on the ellipsoid
	e2 := 2*WGS84_F - WGS84_F*WGS84_F
	phi := lat * math.Pi / 180
	nu := WGS84_A / math.Sqrt(1-e2*math.Sin(phi)*math.Sin(phi))
	arc := nu * math.Cos(phi) * (0.5 * math.Pi / 180) / 1000

	if ratio := a.DistanceTo(b) / arc; math.Abs(ratio-1) > 1e-4 {
		t.Errorf("scale on standard parallel = %v; want 1", ratio)
	}
}

func TestProjectionValidate(t *testing.T) {
	cases := []ProjectionParams{
		{Lat1: 90, Lat2: 50, Lat0: 50, Lon0: 0},
		{Lat1: 40, Lat2: math.NaN(), Lat0: 50, Lon0: 0},
		{Lat1: 40, Lat2: 50, Lat0: 50, Lon0: 181},
		{Lat1: -30, Lat2: 30, Lat0: 0, Lon0: 0},
		{},
	}
	for _, params := range cases {
		_, err := NewLambertConformalConic(params)
		if !errors.Is(err, ErrInvalidProjection) {
			t.Errorf("NewLambertConformalConic(%v) error = %v; want ErrInvalidProjection", params, err)
		}
	}
	if _, err := NewLambertConformalConic(ProjectionParams{Lat1: 45, Lat2: 45, Lat0: 45, Lon0: 5}); err != nil {
		t.Errorf("single standard parallel rejected: %v", err)
	}
}

func TestDeriveProjectionParams(t *testing.T) {
	params, err := DeriveProjectionParams(CoordArray{NewCoord(0, 40), NewCoord(10, 60), NewCoord(20, 50)})
	if err != nil {
		t.Fatalf("DeriveProjectionParams: %v", err)
	}
	if params.Lat1 != 40 || params.Lat2 != 60 || params.Lat0 != 50 || params.Lon0 != 10 {
		t.Errorf("DeriveProjectionParams = %+v", params)
	}
	if _, err := DeriveProjectionParams(nil); !errors.Is(err, ErrInvalidProjection) {
		t.Errorf("expected ErrInvalidProjection for empty input, got %v", err)
	}
}

func TestPointRound(t *testing.T) {
	cases := []struct {
		point Point
		want  Point
	}{
		{Point{14.9, 25.1}, Point{10, 30}},
		{Point{-4.9, 0}, Point{0, 0}},
		{Point{-15.1, 104.99}, Point{-20, 100}},
		// halves round away from zero
		{Point{5, -15}, Point{10, -20}},
		{Point{25, -25}, Point{30, -30}},
	}
	for _, c := range cases {
		if got := c.point.Round(10); got != c.want {
			t.Errorf("Round(%v) = %v; want %v", c.point, got, c.want)
		}
	}
}

func TestHaversineKM(t *testing.T) {
	paris := NewCoord(2.3522, 48.8566)
	london := NewCoord(-0.1276, 51.5072)
	dist := HaversineKM(paris, london)
	if dist < 343 || dist > 344.5 {
		t.Errorf("HaversineKM(paris, london) = %v; want ~343.5", dist)
	}
	if HaversineKM(paris, paris) != 0 {
		t.Errorf("distance to self should be zero")
	}
	if RoundTo(343.5612, 2) != 343.56 {
		t.Errorf("RoundTo = %v", RoundTo(343.5612, 2))
	}
}

func TestEncodePolyline(t *testing.T) {
	coords := CoordArray{
		NewCoord(-120.2, 38.5),
		NewCoord(-120.95, 40.7),
		NewCoord(-126.453, 43.252),
	}
	encoded := EncodePolyline(coords)
	if encoded != "_p~iF~ps|U_ulLnnqC_mqNvxq`@" {
		t.Errorf("EncodePolyline = %v", encoded)
	}
	decoded, err := DecodePolyline(encoded)
	if err != nil {
		t.Fatalf("DecodePolyline: %v", err)
	}
	if len(decoded) != 3 || math.Abs(decoded[2].Lat()-43.252) > 1e-5 {
		t.Errorf("DecodePolyline = %v", decoded)
	}
}
