package projection

import "math"

const (
	// TileSize is the pixel size of one tile at zoom 0.
	TileSize = 512
	// MaxLatitude is where Web Mercator is cut off.
	MaxLatitude = 85.051129
)

func worldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

func lngToX(lon, world float64) float64 {
	return (180 + lon) / 360 * world
}

func latToY(lat, world float64) float64 {
	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	y := 180 / math.Pi * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return (180 - y) / 360 * world
}

func xToLng(x, world float64) float64 {
	return x/world*360 - 180
}

func yToLat(y, world float64) float64 {
	y2 := 180 - y/world*360
	return 360/math.Pi*math.Atan(math.Exp(y2*math.Pi/180)) - 90
}
