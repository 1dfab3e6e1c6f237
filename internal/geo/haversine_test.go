package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	paris := Point{Lat: 48.8566, Lon: 2.3522}
	london := Point{Lat: 51.5074, Lon: -0.1278}

	assert.InDelta(t, 343.5, DistanceKm(paris, london), 1.5)
	assert.InDelta(t, 0, DistanceKm(paris, paris), 1e-9)
	assert.InDelta(t, DistanceKm(paris, london), DistanceKm(london, paris), 1e-9)
}

func TestDistanceKmAcrossAntimeridian(t *testing.T) {
	west := Point{Lat: 0, Lon: 179.9}
	east := Point{Lat: 0, Lon: -179.9}
	// 0.2 degrees of longitude on the equator
	assert.InDelta(t, 22.24, DistanceKm(west, east), 0.1)
}

func TestDistanceKmAntipodal(t *testing.T) {
	d := DistanceKm(Point{Lat: 90, Lon: 0}, Point{Lat: -90, Lon: 0})
	assert.InDelta(t, 20015.1, d, 1)
}

func TestWithinRadius(t *testing.T) {
	center := Point{Lat: 14.6928, Lon: -17.4467}
	near := Point{Lat: 14.7167, Lon: -17.4677}
	assert.True(t, WithinRadius(center, near, 5))
	assert.False(t, WithinRadius(center, near, 1))
}
