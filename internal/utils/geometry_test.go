package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, Distance(37.4979, 127.0276, 37.4979, 127.0276))
}

func TestDistance_GangnamToYeoksam(t *testing.T) {
	// Adjacent line 2 stations, roughly 780m apart.
	d := Distance(37.4979, 127.0276, 37.5000, 127.0364)
	assert.InDelta(t, 810, d, 60)
}

func TestDistance_GangnamToHongdae(t *testing.T) {
	// Across town, roughly 11km.
	d := Distance(37.4979, 127.0276, 37.5565, 126.9240)
	assert.InDelta(t, 11200, d, 500)
}

func TestCalculateBounds_ContainsCenter(t *testing.T) {
	b := CalculateBounds(37.4979, 127.0276, 1000)

	assert.Less(t, b.MinLat, 37.4979)
	assert.Greater(t, b.MaxLat, 37.4979)
	assert.Less(t, b.MinLon, 127.0276)
	assert.Greater(t, b.MaxLon, 127.0276)

	// Corners of the box sit at least the radius away from the center.
	assert.GreaterOrEqual(t, Distance(37.4979, 127.0276, b.MaxLat, 127.0276), 999.0)
	assert.GreaterOrEqual(t, Distance(37.4979, 127.0276, 37.4979, b.MaxLon), 999.0)
}
