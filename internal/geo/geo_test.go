package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, Distance(40.7128, -74.0060, 40.7128, -74.0060), 0.001)

	// One degree of latitude is roughly 111 km.
	d := Distance(40, -74, 41, -74)
	assert.InDelta(t, 111000, d, 2000)

	// Empire State Building to Times Square, about 1.1 km.
	d = Distance(40.7484, -73.9857, 40.7580, -73.9855)
	assert.InDelta(t, 1070, d, 100)
}
