package stspeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedData(t *testing.T) {
	var empty *SpeedData
	assert.Zero(t, empty.Len())
	assert.Nil(t, empty.Points())
	assert.Zero(t, empty.TotalTime())
	assert.Zero(t, empty.MaxSpeed())
	_, ok := empty.At(0)
	assert.False(t, ok)

	d := &SpeedData{}
	d.AppendSpeedPoint(0, 0, 2, 1, 0)
	d.AppendSpeedPoint(3, 1, 4, 1, 0.5)
	d.AppendSpeedPoint(7, 2, 3, -1, -2)

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 2.0, d.TotalTime())
	assert.Equal(t, 7.0, d.TotalDistance())
	assert.Equal(t, 4.0, d.MaxSpeed())

	pt, ok := d.At(1.5)
	require.True(t, ok)
	assert.Equal(t, SpeedPoint{S: 5, T: 1.5, V: 3.5, A: 0, Da: -0.75}, pt)

	pt, ok = d.At(1)
	require.True(t, ok)
	assert.Equal(t, 3.0, pt.S)

	_, ok = d.At(2.5)
	assert.False(t, ok)
	_, ok = d.At(-0.1)
	assert.False(t, ok)

	// Points hands out a copy
	pts := d.Points()
	pts[0].S = 99
	assert.Zero(t, d.Points()[0].S)

	d.Clear()
	assert.Zero(t, d.Len())
}
