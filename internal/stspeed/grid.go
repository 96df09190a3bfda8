package stspeed

import "math"

// sampleEpsilon absorbs rounding in T/resolution so an exact multiple is
// not lost to floor.
const sampleEpsilon = 1e-9

// uniformGrid returns count+1 evenly spaced times from 0 to total. Entries
// are index-driven so the last one is exactly total.
func uniformGrid(total float64, count int) []float64 {
	step := total / float64(count)
	grid := make([]float64, count+1)
	for i := range grid {
		grid[i] = float64(i) * step
	}
	grid[count] = total
	return grid
}

// sampleTimes returns the output times i*resolution for i = 0..n-1 with
// n = floor(total/resolution)+1, plus total itself when the grid misses it.
func sampleTimes(total, resolution float64) []float64 {
	n := int(math.Floor(total/resolution+sampleEpsilon)) + 1
	times := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		times = append(times, math.Min(float64(i)*resolution, total))
	}
	if total-times[len(times)-1] > sampleEpsilon {
		times = append(times, total)
	}
	return times
}
