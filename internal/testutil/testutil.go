// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/banshee-data/velocity.plan/internal/monitoring"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertNonDecreasing fails the test if any element drops more than tol
// below its predecessor.
func AssertNonDecreasing(t testing.TB, name string, values []float64, tol float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1]-tol {
			t.Errorf("%s decreases at index %d: %g -> %g", name, i, values[i-1], values[i])
			return
		}
	}
}

// AssertSliceInDelta fails the test if the slices differ in length or in
// any element by more than delta.
func AssertSliceInDelta(t testing.TB, got, want []float64, delta float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
		return
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > delta {
			t.Errorf("index %d: got %g, want %g (delta %g)", i, got[i], want[i], delta)
		}
	}
}

// LogCapture collects lines written through monitoring.Logf.
type LogCapture struct {
	mu    sync.Mutex
	lines []string
}

// CaptureLogs redirects monitoring.Logf into a LogCapture for the duration
// of the test.
func CaptureLogs(t testing.TB) *LogCapture {
	t.Helper()
	c := &LogCapture{}
	prev := monitoring.Logf
	monitoring.SetLogger(func(format string, v ...interface{}) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.lines = append(c.lines, fmt.Sprintf(format, v...))
	})
	t.Cleanup(func() { monitoring.SetLogger(prev) })
	return c
}

// Lines returns a copy of the captured lines.
func (c *LogCapture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

// Contains reports whether any captured line contains substr.
func (c *LogCapture) Contains(substr string) bool {
	for _, line := range c.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
