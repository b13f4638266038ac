package rules

import (
	"math"
	"testing"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Minsk to Brest is roughly 290 km.
	got := HaversineKM(53.9006, 27.5590, 52.0976, 23.7341)
	if math.Abs(got-319) > 15 {
		t.Fatalf("unexpected Minsk-Brest distance: %.1f km", got)
	}
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	if got := HaversineKM(53.9, 27.56, 53.9, 27.56); got != 0 {
		t.Fatalf("expected zero distance, got %f", got)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	ab := HaversineKM(53.9006, 27.5590, 55.1904, 30.2049)
	ba := HaversineKM(55.1904, 30.2049, 53.9006, 27.5590)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance is not symmetric: %f vs %f", ab, ba)
	}
}
