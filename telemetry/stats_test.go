package telemetry

import (
	"math"
	"testing"
)

func TestComputeGenerationStats(t *testing.T) {
	fitness := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	samples := make([]Sample, len(fitness))
	for i, f := range fitness {
		samples[i] = Sample{Fitness: f, Moves: 10, Cells: 4, GenomeBytes: 90, Valid: true}
	}

	s := ComputeGenerationStats(3, samples)

	if s.Generation != 3 || s.Population != 8 || s.Invalid != 0 {
		t.Errorf("unexpected header fields: %+v", s)
	}
	if math.Abs(s.FitnessMean-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", s.FitnessMean)
	}
	// Sample standard deviation: sqrt(32/7)
	if math.Abs(s.FitnessStd-math.Sqrt(32.0/7.0)) > 1e-9 {
		t.Errorf("std = %v, want %v", s.FitnessStd, math.Sqrt(32.0/7.0))
	}
	if s.FitnessMax != 9 {
		t.Errorf("max = %v, want 9", s.FitnessMax)
	}
	if !(2 <= s.FitnessP10 && s.FitnessP10 <= s.FitnessP50 && s.FitnessP50 <= s.FitnessP90 && s.FitnessP90 <= 9) {
		t.Errorf("quantiles out of order: p10=%v p50=%v p90=%v", s.FitnessP10, s.FitnessP50, s.FitnessP90)
	}
	if s.MovesMean != 10 || s.CellsMean != 4 || s.GenomeBytesMean != 90 {
		t.Errorf("unexpected behavior means: %+v", s)
	}
}

func TestComputeGenerationStatsInvalid(t *testing.T) {
	samples := []Sample{
		{Fitness: 6, Moves: 8, Cells: 5, GenomeBytes: 18, Valid: true},
		{Fitness: 0, GenomeBytes: 27, Valid: false},
	}
	s := ComputeGenerationStats(0, samples)

	if s.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", s.Invalid)
	}
	// Invalid individuals count as zero fitness
	if s.FitnessMean != 3 {
		t.Errorf("mean = %v, want 3", s.FitnessMean)
	}
	// Behavior means only cover valid individuals
	if s.MovesMean != 8 || s.CellsMean != 5 {
		t.Errorf("moves/cells means = %v/%v, want 8/5", s.MovesMean, s.CellsMean)
	}
	if s.GenomeBytesMean != 22.5 {
		t.Errorf("genome bytes mean = %v, want 22.5", s.GenomeBytesMean)
	}
}

func TestComputeGenerationStatsEdgeCases(t *testing.T) {
	empty := ComputeGenerationStats(1, nil)
	if empty.Population != 0 || empty.FitnessMean != 0 || empty.FitnessMax != 0 {
		t.Errorf("empty generation should be zero, got %+v", empty)
	}

	single := ComputeGenerationStats(1, []Sample{{Fitness: 4, Valid: true}})
	if single.FitnessMean != 4 || single.FitnessStd != 0 || single.FitnessP50 != 4 {
		t.Errorf("single sample stats wrong: %+v", single)
	}

	allInvalid := ComputeGenerationStats(1, []Sample{{}, {}})
	if allInvalid.Invalid != 2 || allInvalid.MovesMean != 0 || math.IsNaN(allInvalid.FitnessStd) {
		t.Errorf("all-invalid stats wrong: %+v", allInvalid)
	}
}
