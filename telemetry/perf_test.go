package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.Start()
		pc.StartPhase(PhaseEvaluate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseBreed)
		time.Sleep(200 * time.Microsecond)
		pc.End()
	}

	stats := pc.Stats()
	if stats.AvgDuration <= 0 {
		t.Error("expected positive average duration")
	}
	if stats.MinDuration > stats.AvgDuration || stats.AvgDuration > stats.MaxDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v", stats.MinDuration, stats.AvgDuration, stats.MaxDuration)
	}
	if _, ok := stats.PhasePct[PhaseEvaluate]; !ok {
		t.Error("expected evaluate phase to be tracked")
	}
	if _, ok := stats.PhasePct[PhaseBreed]; !ok {
		t.Error("expected breed phase to be tracked")
	}
	if stats.GenerationsPerSecond <= 0 {
		t.Error("expected positive generations per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.Start()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(2 * time.Millisecond)
		pc.End()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgDuration != 0 {
		t.Error("expected zero avg duration for empty collector")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgDuration: 1500 * time.Millisecond,
		PhasePct:    map[string]float64{PhaseEvaluate: 80, PhaseBreed: 15},
	}
	row := s.ToCSV(12)
	if row.Generation != 12 || row.AvgMS != 1500 || row.EvaluatePct != 80 || row.BreedPct != 15 || row.CompilePct != 0 {
		t.Errorf("unexpected CSV row: %+v", row)
	}
}
