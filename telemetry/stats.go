package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Sample is one individual's contribution to generation statistics.
type Sample struct {
	Fitness     float64
	Moves       int
	Cells       int
	GenomeBytes int
	Valid       bool
}

// GenerationStats holds aggregated statistics for one generation.
type GenerationStats struct {
	Generation int `csv:"generation"`
	Population int `csv:"population"`
	Invalid    int `csv:"invalid"` // Chromosomes that failed to decode or compile

	// Fitness distribution, invalid individuals counted as 0
	FitnessMax  float64 `csv:"fitness_max"`
	FitnessMean float64 `csv:"fitness_mean"`
	FitnessStd  float64 `csv:"fitness_std"`
	FitnessP10  float64 `csv:"fitness_p10"`
	FitnessP50  float64 `csv:"fitness_p50"`
	FitnessP90  float64 `csv:"fitness_p90"`

	// Behavior of valid individuals
	MovesMean float64 `csv:"moves_mean"`
	CellsMean float64 `csv:"cells_mean"`

	GenomeBytesMean float64 `csv:"genome_bytes_mean"`
	FoodRemaining   int     `csv:"food_remaining"`
}

// ComputeGenerationStats aggregates samples. FoodRemaining is left for the
// caller to fill in.
func ComputeGenerationStats(generation int, samples []Sample) GenerationStats {
	s := GenerationStats{Generation: generation, Population: len(samples)}
	if len(samples) == 0 {
		return s
	}

	fitness := make([]float64, len(samples))
	genomeBytes := make([]float64, len(samples))
	var moves, cells []float64
	for i, smp := range samples {
		fitness[i] = smp.Fitness
		genomeBytes[i] = float64(smp.GenomeBytes)
		if !smp.Valid {
			s.Invalid++
			continue
		}
		moves = append(moves, float64(smp.Moves))
		cells = append(cells, float64(smp.Cells))
	}

	s.FitnessMean, s.FitnessStd = meanStd(fitness)
	slices.Sort(fitness)
	s.FitnessMax = fitness[len(fitness)-1]
	s.FitnessP10 = stat.Quantile(0.10, stat.LinInterp, fitness, nil)
	s.FitnessP50 = stat.Quantile(0.50, stat.LinInterp, fitness, nil)
	s.FitnessP90 = stat.Quantile(0.90, stat.LinInterp, fitness, nil)

	if len(moves) > 0 {
		s.MovesMean = stat.Mean(moves, nil)
		s.CellsMean = stat.Mean(cells, nil)
	}
	s.GenomeBytesMean = stat.Mean(genomeBytes, nil)
	return s
}

// meanStd returns the mean and sample standard deviation. A single value has
// zero spread.
func meanStd(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("population", s.Population),
		slog.Int("invalid", s.Invalid),
		slog.Float64("fitness_max", s.FitnessMax),
		slog.Float64("fitness_mean", s.FitnessMean),
		slog.Float64("fitness_std", s.FitnessStd),
		slog.Float64("fitness_p10", s.FitnessP10),
		slog.Float64("fitness_p50", s.FitnessP50),
		slog.Float64("fitness_p90", s.FitnessP90),
		slog.Float64("moves_mean", s.MovesMean),
		slog.Float64("cells_mean", s.CellsMean),
		slog.Float64("genome_bytes_mean", s.GenomeBytesMean),
		slog.Int("food_remaining", s.FoodRemaining),
	)
}

// LogStats logs the generation stats using logger.
func (s GenerationStats) LogStats(logger *slog.Logger) {
	logger.Info("generation",
		"generation", s.Generation,
		"invalid", s.Invalid,
		"fitness_max", s.FitnessMax,
		"fitness_mean", s.FitnessMean,
		"fitness_p50", s.FitnessP50,
		"moves_mean", s.MovesMean,
		"cells_mean", s.CellsMean,
	)
}
