package main

import (
	"context"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/genogrid/config"
	"github.com/pthm-cable/genogrid/evolve"
	"github.com/pthm-cable/genogrid/telemetry"
)

// FitnessEvaluator runs short evolution runs and scores a parameter vector.
// Evaluations are sequential; the optimizer runs with Concurrent: 0.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	logger     *slog.Logger

	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastMeanBest   float64
}

// NewFitnessEvaluator creates a new evaluator. Runs log nothing; progress is
// reported by the caller.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	return fe.bestHallOfFame
}

// LastMeanBest returns the mean final best fitness from the most recent evaluation.
func (fe *FitnessEvaluator) LastMeanBest() float64 {
	return fe.lastMeanBest
}

// Evaluate computes fitness for raw parameter values (lower = better).
// Each seed runs a full evolution; the score is the negated mean of the
// final generation's best fitness, so better foragers minimize it.
// Parameter vectors the config rejects score +Inf.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	bests := make([]float64, 0, len(fe.seeds))
	var bestHall *telemetry.HallOfFame
	bestSeedScore := math.Inf(-1)

	for _, seed := range fe.seeds {
		cfg := *fe.baseConfig
		cfg.Seed = seed
		cfg.Telemetry.OutputDir = ""
		if err := fe.params.ApplyToConfig(&cfg, raw); err != nil {
			return math.Inf(1)
		}

		e := evolve.New(&cfg, fe.logger)
		final, err := e.Run(context.Background(), e.Seed(), nil)
		if err != nil {
			return math.Inf(1)
		}
		best, _ := final.Best()
		bests = append(bests, best.Fitness)
		if best.Fitness > bestSeedScore {
			bestSeedScore = best.Fitness
			bestHall = e.HallOfFame()
		}
	}

	fe.lastMeanBest = stat.Mean(bests, nil)
	fitness := -fe.lastMeanBest
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestHallOfFame = bestHall
	}
	return fitness
}
