package main

import (
	"math"

	"github.com/pthm-cable/genogrid/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// Indices into ParamVector.Specs; ApplyToConfig relies on this order.
const (
	paramBitRate = iota
	paramWeightRate
	paramCrossoverRate
	paramTournament
	paramRandomFraction
)

// NewParamVector creates the evolution parameters tuned by the optimizer,
// with defaults taken from base.
func NewParamVector(base *config.Config) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			paramBitRate:        {Name: "bit_rate", Path: "mutation.bit_rate", Min: 0, Max: 0.02, Default: base.Mutation.BitRate},
			paramWeightRate:     {Name: "weight_rate", Path: "mutation.weight_rate", Min: 0, Max: 0.2, Default: base.Mutation.WeightRate},
			paramCrossoverRate:  {Name: "crossover_rate", Path: "crossover.rate", Min: 0, Max: 1, Default: base.Crossover.Rate},
			paramTournament:     {Name: "tournament", Path: "population.tournament", Min: 1, Max: 8, Default: float64(base.Population.Tournament)},
			paramRandomFraction: {Name: "random_fraction", Path: "seeding.random_fraction", Min: 0, Max: 1, Default: base.Seeding.RandomFraction},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(spec.Max, math.Max(spec.Min, v[i]))
	}
	return clamped
}

// ApplyToConfig applies clamped parameter values to cfg and refreshes its
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	c := pv.Clamp(values)
	cfg.Mutation.BitRate = c[paramBitRate]
	cfg.Mutation.WeightRate = c[paramWeightRate]
	cfg.Crossover.Rate = c[paramCrossoverRate]
	cfg.Population.Tournament = int(math.Round(c[paramTournament]))
	cfg.Seeding.RandomFraction = c[paramRandomFraction]
	return cfg.Finalize()
}
