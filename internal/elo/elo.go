// Package elo estimates relative playing strength from game outcomes.
//
// Ratings are fitted by replaying the whole outcome set for a fixed number of
// iterations with the standard update rule, which converges on ratings
// consistent with the observed scores. Every update is symmetric, so the sum
// of all ratings stays at participants * initial.
package elo

import (
	"math"
	"sort"
)

const (
	DefaultInitialRating = 1000.0
	DefaultK             = 10.0
	DefaultIterations    = 50
)

// Outcome is one finished pairing. ScoreA is 1 for an A win, 0.5 for a draw
// and 0 for a B win.
type Outcome struct {
	PlayerA string
	PlayerB string
	ScoreA  float64
}

// Expected is the expected score of a rating-ra player against a rating-rb
// player.
func Expected(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/400))
}

// Estimator fits ratings to a set of outcomes.
type Estimator struct {
	initial    float64
	k          float64
	iterations int
}

// Option customizes an estimator.
type Option func(*Estimator)

// WithK sets the update factor.
func WithK(k float64) Option {
	return func(e *Estimator) { e.k = k }
}

// WithIterations sets how many passes are made over the outcome set.
func WithIterations(n int) Option {
	return func(e *Estimator) { e.iterations = n }
}

// WithInitialRating sets the rating every player starts from.
func WithInitialRating(r float64) Option {
	return func(e *Estimator) { e.initial = r }
}

// NewEstimator returns an estimator with the default parameters, adjusted by
// opts.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		initial:    DefaultInitialRating,
		k:          DefaultK,
		iterations: DefaultIterations,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate fits a rating for every player named in outcomes.
func (e *Estimator) Estimate(outcomes []Outcome) map[string]float64 {
	ratings := make(map[string]float64)
	for _, o := range outcomes {
		ratings[o.PlayerA] = e.initial
		ratings[o.PlayerB] = e.initial
	}

	for i := 0; i < e.iterations; i++ {
		for _, o := range outcomes {
			ra, rb := ratings[o.PlayerA], ratings[o.PlayerB]
			delta := e.k * (o.ScoreA - Expected(ra, rb))
			ratings[o.PlayerA] = ra + delta
			ratings[o.PlayerB] = rb - delta
		}
	}
	return ratings
}

// Standing is one row of a rating table.
type Standing struct {
	Player string
	Rating float64
}

// Rank orders ratings from strongest to weakest, names breaking ties.
func Rank(ratings map[string]float64) []Standing {
	standings := make([]Standing, 0, len(ratings))
	for player, rating := range ratings {
		standings = append(standings, Standing{Player: player, Rating: rating})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Rating != standings[j].Rating {
			return standings[i].Rating > standings[j].Rating
		}
		return standings[i].Player < standings[j].Player
	})
	return standings
}
