package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var standingsTracer = otel.Tracer("repository.standings")

const standingsKey = "arena:points"

// StandingsRepository keeps live tournament points in Redis, so a run in
// progress can be watched from outside.
type StandingsRepository interface {
	AddPoints(ctx context.Context, player string, points float64) error
	Snapshot(ctx context.Context) (map[string]float64, error)
	Reset(ctx context.Context) error
}

type redisStandingsRepository struct {
	rdb *redis.Client
}

// NewStandingsRepository creates a new Redis-based StandingsRepository.
func NewStandingsRepository(rdb *redis.Client) StandingsRepository {
	return &redisStandingsRepository{rdb: rdb}
}

// AddPoints credits a player's running total.
func (r *redisStandingsRepository) AddPoints(ctx context.Context, player string, points float64) error {
	ctx, span := standingsTracer.Start(ctx, "StandingsRepository.AddPoints")
	defer span.End()

	if err := r.rdb.HIncrByFloat(ctx, standingsKey, player, points).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hincrbyfloat failed")
		return fmt.Errorf("failed to add points for %s: %w", player, err)
	}
	return nil
}

// Snapshot returns every player's current points.
func (r *redisStandingsRepository) Snapshot(ctx context.Context) (map[string]float64, error) {
	ctx, span := standingsTracer.Start(ctx, "StandingsRepository.Snapshot")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, standingsKey).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "hgetall failed")
		return nil, fmt.Errorf("failed to read standings: %w", err)
	}

	points := make(map[string]float64, len(data))
	for player, raw := range data {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt standings entry for %s: %w", player, err)
		}
		points[player] = v
	}
	return points, nil
}

// Reset clears the standings for a fresh run.
func (r *redisStandingsRepository) Reset(ctx context.Context) error {
	ctx, span := standingsTracer.Start(ctx, "StandingsRepository.Reset")
	defer span.End()

	return r.rdb.Del(ctx, standingsKey).Err()
}
