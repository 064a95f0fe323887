package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"othello-arena/internal/elo"
)

var ratingTracer = otel.Tracer("repository.ratings")

// RatingRecord is one stored rating row.
type RatingRecord struct {
	Player    string    `db:"player"`
	Rating    float64   `db:"rating"`
	Games     int       `db:"games"`
	UpdatedAt time.Time `db:"updated_at"`
}

// RatingRepository defines the interface for rating persistence.
type RatingRepository interface {
	ReplaceAll(ctx context.Context, standings []elo.Standing, gamesPlayed map[string]int) error
	List(ctx context.Context) ([]RatingRecord, error)
}

type sqliteRatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository creates a new SQLite-based RatingRepository.
func NewRatingRepository(db *sqlx.DB) RatingRepository {
	return &sqliteRatingRepository{db: db}
}

// ReplaceAll upserts the fitted ratings in one transaction, so readers never
// observe a half-written table.
func (r *sqliteRatingRepository) ReplaceAll(ctx context.Context, standings []elo.Standing, gamesPlayed map[string]int) error {
	ctx, span := ratingTracer.Start(ctx, "RatingRepository.ReplaceAll")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("failed to begin rating update: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO ratings (player, rating, games, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(player) DO UPDATE SET
			rating = excluded.rating,
			games = excluded.games,
			updated_at = CURRENT_TIMESTAMP`
	for _, s := range standings {
		if _, err := tx.ExecContext(ctx, query, s.Player, s.Rating, gamesPlayed[s.Player]); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "upsert failed")
			return fmt.Errorf("failed to store rating for %s: %w", s.Player, err)
		}
	}
	return tx.Commit()
}

// List returns all stored ratings, strongest first.
func (r *sqliteRatingRepository) List(ctx context.Context) ([]RatingRecord, error) {
	ctx, span := ratingTracer.Start(ctx, "RatingRepository.List")
	defer span.End()

	var recs []RatingRecord
	query := `SELECT player, rating, games, updated_at FROM ratings ORDER BY rating DESC, player ASC`
	if err := r.db.SelectContext(ctx, &recs, query); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return recs, nil
}
