package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"othello-arena/internal/game"
	"othello-arena/pkg/wire"
)

var tracer = otel.Tracer("repository.results")

// GameRecord is one archived game row.
type GameRecord struct {
	ID         string    `db:"id"`
	Black      string    `db:"black"`
	White      string    `db:"white"`
	Winner     string    `db:"winner"`
	ScoreBlack float64   `db:"score_black"`
	Forfeit    bool      `db:"forfeit"`
	Reason     string    `db:"reason"`
	Moves      string    `db:"moves"`
	PlayedAt   time.Time `db:"played_at"`
}

// ResultRepository defines the interface for archived game operations.
type ResultRepository interface {
	SaveResult(ctx context.Context, res *game.Result) error
	FindByID(ctx context.Context, id string) (*GameRecord, error)
	ListRecent(ctx context.Context, limit int) ([]GameRecord, error)
}

type sqliteResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new SQLite-based ResultRepository.
func NewResultRepository(db *sqlx.DB) ResultRepository {
	return &sqliteResultRepository{db: db}
}

// SaveResult archives one finished game. Moves are stored as a space-joined
// token list.
func (r *sqliteResultRepository) SaveResult(ctx context.Context, res *game.Result) error {
	ctx, span := tracer.Start(ctx, "ResultRepository.SaveResult")
	defer span.End()

	tokens := make([]string, len(res.Plies))
	for i, ply := range res.Plies {
		tokens[i] = ply.Move.String()
	}

	winner := ""
	if res.Winner != wire.Empty {
		winner = res.Winner.String()
	}

	query := `INSERT INTO games (id, black, white, winner, score_black, forfeit, reason, moves)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		res.GameID, res.Black, res.White, winner,
		res.ScoreBlack, res.Forfeit, res.Reason, strings.Join(tokens, " "))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("failed to save game %s: %w", res.GameID, err)
	}
	return nil
}

// FindByID retrieves one archived game, or nil when it does not exist.
func (r *sqliteResultRepository) FindByID(ctx context.Context, id string) (*GameRecord, error) {
	ctx, span := tracer.Start(ctx, "ResultRepository.FindByID")
	defer span.End()

	var rec GameRecord
	query := `SELECT id, black, white, winner, score_black, forfeit, reason, moves, played_at
		FROM games WHERE id = ?`
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return &rec, nil
}

// ListRecent returns the most recently played games, newest first.
func (r *sqliteResultRepository) ListRecent(ctx context.Context, limit int) ([]GameRecord, error) {
	ctx, span := tracer.Start(ctx, "ResultRepository.ListRecent")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	var recs []GameRecord
	query := `SELECT id, black, white, winner, score_black, forfeit, reason, moves, played_at
		FROM games ORDER BY played_at DESC, id DESC LIMIT ?`
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return recs, nil
}
