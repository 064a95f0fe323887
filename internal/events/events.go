// Package events defines the arena's pub/sub event envelope and payloads.
package events

import (
	"context"
	"encoding/json"
)

// Channel is the pub/sub channel all arena events are published on.
const Channel = "channel:arena"

// Event types.
const (
	TypeGameStarted  = "game_started"
	TypeMovePlayed   = "move_played"
	TypeGameFinished = "game_finished"
)

// Event is the envelope published for every game lifecycle change.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher delivers events to whoever is watching. A nil Publisher is valid
// and drops everything.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// GameStartedPayload is the payload for the "game_started" event.
type GameStartedPayload struct {
	GameID string `json:"game_id"`
	Black  string `json:"black"`
	White  string `json:"white"`
}

// MovePlayedPayload is the payload for the "move_played" event.
type MovePlayedPayload struct {
	GameID string `json:"game_id"`
	Player string `json:"player"`
	Move   string `json:"move"`
	Notes  string `json:"notes,omitempty"`
}

// GameFinishedPayload is the payload for the "game_finished" event.
type GameFinishedPayload struct {
	GameID     string  `json:"game_id"`
	Winner     string  `json:"winner,omitempty"`
	ScoreBlack float64 `json:"score_black"`
	Forfeit    bool    `json:"forfeit,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// New wraps a payload into an event envelope.
func New(eventType string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: raw}, nil
}
